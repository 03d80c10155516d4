package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore is an in-memory implementation of driven.ContentStore.
// Nothing outlives the process.
type ContentStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewContentStore creates an empty in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{entries: make(map[string]string)}
}

// Merge sets key to value.
func (s *ContentStore) Merge(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Get returns the value stored for key.
func (s *ContentStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return value, nil
}

// Keys returns all keys in sorted order.
func (s *ContentStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Entries returns all entries sorted by key.
func (s *ContentStore) Entries(ctx context.Context) ([]domain.StoreEntry, error) {
	keys, _ := s.Keys(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.StoreEntry, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.entries[k]; ok {
			result = append(result, domain.StoreEntry{Key: k, Value: v})
		}
	}
	return result, nil
}

// Delete removes key.
func (s *ContentStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	delete(s.entries, key)
	return nil
}

// Path returns a placeholder path.
func (s *ContentStore) Path() string {
	return ":memory:"
}
