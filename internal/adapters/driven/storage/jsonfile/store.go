package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ContentStore = (*Store)(nil)

// Store is a JSON file implementation of driven.ContentStore.
type Store struct {
	mu   sync.Mutex
	path string

	// Replaceable in tests to simulate a crash between write and rename.
	rename  func(oldpath, newpath string) error
	syncDir func(dir string) error
}

// NewStore creates a store persisting to path. The file is created on
// the first write. The parent directory is created when missing.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path: %w", domain.ErrInvalidInput)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &domain.StoreError{Path: path, Op: "init", Err: err}
		}
	}
	return &Store{
		path:    path,
		rename:  os.Rename,
		syncDir: syncDir,
	}, nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Merge sets key to value and persists the whole map atomically.
func (s *Store) Merge(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries[key] = value
	return s.write(entries, "merge")
}

// Get returns the value stored for key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return value, nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys, nil
}

// Entries returns all entries sorted by key.
func (s *Store) Entries(ctx context.Context) ([]domain.StoreEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	result := make([]domain.StoreEntry, 0, len(entries))
	for k, v := range entries {
		result = append(result, domain.StoreEntry{Key: k, Value: v})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}

// Delete removes key and persists the map atomically.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	delete(entries, key)
	return s.write(entries, "delete")
}

// load reads the map from disk (caller must hold lock).
// A missing or blank file is an empty map.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, &domain.StoreError{Path: s.path, Op: "read", Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return make(map[string]string), nil
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &domain.StoreError{
			Path: s.path,
			Op:   "read",
			Err:  fmt.Errorf("%w: %v", domain.ErrStoreCorrupt, err),
		}
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return entries, nil
}

// write replaces the store file with entries (caller must hold lock).
func (s *Store) write(entries map[string]string, op string) error {
	data, err := encode(entries)
	if err != nil {
		return &domain.StoreError{Path: s.path, Op: op, Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &domain.StoreError{Path: s.path, Op: op, Err: err}
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &domain.StoreError{Path: s.path, Op: op, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fail(err)
	}
	if err := s.rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &domain.StoreError{Path: s.path, Op: op, Err: err}
	}
	if err := s.syncDir(dir); err != nil {
		return &domain.StoreError{Path: s.path, Op: op, Err: err}
	}
	return nil
}

// encode renders entries as indented JSON with sorted keys and no HTML escaping.
func encode(entries map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// syncDir flushes the directory entry so the rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}
	return nil
}
