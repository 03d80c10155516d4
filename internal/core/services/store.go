package services

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ensure StoreService implements the interface.
var _ driving.StoreService = (*StoreService)(nil)

// StoreService exposes the content store to the CLI.
type StoreService struct {
	store driven.ContentStore
}

// NewStoreService creates a store service.
func NewStoreService(store driven.ContentStore) *StoreService {
	return &StoreService{store: store}
}

// List returns all stored entries sorted by key.
func (s *StoreService) List(ctx context.Context) ([]domain.StoreEntry, error) {
	return s.store.Entries(ctx)
}

// Get returns the stored text for a path.
func (s *StoreService) Get(ctx context.Context, path string) (string, error) {
	return s.store.Get(ctx, path)
}

// Remove deletes a path from the store.
func (s *StoreService) Remove(ctx context.Context, path string) error {
	return s.store.Delete(ctx, path)
}

// Path returns the store location.
func (s *StoreService) Path() string {
	return s.store.Path()
}
