package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// ContentStore persists extracted text keyed by source path.
// Writes are atomic: after any failed write the prior state is intact.
type ContentStore interface {
	// Merge sets key to value, replacing any previous value.
	Merge(ctx context.Context, key, value string) error

	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Keys returns all keys in sorted order.
	Keys(ctx context.Context) ([]string, error)

	// Entries returns all entries sorted by key.
	Entries(ctx context.Context) ([]domain.StoreEntry, error)

	// Delete removes key, or returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// Path returns the storage location for display.
	Path() string
}
