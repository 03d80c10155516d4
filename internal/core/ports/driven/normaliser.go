package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Normaliser extracts text from the raw bytes of one document format.
type Normaliser interface {
	// Format returns the document format this normaliser handles.
	Format() domain.Format

	// Priority returns the selection priority (higher = preferred).
	// Built-in normalisers return 50. Overrides should return 90-100.
	Priority() int

	// Normalise extracts text from content, the bytes of doc.
	// A document with no text yields an empty Body, not an error.
	Normalise(ctx context.Context, doc domain.SourceDocument, content []byte) (*domain.ExtractedText, error)
}
