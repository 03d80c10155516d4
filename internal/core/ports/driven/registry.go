package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers per format.
type NormaliserRegistry interface {
	// Normalise extracts text using the highest priority normaliser for doc.Format.
	// Returns ErrMissingDependency if no normaliser is registered for the format.
	Normalise(ctx context.Context, doc domain.SourceDocument, content []byte) (*domain.ExtractedText, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// Supports reports whether a normaliser is registered for the format.
	Supports(format domain.Format) bool
}
