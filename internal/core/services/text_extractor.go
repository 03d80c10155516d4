package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure TextExtractor implements the interface.
var _ driving.TextExtractor = (*TextExtractor)(nil)

// TextExtractor reads a document and extracts its text with the
// normaliser registered for its format.
type TextExtractor struct {
	registry driven.NormaliserRegistry
}

// NewTextExtractor creates a text extractor backed by registry.
func NewTextExtractor(registry driven.NormaliserRegistry) *TextExtractor {
	return &TextExtractor{registry: registry}
}

// Extract reads doc and extracts its text.
// A format with no registered normaliser fails with ErrMissingDependency
// before the file is read.
func (e *TextExtractor) Extract(ctx context.Context, doc domain.SourceDocument) (*domain.ExtractedText, error) {
	switch doc.Format {
	case domain.FormatText, domain.FormatMarkdown, domain.FormatDocx, domain.FormatPDF:
	default:
		return nil, fmt.Errorf("%w: format %d", domain.ErrUnsupportedFormat, doc.Format)
	}

	if !e.registry.Supports(doc.Format) {
		return nil, fmt.Errorf("%w: no %s extractor registered", domain.ErrMissingDependency, doc.Format)
	}

	content, err := os.ReadFile(doc.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, doc.Path)
		}
		return nil, fmt.Errorf("read %s: %w", doc.Path, err)
	}

	logger.Debug("extract %s (%s, %d bytes)", doc.Path, doc.Format, len(content))
	return e.registry.Normalise(ctx, doc, content)
}
