package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/normalisers/docx"
	"github.com/custodia-labs/folio/internal/normalisers/markdown"
	"github.com/custodia-labs/folio/internal/normalisers/pdf"
	"github.com/custodia-labs/folio/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches documents to the highest priority normaliser
// registered for their format. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	byFormat map[domain.Format][]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byFormat: make(map[domain.Format][]driven.Normaliser)}
}

// NewDefaultRegistry creates a registry with every built-in normaliser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers the text, markdown, docx and native PDF normalisers.
func RegisterDefaults(r driven.NormaliserRegistry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(docx.New())
	r.Register(pdf.New())
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	format := normaliser.Format()
	list := append(r.byFormat[format], normaliser)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority() > list[j].Priority()
	})
	r.byFormat[format] = list
}

// Supports reports whether a normaliser is registered for the format.
func (r *Registry) Supports(format domain.Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byFormat[format]) > 0
}

// Formats returns the formats with at least one normaliser.
func (r *Registry) Formats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]domain.Format, 0, len(r.byFormat))
	for _, f := range domain.AllFormats() {
		if len(r.byFormat[f]) > 0 {
			formats = append(formats, f)
		}
	}
	return formats
}

// Normalise extracts text with the highest priority normaliser for doc.Format.
func (r *Registry) Normalise(ctx context.Context, doc domain.SourceDocument, content []byte) (*domain.ExtractedText, error) {
	r.mu.RLock()
	list := r.byFormat[doc.Format]
	r.mu.RUnlock()

	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no %s extractor registered", domain.ErrMissingDependency, doc.Format)
	}
	return list[0].Normalise(ctx, doc, content)
}
