// Package pdf extracts the native text layer of PDF documents.
// Scanned PDFs have no text layer and produce an empty body; the
// dispatcher routes those to OCR when configured to.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxTitleLength bounds first-line titles; longer lines are body text.
const maxTitleLength = 200

// Normaliser handles PDF documents with a text layer.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the document format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatPDF
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the plain text of every page, joined by newlines.
// Pages whose content stream cannot be decoded are skipped with a warning.
func (n *Normaliser) Normalise(ctx context.Context, doc domain.SourceDocument, content []byte) (result *domain.ExtractedText, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: unreadable pdf: %v", domain.ErrFormat, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %v", domain.ErrFormat, err)
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf %s: page %d: %v", doc.Path, i, err)
			continue
		}
		pages = append(pages, text)
	}

	body := strings.TrimSpace(strings.Join(pages, "\n"))
	logger.Debug("pdf %s: %d pages, %d characters in text layer", doc.Path, pageCount, len(body))

	return &domain.ExtractedText{
		SourcePath: doc.Path,
		Title:      extractTitle(body, doc.Path),
		Body:       body,
		PageCount:  domain.IntPtr(pageCount),
		Method:     domain.MethodNative,
	}, nil
}

// extractTitle uses the first short non-empty line, or the filename.
func extractTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLength {
			return line
		}
	}

	// Fall back to filename
	filename := filepath.Base(path)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
