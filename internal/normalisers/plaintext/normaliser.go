package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// utf8BOM is stripped from the start of text files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the document format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatText
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise decodes content as UTF-8 and trims surrounding whitespace.
func (n *Normaliser) Normalise(_ context.Context, doc domain.SourceDocument, content []byte) (*domain.ExtractedText, error) {
	body, err := DecodeUTF8(content)
	if err != nil {
		return nil, err
	}

	return &domain.ExtractedText{
		SourcePath: doc.Path,
		Title:      extractTitle(doc.Path),
		Body:       strings.TrimSpace(body),
		Method:     domain.MethodNative,
	}, nil
}

// DecodeUTF8 returns content as a string, without a leading byte order mark.
// Invalid UTF-8 wraps ErrDecode with the offset of the first bad byte.
func DecodeUTF8(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: invalid UTF-8 at byte %d", domain.ErrDecode, firstInvalid(content))
	}
	return string(content), nil
}

func firstInvalid(content []byte) int {
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// extractTitle extracts a human-readable title from a path.
func extractTitle(path string) string {
	// Get filename from path
	filename := filepath.Base(path)

	// Remove extension for cleaner title
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))

	// Replace underscores and dashes with spaces
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
