// Package textnorm provides processors that normalise extracted text.
package textnorm

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Newlines converts CRLF and lone CR line endings to LF.
// With a blank-line limit set, longer runs of blank lines are collapsed.
type Newlines struct {
	maxBlank int
}

// NewlinesOption configures the Newlines processor.
type NewlinesOption func(*Newlines)

// WithMaxBlankLines collapses runs of more than n blank lines to n.
// Negative values disable collapsing.
func WithMaxBlankLines(n int) NewlinesOption {
	return func(p *Newlines) {
		p.maxBlank = n
	}
}

// NewNewlines creates a line ending processor. Blank lines are kept by default.
func NewNewlines(opts ...NewlinesOption) *Newlines {
	p := &Newlines{maxBlank: -1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Newlines) Name() string {
	return "newlines"
}

// Process normalises line endings.
func (p *Newlines) Process(_ context.Context, text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if p.maxBlank < 0 {
		return text, nil
	}

	lines := strings.Split(text, "\n")
	out := lines[:0]
	blank := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > p.maxBlank {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), nil
}

// Unicode rewrites text into a Unicode normalisation form.
type Unicode struct {
	form norm.Form
}

// NewUnicode creates a normalisation processor. The zero form is NFC.
func NewUnicode(form norm.Form) *Unicode {
	return &Unicode{form: form}
}

// ParseForm maps "NFC", "NFD", "NFKC" or "NFKD" to a form.
func ParseForm(name string) (norm.Form, bool) {
	switch strings.ToUpper(name) {
	case "", "NFC":
		return norm.NFC, true
	case "NFD":
		return norm.NFD, true
	case "NFKC":
		return norm.NFKC, true
	case "NFKD":
		return norm.NFKD, true
	default:
		return norm.NFC, false
	}
}

// Name returns the processor name.
func (p *Unicode) Name() string {
	return "unicode"
}

// Process returns text in the configured normalisation form.
func (p *Unicode) Process(_ context.Context, text string) (string, error) {
	return p.form.String(text), nil
}

// Trim strips leading and trailing whitespace.
type Trim struct{}

// NewTrim creates a trim processor.
func NewTrim() *Trim {
	return &Trim{}
}

// Name returns the processor name.
func (p *Trim) Name() string {
	return "trim"
}

// Process trims text.
func (p *Trim) Process(_ context.Context, text string) (string, error) {
	return strings.TrimSpace(text), nil
}
