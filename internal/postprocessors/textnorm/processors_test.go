package textnorm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.PostProcessor = (*Newlines)(nil)
	var _ driven.PostProcessor = (*Unicode)(nil)
	var _ driven.PostProcessor = (*Trim)(nil)
}

func TestNewlines(t *testing.T) {
	tests := []struct {
		name     string
		opts     []NewlinesOption
		input    string
		expected string
	}{
		{"crlf", nil, "a\r\nb\r\n", "a\nb\n"},
		{"lone cr", nil, "a\rb", "a\nb"},
		{"mixed", nil, "a\r\n\rb\n", "a\n\nb\n"},
		{"blank lines kept by default", nil, "a\n\n\n\nb", "a\n\n\n\nb"},
		{"collapse to one", []NewlinesOption{WithMaxBlankLines(1)}, "a\n\n\n\nb", "a\n\nb"},
		{"whitespace lines count as blank", []NewlinesOption{WithMaxBlankLines(0)}, "a\n  \n\t\nb", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewNewlines(tt.opts...).Process(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
	assert.Equal(t, "newlines", NewNewlines().Name())
}

func TestUnicode(t *testing.T) {
	decomposed := "Cafe\u0301"

	out, err := NewUnicode(norm.NFC).Process(context.Background(), decomposed)
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", out)

	out, err = NewUnicode(norm.NFKC).Process(context.Background(), "ﬁle ①")
	require.NoError(t, err)
	assert.Equal(t, "file 1", out)

	assert.Equal(t, "unicode", NewUnicode(norm.NFC).Name())
}

func TestParseForm(t *testing.T) {
	tests := []struct {
		name     string
		expected norm.Form
		ok       bool
	}{
		{"", norm.NFC, true},
		{"nfc", norm.NFC, true},
		{"NFD", norm.NFD, true},
		{"nfkc", norm.NFKC, true},
		{"NFKD", norm.NFKD, true},
		{"latin1", norm.NFC, false},
	}

	for _, tt := range tests {
		form, ok := ParseForm(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.expected, form, tt.name)
	}
}

func TestTrim(t *testing.T) {
	out, err := NewTrim().Process(context.Background(), "\n\t  body text \n\n")
	require.NoError(t, err)
	assert.Equal(t, "body text", out)
	assert.Equal(t, "trim", NewTrim().Name())
}
