package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

func mdDoc(path string) domain.SourceDocument {
	return domain.SourceDocument{Path: path, Format: domain.FormatMarkdown}
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.Equal(t, domain.FormatMarkdown, normaliser.Format())
	assert.Equal(t, 50, normaliser.Priority())
}

func TestNormalise_BodyIsRaw(t *testing.T) {
	content := "# Title\n\nSome **bold** text and a [link](https://example.com).\n\n- item\n"

	result, err := New().Normalise(context.Background(), mdDoc("doc.md"), []byte(content))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nSome **bold** text and a [link](https://example.com).\n\n- item", result.Body)
	assert.Equal(t, domain.MethodNative, result.Method)
}

func TestNormalise_TitleExtraction(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		path     string
		expected string
	}{
		{
			name:     "h1 heading",
			content:  "# My Document\n\nContent",
			path:     "doc.md",
			expected: "My Document",
		},
		{
			name:     "h1 after h2",
			content:  "## Section\n\ntext\n\n# Real Title\n",
			path:     "doc.md",
			expected: "Real Title",
		},
		{
			name:     "setext heading",
			content:  "Underlined Title\n================\n\nbody",
			path:     "doc.md",
			expected: "Underlined Title",
		},
		{
			name:     "inline markup dropped",
			content:  "# The *quick* `fox`\n",
			path:     "doc.md",
			expected: "The quick fox",
		},
		{
			name:     "hash inside code block ignored",
			content:  "```\n# not a title\n```\n",
			path:     "/notes/meeting_notes-2024.md",
			expected: "meeting notes 2024",
		},
		{
			name:     "no heading falls back to filename",
			content:  "just text",
			path:     "/path/to/my_readme.markdown",
			expected: "my readme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Normalise(context.Background(), mdDoc(tt.path), []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Title)
		})
	}
}

func TestNormalise_RoundTrip(t *testing.T) {
	s := "Überschrift mit *Markup* und 日本語\n\n> quote"
	result, err := New().Normalise(context.Background(), mdDoc("a.md"), []byte(s))
	require.NoError(t, err)
	assert.Equal(t, s, result.Body)
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	_, err := New().Normalise(context.Background(), mdDoc("a.md"), []byte{'#', ' ', 0xc3, 0x28})
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestNormalise_EmptyContent(t *testing.T) {
	result, err := New().Normalise(context.Background(), mdDoc("empty.md"), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Body)
	assert.Equal(t, "empty", result.Title)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
