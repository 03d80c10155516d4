package markdown

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
// The body keeps its markup; only the title is derived from the parsed document.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{md: goldmark.New()}
}

// Format returns the document format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatMarkdown
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise decodes content as UTF-8, trims it, and takes the first
// level-one heading as the title.
func (n *Normaliser) Normalise(_ context.Context, doc domain.SourceDocument, content []byte) (*domain.ExtractedText, error) {
	body, err := plaintext.DecodeUTF8(content)
	if err != nil {
		return nil, err
	}

	return &domain.ExtractedText{
		SourcePath: doc.Path,
		Title:      n.extractTitle([]byte(body), doc.Path),
		Body:       strings.TrimSpace(body),
		Method:     domain.MethodNative,
	}, nil
}

// extractTitle returns the text of the first H1 heading, or a title derived
// from the filename.
func (n *Normaliser) extractTitle(source []byte, path string) string {
	root := n.md.Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = strings.TrimSpace(inlineText(heading, source))
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkStop, nil
	})
	if title != "" {
		return title
	}

	// Fall back to filename
	filename := filepath.Base(path)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// inlineText concatenates the literal text below node, dropping markup.
func inlineText(node ast.Node, source []byte) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		default:
			sb.WriteString(inlineText(child, source))
		}
	}
	return sb.String()
}
