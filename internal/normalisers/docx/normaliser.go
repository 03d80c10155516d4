package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the document format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatDocx
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts body paragraphs in document order, one per line.
func (n *Normaliser) Normalise(_ context.Context, doc domain.SourceDocument, content []byte) (*domain.ExtractedText, error) {
	// Open as ZIP archive
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", domain.ErrFormat, err)
	}

	body, err := extractDocumentText(reader)
	if err != nil {
		return nil, err
	}

	return &domain.ExtractedText{
		SourcePath: doc.Path,
		Title:      extractTitle(reader, doc.Path),
		Body:       body,
		Method:     domain.MethodNative,
	}, nil
}

// readPart returns the contents of the named archive member.
func readPart(reader *zip.Reader, name string) ([]byte, bool, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, true, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		return data, true, err
	}
	return nil, false, nil
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	content, found, err := readPart(reader, documentPart)
	if !found {
		return "", fmt.Errorf("%w: missing %s", domain.ErrFormat, documentPart)
	}
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrFormat, documentPart, err)
	}
	return parseDocumentXML(content)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

// paragraph holds the visible text of a w:p element.
type paragraph struct {
	Text string
}

// UnmarshalXML collects run text in document order, including runs nested
// in hyperlinks, insertions and other containers. Run tabs become "\t" and
// breaks become "\n"; deleted text and field codes are skipped.
func (p *paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	stack := []string{start.Name.Local}
	for len(stack) > 0 {
		tok, err := d.Token()
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if stack[len(stack)-1] == "r" {
				switch t.Name.Local {
				case "tab":
					b.WriteByte('\t')
				case "br", "cr":
					b.WriteByte('\n')
				}
			}
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) >= 2 && stack[len(stack)-1] == "t" && stack[len(stack)-2] == "r" {
				b.Write(t)
			}
		}
	}
	p.Text = b.String()
	return nil
}

// parseDocumentXML joins the text of each body paragraph with newlines.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: parse %s: %v", domain.ErrFormat, documentPart, err)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(para.Text)
	}

	return strings.TrimSpace(result.String()), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle extracts the title from docProps/core.xml or falls back to filename.
func extractTitle(reader *zip.Reader, path string) string {
	content, found, err := readPart(reader, corePart)
	if found && err == nil {
		var core coreXML
		if err := xml.Unmarshal(content, &core); err == nil && strings.TrimSpace(core.Title) != "" {
			return strings.TrimSpace(core.Title)
		}
	}

	// Fall back to filename
	filename := filepath.Base(path)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
