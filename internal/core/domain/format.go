package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the closed set of document formats the pipeline understands.
type Format int

const (
	// FormatText is a plain UTF-8 text file.
	FormatText Format = iota + 1

	// FormatMarkdown is a Markdown file.
	FormatMarkdown

	// FormatDocx is an Office Open XML word processing document.
	FormatDocx

	// FormatPDF is a Portable Document Format file, native or scanned.
	FormatPDF
)

// extensions maps lower-cased file extensions to formats.
var extensions = map[string]Format{
	".txt":      FormatText,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".docx":     FormatDocx,
	".pdf":      FormatPDF,
}

// ParseFormat classifies a path by its extension, ignoring case.
func ParseFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// IsSupported reports whether the path has an extension the pipeline can ingest.
func IsSupported(path string) bool {
	_, err := ParseFormat(path)
	return err == nil
}

// IsValid returns true if the format is one of the known formats.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatDocx, FormatPDF:
		return true
	default:
		return false
	}
}

// String returns the short name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatDocx:
		return "docx"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// MIMEType returns the canonical MIME type for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatText:
		return "text/plain"
	case FormatMarkdown:
		return "text/markdown"
	case FormatDocx:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// AllFormats returns every supported format.
func AllFormats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatDocx, FormatPDF}
}
