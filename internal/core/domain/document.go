package domain

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
)

// SourceDocument is a file submitted for ingestion.
// Identity is the Path. It is never persisted; only its extracted text is.
type SourceDocument struct {
	// Path is the filesystem location as given by the caller.
	Path string

	// Format is the classified document format.
	Format Format

	// SizeBytes is the file size at request time.
	SizeBytes int64
}

// NewSourceDocument stats and classifies the file at path.
// Unsupported extensions fail before the filesystem is touched.
func NewSourceDocument(path string) (SourceDocument, error) {
	format, err := ParseFormat(path)
	if err != nil {
		return SourceDocument{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SourceDocument{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return SourceDocument{}, err
	}
	if info.IsDir() {
		return SourceDocument{}, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}

	return SourceDocument{
		Path:      path,
		Format:    format,
		SizeBytes: info.Size(),
	}, nil
}

// ExtractionMethod records which strategy produced an ExtractedText.
type ExtractionMethod string

const (
	// MethodNative reads text already present in the file.
	MethodNative ExtractionMethod = "native"

	// MethodOCR recognises text from rasterised pages.
	MethodOCR ExtractionMethod = "ocr"
)

// String returns the string representation.
func (m ExtractionMethod) String() string {
	return string(m)
}

// ExtractedText is the output of exactly one extraction attempt.
// Body is empty only when extraction legitimately found no text;
// failures are reported as errors instead.
type ExtractedText struct {
	// SourcePath is the path of the SourceDocument.
	SourcePath string

	// Title is a human-readable title, when the format carries one.
	Title string

	// Body is the extracted text.
	Body string

	// PageCount is set for paginated formats.
	PageCount *int

	// Method is the strategy that produced Body.
	Method ExtractionMethod

	// Pages holds per-page outcomes for OCR extractions, in page order.
	Pages []PageOutcome
}

// IsEmpty reports whether the extraction legitimately found no text.
func (t *ExtractedText) IsEmpty() bool {
	return t == nil || t.Body == ""
}

// FailedPages returns the 1-based numbers of pages whose recognition failed.
func (t *ExtractedText) FailedPages() []int {
	if t == nil {
		return nil
	}
	var failed []int
	for _, p := range t.Pages {
		if p.Err != nil {
			failed = append(failed, p.Number)
		}
	}
	return failed
}

// MeanConfidence averages the confidence of recognised pages that report
// one, or returns zero when none do.
func (t *ExtractedText) MeanConfidence() float64 {
	if t == nil {
		return 0
	}
	var sum float64
	n := 0
	for _, p := range t.Pages {
		if p.Err != nil || p.Confidence == 0 {
			continue
		}
		sum += p.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// IntPtr returns a pointer to n, for populating optional counts.
func IntPtr(n int) *int {
	return &n
}

// PageOutcome is the bookkeeping for one OCR'd page.
type PageOutcome struct {
	// Number is the 1-based page number.
	Number int

	// Chars is the number of characters recognised on the page.
	Chars int

	// Confidence is the mean word confidence in [0, 1], zero when unknown.
	Confidence float64

	// Angle is the applied deskew correction in degrees, nil when not deskewed.
	Angle *float64

	// DeskewErr is set when deskewing failed and the page was recognised as-is.
	DeskewErr error

	// Err is set when recognition failed; the page then contributes no text.
	Err error
}

// PageImage is a rasterised PDF page.
// It is owned by the OCR call that produced it and discarded after recognition.
type PageImage struct {
	// Index is the zero-based page index.
	Index int

	// Image is the single-channel raster.
	Image *image.Gray
}

// Number returns the 1-based page number used for reporting.
func (p PageImage) Number() int {
	return p.Index + 1
}

// StoreEntry is one key/value pair of the persistent store.
type StoreEntry struct {
	// Key is the source path.
	Key string

	// Value is the extracted text.
	Value string
}
