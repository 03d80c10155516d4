package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent ingestion failures.
// Typed wrappers below attach context and match these with errors.Is.
var (
	// ErrNotFound indicates a requested file, folder or store key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension outside {txt, md, docx, pdf}.
	// It is terminal: retrying cannot help.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDecode indicates content that is not valid in its declared encoding.
	ErrDecode = errors.New("decode error")

	// ErrFormat indicates a corrupt or structurally invalid document.
	ErrFormat = errors.New("format error")

	// ErrMissingDependency indicates a runtime capability (rasteriser,
	// recognition engine, document reader) is not available.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrDeskew indicates skew correction failed. It is recoverable:
	// the page can be recognised without correction.
	ErrDeskew = errors.New("deskew failed")

	// ErrOCR indicates rasterisation or recognition failed.
	ErrOCR = errors.New("ocr failed")

	// ErrStore indicates the persistent store could not be read or written.
	ErrStore = errors.New("store error")

	// ErrStoreCorrupt indicates the persistent store file is not a valid map.
	ErrStoreCorrupt = errors.New("store file corrupt")
)

// IngestionError is the only error the ingestion dispatcher returns.
// It carries the path and the original cause.
type IngestionError struct {
	Path   string
	Format Format
	Err    error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// DeskewError wraps the cause of a failed skew correction.
type DeskewError struct {
	Err error
}

func (e *DeskewError) Error() string {
	return fmt.Sprintf("deskew: %v", e.Err)
}

func (e *DeskewError) Unwrap() error {
	return e.Err
}

// Is matches ErrDeskew.
func (e *DeskewError) Is(target error) bool {
	return target == ErrDeskew
}

// OCRError wraps an OCR failure. Page is the 1-based page number,
// or zero when the whole document failed (e.g. rasterisation).
type OCRError struct {
	Path string
	Page int
	Err  error
}

func (e *OCRError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("ocr %s page %d: %v", e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("ocr %s: %v", e.Path, e.Err)
}

func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is matches ErrOCR.
func (e *OCRError) Is(target error) bool {
	return target == ErrOCR
}

// StoreError wraps a persistent store failure. The on-disk state is
// unchanged whenever a StoreError is returned from a write.
type StoreError struct {
	Path string
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches ErrStore.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// Kind returns a stable tag for an error, used in reports and logs.
// Order matters: the most specific cause wins.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrMissingDependency):
		return "missing_dependency"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrDeskew):
		return "deskew"
	case errors.Is(err, ErrOCR):
		return "ocr"
	case errors.Is(err, ErrStore):
		return "store"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}

// IsTerminal reports whether retrying the same input cannot succeed
// without the caller changing the file or the environment.
func IsTerminal(err error) bool {
	switch Kind(err) {
	case "unsupported_format", "decode", "format", "missing_dependency", "invalid_input", "not_found":
		return true
	default:
		return false
	}
}
