package domain

import "fmt"

const unknownDescription = "Unknown"

// OCRMode controls how PDFs are routed between native extraction and OCR.
type OCRMode string

// Available OCR modes.
const (
	// OCRModeAlways sends every PDF through OCR. OCR handles both scanned
	// and native PDFs, at a latency cost.
	OCRModeAlways OCRMode = "always"

	// OCRModeFallback tries native extraction first and runs OCR only
	// when the native text layer is empty.
	OCRModeFallback OCRMode = "fallback"

	// OCRModeOff uses native extraction only; scanned PDFs yield empty text.
	OCRModeOff OCRMode = "off"
)

// IsValid returns true if the OCR mode is recognised.
func (m OCRMode) IsValid() bool {
	switch m {
	case OCRModeAlways, OCRModeFallback, OCRModeOff:
		return true
	default:
		return false
	}
}

// UsesOCR returns true if this mode may invoke the OCR extractor.
func (m OCRMode) UsesOCR() bool {
	return m == OCRModeAlways || m == OCRModeFallback
}

// String returns the string representation.
func (m OCRMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m OCRMode) Description() string {
	switch m {
	case OCRModeAlways:
		return "Always (OCR every PDF)"
	case OCRModeFallback:
		return "Fallback (OCR when no text layer)"
	case OCRModeOff:
		return "Off (text layer only)"
	default:
		return unknownDescription
	}
}

// OCREngine selects the text recognition backend.
type OCREngine string

// Available OCR engines.
const (
	// OCREngineLibrary links libtesseract through cgo.
	OCREngineLibrary OCREngine = "library"

	// OCREngineCommand executes the tesseract binary at a configured path.
	OCREngineCommand OCREngine = "command"
)

// IsValid returns true if the engine is recognised.
func (e OCREngine) IsValid() bool {
	return e == OCREngineLibrary || e == OCREngineCommand
}

// String returns the string representation.
func (e OCREngine) String() string {
	return string(e)
}

// OCRSettings holds OCR extractor configuration.
type OCRSettings struct {
	// Mode routes PDFs between native extraction and OCR.
	Mode OCRMode

	// DPI is the rasterisation resolution.
	DPI int

	// Deskew enables skew correction before recognition.
	Deskew bool

	// Engine is the recognition backend.
	Engine OCREngine

	// TesseractPath is the tesseract binary used by the command engine.
	TesseractPath string

	// Languages are tesseract language codes (e.g. "eng").
	Languages []string

	// PageWorkers bounds concurrent page recognition within one document.
	PageWorkers int
}

// RasterSettings holds PDF rasteriser configuration.
type RasterSettings struct {
	// PdftoppmPath is the poppler pdftoppm binary.
	PdftoppmPath string
}

// StoreSettings holds persistent store configuration.
type StoreSettings struct {
	// Path is the JSON store file.
	Path string
}

// UploadSettings holds upload boundary configuration.
type UploadSettings struct {
	// Dir is the scratch directory uploads are written to.
	Dir string
}

// BatchSettings holds folder ingestion configuration.
type BatchSettings struct {
	// Workers bounds concurrent file ingestion. 1 is strictly sequential.
	Workers int
}

// WatchSettings holds watch mode configuration.
type WatchSettings struct {
	// Rate is the maximum number of files ingested per second.
	Rate float64
}

// NormaliseSettings holds post-extraction text normalisation configuration.
type NormaliseSettings struct {
	// Steps is the ordered list of post-processor names.
	Steps []string
}

// Settings holds all application settings.
type Settings struct {
	OCR       OCRSettings
	Raster    RasterSettings
	Store     StoreSettings
	Upload    UploadSettings
	Batch     BatchSettings
	Watch     WatchSettings
	Normalise NormaliseSettings
}

// Default values.
const (
	DefaultDPI           = 200
	DefaultStorePath     = "folio_ingested.json"
	DefaultUploadDir     = "temp_uploads"
	DefaultTesseractPath = "tesseract"
	DefaultPdftoppmPath  = "pdftoppm"
	DefaultWatchRate     = 2.0
)

// DefaultSettings returns settings with sensible defaults.
// OCR is on for every PDF, matching mixed corpora where the extension
// does not tell scanned from digital documents.
func DefaultSettings() Settings {
	return Settings{
		OCR: OCRSettings{
			Mode:          OCRModeAlways,
			DPI:           DefaultDPI,
			Deskew:        true,
			Engine:        OCREngineLibrary,
			TesseractPath: DefaultTesseractPath,
			Languages:     []string{"eng"},
			PageWorkers:   1,
		},
		Raster: RasterSettings{PdftoppmPath: DefaultPdftoppmPath},
		Store:  StoreSettings{Path: DefaultStorePath},
		Upload: UploadSettings{Dir: DefaultUploadDir},
		Batch:  BatchSettings{Workers: 1},
		Watch:  WatchSettings{Rate: DefaultWatchRate},
		Normalise: NormaliseSettings{
			Steps: []string{"newlines", "trim"},
		},
	}
}

// Validate checks settings for values the pipeline cannot run with.
func (s Settings) Validate() error {
	if !s.OCR.Mode.IsValid() {
		return fmt.Errorf("%w: ocr.mode %q", ErrInvalidInput, s.OCR.Mode)
	}
	if !s.OCR.Engine.IsValid() {
		return fmt.Errorf("%w: ocr.engine %q", ErrInvalidInput, s.OCR.Engine)
	}
	if s.OCR.DPI < 36 || s.OCR.DPI > 1200 {
		return fmt.Errorf("%w: ocr.dpi %d out of range [36, 1200]", ErrInvalidInput, s.OCR.DPI)
	}
	if s.OCR.PageWorkers < 1 {
		return fmt.Errorf("%w: ocr.page_workers must be at least 1", ErrInvalidInput)
	}
	if s.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch.workers must be at least 1", ErrInvalidInput)
	}
	if s.Watch.Rate <= 0 {
		return fmt.Errorf("%w: watch.rate must be positive", ErrInvalidInput)
	}
	if s.Store.Path == "" {
		return fmt.Errorf("%w: store.path is empty", ErrInvalidInput)
	}
	return nil
}

// AllOCRModes returns all available OCR modes.
func AllOCRModes() []OCRMode {
	return []OCRMode{OCRModeAlways, OCRModeFallback, OCRModeOff}
}
