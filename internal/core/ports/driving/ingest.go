package driving

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Ingestor extracts normalised text from one file.
type Ingestor interface {
	// Ingest classifies path, routes it to an extractor and normalises the body.
	// Every error is a *domain.IngestionError.
	Ingest(ctx context.Context, path string) (*domain.ExtractedText, error)
}

// TextExtractor extracts text from non-OCR documents.
type TextExtractor interface {
	// Extract reads doc and extracts its text with the normaliser for its format.
	Extract(ctx context.Context, doc domain.SourceDocument) (*domain.ExtractedText, error)
}

// OCRExtractor extracts text from PDFs by rasterising and recognising pages.
type OCRExtractor interface {
	// ExtractViaOCR recognises every page of the PDF at pdfPath.
	ExtractViaOCR(ctx context.Context, pdfPath string) (*domain.ExtractedText, error)

	// Ready returns nil when the rasteriser and recogniser are available.
	Ready() error
}

// IngestService ingests files and merges the results into the content store.
type IngestService interface {
	// IngestFile ingests one file and merges non-empty text into the store.
	IngestFile(ctx context.Context, path string) domain.BatchItem

	// IngestFolder ingests every PDF in folder, in listing order.
	// A missing folder is returned as an error; per-file failures land in the report.
	IngestFolder(ctx context.Context, folder string) (*domain.BatchReport, error)

	// Upload writes data to a scratch file named after filename and ingests it.
	Upload(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error)

	// Watch ingests supported files created or written under folder until ctx is done.
	// Each outcome is passed to onItem.
	Watch(ctx context.Context, folder string, onItem func(domain.BatchItem)) error
}

// DependencyStatus describes one runtime capability.
type DependencyStatus struct {
	// Name is the capability name (e.g. "pdftoppm").
	Name string

	// Err is nil when the capability is ready.
	Err error

	// Help is install guidance shown when Err is set.
	Help string
}

// DoctorService reports on runtime dependencies.
type DoctorService interface {
	// Check tests every optional capability.
	Check(ctx context.Context) []DependencyStatus
}

// StoreService exposes the content store to the CLI.
type StoreService interface {
	// List returns all stored entries sorted by key.
	List(ctx context.Context) ([]domain.StoreEntry, error)

	// Get returns the stored text for a path.
	Get(ctx context.Context, path string) (string, error)

	// Remove deletes a path from the store.
	Remove(ctx context.Context, path string) error

	// Path returns the store location.
	Path() string
}
