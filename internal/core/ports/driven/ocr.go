package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Rasteriser renders the pages of a PDF to grayscale images.
type Rasteriser interface {
	// Name returns the rasteriser name for diagnostics.
	Name() string

	// Available returns ErrMissingDependency if the rasteriser cannot run.
	Available() error

	// Rasterise renders every page of the PDF at dpi, in page order.
	Rasterise(ctx context.Context, pdfPath string, dpi int) ([]domain.PageImage, error)
}

// RecogniseInput is one page submitted for text recognition.
type RecogniseInput struct {
	// Page is the 1-based page number, for logging.
	Page int

	// Image is the PNG-encoded page.
	Image []byte

	// DPI is the resolution the page was rendered at.
	DPI int

	// Languages are tesseract language codes.
	Languages []string
}

// RecogniseResult is the text recognised on one page.
type RecogniseResult struct {
	// Text is the recognised text.
	Text string

	// Confidence is the mean word confidence in [0, 1], zero when unknown.
	Confidence float64
}

// Recogniser recognises text in page images.
// Implementations must be safe for concurrent use.
type Recogniser interface {
	// Name returns the engine name for diagnostics.
	Name() string

	// Available returns ErrMissingDependency if the engine cannot run.
	Available() error

	// Recognise returns the text on the page.
	Recognise(ctx context.Context, input RecogniseInput) (*RecogniseResult, error)
}

// Deskewer corrects rotational skew in a page image.
type Deskewer interface {
	// Deskew returns a corrected copy of img and the applied angle in degrees.
	// Failures wrap ErrDeskew.
	Deskew(img *image.Gray) (*image.Gray, float64, error)
}

// CommandRunner executes external programs.
// Adapters shelling out to poppler or tesseract take one so tests can fake it.
type CommandRunner interface {
	// Run executes name with args and returns its standard output.
	// A non-zero exit returns an error carrying the captured stderr.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath resolves name to an executable path.
	LookPath(name string) (string, error)
}
