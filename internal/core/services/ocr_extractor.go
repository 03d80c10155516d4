package services

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure OCRExtractor implements the interface.
var _ driving.OCRExtractor = (*OCRExtractor)(nil)

// OCROptions configures an OCRExtractor.
type OCROptions struct {
	// DPI is the rasterisation resolution. Zero means domain.DefaultDPI.
	DPI int

	// Deskew enables skew correction when a Deskewer is provided.
	Deskew bool

	// Languages are passed to the recogniser.
	Languages []string

	// Workers bounds concurrent page recognition. Zero means 1.
	Workers int
}

// OCRExtractor rasterises PDF pages, optionally deskews them, and
// recognises their text. A page that fails recognition contributes no
// text; the remaining pages are still returned.
type OCRExtractor struct {
	rasteriser driven.Rasteriser
	recogniser driven.Recogniser
	deskewer   driven.Deskewer
	opts       OCROptions
	readyErr   error
}

// NewOCRExtractor creates an OCR extractor.
// Dependencies are checked once here; a missing rasteriser or recogniser
// makes every extraction fail with ErrMissingDependency.
// The deskewer is optional.
func NewOCRExtractor(
	rasteriser driven.Rasteriser,
	recogniser driven.Recogniser,
	deskewer driven.Deskewer,
	opts OCROptions,
) *OCRExtractor {
	if opts.DPI <= 0 {
		opts.DPI = domain.DefaultDPI
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	e := &OCRExtractor{
		rasteriser: rasteriser,
		recogniser: recogniser,
		deskewer:   deskewer,
		opts:       opts,
	}
	e.readyErr = e.checkDependencies()
	if e.readyErr != nil {
		logger.Debug("ocr unavailable: %v", e.readyErr)
	}
	return e
}

func (e *OCRExtractor) checkDependencies() error {
	if e.rasteriser == nil {
		return fmt.Errorf("%w: no pdf rasteriser configured", domain.ErrMissingDependency)
	}
	if err := e.rasteriser.Available(); err != nil {
		return err
	}
	if e.recogniser == nil {
		return fmt.Errorf("%w: no ocr engine configured", domain.ErrMissingDependency)
	}
	return e.recogniser.Available()
}

// Ready returns nil when the rasteriser and recogniser are available.
func (e *OCRExtractor) Ready() error {
	return e.readyErr
}

// ExtractViaOCR recognises every page of the PDF at pdfPath.
// The body holds one "--- Page N ---" block per page in page order,
// separated by blank lines. If no page yields any text the body is empty.
func (e *OCRExtractor) ExtractViaOCR(ctx context.Context, pdfPath string) (*domain.ExtractedText, error) {
	if e.readyErr != nil {
		return nil, &domain.OCRError{Path: pdfPath, Err: e.readyErr}
	}

	logger.Section("OCR " + pdfPath)
	pages, err := e.rasteriser.Rasterise(ctx, pdfPath, e.opts.DPI)
	if err != nil {
		return nil, &domain.OCRError{Path: pdfPath, Err: err}
	}
	logger.Debug("rasterised %d pages at %d dpi", len(pages), e.opts.DPI)

	texts := make([]string, len(pages))
	outcomes := make([]domain.PageOutcome, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			texts[i], outcomes[i] = e.recognisePage(gctx, pdfPath, &pages[i])
			// Release the raster as soon as the page is done.
			pages[i].Image = nil
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := allFailed(outcomes); err != nil {
		return nil, err
	}

	return &domain.ExtractedText{
		SourcePath: pdfPath,
		Body:       joinPages(texts, outcomes),
		PageCount:  domain.IntPtr(len(pages)),
		Method:     domain.MethodOCR,
		Pages:      outcomes,
	}, nil
}

// recognisePage deskews and recognises one page. Failures are recorded in
// the outcome rather than returned.
func (e *OCRExtractor) recognisePage(ctx context.Context, pdfPath string, page *domain.PageImage) (text string, outcome domain.PageOutcome) {
	outcome.Number = page.Number()
	defer func() {
		if r := recover(); r != nil {
			text = ""
			outcome.Err = &domain.OCRError{Path: pdfPath, Page: outcome.Number, Err: fmt.Errorf("panic: %v", r)}
			logger.Warn("ocr %s page %d: %v", pdfPath, outcome.Number, outcome.Err)
		}
	}()

	if page.Image == nil {
		outcome.Err = &domain.OCRError{Path: pdfPath, Page: outcome.Number, Err: fmt.Errorf("page not rendered")}
		logger.Warn("%v", outcome.Err)
		return "", outcome
	}

	img := page.Image
	if e.opts.Deskew && e.deskewer != nil {
		corrected, angle, err := e.deskewer.Deskew(img)
		if err != nil {
			outcome.DeskewErr = err
			logger.Debug("page %d: deskew skipped: %v", outcome.Number, err)
		} else {
			img = corrected
			outcome.Angle = &angle
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		outcome.Err = &domain.OCRError{Path: pdfPath, Page: outcome.Number, Err: fmt.Errorf("encode page: %w", err)}
		logger.Warn("%v", outcome.Err)
		return "", outcome
	}

	result, err := e.recogniser.Recognise(ctx, driven.RecogniseInput{
		Page:      outcome.Number,
		Image:     buf.Bytes(),
		DPI:       e.opts.DPI,
		Languages: e.opts.Languages,
	})
	if err != nil {
		outcome.Err = &domain.OCRError{Path: pdfPath, Page: outcome.Number, Err: err}
		logger.Warn("%v", outcome.Err)
		return "", outcome
	}

	text = strings.TrimSpace(result.Text)
	outcome.Chars = utf8.RuneCountInString(text)
	outcome.Confidence = result.Confidence
	logger.Debug("%s", describePage(outcome))
	return text, outcome
}

// describePage summarises a recognised page for verbose output.
func describePage(o domain.PageOutcome) string {
	s := fmt.Sprintf("page %d: %d characters, confidence %.0f%%", o.Number, o.Chars, o.Confidence*100)
	if o.Angle != nil {
		s += fmt.Sprintf(", deskewed %.2f degrees", *o.Angle)
	}
	return s
}

// allFailed returns the first page error when every page failed.
func allFailed(outcomes []domain.PageOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	for _, o := range outcomes {
		if o.Err == nil {
			return nil
		}
	}
	return outcomes[0].Err
}

// joinPages renders page texts as marked blocks, or "" when all are empty.
func joinPages(texts []string, outcomes []domain.PageOutcome) string {
	empty := true
	for _, t := range texts {
		if t != "" {
			empty = false
			break
		}
	}
	if empty {
		return ""
	}

	blocks := make([]string, len(texts))
	for i, t := range texts {
		blocks[i] = fmt.Sprintf("--- Page %d ---\n%s", outcomes[i].Number, t)
	}
	return strings.Join(blocks, "\n\n")
}
