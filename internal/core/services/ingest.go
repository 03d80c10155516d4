package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Dispatcher implements the interface.
var _ driving.Ingestor = (*Dispatcher)(nil)

// Dispatcher classifies files and routes them to the text or OCR extractor.
// Every failure it returns is a *domain.IngestionError.
type Dispatcher struct {
	text     driving.TextExtractor
	ocr      driving.OCRExtractor
	pipeline driven.PostProcessorPipeline
	mode     domain.OCRMode
}

// NewDispatcher creates a dispatcher.
// The OCR extractor and pipeline are optional. With no OCR extractor,
// PDFs in the always mode fail with ErrMissingDependency.
func NewDispatcher(
	text driving.TextExtractor,
	ocr driving.OCRExtractor,
	pipeline driven.PostProcessorPipeline,
	mode domain.OCRMode,
) *Dispatcher {
	if !mode.IsValid() {
		mode = domain.OCRModeAlways
	}
	return &Dispatcher{
		text:     text,
		ocr:      ocr,
		pipeline: pipeline,
		mode:     mode,
	}
}

// Mode returns the OCR routing mode.
func (d *Dispatcher) Mode() domain.OCRMode {
	return d.mode
}

// Ingest extracts normalised text from the file at path.
func (d *Dispatcher) Ingest(ctx context.Context, path string) (result *domain.ExtractedText, err error) {
	var format domain.Format
	defer func() {
		if r := recover(); r != nil {
			logger.Error("ingest %s: recovered panic: %v", path, r)
			result = nil
			err = &domain.IngestionError{Path: path, Format: format, Err: fmt.Errorf("extractor panic: %v", r)}
		}
	}()

	// Classify before touching the filesystem.
	format, err = domain.ParseFormat(path)
	if err != nil {
		return nil, &domain.IngestionError{Path: path, Err: err}
	}

	doc, err := domain.NewSourceDocument(path)
	if err != nil {
		return nil, &domain.IngestionError{Path: path, Format: format, Err: err}
	}

	logger.Debug("ingest %s: format %s, %d bytes, ocr %s", path, format, doc.SizeBytes, d.mode)

	text, err := d.extract(ctx, doc)
	if err != nil {
		return nil, &domain.IngestionError{Path: path, Format: format, Err: err}
	}

	if d.pipeline != nil && text.Body != "" {
		body, err := d.pipeline.Process(ctx, text.Body)
		if err != nil {
			return nil, &domain.IngestionError{Path: path, Format: format, Err: fmt.Errorf("normalise: %w", err)}
		}
		text.Body = body
	}

	logger.Info("ingested %s via %s: %d bytes", path, text.Method, len(text.Body))
	return text, nil
}

// extract routes doc by format. Every format must be handled here.
func (d *Dispatcher) extract(ctx context.Context, doc domain.SourceDocument) (*domain.ExtractedText, error) {
	switch doc.Format {
	case domain.FormatText, domain.FormatMarkdown, domain.FormatDocx:
		return d.text.Extract(ctx, doc)
	case domain.FormatPDF:
		return d.extractPDF(ctx, doc)
	default:
		return nil, fmt.Errorf("%w: format %d", domain.ErrUnsupportedFormat, doc.Format)
	}
}

// extractPDF routes a PDF according to the OCR mode.
func (d *Dispatcher) extractPDF(ctx context.Context, doc domain.SourceDocument) (*domain.ExtractedText, error) {
	switch d.mode {
	case domain.OCRModeOff:
		return d.text.Extract(ctx, doc)

	case domain.OCRModeFallback:
		native, nativeErr := d.text.Extract(ctx, doc)
		if nativeErr == nil && !native.IsEmpty() {
			return native, nil
		}
		if d.ocr == nil {
			if nativeErr != nil {
				return nil, nativeErr
			}
			logger.Warn("%s has no text layer and OCR is not configured", doc.Path)
			return native, nil
		}
		if nativeErr != nil {
			logger.Debug("native extraction of %s failed, trying OCR: %v", doc.Path, nativeErr)
		} else {
			logger.Debug("%s has no text layer, trying OCR", doc.Path)
		}

		text, err := d.ocr.ExtractViaOCR(ctx, doc.Path)
		if err != nil {
			if nativeErr != nil {
				return nil, fmt.Errorf("native: %w; ocr: %w", nativeErr, err)
			}
			return nil, err
		}
		return text, nil

	case domain.OCRModeAlways:
		if d.ocr == nil {
			return nil, &domain.OCRError{
				Path: doc.Path,
				Err:  fmt.Errorf("%w: no ocr extractor configured", domain.ErrMissingDependency),
			}
		}
		return d.ocr.ExtractViaOCR(ctx, doc.Path)

	default:
		return nil, fmt.Errorf("%w: ocr mode %q", domain.ErrInvalidInput, d.mode)
	}
}
