package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
	"github.com/custodia-labs/folio/internal/normalisers"
	"github.com/custodia-labs/folio/internal/postprocessors"
)

// captureVerboseLogs routes verbose log output to a buffer for the test.
func captureVerboseLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	logger.SetOutput(buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})
	return buf
}

func TestNewDispatcher_InvalidModeDefaultsToAlways(t *testing.T) {
	d := NewDispatcher(&fakeTextExtractor{}, nil, nil, domain.OCRMode("sometimes"))
	assert.Equal(t, domain.OCRModeAlways, d.Mode())
}

func TestDispatcher_NonPDFUsesTextExtractor(t *testing.T) {
	dir := t.TempDir()
	for _, mode := range domain.AllOCRModes() {
		t.Run(string(mode), func(t *testing.T) {
			text := &fakeTextExtractor{result: nativeText("body")}
			ocr := &fakeOCRExtractor{result: ocrText("ocr")}
			d := NewDispatcher(text, ocr, nil, mode)

			for _, name := range []string{"a.txt", "b.md", "c.docx"} {
				result, err := d.Ingest(context.Background(), writeFile(t, dir, name, "x"))
				require.NoError(t, err)
				assert.Equal(t, "body", result.Body)
			}
			assert.Equal(t, int32(3), text.calls.Load())
			assert.Zero(t, ocr.calls.Load())
		})
	}
}

func TestDispatcher_PDFRouting(t *testing.T) {
	tests := []struct {
		name       string
		mode       domain.OCRMode
		native     *fakeTextExtractor
		wantBody   string
		wantMethod domain.ExtractionMethod
		textCalls  int32
		ocrCalls   int32
	}{
		{"always skips native", domain.OCRModeAlways, &fakeTextExtractor{result: nativeText("native")}, "ocr", domain.MethodOCR, 0, 1},
		{"off never ocrs", domain.OCRModeOff, &fakeTextExtractor{result: nativeText("")}, "", domain.MethodNative, 1, 0},
		{"fallback keeps native text", domain.OCRModeFallback, &fakeTextExtractor{result: nativeText("native")}, "native", domain.MethodNative, 1, 0},
		{"fallback ocrs empty text layer", domain.OCRModeFallback, &fakeTextExtractor{result: nativeText("")}, "ocr", domain.MethodOCR, 1, 1},
		{"fallback ocrs native failure", domain.OCRModeFallback, &fakeTextExtractor{err: domain.ErrFormat}, "ocr", domain.MethodOCR, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "scan.pdf", "%PDF")
			ocr := &fakeOCRExtractor{result: ocrText("ocr")}
			d := NewDispatcher(tt.native, ocr, nil, tt.mode)

			result, err := d.Ingest(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBody, result.Body)
			assert.Equal(t, tt.wantMethod, result.Method)
			assert.Equal(t, path, result.SourcePath)
			assert.Equal(t, tt.textCalls, tt.native.calls.Load())
			assert.Equal(t, tt.ocrCalls, ocr.calls.Load())
		})
	}
}

func TestDispatcher_FallbackBothFail(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.pdf", "%PDF")
	native := &fakeTextExtractor{err: fmt.Errorf("%w: bad xref", domain.ErrFormat)}
	ocr := &fakeOCRExtractor{err: &domain.OCRError{Path: path, Err: errors.New("rasterise failed")}}
	d := NewDispatcher(native, ocr, nil, domain.OCRModeFallback)

	_, err := d.Ingest(context.Background(), path)

	var ingestErr *domain.IngestionError
	require.True(t, errors.As(err, &ingestErr))
	assert.ErrorIs(t, err, domain.ErrFormat)
	assert.ErrorIs(t, err, domain.ErrOCR)
	assert.Contains(t, err.Error(), "native:")
	assert.Contains(t, err.Error(), "ocr:")
}

func TestDispatcher_FallbackWithoutOCR(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.pdf", "%PDF")

	t.Run("empty native is returned", func(t *testing.T) {
		d := NewDispatcher(&fakeTextExtractor{result: nativeText("")}, nil, nil, domain.OCRModeFallback)
		result, err := d.Ingest(context.Background(), path)
		require.NoError(t, err)
		assert.True(t, result.IsEmpty())
	})

	t.Run("native error is returned", func(t *testing.T) {
		d := NewDispatcher(&fakeTextExtractor{err: domain.ErrFormat}, nil, nil, domain.OCRModeFallback)
		_, err := d.Ingest(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrFormat)
	})
}

func TestDispatcher_AlwaysWithoutOCR(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.pdf", "%PDF")
	d := NewDispatcher(&fakeTextExtractor{result: nativeText("x")}, nil, nil, domain.OCRModeAlways)

	_, err := d.Ingest(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrMissingDependency)
	assert.ErrorIs(t, err, domain.ErrOCR)
	assert.Equal(t, "missing_dependency", domain.Kind(err))
}

func TestDispatcher_UnsupportedFormatTouchesNothing(t *testing.T) {
	text := &fakeTextExtractor{result: nativeText("x")}
	ocr := &fakeOCRExtractor{result: ocrText("x")}
	d := NewDispatcher(text, ocr, nil, domain.OCRModeAlways)

	// The file does not exist; classification must fail first.
	_, err := d.Ingest(context.Background(), "/nowhere/data.xyz")

	var ingestErr *domain.IngestionError
	require.True(t, errors.As(err, &ingestErr))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Equal(t, "/nowhere/data.xyz", ingestErr.Path)
	assert.Zero(t, text.calls.Load())
	assert.Zero(t, ocr.calls.Load())
}

func TestDispatcher_MissingFile(t *testing.T) {
	d := NewDispatcher(&fakeTextExtractor{result: nativeText("x")}, nil, nil, domain.OCRModeOff)

	_, err := d.Ingest(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var ingestErr *domain.IngestionError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, domain.FormatText, ingestErr.Format)
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.md", "# x")
	d := NewDispatcher(&fakeTextExtractor{panics: true}, nil, nil, domain.OCRModeOff)

	result, err := d.Ingest(context.Background(), path)
	assert.Nil(t, result)

	var ingestErr *domain.IngestionError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, domain.FormatMarkdown, ingestErr.Format)
	assert.Contains(t, err.Error(), "panic")
}

func TestDispatcher_OCRFailureBecomesIngestionError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.pdf", "%PDF")
	pageErr := &domain.OCRError{Path: path, Page: 1, Err: errors.New("boom")}
	d := NewDispatcher(&fakeTextExtractor{}, &fakeOCRExtractor{err: pageErr}, nil, domain.OCRModeAlways)

	result, err := d.Ingest(context.Background(), path)

	assert.Nil(t, result)
	var ingestErr *domain.IngestionError
	require.True(t, errors.As(err, &ingestErr))
	assert.Equal(t, domain.FormatPDF, ingestErr.Format)
	assert.ErrorIs(t, err, domain.ErrOCR)
}

func TestDispatcher_DefaultPipelineKeepsTextBytes(t *testing.T) {
	const body = "Cafe\u0301 \ufb01le \u2460"
	path := writeFile(t, t.TempDir(), "a.txt", body)
	pipeline, err := postprocessors.NewDefaultPipeline(domain.DefaultSettings().Normalise.Steps)
	require.NoError(t, err)

	d := NewDispatcher(NewTextExtractor(normalisers.NewDefaultRegistry()), nil, pipeline, domain.OCRModeOff)

	result, err := d.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte(body), []byte(result.Body))
}

func TestDispatcher_LogsSourceSummary(t *testing.T) {
	logs := captureVerboseLogs(t)
	path := writeFile(t, t.TempDir(), "notes.md", "# Notes\n\nbody text")
	d := NewDispatcher(&fakeTextExtractor{result: nativeText("body text")}, nil, nil, domain.OCRModeFallback)

	_, err := d.Ingest(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, logs.String(), fmt.Sprintf("ingest %s: format markdown, 18 bytes, ocr fallback", path))
}

func TestDispatcher_PartialPageFailureSucceeds(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.pdf", "%PDF")
	partial := &domain.ExtractedText{
		Body:   "--- Page 1 ---\nok",
		Method: domain.MethodOCR,
		Pages:  []domain.PageOutcome{{Number: 1, Chars: 2}, {Number: 2, Err: errors.New("boom")}},
	}
	d := NewDispatcher(&fakeTextExtractor{}, &fakeOCRExtractor{result: partial}, nil, domain.OCRModeAlways)

	result, err := d.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, result.FailedPages())
}

func TestDispatcher_AppliesPipeline(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "x")
	pipeline, err := postprocessors.NewDefaultPipeline([]string{"newlines", "trim"})
	require.NoError(t, err)

	d := NewDispatcher(&fakeTextExtractor{result: nativeText("  one\r\ntwo\r  ")}, nil, pipeline, domain.OCRModeOff)

	result, err := d.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", result.Body)
}
