package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func expectedBody(pages int) string {
	blocks := make([]string, pages)
	for i := range blocks {
		blocks[i] = fmt.Sprintf("--- Page %d ---\ntext %d", i+1, i+1)
	}
	return strings.Join(blocks, "\n\n")
}

func TestOCRExtractor_PagesInOrder(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			recogniser := &fakeRecogniser{jitter: 5 * time.Millisecond}
			e := NewOCRExtractor(&fakeRasteriser{pages: 8}, recogniser, nil, OCROptions{Workers: workers})

			text, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
			require.NoError(t, err)

			assert.Equal(t, expectedBody(8), text.Body)
			assert.Equal(t, domain.MethodOCR, text.Method)
			assert.Equal(t, "scan.pdf", text.SourcePath)
			require.NotNil(t, text.PageCount)
			assert.Equal(t, 8, *text.PageCount)
			require.Len(t, text.Pages, 8)
			for i, p := range text.Pages {
				assert.Equal(t, i+1, p.Number)
				assert.Equal(t, len(fmt.Sprintf("text %d", i+1)), p.Chars)
				assert.InDelta(t, 0.9, p.Confidence, 1e-9)
			}
			assert.LessOrEqual(t, int(recogniser.peak.Load()), workers)
		})
	}
}

func TestOCRExtractor_PassesOptions(t *testing.T) {
	recogniser := &fakeRecogniser{}
	e := NewOCRExtractor(&fakeRasteriser{pages: 1}, recogniser, nil, OCROptions{DPI: 300, Languages: []string{"deu"}})

	_, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
	require.NoError(t, err)

	require.Len(t, recogniser.seen, 1)
	in := recogniser.seen[0]
	assert.Equal(t, 1, in.Page)
	assert.Equal(t, 300, in.DPI)
	assert.Equal(t, []string{"deu"}, in.Languages)
	assert.NotEmpty(t, in.Image)
}

func TestOCRExtractor_DefaultDPI(t *testing.T) {
	recogniser := &fakeRecogniser{}
	e := NewOCRExtractor(&fakeRasteriser{pages: 1}, recogniser, nil, OCROptions{})

	_, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDPI, recogniser.seen[0].DPI)
}

func TestOCRExtractor_FailingPageIsSkipped(t *testing.T) {
	recogniser := &fakeRecogniser{fail: map[int]error{2: errors.New("tesseract segfault")}}
	e := NewOCRExtractor(&fakeRasteriser{pages: 3}, recogniser, nil, OCROptions{})

	text, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, "--- Page 1 ---\ntext 1\n\n--- Page 2 ---\n\n\n--- Page 3 ---\ntext 3", text.Body)
	assert.Equal(t, []int{2}, text.FailedPages())

	var ocrErr *domain.OCRError
	require.True(t, errors.As(text.Pages[1].Err, &ocrErr))
	assert.Equal(t, 2, ocrErr.Page)
	assert.Equal(t, "scan.pdf", ocrErr.Path)
}

func TestOCRExtractor_PanickingPageIsRecovered(t *testing.T) {
	recogniser := &fakeRecogniser{panicOn: 1}
	e := NewOCRExtractor(&fakeRasteriser{pages: 2}, recogniser, nil, OCROptions{Workers: 2})

	text, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
	require.NoError(t, err)

	assert.Equal(t, []int{1}, text.FailedPages())
	assert.Contains(t, text.Pages[0].Err.Error(), "panic")
	assert.Contains(t, text.Body, "text 2")
}

func TestOCRExtractor_AllPagesFailed(t *testing.T) {
	recogniser := &fakeRecogniser{fail: map[int]error{
		1: errors.New("engine crashed"),
		2: errors.New("engine crashed again"),
	}}
	e := NewOCRExtractor(&fakeRasteriser{pages: 2}, recogniser, nil, OCROptions{})

	text, err := e.ExtractViaOCR(context.Background(), "scan.pdf")

	assert.Nil(t, text)
	var ocrErr *domain.OCRError
	require.True(t, errors.As(err, &ocrErr))
	assert.Equal(t, 1, ocrErr.Page)
	assert.ErrorIs(t, err, domain.ErrOCR)
}

func TestOCRExtractor_AllPagesBlank(t *testing.T) {
	recogniser := &fakeRecogniser{text: map[int]string{1: "  ", 2: "\n"}}
	e := NewOCRExtractor(&fakeRasteriser{pages: 2}, recogniser, nil, OCROptions{})

	text, err := e.ExtractViaOCR(context.Background(), "blank.pdf")
	require.NoError(t, err)
	assert.Equal(t, "", text.Body)
	assert.True(t, text.IsEmpty())
	assert.Empty(t, text.FailedPages())
}

func TestOCRExtractor_Deskew(t *testing.T) {
	t.Run("angle recorded", func(t *testing.T) {
		deskewer := &fakeDeskewer{angle: -3.5}
		e := NewOCRExtractor(&fakeRasteriser{pages: 2}, &fakeRecogniser{}, deskewer, OCROptions{Deskew: true})

		text, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
		require.NoError(t, err)

		assert.Equal(t, int32(2), deskewer.calls.Load())
		for _, p := range text.Pages {
			require.NotNil(t, p.Angle)
			assert.Equal(t, -3.5, *p.Angle)
			assert.NoError(t, p.DeskewErr)
		}
	})

	t.Run("failure falls back to raw page", func(t *testing.T) {
		deskewer := &fakeDeskewer{err: &domain.DeskewError{Err: errors.New("no foreground")}}
		e := NewOCRExtractor(&fakeRasteriser{pages: 1}, &fakeRecogniser{}, deskewer, OCROptions{Deskew: true})

		text, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
		require.NoError(t, err)

		assert.Equal(t, expectedBody(1), text.Body)
		assert.ErrorIs(t, text.Pages[0].DeskewErr, domain.ErrDeskew)
		assert.Nil(t, text.Pages[0].Angle)
		assert.NoError(t, text.Pages[0].Err)
	})

	t.Run("disabled", func(t *testing.T) {
		deskewer := &fakeDeskewer{}
		e := NewOCRExtractor(&fakeRasteriser{pages: 1}, &fakeRecogniser{}, deskewer, OCROptions{Deskew: false})

		_, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
		require.NoError(t, err)
		assert.Zero(t, deskewer.calls.Load())
	})
}

func TestOCRExtractor_MissingDependencies(t *testing.T) {
	missingErr := fmt.Errorf("%w: pdftoppm not found", domain.ErrMissingDependency)

	tests := []struct {
		name       string
		rasteriser *fakeRasteriser
		recogniser *fakeRecogniser
		nilRaster  bool
		nilEngine  bool
	}{
		{"rasteriser unavailable", &fakeRasteriser{availErr: missingErr}, &fakeRecogniser{}, false, false},
		{"engine unavailable", &fakeRasteriser{}, &fakeRecogniser{availErr: missingErr}, false, false},
		{"no rasteriser", nil, &fakeRecogniser{}, true, false},
		{"no engine", &fakeRasteriser{}, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e *OCRExtractor
			switch {
			case tt.nilRaster:
				e = NewOCRExtractor(nil, tt.recogniser, nil, OCROptions{})
			case tt.nilEngine:
				e = NewOCRExtractor(tt.rasteriser, nil, nil, OCROptions{})
			default:
				e = NewOCRExtractor(tt.rasteriser, tt.recogniser, nil, OCROptions{})
			}

			assert.ErrorIs(t, e.Ready(), domain.ErrMissingDependency)

			_, err := e.ExtractViaOCR(context.Background(), "scan.pdf")
			assert.ErrorIs(t, err, domain.ErrMissingDependency)
			assert.ErrorIs(t, err, domain.ErrOCR)
			if tt.rasteriser != nil {
				assert.Zero(t, tt.rasteriser.calls.Load(), "no rasterisation attempted")
			}
		})
	}
}

func TestOCRExtractor_RasteriseFailure(t *testing.T) {
	e := NewOCRExtractor(&fakeRasteriser{err: errors.New("xref broken")}, &fakeRecogniser{}, nil, OCROptions{})

	_, err := e.ExtractViaOCR(context.Background(), "bad.pdf")

	var ocrErr *domain.OCRError
	require.True(t, errors.As(err, &ocrErr))
	assert.Equal(t, 0, ocrErr.Page)
	assert.Contains(t, err.Error(), "xref broken")
}

func TestOCRExtractor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewOCRExtractor(&fakeRasteriser{pages: 3}, &fakeRecogniser{}, nil, OCROptions{})
	_, err := e.ExtractViaOCR(ctx, "scan.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJoinPages(t *testing.T) {
	outcomes := []domain.PageOutcome{{Number: 1}, {Number: 2}}

	assert.Equal(t, "", joinPages([]string{"", ""}, outcomes))
	assert.Equal(t, "--- Page 1 ---\na\n\n--- Page 2 ---\nb", joinPages([]string{"a", "b"}, outcomes))
	assert.Equal(t, "", joinPages(nil, nil))
}

func TestDescribePage(t *testing.T) {
	angle := -2.25
	assert.Equal(t, "page 3: 120 characters, confidence 87%, deskewed -2.25 degrees",
		describePage(domain.PageOutcome{Number: 3, Chars: 120, Confidence: 0.87, Angle: &angle}))
	assert.Equal(t, "page 1: 0 characters, confidence 0%",
		describePage(domain.PageOutcome{Number: 1}))
}

func TestOCRExtractor_LogsPageDetails(t *testing.T) {
	logs := captureVerboseLogs(t)
	e := NewOCRExtractor(&fakeRasteriser{pages: 2}, &fakeRecogniser{}, &fakeDeskewer{angle: 1.5}, OCROptions{Workers: 1, Deskew: true})

	_, err := e.ExtractViaOCR(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "page 1: 6 characters, confidence 90%, deskewed 1.50 degrees")
	assert.Contains(t, logs.String(), "page 2: 6 characters, confidence 90%, deskewed 1.50 degrees")
}
