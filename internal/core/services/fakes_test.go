package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// fakeRasteriser returns pages small gray images.
type fakeRasteriser struct {
	pages    int
	err      error
	availErr error
	calls    atomic.Int32
}

func (f *fakeRasteriser) Name() string     { return "fake-raster" }
func (f *fakeRasteriser) Available() error { return f.availErr }

func (f *fakeRasteriser) Rasterise(_ context.Context, _ string, _ int) ([]domain.PageImage, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	pages := make([]domain.PageImage, f.pages)
	for i := range pages {
		pages[i] = domain.PageImage{Index: i, Image: image.NewGray(image.Rect(0, 0, 8, 8))}
	}
	return pages, nil
}

// fakeRecogniser returns "text N" for page N unless configured otherwise.
type fakeRecogniser struct {
	availErr error
	text     map[int]string
	fail     map[int]error
	panicOn  int
	jitter   time.Duration

	mu    sync.Mutex
	seen  []driven.RecogniseInput
	inFly atomic.Int32
	peak  atomic.Int32
}

func (f *fakeRecogniser) Name() string     { return "fake-ocr" }
func (f *fakeRecogniser) Available() error { return f.availErr }

func (f *fakeRecogniser) InstallInstructions() string { return "install fake-ocr" }

func (f *fakeRecogniser) Recognise(ctx context.Context, in driven.RecogniseInput) (*driven.RecogniseResult, error) {
	n := f.inFly.Add(1)
	defer f.inFly.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.seen = append(f.seen, in)
	f.mu.Unlock()

	if f.jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(f.jitter))))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Page == f.panicOn {
		panic("engine crashed")
	}
	if err, ok := f.fail[in.Page]; ok {
		return nil, err
	}
	if text, ok := f.text[in.Page]; ok {
		return &driven.RecogniseResult{Text: text, Confidence: 0.9}, nil
	}
	return &driven.RecogniseResult{Text: fmt.Sprintf("text %d", in.Page), Confidence: 0.9}, nil
}

// fakeDeskewer returns a fixed angle or error.
type fakeDeskewer struct {
	angle float64
	err   error
	calls atomic.Int32
}

func (f *fakeDeskewer) Deskew(img *image.Gray) (*image.Gray, float64, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, 0, f.err
	}
	return img, f.angle, nil
}

// fakeTextExtractor returns a fixed result for every document.
type fakeTextExtractor struct {
	result *domain.ExtractedText
	err    error
	panics bool
	calls  atomic.Int32
}

func (f *fakeTextExtractor) Extract(_ context.Context, doc domain.SourceDocument) (*domain.ExtractedText, error) {
	f.calls.Add(1)
	if f.panics {
		panic("normaliser bug")
	}
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	out.SourcePath = doc.Path
	return &out, nil
}

// fakeOCRExtractor returns a fixed result for every PDF.
type fakeOCRExtractor struct {
	result *domain.ExtractedText
	err    error
	calls  atomic.Int32
}

func (f *fakeOCRExtractor) ExtractViaOCR(_ context.Context, path string) (*domain.ExtractedText, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := *f.result
	out.SourcePath = path
	return &out, nil
}

func (f *fakeOCRExtractor) Ready() error { return nil }

// fakeIngestor maps paths to results; unknown paths fail.
type fakeIngestor struct {
	mu      sync.Mutex
	results map[string]*domain.ExtractedText
	jitter  time.Duration
	calls   []string
}

func (f *fakeIngestor) Ingest(ctx context.Context, path string) (*domain.ExtractedText, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	result, ok := f.results[path]
	f.mu.Unlock()

	if f.jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(f.jitter))))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.IngestionError{Path: path, Format: domain.FormatPDF, Err: fmt.Errorf("%w: broken", domain.ErrFormat)}
	}
	return result, nil
}

func (f *fakeIngestor) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeWatcher replays changes then closes the channel.
type fakeWatcher struct {
	changes []domain.FileChange
	err     error
}

func (f *fakeWatcher) Watch(ctx context.Context, _ string) (<-chan domain.FileChange, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan domain.FileChange)
	go func() {
		defer close(ch)
		for _, c := range f.changes {
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// failingContentStore fails every merge.
type failingContentStore struct {
	driven.ContentStore
}

func (failingContentStore) Merge(context.Context, string, string) error {
	return &domain.StoreError{Path: "store.json", Op: "merge", Err: errors.New("disk full")}
}

func nativeText(body string) *domain.ExtractedText {
	return &domain.ExtractedText{Body: body, Method: domain.MethodNative}
}

func ocrText(body string) *domain.ExtractedText {
	return &domain.ExtractedText{Body: body, Method: domain.MethodOCR}
}
