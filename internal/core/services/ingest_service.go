package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestOptions configures an IngestService.
type IngestOptions struct {
	// Workers bounds concurrent file ingestion in a batch. Zero means 1.
	Workers int

	// UploadDir is the scratch directory uploads are written under.
	UploadDir string

	// WatchRate is the maximum files per second ingested in watch mode.
	WatchRate float64
}

// IngestService ingests files and merges their text into the content store.
type IngestService struct {
	ingestor driving.Ingestor
	store    driven.ContentStore
	watcher  driven.FolderWatcher
	opts     IngestOptions
}

// NewIngestService creates an ingest service. The watcher is optional;
// without it Watch fails with ErrMissingDependency.
func NewIngestService(
	ingestor driving.Ingestor,
	store driven.ContentStore,
	watcher driven.FolderWatcher,
	opts IngestOptions,
) *IngestService {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.UploadDir == "" {
		opts.UploadDir = domain.DefaultUploadDir
	}
	if opts.WatchRate <= 0 {
		opts.WatchRate = domain.DefaultWatchRate
	}
	return &IngestService{
		ingestor: ingestor,
		store:    store,
		watcher:  watcher,
		opts:     opts,
	}
}

// IngestFile ingests one file and merges non-empty text into the store.
// Empty extractions are reported as StatusEmpty and leave the store untouched.
func (s *IngestService) IngestFile(ctx context.Context, path string) domain.BatchItem {
	item := domain.BatchItem{Path: path}

	text, err := s.ingestor.Ingest(ctx, path)
	if err != nil {
		item.Status = domain.StatusFailed
		item.Err = err
		return item
	}

	item.Title = text.Title
	item.Method = text.Method
	item.Confidence = text.MeanConfidence()
	item.Pages = text.Pages
	item.FailedPages = text.FailedPages()
	if text.IsEmpty() {
		logger.Warn("%s: no text extracted", path)
		item.Status = domain.StatusEmpty
		return item
	}

	if err := s.store.Merge(ctx, path, text.Body); err != nil {
		item.Status = domain.StatusFailed
		item.Err = err
		return item
	}

	item.Status = domain.StatusIngested
	item.Chars = utf8.RuneCountInString(text.Body)
	return item
}

// IngestFolder ingests every PDF directly inside folder in listing order.
// The report preserves listing order regardless of the worker count.
func (s *IngestService) IngestFolder(ctx context.Context, folder string) (*domain.BatchReport, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: folder %s does not exist", domain.ErrNotFound, folder)
		}
		return nil, fmt.Errorf("%w: cannot read folder %s: %v", domain.ErrInvalidInput, folder, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(folder, entry.Name()))
	}

	report := &domain.BatchReport{
		Folder: folder,
		Items:  make([]domain.BatchItem, len(paths)),
	}
	logger.Info("batch %s: %d pdf files, %d workers", folder, len(paths), s.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				report.Items[i] = domain.BatchItem{Path: path, Status: domain.StatusFailed, Err: err}
				return nil
			}
			report.Items[i] = s.IngestFile(gctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return report, ctx.Err()
}

// uploadNamespace scopes the name-based UUIDs of upload directories.
var uploadNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/custodia-labs/folio/uploads"))

// Upload writes data to a fresh scratch directory and ingests it.
// The saved file keeps the base name of filename so its format is preserved.
func (s *IngestService) Upload(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." || name == "" {
		return nil, fmt.Errorf("%w: upload filename %q", domain.ErrInvalidInput, filename)
	}
	if !domain.IsSupported(name) {
		_, err := domain.ParseFormat(name)
		return nil, &domain.IngestionError{Path: name, Err: err}
	}

	// Equal bytes land in the same directory, so re-uploads reuse one store key.
	dir := filepath.Join(s.opts.UploadDir, uuid.NewSHA1(uploadNamespace, data).String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	saved := filepath.Join(dir, name)
	if err := os.WriteFile(saved, data, 0o600); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	logger.Debug("upload %s saved to %s (%d bytes)", filename, saved, len(data))

	return &domain.UploadResult{
		Filename:  filename,
		SavedPath: saved,
		Length:    len(data),
		Item:      s.IngestFile(ctx, saved),
	}, nil
}

// Watch ingests supported files created or written under folder until
// ctx is done. Ingestion is throttled to the configured rate.
func (s *IngestService) Watch(ctx context.Context, folder string, onItem func(domain.BatchItem)) error {
	if s.watcher == nil {
		return fmt.Errorf("%w: no folder watcher configured", domain.ErrMissingDependency)
	}
	info, err := os.Stat(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: folder %s does not exist", domain.ErrNotFound, folder)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a folder", domain.ErrInvalidInput, folder)
	}

	changes, err := s.watcher.Watch(ctx, folder)
	if err != nil {
		return fmt.Errorf("watch %s: %w", folder, err)
	}

	limiter := rate.NewLimiter(rate.Limit(s.opts.WatchRate), 1)
	for change := range changes {
		if change.Type == domain.ChangeDeleted || !domain.IsSupported(change.Path) {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		logger.Debug("watch: %s %s", change.Type, change.Path)
		item := s.IngestFile(ctx, change.Path)
		if onItem != nil {
			onItem(item)
		}
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
