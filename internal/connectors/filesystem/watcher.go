// Package filesystem watches local folders for document changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FolderWatcher = (*Watcher)(nil)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// Options configures a Watcher.
type Options struct {
	// Recursive also watches subdirectories, including ones created later.
	Recursive bool
}

// Watcher reports file changes in a folder using fsnotify.
type Watcher struct {
	opts Options

	mu     sync.Mutex
	closed bool
	active map[*fsnotify.Watcher]struct{}
}

// New creates a folder watcher.
func New(opts Options) *Watcher {
	return &Watcher{
		opts:   opts,
		active: make(map[*fsnotify.Watcher]struct{}),
	}
}

// Watch starts watching folder. The returned channel is closed when ctx
// is done or the watcher is closed. Hidden files and directories are
// never reported.
func (w *Watcher) Watch(ctx context.Context, folder string) (<-chan domain.FileChange, error) {
	info, err := os.Stat(folder)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("root path error: %s: %w", folder, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory: %w", folder, domain.ErrInvalidInput)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w.active[fsw] = struct{}{}
	w.mu.Unlock()

	root := filepath.Clean(folder)
	if err := w.addTree(fsw, root, root); err != nil {
		w.release(fsw)
		return nil, err
	}

	changes := make(chan domain.FileChange)
	go w.loop(ctx, fsw, root, changes)
	return changes, nil
}

// Close stops every active watch and rejects new ones.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	var errs []error
	for fsw := range w.active {
		errs = append(errs, fsw.Close())
		delete(w.active, fsw)
	}
	return errors.Join(errs...)
}

func (w *Watcher) release(fsw *fsnotify.Watcher) {
	w.mu.Lock()
	delete(w.active, fsw)
	w.mu.Unlock()
	_ = fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, root string, out chan<- domain.FileChange) {
	defer close(out)
	defer w.release(fsw)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.opts.Recursive && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, root, event.Name); err != nil {
						logger.Warn("watch %s: %v", event.Name, err)
					}
				}
			}
			change := handleFsEvent(root, event)
			if change == nil {
				continue
			}
			select {
			case out <- *change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", root, err)
		}
	}
}

// addTree adds dir, and its visible subdirectories when recursive.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root, dir string) error {
	if !w.opts.Recursive {
		return fsw.Add(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && isHidden(rel) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// handleFsEvent converts an fsnotify event into a change, or nil when the
// event should not be reported.
func handleFsEvent(root string, event fsnotify.Event) *domain.FileChange {
	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		rel = event.Name
	}
	if isHidden(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.FileChange{Path: event.Name, Type: domain.ChangeDeleted}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		changeType := domain.ChangeUpdated
		if event.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		return &domain.FileChange{Path: event.Name, Type: changeType}
	default:
		return nil
	}
}

// isHidden reports whether any segment of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
