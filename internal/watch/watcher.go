// Package watch reports changes to OIS documents on disk.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/api3dao/ois/internal/fs"
)

const debounceDuration = 100 * time.Millisecond

// Event lists the documents written or created since the previous event.
type Event struct {
	Paths []string
}

// Watcher monitors files and directories for document changes.
type Watcher struct {
	roots      []string
	extensions []string
	logger     *slog.Logger
	Ready      chan struct{}

	// files holds the roots that are files rather than directories.
	files map[string]bool

	mu      sync.Mutex
	pending map[string]bool

	newWatcher func() (*fsnotify.Watcher, error)
}

// New creates a Watcher for the given roots. A directory root is watched recursively
// for files with one of extensions. A file root is watched on its own.
func New(roots, extensions []string, logger *slog.Logger) *Watcher {
	return &Watcher{
		roots:      roots,
		extensions: extensions,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		files:      make(map[string]bool),
		pending:    make(map[string]bool),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch calls callback with the changed documents until ctx is cancelled. Bursts of
// changes within a short window are delivered as one Event.
func (w *Watcher) Watch(ctx context.Context, callback func(Event)) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range w.roots {
		if err := w.addRoot(watcher, root); err != nil {
			return err
		}
	}

	w.logger.Info("Watching for changes", "roots", w.roots)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, relevant := w.handleEvent(watcher, event)
			if !relevant {
				continue
			}
			w.mu.Lock()
			w.pending[path] = true
			w.mu.Unlock()

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDuration, func() {
				if ev, ok := w.flush(); ok {
					callback(ev)
				}
			})
		}
	}
}

func (w *Watcher) flush() (Event, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return Event{}, false
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	slices.Sort(paths)
	return Event{Paths: paths}, true
}

func (w *Watcher) addRoot(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return w.addRecursive(watcher, root)
	}
	w.files[filepath.Clean(root)] = true
	return watcher.Add(filepath.Dir(root))
}

// handleEvent returns the document an fsnotify event refers to, if any. New
// directories below a watched root are added to the watcher.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	path := filepath.Clean(event.Name)

	if w.files[path] {
		return path, true
	}
	if !w.underDirectoryRoot(path) {
		return "", false
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if err := w.addRecursive(watcher, path); err != nil {
				w.logger.Error("Failed to watch new directory", "path", path, "error", err)
			}
			return "", false
		}
	}

	if strings.HasPrefix(filepath.Base(path), ".") || !fs.HasExtension(path, w.extensions) {
		return "", false
	}
	return path, true
}

func (w *Watcher) underDirectoryRoot(path string) bool {
	for _, root := range w.roots {
		root = filepath.Clean(root)
		if w.files[root] {
			continue
		}
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// addRecursive adds root and all its non-hidden subdirectories to the watcher.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
