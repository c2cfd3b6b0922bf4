// pkg/watch/watcher.go
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is zero
const DefaultDebounce = 300 * time.Millisecond

// Config controls a Watcher
type Config struct {
	Debounce time.Duration
	MaxBatch int
	Ignore   []string // doublestar patterns relative to the watched root
	Logger   *slog.Logger
}

// Watcher calls a function whenever the tree under a root changes
type Watcher struct {
	root      string
	config    Config
	logger    *slog.Logger
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	onChange  func(paths []string)

	runMu sync.Mutex // serializes onChange
}

// New creates a Watcher on root. onChange receives the sorted set of paths
// that changed during one debounce window; calls never overlap.
func New(root string, cfg Config, onChange func(paths []string)) (*Watcher, error) {
	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:      filepath.Clean(root),
		config:    cfg,
		logger:    logger.With("component", "watch"),
		fsWatcher: fsWatcher,
		onChange:  onChange,
	}
	w.debouncer = NewDebouncer(cfg.Debounce, cfg.MaxBatch, w.flush)

	return w, nil
}

// Run watches until ctx is cancelled, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	if err := w.fsWatcher.Add(w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	w.walkAndAdd(w.root)

	w.logger.Info("watching for changes", "root", w.root, "debounce", w.config.Debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsWatcher.Add(event.Name); err == nil {
				w.walkAndAdd(event.Name)
			}
		}
	}

	w.debouncer.Add(event.Name)
}

// walkAndAdd registers every directory below path. Unreadable directories
// are skipped, the same way discovery skips them.
func (w *Watcher) walkAndAdd(path string) {
	entries, err := os.ReadDir(path)
	if err != nil {
		w.logger.Debug("failed to read directory", "path", path, "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		fullPath := filepath.Join(path, entry.Name())
		if w.shouldIgnore(fullPath) {
			continue
		}
		if err := w.fsWatcher.Add(fullPath); err != nil {
			w.logger.Debug("failed to watch directory", "path", fullPath, "error", err)
			continue
		}
		w.walkAndAdd(fullPath)
	}
}

func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.config.Ignore {
		if match, _ := doublestar.Match(pattern, rel); match {
			return true
		}
	}
	return false
}

func (w *Watcher) flush(paths []string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	w.logger.Info("change detected", "paths", len(paths))
	w.onChange(paths)
}

func (w *Watcher) close() {
	w.debouncer.Stop()
	if err := w.fsWatcher.Close(); err != nil {
		w.logger.Debug("closing watcher", "error", err)
	}
}
