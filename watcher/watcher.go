// Package watcher turns file system notifications under a project root into
// debounced change batches. Consumers react to a batch with a full reindex.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the quiet period before a batch is emitted.
const DefaultDebounceInterval = 300 * time.Millisecond

// Filter decides which paths are worth watching and reporting.
type Filter interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
	IsIgnoreFile(absolutePath string) bool
}

// Watcher provides recursive file system watching with debouncing.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	filter    Filter
	rootDir   string
	logger    *slog.Logger
}

// NewWatcher creates a recursive watcher on rootDir. Every directory the
// filter does not exclude is registered.
func NewWatcher(rootDir string, filter Filter, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(interval),
		filter:    filter,
		rootDir:   rootDir,
		logger:    logger,
	}

	err = filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootDir && filter.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		w.watchDir(path)
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Changes returns the channel of debounced change batches.
func (w *Watcher) Changes() <-chan []Change {
	return w.debouncer.Output()
}

// Run forwards notifications to the debouncer until ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.filter.ShouldIgnoreDir(path) {
				w.watchDir(path)
				// Files written before the directory was registered produce no events.
				w.debouncer.Add(path, OpCreate)
			}
			return
		}
	}

	if w.filter.IsIgnoreFile(path) {
		w.debouncer.Add(path, OpIgnoreRules)
		return
	}
	if w.filter.ShouldIgnore(path) {
		return
	}

	op, ok := changeOp(event)
	if !ok {
		return
	}
	w.debouncer.Add(path, op)
}

func changeOp(event fsnotify.Event) (ChangeOp, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return OpCreate, true
	case event.Has(fsnotify.Write):
		return OpWrite, true
	case event.Has(fsnotify.Remove):
		return OpRemove, true
	case event.Has(fsnotify.Rename):
		return OpRename, true
	}
	return 0, false
}

func (w *Watcher) watchDir(path string) {
	if err := w.fsWatcher.Add(path); err != nil {
		w.logger.Warn("failed to watch directory", "path", path, "error", err)
	}
}

// Close stops the watcher and drops undelivered changes.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
