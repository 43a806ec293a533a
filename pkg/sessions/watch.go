package sessions

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period after the last change before a run.
const DefaultDebounce = 250 * time.Millisecond

// Watcher re-runs a function whenever the sessions file changes.
type Watcher struct {
	path     string
	debounce time.Duration
	run      func() error
	logger   *logrus.Entry
	watcher  *fsnotify.Watcher
}

// NewWatcher watches the directory holding path. The directory is watched
// instead of the file because rewrites replace the file by rename.
func NewWatcher(path string, debounce time.Duration, run func() error, logger *logrus.Entry) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		run:      run,
		logger:   logger,
		watcher:  watcher,
	}, nil
}

// Run runs once, then again after every burst of changes, until ctx is
// cancelled. Errors from the run function are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.invoke()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			timer.Reset(w.debounce)
		case <-timer.C:
			w.invoke()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

func (w *Watcher) invoke() {
	if err := w.run(); err != nil {
		w.logger.WithError(err).Error("Sessions run failed")
	}
}
