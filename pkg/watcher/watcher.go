// Package watcher re-runs an action whenever a single input file changes.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce coalesces the burst of events editors emit for one save.
const DefaultDebounce = 300 * time.Millisecond

// FileWatcher wraps fsnotify for one file. The parent directory is watched,
// not the file itself, so saves that replace the file via rename are seen.
type FileWatcher struct {
	*fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *logrus.Logger
}

// New creates a FileWatcher for path.
func New(path string, debounce time.Duration, logger *logrus.Logger) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &FileWatcher{Watcher: w, path: abs, debounce: debounce, logger: logger}, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// IsChange reports whether event modifies the watched file.
func (w *FileWatcher) IsChange(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Run calls onChange after each debounced burst of changes until ctx is done
// or the watcher is closed. Calls never overlap; a change arriving while
// onChange runs schedules one more call. Errors from onChange are logged.
func (w *FileWatcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	var mu sync.Mutex
	var timer *time.Timer
	trigger := make(chan struct{}, 1)

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-trigger:
				if err := onChange(ctx); err != nil {
					w.logger.WithError(err).Error("Rebuild failed")
				}
			}
		}
	}()
	defer func() {
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !w.IsChange(event) {
				continue
			}
			w.logger.WithField("event", event.Op.String()).Debugf("Change detected: %s", event.Name)

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
			mu.Unlock()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Error("Watcher error")
		}
	}
}
