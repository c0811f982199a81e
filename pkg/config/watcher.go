package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single path for changes and invokes a callback
// with debouncing, so editors that write in bursts trigger one reload.
// It is used by long-lived commands to pick up context snapshots and
// configuration edits; one-shot commands never start it.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	path     string
	debounce time.Duration

	mu      sync.Mutex
	running bool
}

// DefaultDebounceInterval is the wait after the last change event
// before the callback fires.
const DefaultDebounceInterval = 200 * time.Millisecond

// NewWatcher creates a watcher for the given file or directory.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger.With("component", "config.watcher"),
		path:     path,
		debounce: debounce,
	}, nil
}

// Watch blocks until the context is cancelled, invoking onChange with
// the changed path after each debounced burst of write/create events.
// An onChange error is logged, never fatal: the watch continues.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if err := w.watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.path, err)
	}

	w.logger.Info("watching for changes", "path", w.path)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending string
	)

	for {
		select {
		case <-ctx.Done():
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

		case <-timerCh:
			timerCh = nil
			changed := pending
			if err := onChange(changed); err != nil {
				w.logger.Error("change handler failed",
					"path", filepath.Clean(changed), "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
