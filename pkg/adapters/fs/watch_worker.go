package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/timednotes/pkg/core"
)

// Watch reports changes made to the data file by other processes.
//
// The directory holding the file is watched (editors and atomic writers
// replace files by rename, which a file watch would lose). Events whose base
// name does not match the configured pattern are ignored, bursts are
// debounced, and writes whose content equals what this repository last read
// or wrote are dropped. The channel closes when ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	if !doublestar.ValidatePattern(r.config.WatchPattern) {
		return nil, fmt.Errorf("invalid watch pattern: %q", r.config.WatchPattern)
	}

	dir := filepath.Dir(r.Path)
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &watchWorker{
		repo:    r,
		watcher: watcher,
		events:  make(chan core.Event, 16),
	}
	r.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		r.reportError(fmt.Errorf("watcher: %w", err))
	}))

	return w.events, nil
}

type watchWorker struct {
	repo    *Repository
	watcher *fsnotify.Watcher
	events  chan core.Event
}

// run is the main event loop. It owns the events channel and closes it.
func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.config.Logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.repo.config.Logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.matches(event) {
				continue
			}
			w.repo.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.repo.config.Debounce)
			} else {
				timer.Reset(w.repo.config.Debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.flush(ctx)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.reportError(wErr)
		}
	}
}

func (w *watchWorker) matches(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	ok, err := doublestar.Match(w.repo.config.WatchPattern, filepath.Base(event.Name))
	return err == nil && ok
}

// flush checks the file once a burst of events has settled and emits at
// most one event for it.
func (w *watchWorker) flush(ctx context.Context) {
	changed, removed, err := w.repo.changedOnDisk()
	if err != nil {
		w.repo.reportError(fmt.Errorf("failed to inspect %s: %w", w.repo.Path, err))
		return
	}
	if !changed {
		w.repo.config.Logger.Debug("ignoring own write", "path", w.repo.Path)
		return
	}

	eType := core.EventModify
	if removed {
		eType = core.EventDelete
	}

	select {
	case w.events <- core.Event{Type: eType, Timestamp: time.Now().Unix()}:
	case <-ctx.Done():
	}
}
