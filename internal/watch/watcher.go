// Package watch re-runs an inspection whenever the inspected file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Func is invoked once at start and again after each debounced change.
type Func func(ctx context.Context)

// Watcher watches a single file. The parent directory is watched so that
// editors which replace the file by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	fn       Func
	logger   *zap.Logger

	runs atomic.Int64
}

// New creates a Watcher for path.
func New(path string, debounce time.Duration, fn Func, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: path, debounce: debounce, fn: fn, logger: logger}
}

// Runs returns how many times fn has been invoked.
func (w *Watcher) Runs() int64 {
	return w.runs.Load()
}

// Run invokes fn, then blocks re-invoking it on changes until ctx is done.
// It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Info("Watching file", zap.String("path", abs), zap.Duration("debounce", w.debounce))

	w.invoke(ctx)

	trigger := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.readEvents(gctx, fsw, abs, trigger) })
	g.Go(func() error { return w.debounceLoop(gctx, trigger) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (w *Watcher) invoke(ctx context.Context) {
	w.runs.Add(1)
	w.fn(ctx)
}

// readEvents forwards relevant events for target into trigger.
func (w *Watcher) readEvents(ctx context.Context, fsw *fsnotify.Watcher, target string, trigger chan<- struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Debug("File event", zap.String("op", event.Op.String()))
			select {
			case trigger <- struct{}{}:
			default:
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context, trigger <-chan struct{}) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-trigger:
			fire = time.After(w.debounce)
		case <-fire:
			fire = nil
			w.invoke(ctx)
		}
	}
}
