// Package watch triggers store reloads when snapshot directories change on
// disk, so a freshly dropped export shows up without restarting the service.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ibutrack/teamboard/pkg/logger"
	"github.com/ibutrack/teamboard/pkg/metrics"
)

const defaultDebounce = 2 * time.Second

// Watcher debounces filesystem events into reload callbacks. Exports are
// written incrementally by the scraper, so a burst of writes collapses into
// one reload after the debounce window.
type Watcher struct {
	dirs     []string
	debounce time.Duration
	onReload func(context.Context)
	logger   logger.Logger

	fsw  *fsnotify.Watcher
	stop chan struct{}
}

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet window before a reload fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used by the watcher.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Watcher over dirs that calls onReload after changes settle.
func New(onReload func(context.Context), dirs []string, opts ...Option) *Watcher {
	w := &Watcher{
		dirs:     dirs,
		debounce: defaultDebounce,
		onReload: onReload,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching. Missing directories are logged and skipped; the
// watcher runs until Stop or ctx cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	if w.logger == nil {
		w.logger = logger.Get()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw

	watched := 0
	for _, dir := range w.dirs {
		if dir == "" {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn(ctx, "cannot watch directory",
				logger.String("dir", dir), logger.Error(err))
			continue
		}
		watched++
	}
	if watched == 0 {
		fsw.Close()
		return ErrNothingToWatch
	}

	go w.loop(ctx)
	w.logger.Info(ctx, "snapshot watcher started", logger.Int("dirs", watched))
	return nil
}

// Stop terminates the watch loop.
func (w *Watcher) Stop() {
	close(w.stop)
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			metrics.RecordWatcherEvent()
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "watcher error", logger.Error(err))
		case <-fire:
			timer = nil
			fire = nil
			metrics.RecordWatcherReload()
			w.logger.Info(ctx, "snapshot change detected, reloading")
			w.onReload(ctx)
		}
	}
}

// relevant filters for CSV churn; editors and scrapers produce temp-file
// noise we don't want reloads for.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	return strings.EqualFold(filepath.Ext(ev.Name), ".csv")
}
