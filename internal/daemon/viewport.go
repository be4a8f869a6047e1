package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/host"
)

// ViewportSource reports the current usable screen size.
type ViewportSource interface {
	Viewport() (geometry.Size, error)
}

// StaticSource is a fixed viewport.
type StaticSource geometry.Size

// Viewport implements ViewportSource.
func (s StaticSource) Viewport() (geometry.Size, error) {
	return geometry.Size(s), nil
}

// ViewportWatcherConfig holds configuration for the viewport watcher.
type ViewportWatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// ViewportWatcher periodically polls a ViewportSource and pushes changes
// into the session.
type ViewportWatcher struct {
	interval time.Duration
	source   ViewportSource
	session  *host.Session
	last     geometry.Size
	logger   *slog.Logger
}

// NewViewportWatcher creates a watcher for source feeding session.
func NewViewportWatcher(cfg ViewportWatcherConfig, source ViewportSource, session *host.Session) *ViewportWatcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ViewportWatcher{
		interval: interval,
		source:   source,
		session:  session,
		logger:   logger,
	}
}

// Run starts the polling loop. Blocks until context is cancelled.
func (w *ViewportWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("viewport watcher started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("viewport watcher stopped")
			return
		case <-ticker.C:
			w.CheckNow(ctx)
		}
	}
}

// CheckNow performs a single poll and applies the size if it changed.
func (w *ViewportWatcher) CheckNow(ctx context.Context) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("viewport watcher panic recovered", "error", err)
		}
	}()

	size, err := w.source.Viewport()
	if err != nil {
		w.logger.Warn("viewport watcher: failed to read viewport", "error", err)
		return
	}
	if size.Width <= 0 || size.Height <= 0 || size == w.last {
		return
	}

	err = w.session.Do(ctx, func(s *host.Session) {
		s.SetViewport(size)
	})
	if err != nil {
		w.logger.Warn("viewport watcher: failed to apply viewport", "error", err)
		return
	}
	w.last = size
	w.logger.Debug("viewport applied", "viewport", size.String())
}
