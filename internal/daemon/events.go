package daemon

import (
	"context"
	"log/slog"

	"github.com/1broseidon/linkpeek/internal/host"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

// EventLogger writes every store change to a logger.
type EventLogger struct {
	logger *slog.Logger
	done   chan struct{}
}

// NewEventLogger creates an event logger.
func NewEventLogger(logger *slog.Logger) *EventLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLogger{logger: logger, done: make(chan struct{})}
}

// Attach subscribes to the session's store. Logging stops when the session
// shuts the store down.
func (e *EventLogger) Attach(ctx context.Context, session *host.Session) error {
	var ch <-chan overlay.ChangeEvent
	err := session.Do(ctx, func(s *host.Session) {
		ch = s.Store().Subscribe()
	})
	if err != nil {
		close(e.done)
		return err
	}

	go func() {
		defer close(e.done)
		for ev := range ch {
			if ev.ID == "" {
				e.logger.Info("overlay change", "event", ev.Type.String())
				continue
			}
			e.logger.Info("overlay change", "event", ev.Type.String(), "id", string(ev.ID))
		}
	}()
	return nil
}

// Done is closed once the subscription has ended.
func (e *EventLogger) Done() <-chan struct{} {
	return e.done
}
