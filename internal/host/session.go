// Package host runs the overlay on a single event loop. A Session is the
// explicit context object for one daemon run: it owns the window store,
// every controller and the boundary timers, and tears them all down
// together.
package host

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/hotkeys"
	"github.com/1broseidon/linkpeek/internal/overlay"
	"github.com/1broseidon/linkpeek/internal/settings"
	"github.com/1broseidon/linkpeek/internal/trigger"
)

// ErrSessionClosed is returned by Do after the loop has stopped.
var ErrSessionClosed = errors.New("session closed")

const inboxSize = 256

// Options configures a Session.
type Options struct {
	Viewport       geometry.Size
	Padding        float64
	DefaultSize    geometry.Size
	HoverDelay     time.Duration
	SubmenuTimeout time.Duration

	BannedDomains []string
	ExcludedPages []string
	SiteHost      string

	// Settings is read on every admission check. Nil means defaults.
	Settings *settings.Store

	NewID  func() overlay.WindowID
	Now    func() time.Time
	Logger *slog.Logger
}

// Session owns the overlay and serializes every mutation onto one goroutine.
type Session struct {
	store    *overlay.Store
	drag     *overlay.Drag
	keys     *hotkeys.Dispatcher
	gateway  *trigger.Gateway
	submenus *trigger.Submenus
	timers   *trigger.Debouncer
	policy   *trigger.Policy
	settings *settings.Store
	logger   *slog.Logger

	startedAt time.Time

	inbox     chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// New wires a session. Call Run to start processing.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	st := opts.Settings
	if st == nil {
		st = settings.NewMemory(settings.Default())
	}

	s := &Session{
		settings:  st,
		logger:    logger,
		startedAt: now(),
		inbox:     make(chan func(), inboxSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	s.timers = trigger.NewDebouncer(s.post)
	s.policy = &trigger.Policy{
		Banned:        opts.BannedDomains,
		SiteHost:      opts.SiteHost,
		ExcludedPages: opts.ExcludedPages,
		Settings:      st,
	}

	// The store's admission predicate reads the gateway's current page, so
	// the gateway is built against a late-bound opener.
	var gw *trigger.Gateway
	s.store = overlay.NewStore(overlay.Options{
		Viewport:    opts.Viewport,
		Padding:     opts.Padding,
		DefaultSize: opts.DefaultSize,
		Admit:       func(key string) bool { return gw.Admit(key) },
		NewID:       opts.NewID,
		Now:         now,
		Logger:      logger.With("component", "overlay"),
	})
	gw = trigger.NewGateway(trigger.GatewayOptions{
		Policy:     s.policy,
		Opener:     s.store,
		Timers:     s.timers,
		HoverDelay: opts.HoverDelay,
		Logger:     logger.With("component", "trigger"),
	})
	s.gateway = gw
	s.submenus = trigger.NewSubmenus(s.timers, opts.SubmenuTimeout)
	s.drag = overlay.NewDrag(s.store)
	s.keys = hotkeys.NewDispatcher(s.store, s.drag, logger.With("component", "keys"))
	return s
}

// Run processes posted work until ctx is cancelled or Close is called, then
// tears the session down. It must be called exactly once.
func (s *Session) Run(ctx context.Context) {
	defer close(s.stopped)
	defer s.teardown()

	s.logger.Info("session started", "viewport", s.store.Viewport().String())
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-s.done:
			return
		case fn := <-s.inbox:
			s.run(fn)
		}
	}
}

func (s *Session) run(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			s.logger.Error("session panic recovered", "error", err)
		}
	}()
	fn()
}

func (s *Session) teardown() {
	s.timers.Stop()
	s.gateway.Close()
	s.submenus.HideAll()
	s.store.Shutdown()
	s.logger.Info("session stopped", "windows", s.store.Len())
}

// Close stops the loop. Pending and future work is dropped.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Done is closed once the loop has fully stopped.
func (s *Session) Done() <-chan struct{} {
	return s.stopped
}

// Do runs fn on the loop and waits for it to finish. fn may use every
// accessor of s. Calling Do from inside fn deadlocks.
func (s *Session) Do(ctx context.Context, fn func(*Session)) error {
	finished := make(chan struct{})
	work := func() {
		defer close(finished)
		fn(s)
	}

	select {
	case s.inbox <- work:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-s.stopped:
		// The loop may have run fn right before stopping.
		select {
		case <-finished:
			return nil
		default:
			return ErrSessionClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn without waiting. Work posted after Close is dropped.
func (s *Session) post(fn func()) {
	select {
	case <-s.done:
	case s.inbox <- fn:
	}
}

// Store returns the window store. Loop only.
func (s *Session) Store() *overlay.Store { return s.store }

// Drag returns the drag controller. Loop only.
func (s *Session) Drag() *overlay.Drag { return s.drag }

// Keys returns the keyboard dispatcher. Loop only.
func (s *Session) Keys() *hotkeys.Dispatcher { return s.keys }

// Gateway returns the trigger gateway. Loop only.
func (s *Session) Gateway() *trigger.Gateway { return s.gateway }

// Submenus returns the popover tracker. Loop only.
func (s *Session) Submenus() *trigger.Submenus { return s.submenus }

// Settings returns the settings source. Safe from any goroutine.
func (s *Session) Settings() *settings.Store { return s.settings }

// Policy returns the admission policy.
func (s *Session) Policy() *trigger.Policy { return s.policy }

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time { return s.startedAt }
