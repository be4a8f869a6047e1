// Package daemon assembles a running linkpeek daemon: the host session,
// the IPC server, settings hot reload, viewport tracking and optional X11
// global hotkeys.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/1broseidon/linkpeek/internal/config"
	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/host"
	"github.com/1broseidon/linkpeek/internal/hotkeys"
	"github.com/1broseidon/linkpeek/internal/ipc"
	"github.com/1broseidon/linkpeek/internal/settings"
	"github.com/1broseidon/linkpeek/internal/trigger"
	"github.com/1broseidon/linkpeek/internal/x11"
)

// Options configures Run.
type Options struct {
	Config     *config.Config
	SocketPath string
	Logger     *slog.Logger

	// Ready, if set, is called once the IPC server is listening.
	Ready func()
}

// Run starts the daemon and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settingsPath, err := cfg.GetSettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	prefs, err := settings.Open(settingsPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	current := prefs.Current()
	logger.Info("settings loaded", "path", settingsPath, "enabled", current.Enabled, "mode", string(current.Mode))

	var xconn *x11.Connection
	if cfg.ViewportSource == config.ViewportX11 || len(cfg.GlobalHotkeys) > 0 {
		xconn, err = x11.NewConnection(cfg.Display, cfg.XAuthority)
		if err != nil {
			if cfg.ViewportSource == config.ViewportX11 {
				return err
			}
			logger.Warn("X11 unavailable, global hotkeys disabled", "error", err)
		}
	}
	if xconn != nil {
		defer xconn.Close()
	}

	var source ViewportSource = StaticSource(geometry.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height})
	if cfg.ViewportSource == config.ViewportX11 {
		source = xconn
	}
	initial, err := source.Viewport()
	if err != nil {
		logger.Warn("failed to read viewport, using configured size", "error", err)
		initial = geometry.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	}

	session := host.New(host.Options{
		Viewport:       initial,
		Padding:        cfg.Padding,
		DefaultSize:    geometry.Size{Width: cfg.DefaultSize.Width, Height: cfg.DefaultSize.Height},
		HoverDelay:     cfg.HoverDelay.Std(),
		SubmenuTimeout: cfg.SubmenuTimeout.Std(),
		BannedDomains:  cfg.BannedDomainNames(),
		ExcludedPages:  cfg.ExcludedPages,
		SiteHost:       cfg.SiteHost,
		Settings:       prefs,
		Logger:         logger.With("component", "session"),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go session.Run(ctx)
	defer func() { <-session.Done() }()
	defer session.Close()

	events := NewEventLogger(logger.With("component", "events"))
	if err := events.Attach(ctx, session); err != nil {
		return err
	}

	watcher, err := settings.NewWatcher(prefs, func(st settings.Settings) {
		logger.Info("settings changed", "enabled", st.Enabled, "mode", string(st.Mode))
	}, logger.With("component", "settings"))
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		logger.Warn("settings hot reload disabled", "error", err)
	}
	defer watcher.Stop()

	viewports := NewViewportWatcher(ViewportWatcherConfig{
		Interval: cfg.ViewportPollInterval.Std(),
		Logger:   logger.With("component", "viewport"),
	}, source, session)
	viewports.CheckNow(ctx)
	if cfg.ViewportSource == config.ViewportX11 {
		go viewports.Run(ctx)
	}

	if xconn != nil {
		if len(cfg.GlobalHotkeys) > 0 {
			global := hotkeys.NewGlobal(xconn.XUtil, logger.With("component", "hotkeys"))
			if err := global.BindAll(cfg.GlobalHotkeys, func(ev hotkeys.KeyEvent) {
				sendKey(ctx, session, ev, logger)
			}); err != nil {
				return err
			}
		}
		go xconn.EventLoop()
	}

	server := ipc.NewServer(session, opts.SocketPath, logger.With("component", "ipc"))
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	logger.Info("linkpeek daemon started",
		"viewport", initial.String(),
		"banned", len(cfg.BannedDomains),
		"hover_delay", cfg.HoverDelay.Std())
	if opts.Ready != nil {
		opts.Ready()
	}

	select {
	case <-ctx.Done():
	case <-session.Done():
	}
	logger.Info("shutting down linkpeek daemon")
	return nil
}

func sendKey(ctx context.Context, session *host.Session, ev hotkeys.KeyEvent, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	var action hotkeys.Action
	err := session.Do(ctx, func(s *host.Session) {
		action = s.Key(ev)
	})
	if err != nil {
		logger.Warn("global hotkey dropped", "key", ev.String(), "error", err)
		return
	}
	logger.Debug("global hotkey handled", "key", ev.String(), "action", string(action))
}

// Policy builds the admission policy described by cfg without a session,
// for offline checks such as `linkpeek check`.
func Policy(cfg *config.Config, prefs *settings.Store) *trigger.Policy {
	return &trigger.Policy{
		Banned:        cfg.BannedDomainNames(),
		SiteHost:      cfg.SiteHost,
		ExcludedPages: cfg.ExcludedPages,
		Settings:      prefs,
	}
}
