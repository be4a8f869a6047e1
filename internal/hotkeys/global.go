package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Global grabs X11 key sequences on the root window and forwards them as
// KeyEvents. The X connection must have keybind initialized and its event
// loop (xevent.Main) running for callbacks to fire.
type Global struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewGlobal creates a global binder on xu's root window.
func NewGlobal(xu *xgbutil.XUtil, logger *slog.Logger) *Global {
	if logger == nil {
		logger = slog.Default()
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Global{xu: xu, root: xu.RootWin(), logger: logger}
}

// Bind grabs keySequence (xgbutil syntax, e.g. "Mod4-Escape") and calls send
// with ev whenever it is pressed.
func (g *Global) Bind(keySequence string, ev KeyEvent, send func(KeyEvent)) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, _ xevent.KeyPressEvent) {
		g.logger.Debug("global hotkey", "sequence", keySequence, "key", ev.String())
		send(ev)
	}).Connect(g.xu, g.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to bind %q: %w", keySequence, err)
	}
	return nil
}

// BindAll binds every sequence in bindings, parsing each value with ParseKey.
func (g *Global) BindAll(bindings map[string]string, send func(KeyEvent)) error {
	for seq, name := range bindings {
		ev, err := ParseKey(name)
		if err != nil {
			return fmt.Errorf("hotkey %q: %w", seq, err)
		}
		if err := g.Bind(seq, ev, send); err != nil {
			return err
		}
	}
	return nil
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// CapsLock, NumLock and ScrollLock must not block a grab.
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
