// Package hotkeys maps key presses onto overlay operations.
package hotkeys

import (
	"log/slog"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

// Action reports what a key press did.
type Action string

const (
	ActionNone       Action = "none"
	ActionClose      Action = "close"
	ActionCloseAll   Action = "close-all"
	ActionNext       Action = "next"
	ActionPrev       Action = "prev"
	ActionPin        Action = "pin"
	ActionPinAll     Action = "pin-all"
	ActionMinimize   Action = "minimize"
	ActionRestore    Action = "restore"
	ActionZoom       Action = "zoom"
	ActionCancelDrag Action = "cancel-drag"
)

// Dispatcher applies key presses to the focused window. It keeps no state
// of its own.
type Dispatcher struct {
	store  *overlay.Store
	drag   *overlay.Drag
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher. drag may be nil.
func NewDispatcher(store *overlay.Store, drag *overlay.Drag, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{store: store, drag: drag, logger: logger}
}

// Handle applies one key press. Without a focused window nothing happens.
// While a drag is in progress only Escape is honored, and it cancels the
// drag instead of closing the window.
func (d *Dispatcher) Handle(ev KeyEvent) Action {
	if d.drag != nil && d.drag.Active() {
		if ev.Key == KeyEscape && !ev.Alt {
			d.drag.Cancel()
			return ActionCancelDrag
		}
		return ActionNone
	}

	focused := d.store.Focused()
	if focused == "" {
		return ActionNone
	}

	action := d.apply(focused, ev)
	if action != ActionNone {
		d.logger.Debug("key handled", "key", ev.String(), "action", string(action), "id", focused)
	}
	return action
}

func (d *Dispatcher) apply(focused overlay.WindowID, ev KeyEvent) Action {
	switch ev.Key {
	case KeyEscape:
		if ev.Alt {
			d.store.CloseAll()
			return ActionCloseAll
		}
		d.store.Close(focused)
		return ActionClose
	case KeyArrowRight:
		if ev.Alt {
			return ActionNone
		}
		d.store.Navigate(+1)
		return ActionNext
	case KeyArrowLeft:
		if ev.Alt {
			return ActionNone
		}
		d.store.Navigate(-1)
		return ActionPrev
	case KeyPin:
		pinned, ok := d.store.TogglePin(focused)
		if !ok {
			return ActionNone
		}
		if ev.Alt {
			d.store.SetPinnedAll(pinned)
			return ActionPinAll
		}
		return ActionPin
	}

	if ev.Alt {
		return ActionNone
	}

	switch ev.Key {
	case KeyMinimize:
		d.store.Minimize(focused)
		return ActionMinimize
	case KeyRestore:
		d.store.ZoomTo(focused, geometry.ZoomNone)
		return ActionRestore
	}

	if pos, ok := ZoomShortcuts[ev.Key]; ok {
		d.store.ZoomTo(focused, pos)
		return ActionZoom
	}
	return ActionNone
}
