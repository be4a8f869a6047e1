package trigger

import (
	"fmt"
	"time"

	"github.com/1broseidon/linkpeek/internal/overlay"
)

// DefaultSubmenuTimeout is how long a popover lingers after the pointer
// leaves it.
const DefaultSubmenuTimeout = 150 * time.Millisecond

// SubmenuKind names a per-window popover.
type SubmenuKind string

const (
	SubmenuZoom     SubmenuKind = "zoom"
	SubmenuMinimize SubmenuKind = "minimize"
)

// ParseSubmenuKind parses "zoom" or "minimize".
func ParseSubmenuKind(s string) (SubmenuKind, error) {
	switch k := SubmenuKind(s); k {
	case SubmenuZoom, SubmenuMinimize:
		return k, nil
	}
	return "", fmt.Errorf("unknown submenu %q", s)
}

// Submenus tracks which window, if any, shows each popover.
type Submenus struct {
	timers  *Debouncer
	timeout time.Duration
	open    map[SubmenuKind]overlay.WindowID
}

// NewSubmenus creates the popover tracker.
func NewSubmenus(timers *Debouncer, timeout time.Duration) *Submenus {
	if timers == nil {
		timers = NewDebouncer(nil)
	}
	if timeout <= 0 {
		timeout = DefaultSubmenuTimeout
	}
	return &Submenus{timers: timers, timeout: timeout, open: make(map[SubmenuKind]overlay.WindowID)}
}

// Enter shows kind for window id and cancels a pending hide.
func (s *Submenus) Enter(kind SubmenuKind, id overlay.WindowID) {
	s.timers.Cancel(timerKey(kind))
	s.open[kind] = id
}

// Leave hides kind after the timeout unless the pointer comes back.
func (s *Submenus) Leave(kind SubmenuKind) {
	s.timers.Start(timerKey(kind), s.timeout, func() {
		delete(s.open, kind)
	})
}

// Hide closes kind immediately.
func (s *Submenus) Hide(kind SubmenuKind) {
	s.timers.Cancel(timerKey(kind))
	delete(s.open, kind)
}

// Forget hides every popover shown for id.
func (s *Submenus) Forget(id overlay.WindowID) {
	for kind, owner := range s.open {
		if owner == id {
			s.Hide(kind)
		}
	}
}

// HideAll closes every popover.
func (s *Submenus) HideAll() {
	for kind := range s.open {
		s.Hide(kind)
	}
}

// Open returns the window showing kind, or "".
func (s *Submenus) Open(kind SubmenuKind) overlay.WindowID {
	return s.open[kind]
}

func timerKey(kind SubmenuKind) string {
	return "submenu:" + string(kind)
}
