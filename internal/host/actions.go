package host

import (
	"fmt"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/hotkeys"
	"github.com/1broseidon/linkpeek/internal/overlay"
	"github.com/1broseidon/linkpeek/internal/trigger"
)

// The methods below must run on the loop (inside Do). They coordinate the
// controllers so that popovers and drags never outlive their window.

// Open requests a preview for url.
func (s *Session) Open(url, title string) (overlay.WindowID, trigger.Verdict) {
	return s.gateway.RequestOpen(url, title)
}

// CloseWindow closes one window.
func (s *Session) CloseWindow(id overlay.WindowID) {
	s.forget(id)
	s.store.Close(id)
}

// CloseAll closes every window.
func (s *Session) CloseAll() {
	if s.drag.Active() {
		s.drag.End()
	}
	s.submenus.HideAll()
	s.store.CloseAll()
}

// Zoom snaps or restores a window and dismisses the zoom popover.
func (s *Session) Zoom(id overlay.WindowID, pos geometry.ZoomPosition) {
	s.store.ZoomTo(id, pos)
	s.submenus.Hide(trigger.SubmenuZoom)
}

// Minimize sends a window to the taskbar and dismisses the minimize popover.
func (s *Session) Minimize(id overlay.WindowID) {
	if s.drag.Target() == id {
		s.drag.End()
	}
	s.store.Minimize(id)
	s.submenus.Hide(trigger.SubmenuMinimize)
}

// RestoreSize recenters a window at the default size and dismisses the
// minimize popover.
func (s *Session) RestoreSize(id overlay.WindowID) {
	s.store.RestoreToDefaultSize(id)
	s.submenus.Hide(trigger.SubmenuMinimize)
}

// Key applies one key press and keeps popovers consistent with the result.
func (s *Session) Key(ev hotkeys.KeyEvent) hotkeys.Action {
	focused := s.store.Focused()
	action := s.keys.Handle(ev)
	switch action {
	case hotkeys.ActionClose:
		s.submenus.Forget(focused)
	case hotkeys.ActionCloseAll:
		s.submenus.HideAll()
	case hotkeys.ActionZoom, hotkeys.ActionRestore:
		s.submenus.Hide(trigger.SubmenuZoom)
	case hotkeys.ActionMinimize:
		s.submenus.Hide(trigger.SubmenuMinimize)
	}
	return action
}

// PointerKind is the phase of a pointer event.
type PointerKind string

const (
	PointerDown PointerKind = "down"
	PointerMove PointerKind = "move"
	PointerUp   PointerKind = "up"
)

// PointerEvent is a pointer event in viewport coordinates. ID and Region
// are only meaningful for PointerDown.
type PointerEvent struct {
	Kind   PointerKind      `json:"kind"`
	ID     overlay.WindowID `json:"id,omitempty"`
	X      float64          `json:"x"`
	Y      float64          `json:"y"`
	Region string           `json:"region,omitempty"`
}

// ParseRegion maps a region name to overlay.Region.
func ParseRegion(s string) (overlay.Region, error) {
	switch s {
	case "", "content":
		return overlay.RegionContent, nil
	case "handle", "titlebar":
		return overlay.RegionHandle, nil
	case "control", "button":
		return overlay.RegionControl, nil
	}
	return overlay.RegionContent, fmt.Errorf("unknown region %q", s)
}

// Pointer feeds one pointer event to the drag controller. It reports
// whether a drag is in progress afterwards.
func (s *Session) Pointer(ev PointerEvent) (bool, error) {
	pt := geometry.Point{X: ev.X, Y: ev.Y}
	switch ev.Kind {
	case PointerDown:
		region, err := ParseRegion(ev.Region)
		if err != nil {
			return s.drag.Active(), err
		}
		s.drag.Begin(ev.ID, pt, region)
	case PointerMove:
		s.drag.Move(pt)
	case PointerUp:
		s.drag.End()
	default:
		return s.drag.Active(), fmt.Errorf("unknown pointer event %q", ev.Kind)
	}
	return s.drag.Active(), nil
}

// SetViewport resizes the viewport.
func (s *Session) SetViewport(size geometry.Size) {
	if s.drag.Active() {
		s.drag.End()
	}
	s.store.SetViewport(size)
}

func (s *Session) forget(id overlay.WindowID) {
	if s.drag.Target() == id {
		s.drag.End()
	}
	s.submenus.Forget(id)
}
