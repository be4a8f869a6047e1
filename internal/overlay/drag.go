package overlay

import "github.com/1broseidon/linkpeek/internal/geometry"

// Region identifies which part of a window a pointer event landed on.
type Region int

const (
	// RegionContent is the embedded document area.
	RegionContent Region = iota
	// RegionHandle is the title bar, the only place a drag may start.
	RegionHandle
	// RegionControl is a button inside the title bar.
	RegionControl
)

// String returns the string representation of the region
func (r Region) String() string {
	switch r {
	case RegionContent:
		return "content"
	case RegionHandle:
		return "handle"
	case RegionControl:
		return "control"
	default:
		return "unknown"
	}
}

// DragPhase is the drag controller state.
type DragPhase int

const (
	// DragIdle means no window is being dragged
	DragIdle DragPhase = iota
	// DragActive means one window follows the pointer
	DragActive
)

// String returns the string representation of the phase
func (p DragPhase) String() string {
	switch p {
	case DragIdle:
		return "idle"
	case DragActive:
		return "dragging"
	default:
		return "unknown"
	}
}

// Drag moves at most one window at a time in response to pointer events.
type Drag struct {
	store *Store

	phase  DragPhase
	target WindowID
	offset geometry.Point
	origin geometry.Point
}

// NewDrag creates an idle drag controller bound to store.
func NewDrag(store *Store) *Drag {
	return &Drag{store: store}
}

// Phase returns the current drag phase.
func (d *Drag) Phase() DragPhase {
	return d.phase
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.phase == DragActive
}

// Target returns the window being dragged, or "" when idle.
func (d *Drag) Target() WindowID {
	return d.target
}

// Begin handles pointer-down on a window. The window is focused whenever it
// can take focus. A drag starts only from the handle region of a free,
// visible window while no other drag is active.
func (d *Drag) Begin(id WindowID, pointer geometry.Point, region Region) bool {
	if d.Active() {
		return false
	}
	w := d.store.lookup(id)
	if w == nil || w.Minimized {
		return false
	}
	d.store.Focus(id)
	if region != RegionHandle || w.Zoomed() {
		return false
	}

	d.phase = DragActive
	d.target = id
	d.offset = geometry.SanitizePoint(pointer).Sub(w.Position)
	d.origin = w.Position
	return true
}

// Move repositions the dragged window so the grab offset stays under the
// pointer, clamped to the viewport.
func (d *Drag) Move(pointer geometry.Point) {
	if !d.Active() {
		return
	}
	w := d.store.lookup(d.target)
	if w == nil || w.Minimized {
		d.reset()
		return
	}
	proposed := geometry.SanitizePoint(pointer).Sub(d.offset)
	pos := geometry.ClampDrag(proposed, w.Size, d.store.viewport)
	if pos == w.Position {
		return
	}
	d.store.Update(d.target, Patch{Position: &pos})
}

// End finishes the drag wherever the pointer is.
func (d *Drag) End() {
	d.reset()
}

// Cancel aborts the drag and puts the window back where it started.
func (d *Drag) Cancel() {
	if !d.Active() {
		return
	}
	if w := d.store.lookup(d.target); w != nil && w.Position != d.origin {
		origin := d.origin
		d.store.Update(d.target, Patch{Position: &origin})
	}
	d.reset()
}

func (d *Drag) reset() {
	d.phase = DragIdle
	d.target = ""
	d.offset = geometry.Point{}
	d.origin = geometry.Point{}
}
