// Package overlay implements the floating preview-window manager: the window
// store, focus ordering, drag, snap-grid zoom, and the minimize/taskbar
// lifecycle.
//
// Nothing in this package is safe for concurrent use. A host drives a Store
// and its Drag controller from a single goroutine (see internal/host).
package overlay

import (
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/1broseidon/linkpeek/internal/geometry"
)

// WindowID is an opaque identifier assigned at creation.
type WindowID string

// NewWindowID returns a fresh, lexically sortable window id.
func NewWindowID() WindowID {
	return WindowID("popup-" + ulid.Make().String())
}

// Window is one open preview.
type Window struct {
	ID          WindowID              `json:"id"`
	ResourceKey string                `json:"resource_key"`
	Title       string                `json:"title"`
	Position    geometry.Point        `json:"position"`
	Size        geometry.Size         `json:"size"`
	Pinned      bool                  `json:"pinned"`
	Minimized   bool                  `json:"minimized"`
	Zoom        geometry.ZoomPosition `json:"zoom,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`

	// Pre-zoom / pre-minimize geometry. Nil until first captured.
	SavedPosition *geometry.Point `json:"saved_position,omitempty"`
	SavedSize     *geometry.Size  `json:"saved_size,omitempty"`
}

// Rect returns the window's current geometry.
func (w *Window) Rect() geometry.Rect {
	return geometry.Rect{X: w.Position.X, Y: w.Position.Y, Width: w.Size.Width, Height: w.Size.Height}
}

// Zoomed reports whether the window is snapped to a grid cell.
func (w *Window) Zoomed() bool {
	return w.Zoom != geometry.ZoomNone
}

func (w *Window) captureSaved() {
	if w.SavedPosition == nil {
		p := w.Position
		w.SavedPosition = &p
	}
	if w.SavedSize == nil {
		s := w.Size
		w.SavedSize = &s
	}
}

func (w *Window) dropSaved() {
	w.SavedPosition = nil
	w.SavedSize = nil
}

func (w *Window) clone() Window {
	c := *w
	if w.SavedPosition != nil {
		p := *w.SavedPosition
		c.SavedPosition = &p
	}
	if w.SavedSize != nil {
		s := *w.SavedSize
		c.SavedSize = &s
	}
	return c
}

// Patch holds the fields Update may merge into a window. Nil fields are left
// untouched.
type Patch struct {
	Title    *string
	Position *geometry.Point
	Size     *geometry.Size
	Pinned   *bool
}

// HostLabel derives a display label from a resource key: the URL host with a
// leading "www." removed, or the key itself when it does not parse.
func HostLabel(key string) string {
	u, err := url.Parse(key)
	if err != nil || u.Hostname() == "" {
		return key
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
