package overlay

import "github.com/1broseidon/linkpeek/internal/geometry"

// TaskbarEntry is one minimized window as shown on the taskbar.
type TaskbarEntry struct {
	ID    WindowID `json:"id"`
	Title string   `json:"title"`
}

// Taskbar returns the minimized windows in store order.
func (s *Store) Taskbar() []TaskbarEntry {
	var out []TaskbarEntry
	for _, w := range s.windows {
		if w.Minimized {
			out = append(out, TaskbarEntry{ID: w.ID, Title: w.Title})
		}
	}
	return out
}

// Minimize moves the window to the taskbar. Geometry is untouched; the
// current rectangle is remembered unless a zoom already captured one.
func (s *Store) Minimize(id WindowID) {
	w := s.lookup(id)
	if w == nil || w.Minimized {
		return
	}
	w.captureSaved()
	w.Minimized = true
	s.notify(ChangeMinimized, id)

	if s.focused == id {
		s.reassignFocus()
	}
}

// RestoreFromMinimize brings the window back from the taskbar and focuses
// it. A snapped window keeps its snapshot for a later zoom restore.
func (s *Store) RestoreFromMinimize(id WindowID) {
	w := s.lookup(id)
	if w == nil || !w.Minimized {
		return
	}
	w.Minimized = false
	if !w.Zoomed() {
		w.dropSaved()
	}
	s.notify(ChangeRestored, id)
	s.Focus(id)
}

// RestoreToDefaultSize drops any snap and recenters the window at the
// default size. Minimize state is left as is.
func (s *Store) RestoreToDefaultSize(id WindowID) {
	w := s.lookup(id)
	if w == nil {
		return
	}
	rect := geometry.Centered(s.defaultSize, s.viewport)
	w.Position = rect.Position()
	w.Size = rect.Size()
	w.Zoom = geometry.ZoomNone
	w.dropSaved()
	s.notify(ChangeUpdated, id)
}
