package overlay

import "github.com/1broseidon/linkpeek/internal/geometry"

// ZoomTo snaps the window to a grid cell, or restores it when pos is
// ZoomNone. Requesting the cell the window already occupies restores it.
// Minimized windows and unknown labels are ignored.
func (s *Store) ZoomTo(id WindowID, pos geometry.ZoomPosition) {
	w := s.lookup(id)
	if w == nil || w.Minimized {
		return
	}
	if pos != geometry.ZoomNone && pos == w.Zoom {
		pos = geometry.ZoomNone
	}

	if pos == geometry.ZoomNone {
		s.unzoom(w)
		return
	}

	rect, ok := geometry.ZoomRect(pos, s.viewport, s.padding)
	if !ok {
		s.logger.Debug("ignoring zoom label", "id", id, "zoom", string(pos))
		return
	}
	if !w.Zoomed() {
		w.captureSaved()
	}
	w.Position = rect.Position()
	w.Size = rect.Size()
	w.Zoom = pos
	s.notify(ChangeZoomed, id)
}

func (s *Store) unzoom(w *Window) {
	if !w.Zoomed() && w.SavedPosition == nil && w.SavedSize == nil {
		return
	}
	if w.SavedPosition != nil {
		w.Position = *w.SavedPosition
	}
	if w.SavedSize != nil {
		w.Size = *w.SavedSize
	}
	// The viewport may have shrunk since the snapshot was taken.
	w.Position = geometry.ClampDrag(w.Position, w.Size, s.viewport)
	w.Zoom = geometry.ZoomNone
	w.dropSaved()
	s.notify(ChangeZoomed, w.ID)
}
