package overlay

// Focus gives the window keyboard focus and raises it to the top of the
// z-order. Minimized or absent windows cannot take focus.
func (s *Store) Focus(id WindowID) {
	w := s.lookup(id)
	if w == nil || w.Minimized {
		return
	}
	if s.focused != id {
		s.focused = id
		s.notify(ChangeFocused, id)
	}
	s.BringToFront(id)
}

// Navigate cycles focus through the visible windows in z-order, wrapping at
// both ends. dir > 0 moves forward, dir < 0 backward. It does nothing when
// fewer than two windows are visible.
func (s *Store) Navigate(dir int) {
	visible := s.visibleIDs()
	n := len(visible)
	if n < 2 || dir == 0 {
		return
	}
	step := 1
	if dir < 0 {
		step = -1
	}

	idx := -1
	for i, id := range visible {
		if id == s.focused {
			idx = i
			break
		}
	}

	var next int
	switch {
	case idx >= 0:
		next = (idx + step + n) % n
	case step > 0:
		next = 0
	default:
		next = n - 1
	}
	s.Focus(visible[next])
}

// reassignFocus points focus at the topmost visible window, or clears it.
func (s *Store) reassignFocus() {
	prev := s.focused
	s.focused = ""
	for i := len(s.windows) - 1; i >= 0; i-- {
		if !s.windows[i].Minimized {
			s.focused = s.windows[i].ID
			break
		}
	}
	if s.focused != prev {
		s.notify(ChangeFocused, s.focused)
	}
}

func (s *Store) visibleIDs() []WindowID {
	ids := make([]WindowID, 0, len(s.windows))
	for _, w := range s.windows {
		if !w.Minimized {
			ids = append(ids, w.ID)
		}
	}
	return ids
}
