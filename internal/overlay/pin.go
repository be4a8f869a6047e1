package overlay

// TogglePin flips the pinned flag and returns the new value.
func (s *Store) TogglePin(id WindowID) (bool, bool) {
	w := s.lookup(id)
	if w == nil {
		return false, false
	}
	w.Pinned = !w.Pinned
	s.notify(ChangeUpdated, id)
	return w.Pinned, true
}

// SetPinnedAll sets every window's pinned flag to pinned.
func (s *Store) SetPinnedAll(pinned bool) {
	for _, w := range s.windows {
		if w.Pinned == pinned {
			continue
		}
		w.Pinned = pinned
		s.notify(ChangeUpdated, w.ID)
	}
}
