package overlay

// ChangeType indicates the type of store change.
type ChangeType int

const (
	// ChangeCreated indicates a window was opened.
	ChangeCreated ChangeType = iota
	// ChangeClosed indicates a window was closed.
	ChangeClosed
	// ChangeClearedAll indicates every window was closed at once.
	ChangeClearedAll
	// ChangeUpdated indicates window fields changed (title, geometry, pin).
	ChangeUpdated
	// ChangeFocused indicates the focus target changed.
	ChangeFocused
	// ChangeReordered indicates the z-order changed.
	ChangeReordered
	// ChangeZoomed indicates a window was snapped or restored from a snap.
	ChangeZoomed
	// ChangeMinimized indicates a window moved to the taskbar.
	ChangeMinimized
	// ChangeRestored indicates a window came back from the taskbar.
	ChangeRestored
	// ChangeViewport indicates the viewport was resized.
	ChangeViewport
)

func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeClosed:
		return "closed"
	case ChangeClearedAll:
		return "cleared"
	case ChangeUpdated:
		return "updated"
	case ChangeFocused:
		return "focused"
	case ChangeReordered:
		return "reordered"
	case ChangeZoomed:
		return "zoomed"
	case ChangeMinimized:
		return "minimized"
	case ChangeRestored:
		return "restored"
	case ChangeViewport:
		return "viewport"
	default:
		return "unknown"
	}
}

// ChangeEvent signals store content changes. ID is empty for store-wide
// changes.
type ChangeEvent struct {
	Type ChangeType
	ID   WindowID
}

const subscriberBuffer = 64

// Subscribe returns a channel that receives change notifications.
// Events are dropped for subscribers that fall behind.
func (s *Store) Subscribe() <-chan ChangeEvent {
	ch := make(chan ChangeEvent, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (s *Store) Unsubscribe(ch <-chan ChangeEvent) {
	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Shutdown closes all subscription channels. The store stays readable.
func (s *Store) Shutdown() {
	if s.closed {
		return
	}
	s.closed = true
	for _, sub := range s.subscribers {
		close(sub)
	}
	s.subscribers = nil
}

func (s *Store) notify(t ChangeType, id WindowID) {
	ev := ChangeEvent{Type: t, ID: id}
	for _, sub := range s.subscribers {
		select {
		case sub <- ev:
		default:
		}
	}
}
