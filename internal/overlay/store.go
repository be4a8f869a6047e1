package overlay

import (
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/linkpeek/internal/geometry"
)

// Defaults used when Options leaves a field zero.
var (
	DefaultViewport = geometry.Size{Width: 1920, Height: 1080}
	DefaultSize     = geometry.Size{Width: 600, Height: 500}
)

// DefaultPadding is the gap, in pixels, around snapped windows.
const DefaultPadding = 10.0

// AdmitFunc decides whether an open request for resourceKey may create a
// window. It is evaluated after the built-in key checks.
type AdmitFunc func(resourceKey string) bool

// Options configures a Store.
type Options struct {
	Viewport    geometry.Size
	Padding     float64
	DefaultSize geometry.Size
	Admit       AdmitFunc
	NewID       func() WindowID
	Now         func() time.Time
	Logger      *slog.Logger
}

// Store is the authoritative collection of preview windows.
// Slice order is z-order: later entries stack above earlier ones.
type Store struct {
	windows []*Window
	keys    map[string]WindowID
	focused WindowID

	viewport    geometry.Size
	padding     float64
	defaultSize geometry.Size

	admit  AdmitFunc
	newID  func() WindowID
	now    func() time.Time
	logger *slog.Logger

	subscribers []chan ChangeEvent
	closed      bool
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	s := &Store{
		keys:        make(map[string]WindowID),
		viewport:    opts.Viewport,
		padding:     opts.Padding,
		defaultSize: opts.DefaultSize,
		admit:       opts.Admit,
		newID:       opts.NewID,
		now:         opts.Now,
		logger:      opts.Logger,
	}
	if s.viewport.Width <= 0 || s.viewport.Height <= 0 {
		s.viewport = DefaultViewport
	}
	if s.padding < 0 {
		s.padding = 0
	}
	if s.defaultSize.Width <= 0 || s.defaultSize.Height <= 0 {
		s.defaultSize = DefaultSize
	}
	if s.newID == nil {
		s.newID = NewWindowID
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Create opens a window for resourceKey and focuses it.
// It returns false when the key is empty or not a navigable target, is
// already open, or is refused by the admission predicate.
func (s *Store) Create(resourceKey, title string) (WindowID, bool) {
	if !navigableKey(resourceKey) {
		return "", false
	}
	if _, open := s.keys[resourceKey]; open {
		s.logger.Debug("preview already open", "key", resourceKey)
		return "", false
	}
	if s.admit != nil && !s.admit(resourceKey) {
		s.logger.Debug("preview not admitted", "key", resourceKey)
		return "", false
	}

	if title == "" {
		title = HostLabel(resourceKey)
	}
	rect := geometry.Centered(s.defaultSize, s.viewport)
	w := &Window{
		ID:          s.newID(),
		ResourceKey: resourceKey,
		Title:       title,
		Position:    rect.Position(),
		Size:        rect.Size(),
		CreatedAt:   s.now(),
	}

	s.windows = append(s.windows, w)
	s.keys[resourceKey] = w.ID
	s.focused = w.ID

	s.logger.Debug("preview opened", "id", w.ID, "key", resourceKey)
	s.notify(ChangeCreated, w.ID)
	return w.ID, true
}

// Close removes a window and releases its resource key. When the closed
// window had focus, focus moves to the topmost visible window.
func (s *Store) Close(id WindowID) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	w := s.windows[idx]
	s.windows = append(s.windows[:idx], s.windows[idx+1:]...)
	delete(s.keys, w.ResourceKey)

	s.logger.Debug("preview closed", "id", id)
	s.notify(ChangeClosed, id)

	if s.focused == id {
		s.reassignFocus()
	}
}

// CloseAll empties the store and clears focus.
func (s *Store) CloseAll() {
	if len(s.windows) == 0 && s.focused == "" {
		return
	}
	s.windows = nil
	s.keys = make(map[string]WindowID)
	s.focused = ""
	s.notify(ChangeClearedAll, "")
}

// Update merges patch into the window. Absent ids are ignored.
func (s *Store) Update(id WindowID, patch Patch) {
	w := s.lookup(id)
	if w == nil {
		return
	}
	if patch.Title != nil {
		w.Title = *patch.Title
	}
	if patch.Position != nil {
		w.Position = geometry.SanitizePoint(*patch.Position)
	}
	if patch.Size != nil {
		w.Size = geometry.SanitizeSize(*patch.Size)
	}
	if patch.Pinned != nil {
		w.Pinned = *patch.Pinned
	}
	s.notify(ChangeUpdated, id)
}

// BringToFront moves the window to the top of the z-order.
func (s *Store) BringToFront(id WindowID) {
	idx := s.indexOf(id)
	if idx < 0 || idx == len(s.windows)-1 {
		return
	}
	w := s.windows[idx]
	s.windows = append(s.windows[:idx], s.windows[idx+1:]...)
	s.windows = append(s.windows, w)
	s.notify(ChangeReordered, id)
}

// Get returns a copy of the window record.
func (s *Store) Get(id WindowID) (Window, bool) {
	w := s.lookup(id)
	if w == nil {
		return Window{}, false
	}
	return w.clone(), true
}

// Lookup returns the window open for a resource key.
func (s *Store) Lookup(resourceKey string) (WindowID, bool) {
	id, ok := s.keys[resourceKey]
	return id, ok
}

// Len returns the number of open windows, minimized included.
func (s *Store) Len() int {
	return len(s.windows)
}

// Windows returns copies of every window in z-order.
func (s *Store) Windows() []Window {
	out := make([]Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w.clone())
	}
	return out
}

// Visible returns copies of the non-minimized windows in z-order.
func (s *Store) Visible() []Window {
	out := make([]Window, 0, len(s.windows))
	for _, w := range s.windows {
		if !w.Minimized {
			out = append(out, w.clone())
		}
	}
	return out
}

// Focused returns the focused window id, or "" when nothing has focus.
func (s *Store) Focused() WindowID {
	return s.focused
}

// Viewport returns the current viewport size.
func (s *Store) Viewport() geometry.Size {
	return s.viewport
}

// Padding returns the snap-grid padding.
func (s *Store) Padding() float64 {
	return s.padding
}

// SetViewport records a new viewport size. Snapped windows are re-laid onto
// the new grid and free windows are pulled back inside the viewport.
func (s *Store) SetViewport(size geometry.Size) {
	if size.Width <= 0 || size.Height <= 0 || size == s.viewport {
		return
	}
	s.viewport = size
	for _, w := range s.windows {
		if w.Zoomed() {
			if rect, ok := geometry.ZoomRect(w.Zoom, s.viewport, s.padding); ok {
				w.Position = rect.Position()
				w.Size = rect.Size()
			}
			continue
		}
		w.Position = geometry.ClampDrag(w.Position, w.Size, s.viewport)
	}
	s.logger.Debug("viewport changed", "viewport", size.String())
	s.notify(ChangeViewport, "")
}

func (s *Store) indexOf(id WindowID) int {
	if id == "" {
		return -1
	}
	for i, w := range s.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) lookup(id WindowID) *Window {
	if idx := s.indexOf(id); idx >= 0 {
		return s.windows[idx]
	}
	return nil
}

// navigableKey rejects keys that can never be previewed: empty, bare
// fragments and javascript: pseudo-links.
func navigableKey(key string) bool {
	if strings.TrimSpace(key) == "" || key == "#" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(key), "javascript:")
}

// Snapshot is a read-only view of the store for renderers.
type Snapshot struct {
	Windows  []Window       `json:"windows"`
	Focused  WindowID       `json:"focused,omitempty"`
	Taskbar  []TaskbarEntry `json:"taskbar"`
	Viewport geometry.Size  `json:"viewport"`
	Padding  float64        `json:"padding"`
}

// Snapshot copies the current state. Windows are listed in z-order and
// include minimized ones.
func (s *Store) Snapshot() Snapshot {
	taskbar := s.Taskbar()
	if taskbar == nil {
		taskbar = []TaskbarEntry{}
	}
	return Snapshot{
		Windows:  s.Windows(),
		Focused:  s.focused,
		Taskbar:  taskbar,
		Viewport: s.viewport,
		Padding:  s.padding,
	}
}
