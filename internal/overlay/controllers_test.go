package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/linkpeek/internal/geometry"
)

func TestZoomTo_RoundTrip(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	pos := geometry.Point{X: 123, Y: 45}
	size := geometry.Size{Width: 700, Height: 400}
	s.Update(id, Patch{Position: &pos, Size: &size})

	s.ZoomTo(id, geometry.ZoomTopLeft)
	w, _ := s.Get(id)
	assert.Equal(t, geometry.ZoomTopLeft, w.Zoom)
	assert.Equal(t, geometry.Point{X: 10, Y: 10}, w.Position)
	assert.Equal(t, geometry.Size{Width: 945, Height: 525}, w.Size)

	s.ZoomTo(id, geometry.ZoomNone)
	w, _ = s.Get(id)
	assert.Equal(t, geometry.ZoomNone, w.Zoom)
	assert.Equal(t, pos, w.Position)
	assert.Equal(t, size, w.Size)
	assert.Nil(t, w.SavedPosition)
	assert.Nil(t, w.SavedSize)
}

func TestZoomTo_SameCellToggles(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	before, _ := s.Get(id)

	s.ZoomTo(id, geometry.ZoomFull)
	s.ZoomTo(id, geometry.ZoomFull)

	w, _ := s.Get(id)
	assert.Equal(t, geometry.ZoomNone, w.Zoom)
	assert.Equal(t, before.Position, w.Position)
	assert.Equal(t, before.Size, w.Size)
}

func TestZoomTo_SnapChangesKeepFirstSnapshot(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	before, _ := s.Get(id)

	s.ZoomTo(id, geometry.ZoomLeft)
	s.ZoomTo(id, geometry.ZoomBottomRight)
	s.ZoomTo(id, geometry.ZoomTop)

	w, _ := s.Get(id)
	require.NotNil(t, w.SavedPosition)
	assert.Equal(t, before.Position, *w.SavedPosition)
	assert.Equal(t, before.Size, *w.SavedSize)

	s.ZoomTo(id, geometry.ZoomNone)
	w, _ = s.Get(id)
	assert.Equal(t, before.Position, w.Position)
	assert.Equal(t, before.Size, w.Size)
}

func TestZoomTo_IgnoresMinimizedAndUnknown(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	before, _ := s.Get(id)

	s.ZoomTo(id, geometry.ZoomPosition("middle"))
	w, _ := s.Get(id)
	assert.Equal(t, before.Position, w.Position)
	assert.Equal(t, geometry.ZoomNone, w.Zoom)

	s.Minimize(id)
	s.ZoomTo(id, geometry.ZoomFull)
	w, _ = s.Get(id)
	assert.Equal(t, geometry.ZoomNone, w.Zoom)

	s.ZoomTo("popup-missing", geometry.ZoomFull)
}

func TestMinimize_RestorePreservesGeometry(t *testing.T) {
	s := newTestStore(t, nil)
	a := mustCreate(t, s, "https://example.com/a", "A")
	b := mustCreate(t, s, "https://example.com/b", "B")
	pos := geometry.Point{X: 40, Y: 60}
	s.Update(b, Patch{Position: &pos})
	before, _ := s.Get(b)

	s.Minimize(b)
	assert.Equal(t, a, s.Focused())
	assert.Equal(t, []TaskbarEntry{{ID: b, Title: "B"}}, s.Taskbar())
	assert.Equal(t, []WindowID{a}, ids(s.Visible()))

	s.RestoreFromMinimize(b)
	w, _ := s.Get(b)
	assert.False(t, w.Minimized)
	assert.Equal(t, before.Position, w.Position)
	assert.Equal(t, before.Size, w.Size)
	assert.Nil(t, w.SavedPosition)
	assert.Equal(t, b, s.Focused())
	assert.Empty(t, s.Taskbar())
}

func TestMinimize_ZoomedWindowKeepsSnapshot(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	free, _ := s.Get(id)

	s.ZoomTo(id, geometry.ZoomRight)
	snapped, _ := s.Get(id)
	s.Minimize(id)
	assert.Empty(t, s.Focused())

	s.RestoreFromMinimize(id)
	w, _ := s.Get(id)
	assert.Equal(t, geometry.ZoomRight, w.Zoom)
	assert.Equal(t, snapped.Position, w.Position)

	s.ZoomTo(id, geometry.ZoomNone)
	w, _ = s.Get(id)
	assert.Equal(t, free.Position, w.Position)
	assert.Equal(t, free.Size, w.Size)
}

func TestRestoreToDefaultSize(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	s.ZoomTo(id, geometry.ZoomBottom)

	s.RestoreToDefaultSize(id)
	w, _ := s.Get(id)
	assert.Equal(t, geometry.ZoomNone, w.Zoom)
	assert.Equal(t, geometry.Point{X: 660, Y: 290}, w.Position)
	assert.Equal(t, geometry.Size{Width: 600, Height: 500}, w.Size)
	assert.Nil(t, w.SavedPosition)
}

func TestNavigate_Wraps(t *testing.T) {
	s := newTestStore(t, nil)
	a := mustCreate(t, s, "https://example.com/a", "A")
	b := mustCreate(t, s, "https://example.com/b", "B")
	c := mustCreate(t, s, "https://example.com/c", "C")
	require.Equal(t, c, s.Focused())

	s.Navigate(+1)
	assert.Equal(t, a, s.Focused())
	assert.Equal(t, []WindowID{b, c, a}, ids(s.Windows()))

	s.Navigate(-1)
	assert.Equal(t, c, s.Focused())
}

func TestNavigate_SkipsMinimizedAndSingle(t *testing.T) {
	s := newTestStore(t, nil)
	a := mustCreate(t, s, "https://example.com/a", "A")
	b := mustCreate(t, s, "https://example.com/b", "B")

	s.Minimize(a)
	s.Navigate(+1)
	assert.Equal(t, b, s.Focused())

	s.Close(b)
	s.Navigate(+1)
	assert.Empty(t, s.Focused())
}

func TestFocus_RejectsMinimized(t *testing.T) {
	s := newTestStore(t, nil)
	a := mustCreate(t, s, "https://example.com/a", "A")
	b := mustCreate(t, s, "https://example.com/b", "B")
	s.Minimize(a)

	s.Focus(a)
	assert.Equal(t, b, s.Focused())
}

func TestPin(t *testing.T) {
	s := newTestStore(t, nil)
	a := mustCreate(t, s, "https://example.com/a", "A")
	b := mustCreate(t, s, "https://example.com/b", "B")

	pinned, ok := s.TogglePin(b)
	require.True(t, ok)
	assert.True(t, pinned)

	s.SetPinnedAll(pinned)
	wa, _ := s.Get(a)
	assert.True(t, wa.Pinned)

	_, ok = s.TogglePin("popup-missing")
	assert.False(t, ok)
}

func TestDrag_ClampsToViewport(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	size := geometry.Size{Width: 400, Height: 300}
	origin := geometry.Point{X: 100, Y: 100}
	s.Update(id, Patch{Position: &origin, Size: &size})

	d := NewDrag(s)
	require.True(t, d.Begin(id, geometry.Point{X: 100, Y: 100}, RegionHandle))
	assert.Equal(t, DragActive, d.Phase())

	d.Move(geometry.Point{X: -50, Y: -50})
	w, _ := s.Get(id)
	assert.Equal(t, geometry.Point{X: 0, Y: 0}, w.Position)

	d.Move(geometry.Point{X: 5000, Y: 5000})
	w, _ = s.Get(id)
	assert.Equal(t, geometry.Point{X: 1520, Y: 780}, w.Position)

	d.End()
	assert.False(t, d.Active())
	d.Move(geometry.Point{X: 10, Y: 10})
	w, _ = s.Get(id)
	assert.Equal(t, geometry.Point{X: 1520, Y: 780}, w.Position)
}

func TestDrag_KeepsGrabOffset(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")

	d := NewDrag(s)
	require.True(t, d.Begin(id, geometry.Point{X: 700, Y: 300}, RegionHandle))
	d.Move(geometry.Point{X: 740, Y: 320})

	w, _ := s.Get(id)
	assert.Equal(t, geometry.Point{X: 700, Y: 310}, w.Position)
}

func TestDrag_BeginRules(t *testing.T) {
	s := newTestStore(t, nil)
	a := mustCreate(t, s, "https://example.com/a", "A")
	b := mustCreate(t, s, "https://example.com/b", "B")
	d := NewDrag(s)

	assert.False(t, d.Begin(a, geometry.Point{}, RegionContent))
	assert.Equal(t, a, s.Focused(), "pointer-down focuses even without a drag")

	assert.False(t, d.Begin(a, geometry.Point{}, RegionControl))

	s.ZoomTo(b, geometry.ZoomFull)
	assert.False(t, d.Begin(b, geometry.Point{X: 20, Y: 20}, RegionHandle))
	assert.Equal(t, b, s.Focused())

	require.True(t, d.Begin(a, geometry.Point{X: 700, Y: 300}, RegionHandle))
	assert.False(t, d.Begin(a, geometry.Point{X: 700, Y: 300}, RegionHandle), "one drag at a time")
	assert.Equal(t, a, d.Target())
}

func TestDrag_CancelReturnsToOrigin(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	start, _ := s.Get(id)

	d := NewDrag(s)
	require.True(t, d.Begin(id, geometry.Point{X: 700, Y: 300}, RegionHandle))
	d.Move(geometry.Point{X: 100, Y: 100})
	d.Cancel()

	w, _ := s.Get(id)
	assert.Equal(t, start.Position, w.Position)
	assert.False(t, d.Active())
}

func TestDrag_TargetClosedMidDrag(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	d := NewDrag(s)
	require.True(t, d.Begin(id, geometry.Point{X: 700, Y: 300}, RegionHandle))

	s.Close(id)
	d.Move(geometry.Point{X: 10, Y: 10})
	assert.False(t, d.Active())
}

func TestDrag_TargetMinimizedMidDrag(t *testing.T) {
	s := newTestStore(t, nil)
	id := mustCreate(t, s, "https://example.com/a", "A")
	d := NewDrag(s)
	require.True(t, d.Begin(id, geometry.Point{X: 700, Y: 300}, RegionHandle))
	before, _ := s.Get(id)

	s.Minimize(id)
	d.Move(geometry.Point{X: 100, Y: 100})

	w, _ := s.Get(id)
	assert.False(t, d.Active())
	assert.True(t, w.Minimized)
	assert.Equal(t, before.Position, w.Position)
}
