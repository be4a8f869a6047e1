package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/ipc"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

type fakeDaemon struct {
	snap     overlay.Snapshot
	keys     []string
	restored []overlay.WindowID
	err      error
}

func (f *fakeDaemon) List() (*overlay.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.snap, nil
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{WindowCount: len(f.snap.Windows), Enabled: true, Mode: "external", Viewport: f.snap.Viewport.String()}, nil
}

func (f *fakeDaemon) Key(key string, alt bool) (string, error) {
	f.keys = append(f.keys, key)
	return "zoom", nil
}

func (f *fakeDaemon) Restore(id overlay.WindowID) error {
	f.restored = append(f.restored, id)
	return nil
}

func sampleSnapshot() overlay.Snapshot {
	return overlay.Snapshot{
		Windows: []overlay.Window{
			{ID: "popup-1", Title: "A", Position: geometry.Point{X: 0, Y: 0}, Size: geometry.Size{Width: 500, Height: 500}},
			{ID: "popup-2", Title: "B", Minimized: true},
			{ID: "popup-3", Title: "C", Minimized: true},
		},
		Focused:  "popup-1",
		Taskbar:  []overlay.TaskbarEntry{{ID: "popup-2", Title: "B"}, {ID: "popup-3", Title: "C"}},
		Viewport: geometry.Size{Width: 1000, Height: 1000},
	}
}

// run applies msg and executes the returned command once, feeding its
// result back into the model.
func run(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, isBatch := out.(tea.BatchMsg); !isBatch {
				next, _ = m.Update(out)
				m = next.(model)
			}
		}
	}
	return m
}

func TestModel_RefreshAndTaskbarRestore(t *testing.T) {
	d := &fakeDaemon{snap: sampleSnapshot()}
	m := newModel(d)
	m = run(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = run(t, m, refreshMsg{snap: &d.snap, status: &ipc.StatusData{}})
	require.True(t, m.connected)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.taskIndex)
	m = run(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.taskIndex)
	m = run(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, m.taskIndex)

	m = run(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []overlay.WindowID{"popup-3"}, d.restored)
	assert.Equal(t, "restored C", m.lastEvent)
}

func TestModel_ForwardsOverlayKeys(t *testing.T) {
	d := &fakeDaemon{snap: sampleSnapshot()}
	m := newModel(d)
	m = run(t, m, refreshMsg{snap: &d.snap, status: &ipc.StatusData{}})

	m = run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	m = run(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c"), Alt: true})
	run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})

	assert.Equal(t, []string{"f", "esc", "alt+c"}, d.keys)
}

func TestModel_DisconnectedDropsKeys(t *testing.T) {
	d := &fakeDaemon{err: errors.New("failed to connect to daemon")}
	m := newModel(d)
	m = run(t, m, m.refresh()())
	assert.False(t, m.connected)
	assert.Contains(t, m.lastError, "failed to connect")

	run(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	assert.Empty(t, d.keys)
}

func TestModel_ViewShowsTaskbarAndStatus(t *testing.T) {
	d := &fakeDaemon{snap: sampleSnapshot()}
	m := newModel(d)
	m = run(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = run(t, m, m.refresh()())

	view := m.View()
	assert.Contains(t, view, "daemon connected")
	assert.Contains(t, view, "windows:3")
	assert.Contains(t, view, "B")
	assert.Contains(t, view, "1*")
}

func TestRenderWindowMap(t *testing.T) {
	snap := overlay.Snapshot{
		Windows: []overlay.Window{
			{ID: "a", Position: geometry.Point{X: 0, Y: 0}, Size: geometry.Size{Width: 500, Height: 500}},
			{ID: "b", Position: geometry.Point{X: 500, Y: 500}, Size: geometry.Size{Width: 500, Height: 500}},
			{ID: "c", Minimized: true, Position: geometry.Point{X: 0, Y: 0}, Size: geometry.Size{Width: 1000, Height: 1000}},
		},
		Focused:  "b",
		Viewport: geometry.Size{Width: 1000, Height: 1000},
	}

	lines := renderWindowMap(&snap, 20, 10)
	require.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "╔"))
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "1")
	assert.Contains(t, joined, "2*")
	assert.NotContains(t, joined, "3", "minimized windows are not drawn")
}

func TestRenderWindowMap_TooSmall(t *testing.T) {
	lines := renderWindowMap(nil, 3, 2)
	assert.Equal(t, []string{"   ", "   "}, lines)
}
