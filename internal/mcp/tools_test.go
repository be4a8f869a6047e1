package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/ipc"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

type fakeDaemon struct {
	calls    []string
	snapshot overlay.Snapshot
	open     ipc.OpenData
	action   string
	err      error
}

func (f *fakeDaemon) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeDaemon) Open(url, title string) (*ipc.OpenData, error) {
	if err := f.record("open " + url); err != nil {
		return nil, err
	}
	return &f.open, nil
}

func (f *fakeDaemon) List() (*overlay.Snapshot, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	return &f.snapshot, nil
}

func (f *fakeDaemon) Close(id overlay.WindowID) error { return f.record("close " + string(id)) }
func (f *fakeDaemon) CloseAll() error                 { return f.record("close-all") }

func (f *fakeDaemon) Zoom(id overlay.WindowID, position string) error {
	return f.record("zoom " + string(id) + " " + position)
}

func (f *fakeDaemon) Minimize(id overlay.WindowID) error    { return f.record("minimize " + string(id)) }
func (f *fakeDaemon) Restore(id overlay.WindowID) error     { return f.record("restore " + string(id)) }
func (f *fakeDaemon) RestoreSize(id overlay.WindowID) error { return f.record("restore-size " + string(id)) }

func (f *fakeDaemon) Key(key string, alt bool) (string, error) {
	name := key
	if alt {
		name = "alt+" + key
	}
	if err := f.record("key " + name); err != nil {
		return "", err
	}
	return f.action, nil
}

func (f *fakeDaemon) CopyURL(id overlay.WindowID) (*ipc.CopyData, error) {
	if err := f.record("copy " + string(id)); err != nil {
		return nil, err
	}
	for _, w := range f.snapshot.Windows {
		if w.ID == id || (id == "" && w.ID == f.snapshot.Focused) {
			return &ipc.CopyData{ID: w.ID, URL: w.ResourceKey}, nil
		}
	}
	return &ipc.CopyData{}, nil
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if err := f.record("status"); err != nil {
		return nil, err
	}
	return &ipc.StatusData{WindowCount: 3, Minimized: 1, Focused: "popup-2", Enabled: true, Mode: "external", Viewport: "1920x1080", UptimeSeconds: 90}, nil
}

func TestOpenPreview(t *testing.T) {
	d := &fakeDaemon{open: ipc.OpenData{ID: "popup-1", Opened: true, Reason: "allowed"}}
	s := NewServer(d, nil)

	_, out, err := s.handleOpenPreview(context.Background(), nil, OpenPreviewInput{URL: " https://example.com "})
	require.NoError(t, err)
	assert.Equal(t, OpenPreviewOutput{ID: "popup-1", Opened: true, Reason: "allowed"}, out)
	assert.Equal(t, []string{"open https://example.com"}, d.calls)

	_, _, err = s.handleOpenPreview(context.Background(), nil, OpenPreviewInput{URL: "  "})
	assert.Error(t, err)
}

func TestListPreviews_FiltersMinimized(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := &fakeDaemon{snapshot: overlay.Snapshot{
		Windows: []overlay.Window{
			{ID: "popup-1", ResourceKey: "https://a.example", Title: "A", Minimized: true, CreatedAt: created},
			{ID: "popup-2", ResourceKey: "https://b.example", Title: "B", Zoom: geometry.ZoomFull,
				Position: geometry.Point{X: 10, Y: 10}, Size: geometry.Size{Width: 1900, Height: 1060}, CreatedAt: created},
		},
		Focused:  "popup-2",
		Viewport: geometry.Size{Width: 1920, Height: 1080},
	}}
	s := NewServer(d, nil)

	_, all, err := s.handleListPreviews(context.Background(), nil, ListPreviewsInput{})
	require.NoError(t, err)
	require.Len(t, all.Previews, 2)
	assert.Equal(t, "1920x1080", all.Viewport)
	assert.True(t, all.Previews[1].Focused)
	assert.Equal(t, "full", all.Previews[1].Zoom)

	hide := false
	_, visible, err := s.handleListPreviews(context.Background(), nil, ListPreviewsInput{IncludeMinimized: &hide})
	require.NoError(t, err)
	require.Len(t, visible.Previews, 1)
	assert.Equal(t, "popup-2", visible.Previews[0].ID)
}

func TestCopyPreviewURL(t *testing.T) {
	d := &fakeDaemon{snapshot: overlay.Snapshot{
		Windows: []overlay.Window{{ID: "popup-1", ResourceKey: "https://a.example/post"}},
		Focused: "popup-1",
	}}
	s := NewServer(d, nil)

	_, out, err := s.handleCopyPreviewURL(context.Background(), nil, WindowInput{})
	require.NoError(t, err)
	assert.Equal(t, CopyURLOutput{ID: "popup-1", URL: "https://a.example/post"}, out)

	_, _, err = s.handleCopyPreviewURL(context.Background(), nil, WindowInput{ID: "popup-9"})
	assert.Error(t, err)
	assert.Equal(t, []string{"copy ", "copy popup-9"}, d.calls)
}

func TestZoomPreview_ValidatesPosition(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, nil)

	_, _, err := s.handleZoomPreview(context.Background(), nil, ZoomPreviewInput{ID: "popup-1", Position: "middle"})
	require.Error(t, err)
	assert.ErrorIs(t, err, geometry.ErrInvalidZoomPosition)
	assert.Contains(t, err.Error(), "bottom-right")
	assert.Empty(t, d.calls)

	_, out, err := s.handleZoomPreview(context.Background(), nil, ZoomPreviewInput{ID: "popup-1", Position: "top-left"})
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, []string{"zoom popup-1 top-left"}, d.calls)
}

func TestRestorePreview_DefaultSize(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, nil)

	_, _, err := s.handleRestorePreview(context.Background(), nil, RestorePreviewInput{})
	assert.Error(t, err)

	_, _, err = s.handleRestorePreview(context.Background(), nil, RestorePreviewInput{ID: "popup-3", DefaultSize: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"restore popup-3", "restore-size popup-3"}, d.calls)
}

func TestSendKey(t *testing.T) {
	d := &fakeDaemon{action: "pin-all"}
	s := NewServer(d, nil)

	_, out, err := s.handleSendKey(context.Background(), nil, SendKeyInput{Key: "Alt+C"})
	require.NoError(t, err)
	assert.Equal(t, "pin-all", out.Action)
	assert.Equal(t, []string{"key alt+c"}, d.calls)

	_, _, err = s.handleSendKey(context.Background(), nil, SendKeyInput{Key: "ctrl+shift+p"})
	assert.Error(t, err)
}

func TestGetStatus(t *testing.T) {
	s := NewServer(&fakeDaemon{}, nil)

	_, out, err := s.handleGetStatus(context.Background(), nil, NoInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Windows)
	assert.Equal(t, "1m30s", out.Uptime)
}

func TestDaemonErrorsPropagate(t *testing.T) {
	d := &fakeDaemon{err: errors.New("failed to connect to daemon")}
	s := NewServer(d, nil)

	_, _, err := s.handleClosePreview(context.Background(), nil, WindowInput{})
	assert.ErrorContains(t, err, "failed to connect")
	_, _, err = s.handleCloseAllPreviews(context.Background(), nil, NoInput{})
	assert.Error(t, err)
	_, _, err = s.handleMinimizePreview(context.Background(), nil, WindowInput{ID: "popup-1"})
	assert.Error(t, err)
	_, _, err = s.handleListPreviews(context.Background(), nil, ListPreviewsInput{})
	assert.Error(t, err)
}

func TestClientSatisfiesDaemon(t *testing.T) {
	var _ Daemon = ipc.NewClientWithPath("/nonexistent.sock")
}
