package ipc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/host"
	"github.com/1broseidon/linkpeek/internal/overlay"
	"github.com/1broseidon/linkpeek/internal/settings"
	"github.com/1broseidon/linkpeek/internal/trigger"
)

func startServer(t *testing.T) *Client {
	t.Helper()
	return startServerWith(t, nil)
}

func startServerWith(t *testing.T, configure func(*Server)) *Client {
	t.Helper()

	// Unix socket paths are length limited, so avoid the long t.TempDir.
	dir, err := os.MkdirTemp("", "lp")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "s.sock")

	n := 0
	sess := host.New(host.Options{
		Viewport:      geometry.Size{Width: 1920, Height: 1080},
		Padding:       10,
		HoverDelay:    10 * time.Millisecond,
		BannedDomains: trigger.DefaultBannedDomains,
		Settings:      settings.NewMemory(settings.Default()),
		NewID: func() overlay.WindowID {
			n++
			return overlay.WindowID(fmt.Sprintf("popup-%d", n))
		},
	})
	ctx, cancel := context.WithCancel(context.Background())
	go sess.Run(ctx)

	srv := NewServer(sess, socket, nil)
	if configure != nil {
		configure(srv)
	}
	require.NoError(t, srv.Start())

	t.Cleanup(func() {
		srv.Stop()
		cancel()
		<-sess.Done()
	})
	return NewClientWithPath(socket)
}

func TestServer_OpenListClose(t *testing.T) {
	c := startServer(t)

	res, err := c.Open("https://example.com/a", "")
	require.NoError(t, err)
	assert.True(t, res.Opened)
	assert.Equal(t, overlay.WindowID("popup-1"), res.ID)

	dup, err := c.Open("https://example.com/a", "")
	require.NoError(t, err)
	assert.False(t, dup.Opened)
	assert.Equal(t, string(trigger.RejectOpen), dup.Reason)

	banned, err := c.Open("https://github.com/x", "")
	require.NoError(t, err)
	assert.False(t, banned.Opened)
	assert.Equal(t, string(trigger.RejectBanned), banned.Reason)

	snap, err := c.List()
	require.NoError(t, err)
	require.Len(t, snap.Windows, 1)
	assert.Equal(t, "example.com", snap.Windows[0].Title)
	assert.Equal(t, overlay.WindowID("popup-1"), snap.Focused)

	require.NoError(t, c.Close(""))
	snap, err = c.List()
	require.NoError(t, err)
	assert.Empty(t, snap.Windows)
}

func TestServer_ZoomAndKeys(t *testing.T) {
	c := startServer(t)

	res, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)

	require.NoError(t, c.Zoom(res.ID, "top-left"))
	snap, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, geometry.ZoomTopLeft, snap.Windows[0].Zoom)
	assert.Equal(t, geometry.Size{Width: 945, Height: 525}, snap.Windows[0].Size)

	action, err := c.Key("r", false)
	require.NoError(t, err)
	assert.Equal(t, "restore", action)

	snap, err = c.List()
	require.NoError(t, err)
	assert.False(t, snap.Windows[0].Zoomed())

	assert.Error(t, c.Zoom(res.ID, "middle"))
	_, err = c.Key("", false)
	assert.Error(t, err)
}

func TestServer_MinimizeTaskbarRestore(t *testing.T) {
	c := startServer(t)

	a, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)
	_, err = c.Open("https://example.com/b", "B")
	require.NoError(t, err)

	require.NoError(t, c.Minimize(a.ID))
	entries, err := c.Taskbar()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].Title)

	require.NoError(t, c.Restore(a.ID))
	entries, err = c.Taskbar()
	require.NoError(t, err)
	assert.Empty(t, entries)

	st, err := c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, st.WindowCount)
	assert.Equal(t, string(a.ID), st.Focused)
	assert.True(t, st.DaemonRunning)
}

func TestServer_RestoreWithoutID(t *testing.T) {
	c := startServer(t)

	a, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)
	b, err := c.Open("https://example.com/b", "B")
	require.NoError(t, err)

	// Empty taskbar: nothing to restore.
	require.NoError(t, c.Restore(""))

	require.NoError(t, c.Minimize(a.ID))
	require.NoError(t, c.Minimize(b.ID))

	require.NoError(t, c.Restore(""))
	entries, err := c.Taskbar()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, a.ID, entries[0].ID)

	snap, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, b.ID, snap.Focused)
}

func TestServer_PinAll(t *testing.T) {
	c := startServer(t)

	_, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)
	_, err = c.Open("https://example.com/b", "B")
	require.NoError(t, err)

	pinned, err := c.Pin("", true)
	require.NoError(t, err)
	assert.True(t, pinned)

	snap, err := c.List()
	require.NoError(t, err)
	for _, w := range snap.Windows {
		assert.True(t, w.Pinned, w.ID)
	}
}

func TestServer_HoverOpensAfterDelay(t *testing.T) {
	c := startServer(t)

	armed, err := c.Hover("link-1", "https://example.com/h", "")
	require.NoError(t, err)
	require.True(t, armed)

	require.Eventually(t, func() bool {
		snap, err := c.List()
		return err == nil && len(snap.Windows) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestServer_PointerDrag(t *testing.T) {
	c := startServer(t)

	res, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)

	pd, err := c.Pointer(host.PointerEvent{Kind: host.PointerDown, ID: res.ID, X: 700, Y: 300, Region: "handle"})
	require.NoError(t, err)
	assert.True(t, pd.Dragging)
	assert.Equal(t, res.ID, pd.Target)

	_, err = c.Pointer(host.PointerEvent{Kind: host.PointerMove, X: -500, Y: -500})
	require.NoError(t, err)
	pd, err = c.Pointer(host.PointerEvent{Kind: host.PointerUp})
	require.NoError(t, err)
	assert.False(t, pd.Dragging)

	snap, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{X: 0, Y: 0}, snap.Windows[0].Position)
}

func TestServer_Submenu(t *testing.T) {
	c := startServer(t)

	res, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)

	sm, err := c.Submenu("zoom", "enter", "")
	require.NoError(t, err)
	assert.Equal(t, res.ID, sm.Zoom)

	require.NoError(t, c.Zoom("", "full"))
	sm, err = c.Submenu("minimize", "hide", "")
	require.NoError(t, err)
	assert.Empty(t, sm.Zoom)

	_, err = c.Submenu("zoom", "wiggle", "")
	assert.Error(t, err)
}

func TestServer_ErrorsAndUnknownCommand(t *testing.T) {
	c := startServer(t)

	assert.Error(t, c.Navigate(0))
	assert.Error(t, c.Viewport(0, 100))
	assert.Error(t, c.call(CommandType("BOGUS"), nil, nil))

	require.NoError(t, c.Viewport(800, 600))
	st, err := c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "800x600", st.Viewport)
}

func TestServer_Ping(t *testing.T) {
	c := startServer(t)
	require.NoError(t, c.Ping())

	resp := (&Server{}).handleCommand(&Request{Command: CommandPing})
	assert.Equal(t, "OK", resp.Status)
	assert.Empty(t, resp.Error)
}

func TestServer_RestoreWithoutPayload(t *testing.T) {
	c := startServer(t)

	a, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)
	require.NoError(t, c.Minimize(a.ID))

	require.NoError(t, c.call(CommandRestore, nil, nil))
	entries, err := c.Taskbar()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServer_CopyURL(t *testing.T) {
	var (
		mu     sync.Mutex
		copied []string
	)
	clipped := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), copied...)
	}
	c := startServerWith(t, func(s *Server) {
		s.copyText = func(text string) error {
			mu.Lock()
			copied = append(copied, text)
			mu.Unlock()
			return nil
		}
	})

	res, err := c.CopyURL("")
	require.NoError(t, err)
	assert.Empty(t, res.URL)
	assert.Empty(t, clipped())

	a, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)
	b, err := c.Open("https://example.com/b", "B")
	require.NoError(t, err)

	res, err = c.CopyURL("")
	require.NoError(t, err)
	assert.Equal(t, b.ID, res.ID)
	assert.Equal(t, "https://example.com/b", res.URL)

	res, err = c.CopyURL(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", res.URL)
	assert.Equal(t, []string{"https://example.com/b", "https://example.com/a"}, clipped())
}

func TestServer_CopyURLClipboardFailure(t *testing.T) {
	c := startServerWith(t, func(s *Server) {
		s.copyText = func(string) error { return errors.New("no clipboard utility") }
	})
	_, err := c.Open("https://example.com/a", "A")
	require.NoError(t, err)

	_, err = c.CopyURL("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clipboard utility")
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientWithPath(filepath.Join(t.TempDir(), "missing.sock"))
	assert.Error(t, c.Ping())
}
