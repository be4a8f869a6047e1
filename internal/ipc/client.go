package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/linkpeek/internal/host"
	"github.com/1broseidon/linkpeek/internal/overlay"
	"github.com/1broseidon/linkpeek/internal/runtimepath"
	"github.com/1broseidon/linkpeek/internal/settings"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for an explicit socket path.
func NewClientWithPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SocketPath returns the socket the client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with an optional payload and decodes the response data into
// out when out is non-nil.
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = raw
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Open asks the daemon to preview url.
func (c *Client) Open(url, title string) (*OpenData, error) {
	var out OpenData
	if err := c.call(CommandOpen, OpenPayload{URL: url, Title: title}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Hover reports the pointer entering a link.
func (c *Client) Hover(linkID, url, title string) (bool, error) {
	var out HoverData
	err := c.call(CommandHover, HoverPayload{LinkID: linkID, URL: url, Title: title}, &out)
	return out.Armed, err
}

// Unhover reports the pointer leaving a link.
func (c *Client) Unhover(linkID string) error {
	return c.call(CommandUnhover, HoverPayload{LinkID: linkID}, nil)
}

// SetPage tells the daemon which page the user is on.
func (c *Client) SetPage(path string) error {
	return c.call(CommandSetPage, PagePayload{Path: path}, nil)
}

// Close closes a window; an empty id closes the focused one.
func (c *Client) Close(id overlay.WindowID) error {
	return c.call(CommandClose, WindowPayload{ID: id}, nil)
}

// CloseAll closes every window.
func (c *Client) CloseAll() error {
	return c.call(CommandCloseAll, nil, nil)
}

// Focus focuses and raises a window.
func (c *Client) Focus(id overlay.WindowID) error {
	return c.call(CommandFocus, WindowPayload{ID: id}, nil)
}

// Navigate cycles focus forward (1) or backward (-1).
func (c *Client) Navigate(direction int) error {
	return c.call(CommandNavigate, NavigatePayload{Direction: direction}, nil)
}

// Zoom snaps a window to a grid position, or restores it for "none".
func (c *Client) Zoom(id overlay.WindowID, position string) error {
	return c.call(CommandZoom, ZoomPayload{ID: id, Position: position}, nil)
}

// Minimize sends a window to the taskbar.
func (c *Client) Minimize(id overlay.WindowID) error {
	return c.call(CommandMinimize, WindowPayload{ID: id}, nil)
}

// Restore brings a window back from the taskbar.
func (c *Client) Restore(id overlay.WindowID) error {
	return c.call(CommandRestore, WindowPayload{ID: id}, nil)
}

// RestoreSize recenters a window at the default size.
func (c *Client) RestoreSize(id overlay.WindowID) error {
	return c.call(CommandRestoreSize, WindowPayload{ID: id}, nil)
}

// Pin toggles the pin of a window. With all set, every window takes the
// resulting value.
func (c *Client) Pin(id overlay.WindowID, all bool) (bool, error) {
	var out PinData
	err := c.call(CommandPin, PinPayload{ID: id, All: all}, &out)
	return out.Pinned, err
}

// Key sends a key press and returns the action it triggered.
func (c *Client) Key(key string, alt bool) (string, error) {
	var out KeyData
	err := c.call(CommandKey, KeyPayload{Key: key, Alt: alt}, &out)
	return out.Action, err
}

// Pointer sends a pointer event.
func (c *Client) Pointer(ev host.PointerEvent) (*PointerData, error) {
	var out PointerData
	if err := c.call(CommandPointer, ev, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submenu reports pointer enter/leave on a popover trigger, or hides it.
func (c *Client) Submenu(kind, action string, id overlay.WindowID) (*SubmenuData, error) {
	var out SubmenuData
	if err := c.call(CommandSubmenu, SubmenuPayload{Kind: kind, Action: action, ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns the current overlay snapshot.
func (c *Client) List() (*overlay.Snapshot, error) {
	var out overlay.Snapshot
	if err := c.call(CommandList, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Taskbar returns the minimized windows in minimize order.
func (c *Client) Taskbar() ([]overlay.TaskbarEntry, error) {
	var out []overlay.TaskbarEntry
	err := c.call(CommandTaskbar, nil, &out)
	return out, err
}

// Viewport resizes the daemon's viewport.
func (c *Client) Viewport(width, height float64) error {
	return c.call(CommandViewport, ViewportPayload{Width: width, Height: height}, nil)
}

// GetStatus queries daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var out StatusData
	if err := c.call(CommandStatus, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReloadSettings makes the daemon re-read its settings file.
func (c *Client) ReloadSettings() (*settings.Settings, error) {
	var out settings.Settings
	if err := c.call(CommandReloadSettings, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CopyURL copies a window's URL to the daemon host's clipboard; an empty id
// copies the focused one.
func (c *Client) CopyURL(id overlay.WindowID) (*CopyData, error) {
	var out CopyData
	if err := c.call(CommandCopyURL, WindowPayload{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks if the daemon is running
func (c *Client) Ping() error {
	return c.call(CommandPing, nil, nil)
}
