package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/linkpeek/internal/overlay"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOpen           CommandType = "OPEN"
	CommandHover          CommandType = "HOVER"
	CommandUnhover        CommandType = "UNHOVER"
	CommandSetPage        CommandType = "SET_PAGE"
	CommandClose          CommandType = "CLOSE"
	CommandCloseAll       CommandType = "CLOSE_ALL"
	CommandFocus          CommandType = "FOCUS"
	CommandNavigate       CommandType = "NAVIGATE"
	CommandZoom           CommandType = "ZOOM"
	CommandMinimize       CommandType = "MINIMIZE"
	CommandRestore        CommandType = "RESTORE"
	CommandRestoreSize    CommandType = "RESTORE_SIZE"
	CommandPin            CommandType = "PIN"
	CommandKey            CommandType = "KEY"
	CommandPointer        CommandType = "POINTER"
	CommandSubmenu        CommandType = "SUBMENU"
	CommandList           CommandType = "LIST"
	CommandTaskbar        CommandType = "TASKBAR"
	CommandViewport       CommandType = "VIEWPORT"
	CommandStatus         CommandType = "STATUS"
	CommandReloadSettings CommandType = "RELOAD_SETTINGS"
	CommandCopyURL        CommandType = "COPY_URL"
	CommandPing           CommandType = "PING"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OpenPayload is the payload of OPEN.
type OpenPayload struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// OpenData reports the outcome of OPEN. ID is empty when the request was
// not admitted; Reason says why.
type OpenData struct {
	ID     overlay.WindowID `json:"id,omitempty"`
	Opened bool             `json:"opened"`
	Reason string           `json:"reason"`
}

// HoverPayload is the payload of HOVER and UNHOVER.
type HoverPayload struct {
	LinkID string `json:"link_id"`
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
}

// HoverData reports whether a hover timer is armed.
type HoverData struct {
	Armed bool `json:"armed"`
}

// PagePayload is the payload of SET_PAGE.
type PagePayload struct {
	Path string `json:"path"`
}

// WindowPayload addresses one window. An empty ID means the focused one.
type WindowPayload struct {
	ID overlay.WindowID `json:"id,omitempty"`
}

// NavigatePayload is the payload of NAVIGATE.
type NavigatePayload struct {
	Direction int `json:"direction"`
}

// ZoomPayload is the payload of ZOOM. An empty or "none" position restores.
type ZoomPayload struct {
	ID       overlay.WindowID `json:"id,omitempty"`
	Position string           `json:"position"`
}

// PinPayload is the payload of PIN.
type PinPayload struct {
	ID  overlay.WindowID `json:"id,omitempty"`
	All bool             `json:"all,omitempty"`
}

// PinData reports the resulting pin state.
type PinData struct {
	Pinned bool `json:"pinned"`
}

// KeyPayload is the payload of KEY.
type KeyPayload struct {
	Key string `json:"key"`
	Alt bool   `json:"alt,omitempty"`
}

// KeyData reports what a key press did.
type KeyData struct {
	Action string `json:"action"`
}

// PointerData reports the drag state after a POINTER event.
type PointerData struct {
	Dragging bool             `json:"dragging"`
	Target   overlay.WindowID `json:"target,omitempty"`
}

// SubmenuPayload is the payload of SUBMENU. Action is enter, leave or hide.
type SubmenuPayload struct {
	Kind   string           `json:"kind"`
	Action string           `json:"action"`
	ID     overlay.WindowID `json:"id,omitempty"`
}

// SubmenuData reports which window shows each popover.
type SubmenuData struct {
	Zoom     overlay.WindowID `json:"zoom,omitempty"`
	Minimize overlay.WindowID `json:"minimize,omitempty"`
}

// CopyData reports what COPY_URL put on the clipboard. URL is empty when no
// window matched.
type CopyData struct {
	ID  overlay.WindowID `json:"id,omitempty"`
	URL string           `json:"url,omitempty"`
}

// ViewportPayload is the payload of VIEWPORT.
type ViewportPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	WindowCount   int       `json:"window_count"`
	Minimized     int       `json:"minimized"`
	Focused       string    `json:"focused,omitempty"`
	Viewport      string    `json:"viewport"`
	Enabled       bool      `json:"enabled"`
	Mode          string    `json:"mode"`
	Page          string    `json:"page,omitempty"`
	DaemonRunning bool      `json:"daemon_running"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func decodePayload(req *Request, out any) error {
	if len(req.Payload) == 0 {
		return fmt.Errorf("%s requires a payload", req.Command)
	}
	if err := json.Unmarshal(req.Payload, out); err != nil {
		return fmt.Errorf("invalid %s payload: %w", req.Command, err)
	}
	return nil
}
