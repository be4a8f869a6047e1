package mcp

import "time"

// OpenPreviewInput is the input for the open_preview tool.
type OpenPreviewInput struct {
	URL   string `json:"url" jsonschema:"Link to preview. Subject to the ban list and the current preview mode."`
	Title string `json:"title,omitempty" jsonschema:"Window title (default: the link's host name)"`
}

// OpenPreviewOutput is the output for the open_preview tool.
type OpenPreviewOutput struct {
	ID     string `json:"id,omitempty"`
	Opened bool   `json:"opened"`
	Reason string `json:"reason"`
}

// PreviewInfo describes one preview window.
type PreviewInfo struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Zoom      string    `json:"zoom,omitempty"`
	Pinned    bool      `json:"pinned"`
	Minimized bool      `json:"minimized"`
	Focused   bool      `json:"focused"`
	CreatedAt time.Time `json:"created_at"`
}

// ListPreviewsInput is the input for the list_previews tool.
type ListPreviewsInput struct {
	IncludeMinimized *bool `json:"include_minimized,omitempty" jsonschema:"Include windows parked in the taskbar (default: true)"`
}

// ListPreviewsOutput is the output for the list_previews tool.
type ListPreviewsOutput struct {
	Previews []PreviewInfo `json:"previews"`
	Focused  string        `json:"focused,omitempty"`
	Viewport string        `json:"viewport"`
}

// WindowInput addresses one preview window.
type WindowInput struct {
	ID string `json:"id,omitempty" jsonschema:"Window id from list_previews (default: the focused window)"`
}

// ZoomPreviewInput is the input for the zoom_preview tool.
type ZoomPreviewInput struct {
	ID       string `json:"id,omitempty" jsonschema:"Window id from list_previews (default: the focused window)"`
	Position string `json:"position" jsonschema:"Grid cell: top-left, top, top-right, left, full, right, bottom-left, bottom, bottom-right; or none to restore. Zooming to the current cell restores."`
}

// RestorePreviewInput is the input for the restore_preview tool.
type RestorePreviewInput struct {
	ID          string `json:"id" jsonschema:"Window id of a minimized preview"`
	DefaultSize bool   `json:"default_size,omitempty" jsonschema:"When true, recenter the window at the default size instead of restoring its previous geometry"`
}

// SendKeyInput is the input for the send_key tool.
type SendKeyInput struct {
	Key string `json:"key" jsonschema:"Key as typed on the command line, e.g. esc, left, right, c, t, r, q, alt+c, alt+esc"`
}

// SendKeyOutput is the output for the send_key tool.
type SendKeyOutput struct {
	Action string `json:"action"`
}

// CopyURLOutput is the output for the copy_preview_url tool.
type CopyURLOutput struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

// ActionOutput is the output for tools that only report success.
type ActionOutput struct {
	OK bool `json:"ok"`
}

// NoInput is the input for tools without arguments.
type NoInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	Windows   int    `json:"windows"`
	Minimized int    `json:"minimized"`
	Focused   string `json:"focused,omitempty"`
	Enabled   bool   `json:"enabled"`
	Mode      string `json:"mode"`
	Viewport  string `json:"viewport"`
	Uptime    string `json:"uptime"`
}
