// Package mcp exposes the preview overlay to MCP clients. Every tool is a
// thin call through the daemon's IPC client.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/linkpeek/internal/ipc"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

const (
	ServerName    = "linkpeek"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools use.
type Daemon interface {
	Open(url, title string) (*ipc.OpenData, error)
	List() (*overlay.Snapshot, error)
	Close(id overlay.WindowID) error
	CloseAll() error
	Zoom(id overlay.WindowID, position string) error
	Minimize(id overlay.WindowID) error
	Restore(id overlay.WindowID) error
	RestoreSize(id overlay.WindowID) error
	Key(key string, alt bool) (string, error)
	CopyURL(id overlay.WindowID) (*ipc.CopyData, error)
	GetStatus() (*ipc.StatusData, error)
}

// Server is the MCP server for linkpeek.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_preview",
		Description: "Open a floating preview window for a link. Returns the window id, or opened=false with a reason (banned, internal, off, disabled, excluded-page, already-open, invalid) when the link is not admitted.",
	}, s.handleOpenPreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_previews",
		Description: "List open preview windows in stacking order (last is topmost), with geometry, zoom cell, pin and minimize state.",
	}, s.handleListPreviews)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_preview",
		Description: "Close one preview window. Focus moves to the topmost remaining visible window.",
	}, s.handleClosePreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_all_previews",
		Description: "Close every preview window, minimized ones included.",
	}, s.handleCloseAllPreviews)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "zoom_preview",
		Description: "Snap a preview window to a cell of the 3x3 screen grid, or restore its previous geometry with position none.",
	}, s.handleZoomPreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_preview",
		Description: "Park a preview window in the taskbar. Its geometry is kept for restore.",
	}, s.handleMinimizePreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_preview",
		Description: "Bring a minimized preview window back from the taskbar and focus it.",
	}, s.handleRestorePreview)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "send_key",
		Description: "Send a key press to the focused preview window, exactly as if typed. Returns the action it triggered (none when the key did nothing).",
	}, s.handleSendKey)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "copy_preview_url",
		Description: "Copy a preview window's URL to the clipboard of the machine running the daemon, and return it.",
	}, s.handleCopyPreviewURL)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon status: window counts, focus, preview mode and viewport.",
	}, s.handleGetStatus)
}
