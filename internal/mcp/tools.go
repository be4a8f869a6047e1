package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/hotkeys"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

func (s *Server) handleOpenPreview(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenPreviewInput) (*mcpsdk.CallToolResult, OpenPreviewOutput, error) {
	url := strings.TrimSpace(args.URL)
	if url == "" {
		return nil, OpenPreviewOutput{}, fmt.Errorf("url is required")
	}

	res, err := s.daemon.Open(url, args.Title)
	if err != nil {
		return nil, OpenPreviewOutput{}, err
	}
	s.logger.Debug("mcp open_preview", "url", url, "opened", res.Opened, "reason", res.Reason)
	return nil, OpenPreviewOutput{ID: string(res.ID), Opened: res.Opened, Reason: res.Reason}, nil
}

func (s *Server) handleListPreviews(_ context.Context, _ *mcpsdk.CallToolRequest, args ListPreviewsInput) (*mcpsdk.CallToolResult, ListPreviewsOutput, error) {
	snap, err := s.daemon.List()
	if err != nil {
		return nil, ListPreviewsOutput{}, err
	}

	includeMinimized := args.IncludeMinimized == nil || *args.IncludeMinimized
	out := ListPreviewsOutput{
		Previews: make([]PreviewInfo, 0, len(snap.Windows)),
		Focused:  string(snap.Focused),
		Viewport: snap.Viewport.String(),
	}
	for _, w := range snap.Windows {
		if w.Minimized && !includeMinimized {
			continue
		}
		out.Previews = append(out.Previews, previewInfo(w, snap.Focused))
	}
	return nil, out, nil
}

func previewInfo(w overlay.Window, focused overlay.WindowID) PreviewInfo {
	return PreviewInfo{
		ID:        string(w.ID),
		URL:       w.ResourceKey,
		Title:     w.Title,
		X:         w.Position.X,
		Y:         w.Position.Y,
		Width:     w.Size.Width,
		Height:    w.Size.Height,
		Zoom:      string(w.Zoom),
		Pinned:    w.Pinned,
		Minimized: w.Minimized,
		Focused:   w.ID == focused,
		CreatedAt: w.CreatedAt,
	}
}

func (s *Server) handleClosePreview(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.daemon.Close(overlay.WindowID(args.ID)); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true}, nil
}

func (s *Server) handleCloseAllPreviews(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.daemon.CloseAll(); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true}, nil
}

func (s *Server) handleZoomPreview(_ context.Context, _ *mcpsdk.CallToolRequest, args ZoomPreviewInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	// Validate locally so the model gets the list of valid cells.
	if _, err := geometry.ParseZoomPosition(args.Position); err != nil {
		return nil, ActionOutput{}, fmt.Errorf("%w; valid positions: %s, none", err, zoomPositionList())
	}
	if err := s.daemon.Zoom(overlay.WindowID(args.ID), args.Position); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true}, nil
}

func zoomPositionList() string {
	names := make([]string, 0, len(geometry.ZoomPositions))
	for _, p := range geometry.ZoomPositions {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func (s *Server) handleCopyPreviewURL(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, CopyURLOutput, error) {
	res, err := s.daemon.CopyURL(overlay.WindowID(args.ID))
	if err != nil {
		return nil, CopyURLOutput{}, err
	}
	if res.URL == "" {
		return nil, CopyURLOutput{}, fmt.Errorf("no preview window to copy from")
	}
	return nil, CopyURLOutput{ID: string(res.ID), URL: res.URL}, nil
}

func (s *Server) handleMinimizePreview(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := s.daemon.Minimize(overlay.WindowID(args.ID)); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true}, nil
}

func (s *Server) handleRestorePreview(_ context.Context, _ *mcpsdk.CallToolRequest, args RestorePreviewInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.ID == "" {
		return nil, ActionOutput{}, fmt.Errorf("id is required")
	}
	id := overlay.WindowID(args.ID)
	if err := s.daemon.Restore(id); err != nil {
		return nil, ActionOutput{}, err
	}
	if args.DefaultSize {
		if err := s.daemon.RestoreSize(id); err != nil {
			return nil, ActionOutput{}, err
		}
	}
	return nil, ActionOutput{OK: true}, nil
}

func (s *Server) handleSendKey(_ context.Context, _ *mcpsdk.CallToolRequest, args SendKeyInput) (*mcpsdk.CallToolResult, SendKeyOutput, error) {
	ev, err := hotkeys.ParseKey(args.Key)
	if err != nil {
		return nil, SendKeyOutput{}, err
	}
	action, err := s.daemon.Key(ev.Key, ev.Alt)
	if err != nil {
		return nil, SendKeyOutput{}, err
	}
	return nil, SendKeyOutput{Action: action}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		Windows:   st.WindowCount,
		Minimized: st.Minimized,
		Focused:   st.Focused,
		Enabled:   st.Enabled,
		Mode:      st.Mode,
		Viewport:  st.Viewport,
		Uptime:    (time.Duration(st.UptimeSeconds) * time.Second).String(),
	}, nil
}
