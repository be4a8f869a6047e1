package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/host"
	"github.com/1broseidon/linkpeek/internal/hotkeys"
	"github.com/1broseidon/linkpeek/internal/overlay"
	"github.com/1broseidon/linkpeek/internal/trigger"
)

// requestTimeout bounds how long one request may wait for the event loop.
const requestTimeout = 5 * time.Second

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	session      *host.Session
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup

	// copyText writes to the system clipboard.
	copyText func(string) error
}

// NewServer creates a server that will listen on socketPath.
func NewServer(session *host.Session, socketPath string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		session:    session,
		logger:     logger,
		copyText:   clipboard.WriteAll,
	}
}

// SocketPath returns the socket the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a previous run.
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket file.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	if s.shuttingDown || s.listener == nil {
		s.shutdownMu.Unlock()
		return nil
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	err := s.listener.Close()
	s.conns.Wait()
	os.Remove(s.socketPath)
	return err
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection reads one request line and writes one response line.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * requestTimeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		s.logger.Debug("IPC request", "command", string(req.Command))
		resp = s.handleCommand(req)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand decodes the payload, runs the command on the session loop
// and builds the response.
func (s *Server) handleCommand(req *Request) *Response {
	handler, ok := handlers[req.Command]
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	data, err := handler(ctx, s, req)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

type handlerFunc func(ctx context.Context, s *Server, req *Request) (any, error)

var handlers = map[CommandType]handlerFunc{
	CommandOpen:           handleOpen,
	CommandHover:          handleHover,
	CommandUnhover:        handleUnhover,
	CommandSetPage:        handleSetPage,
	CommandClose:          handleClose,
	CommandCloseAll:       handleCloseAll,
	CommandFocus:          handleFocus,
	CommandNavigate:       handleNavigate,
	CommandZoom:           handleZoom,
	CommandMinimize:       handleMinimize,
	CommandRestore:        handleRestore,
	CommandRestoreSize:    handleRestoreSize,
	CommandPin:            handlePin,
	CommandKey:            handleKey,
	CommandPointer:        handlePointer,
	CommandSubmenu:        handleSubmenu,
	CommandList:           handleList,
	CommandTaskbar:        handleTaskbar,
	CommandViewport:       handleViewport,
	CommandStatus:         handleStatus,
	CommandReloadSettings: handleReloadSettings,
	CommandCopyURL:        handleCopyURL,
	CommandPing:           handlePing,
}

// target resolves an empty id to the focused window.
func target(sess *host.Session, id overlay.WindowID) overlay.WindowID {
	if id == "" {
		return sess.Store().Focused()
	}
	return id
}

func handleOpen(ctx context.Context, s *Server, req *Request) (any, error) {
	var p OpenPayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	var out OpenData
	err := s.session.Do(ctx, func(sess *host.Session) {
		id, verdict := sess.Open(p.URL, p.Title)
		out = OpenData{ID: id, Opened: verdict == trigger.Allowed, Reason: string(verdict)}
	})
	return out, err
}

func handleHover(ctx context.Context, s *Server, req *Request) (any, error) {
	var p HoverPayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	var out HoverData
	err := s.session.Do(ctx, func(sess *host.Session) {
		out.Armed = sess.Gateway().HoverEnter(p.LinkID, p.URL, p.Title)
	})
	return out, err
}

func handleUnhover(ctx context.Context, s *Server, req *Request) (any, error) {
	var p HoverPayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.Gateway().HoverLeave(p.LinkID)
	})
}

func handleSetPage(ctx context.Context, s *Server, req *Request) (any, error) {
	var p PagePayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.Gateway().SetPage(p.Path)
	})
}

func handleClose(ctx context.Context, s *Server, req *Request) (any, error) {
	var p WindowPayload
	if len(req.Payload) > 0 {
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.CloseWindow(target(sess, p.ID))
	})
}

func handleCloseAll(ctx context.Context, s *Server, _ *Request) (any, error) {
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.CloseAll()
	})
}

func handleFocus(ctx context.Context, s *Server, req *Request) (any, error) {
	var p WindowPayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.Store().Focus(p.ID)
	})
}

func handleNavigate(ctx context.Context, s *Server, req *Request) (any, error) {
	var p NavigatePayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	if p.Direction != 1 && p.Direction != -1 {
		return nil, fmt.Errorf("direction must be 1 or -1")
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.Store().Navigate(p.Direction)
	})
}

func handleZoom(ctx context.Context, s *Server, req *Request) (any, error) {
	var p ZoomPayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	pos, err := geometry.ParseZoomPosition(p.Position)
	if err != nil {
		return nil, err
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.Zoom(target(sess, p.ID), pos)
	})
}

func handleMinimize(ctx context.Context, s *Server, req *Request) (any, error) {
	var p WindowPayload
	if len(req.Payload) > 0 {
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.Minimize(target(sess, p.ID))
	})
}

func handleRestore(ctx context.Context, s *Server, req *Request) (any, error) {
	var p WindowPayload
	if len(req.Payload) > 0 {
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		id := p.ID
		if id == "" {
			// Topmost minimized window.
			if bar := sess.Store().Taskbar(); len(bar) > 0 {
				id = bar[len(bar)-1].ID
			}
		}
		sess.Store().RestoreFromMinimize(id)
		sess.Submenus().Hide(trigger.SubmenuMinimize)
	})
}

func handleRestoreSize(ctx context.Context, s *Server, req *Request) (any, error) {
	var p WindowPayload
	if len(req.Payload) > 0 {
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.RestoreSize(target(sess, p.ID))
	})
}

func handlePin(ctx context.Context, s *Server, req *Request) (any, error) {
	var p PinPayload
	if len(req.Payload) > 0 {
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
	}
	var out PinData
	var found bool
	err := s.session.Do(ctx, func(sess *host.Session) {
		out.Pinned, found = sess.Store().TogglePin(target(sess, p.ID))
		if found && p.All {
			sess.Store().SetPinnedAll(out.Pinned)
		}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return out, nil
}

func handleKey(ctx context.Context, s *Server, req *Request) (any, error) {
	var p KeyPayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	ev, err := hotkeys.ParseKey(p.Key)
	if err != nil {
		return nil, err
	}
	ev.Alt = ev.Alt || p.Alt

	var out KeyData
	err = s.session.Do(ctx, func(sess *host.Session) {
		out.Action = string(sess.Key(ev))
	})
	return out, err
}

func handlePointer(ctx context.Context, s *Server, req *Request) (any, error) {
	var p host.PointerEvent
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	var out PointerData
	var perr error
	err := s.session.Do(ctx, func(sess *host.Session) {
		out.Dragging, perr = sess.Pointer(p)
		out.Target = sess.Drag().Target()
	})
	if err != nil {
		return nil, err
	}
	return out, perr
}

func handleSubmenu(ctx context.Context, s *Server, req *Request) (any, error) {
	var p SubmenuPayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	kind, err := trigger.ParseSubmenuKind(p.Kind)
	if err != nil {
		return nil, err
	}
	switch p.Action {
	case "enter", "leave", "hide":
	default:
		return nil, fmt.Errorf("unknown submenu action %q", p.Action)
	}

	var out SubmenuData
	err = s.session.Do(ctx, func(sess *host.Session) {
		sm := sess.Submenus()
		switch p.Action {
		case "enter":
			sm.Enter(kind, target(sess, p.ID))
		case "leave":
			sm.Leave(kind)
		case "hide":
			sm.Hide(kind)
		}
		out = SubmenuData{Zoom: sm.Open(trigger.SubmenuZoom), Minimize: sm.Open(trigger.SubmenuMinimize)}
	})
	return out, err
}

func handleList(ctx context.Context, s *Server, _ *Request) (any, error) {
	var out overlay.Snapshot
	err := s.session.Do(ctx, func(sess *host.Session) {
		out = sess.Store().Snapshot()
	})
	return out, err
}

func handleTaskbar(ctx context.Context, s *Server, _ *Request) (any, error) {
	out := []overlay.TaskbarEntry{}
	err := s.session.Do(ctx, func(sess *host.Session) {
		out = append(out, sess.Store().Taskbar()...)
	})
	return out, err
}

func handleViewport(ctx context.Context, s *Server, req *Request) (any, error) {
	var p ViewportPayload
	if err := decodePayload(req, &p); err != nil {
		return nil, err
	}
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("viewport must be positive, got %vx%v", p.Width, p.Height)
	}
	return nil, s.session.Do(ctx, func(sess *host.Session) {
		sess.SetViewport(geometry.Size{Width: p.Width, Height: p.Height})
	})
}

func handleStatus(ctx context.Context, s *Server, _ *Request) (any, error) {
	st := s.session.Settings().Current()
	out := StatusData{
		StartedAt:     s.session.StartedAt(),
		UptimeSeconds: int64(time.Since(s.session.StartedAt()).Seconds()),
		Enabled:       st.Enabled,
		Mode:          string(st.Mode),
		DaemonRunning: true,
	}
	err := s.session.Do(ctx, func(sess *host.Session) {
		store := sess.Store()
		out.WindowCount = store.Len()
		out.Minimized = len(store.Taskbar())
		out.Focused = string(store.Focused())
		out.Viewport = store.Viewport().String()
		out.Page = sess.Gateway().Page()
	})
	return out, err
}

func handleReloadSettings(_ context.Context, s *Server, _ *Request) (any, error) {
	if err := s.session.Settings().Reload(); err != nil {
		return nil, fmt.Errorf("failed to reload settings: %w", err)
	}
	st := s.session.Settings().Current()
	s.logger.Info("settings reloaded", "enabled", st.Enabled, "mode", string(st.Mode))
	return st, nil
}

// handleCopyURL resolves the window on the loop and writes its URL to the
// clipboard afterwards, so a slow clipboard helper never stalls the loop.
func handleCopyURL(ctx context.Context, s *Server, req *Request) (any, error) {
	var p WindowPayload
	if len(req.Payload) > 0 {
		if err := decodePayload(req, &p); err != nil {
			return nil, err
		}
	}
	var out CopyData
	err := s.session.Do(ctx, func(sess *host.Session) {
		id := target(sess, p.ID)
		if w, ok := sess.Store().Get(id); ok {
			out = CopyData{ID: w.ID, URL: w.ResourceKey}
		}
	})
	if err != nil || out.URL == "" {
		return out, err
	}
	if err := s.copyText(out.URL); err != nil {
		return nil, fmt.Errorf("failed to copy url: %w", err)
	}
	s.logger.Debug("url copied", "id", out.ID)
	return out, nil
}

func handlePing(context.Context, *Server, *Request) (any, error) {
	return nil, nil
}
