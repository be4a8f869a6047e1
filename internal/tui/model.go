package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/linkpeek/internal/ipc"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

const refreshInterval = 500 * time.Millisecond

// Daemon is the subset of the IPC client the monitor uses.
type Daemon interface {
	List() (*overlay.Snapshot, error)
	GetStatus() (*ipc.StatusData, error)
	Key(key string, alt bool) (string, error)
	Restore(id overlay.WindowID) error
}

type refreshMsg struct {
	snap   *overlay.Snapshot
	status *ipc.StatusData
	err    error
}

type tickMsg time.Time

type actionMsg struct {
	desc string
	err  error
}

// model is the root bubbletea model for the monitor.
type model struct {
	daemon Daemon
	keys   keyMap
	help   help.Model

	snap      *overlay.Snapshot
	status    *ipc.StatusData
	connected bool
	lastError string
	lastEvent string

	taskIndex int

	width  int
	height int
}

func newModel(daemon Daemon) model {
	return model{
		daemon: daemon,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) refresh() tea.Cmd {
	daemon := m.daemon
	return func() tea.Msg {
		snap, err := daemon.List()
		if err != nil {
			return refreshMsg{err: err}
		}
		status, err := daemon.GetStatus()
		return refreshMsg{snap: snap, status: status, err: err}
	}
}

func (m model) sendKey(name string) tea.Cmd {
	daemon := m.daemon
	return func() tea.Msg {
		action, err := daemon.Key(name, false)
		return actionMsg{desc: fmt.Sprintf("%s → %s", name, action), err: err}
	}
}

func (m model) restore(entry overlay.TaskbarEntry) tea.Cmd {
	daemon := m.daemon
	return func() tea.Msg {
		err := daemon.Restore(entry.ID)
		return actionMsg{desc: "restored " + entry.Title, err: err}
	}
}

func (m model) taskbar() []overlay.TaskbarEntry {
	if m.snap == nil {
		return nil
	}
	return m.snap.Taskbar
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())

	case refreshMsg:
		if msg.err != nil {
			m.connected = false
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.connected = true
		m.lastError = ""
		m.snap = msg.snap
		m.status = msg.status
		if n := len(m.taskbar()); m.taskIndex >= n {
			m.taskIndex = max(0, n-1)
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.lastError = ""
		m.lastEvent = msg.desc
		return m, m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh()
		case key.Matches(msg, m.keys.NextTask):
			if n := len(m.taskbar()); n > 0 {
				m.taskIndex = (m.taskIndex + 1) % n
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevTask):
			if n := len(m.taskbar()); n > 0 {
				m.taskIndex = (m.taskIndex - 1 + n) % n
			}
			return m, nil
		case key.Matches(msg, m.keys.RestoreTask):
			if entries := m.taskbar(); m.taskIndex < len(entries) {
				return m, m.restore(entries[m.taskIndex])
			}
			return m, nil
		case key.Matches(msg, m.keys.Overlay):
			if !m.connected {
				return m, nil
			}
			return m, m.sendKey(msg.String())
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.status, m.width)
	taskbar := renderTaskbar(m.taskbar(), m.taskIndex, m.width)
	footer := renderFooter(m.lastEvent, m.lastError, m.width)
	helpBar := helpStyle.Width(m.width).Render(m.help.View(m.keys))

	used := lipgloss.Height(statusBar) + lipgloss.Height(taskbar) + lipgloss.Height(footer) + lipgloss.Height(helpBar)
	mapHeight := m.height - used
	if mapHeight < 3 {
		mapHeight = 3
	}
	canvas := strings.Join(renderWindowMap(m.snap, m.width, mapHeight), "\n")

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		canvas,
		taskbar,
		footer,
		helpBar,
	)
}
