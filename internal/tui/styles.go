package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/linkpeek/internal/ipc"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	activeEntryStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	entryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Padding(0, 1)
	eventStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
)

// renderStatusBar renders the top bar with daemon and overlay state.
func renderStatusBar(connected bool, status *ipc.StatusData, width int) string {
	var text string
	if connected && status != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " daemon connected",
			fmt.Sprintf("windows:%d", status.WindowCount),
			fmt.Sprintf("minimized:%d", status.Minimized),
			"viewport:" + status.Viewport,
		}
		mode := status.Mode
		if !status.Enabled {
			mode = "disabled"
		}
		parts = append(parts, "mode:"+mode)
		if status.Focused != "" {
			parts = append(parts, "focus:"+status.Focused)
		}
		text = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " daemon not running"
	}
	return barStyle.Width(width).Render(text)
}

// renderTaskbar renders minimized windows as a row of entries.
func renderTaskbar(entries []overlay.TaskbarEntry, selected, width int) string {
	if len(entries) == 0 {
		return barStyle.Width(width).Render("taskbar empty")
	}
	var parts []string
	for i, e := range entries {
		style := entryStyle
		if i == selected {
			style = activeEntryStyle
		}
		parts = append(parts, style.Render(truncate(e.Title, 24)))
	}
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func renderFooter(event, errText string, width int) string {
	if errText != "" {
		return errorStyle.Width(width).Render("error: " + errText)
	}
	return eventStyle.Width(width).Render(event)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
