// Package tui is a terminal monitor for the preview overlay: it draws the
// window map and taskbar from daemon snapshots and forwards overlay keys.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run starts the monitor and blocks until the user quits.
func Run(daemon Daemon) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(daemon), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
