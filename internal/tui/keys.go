package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the monitor's own bindings. Every other key listed in
// overlayKeys is forwarded to the daemon.
type keyMap struct {
	Quit        key.Binding
	NextTask    key.Binding
	PrevTask    key.Binding
	RestoreTask key.Binding
	Refresh     key.Binding
	Overlay     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		NextTask: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next taskbar entry"),
		),
		PrevTask: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev entry"),
		),
		RestoreTask: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "restore"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Overlay: key.NewBinding(
			key.WithKeys(overlayKeys...),
			key.WithHelp("esc ←/→ c t r qweafdzsx", "overlay keys"),
		),
	}
}

// overlayKeys are the bubbletea key names forwarded to the daemon.
var overlayKeys = []string{
	"esc", "alt+esc",
	"left", "right",
	"c", "alt+c",
	"t", "r",
	"q", "w", "e", "a", "f", "d", "z", "s", "x",
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Overlay, k.NextTask, k.RestoreTask, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Overlay, k.Refresh},
		{k.NextTask, k.PrevTask, k.RestoreTask},
		{k.Quit},
	}
}
