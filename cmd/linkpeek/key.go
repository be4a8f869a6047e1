package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/linkpeek/internal/hotkeys"
	"github.com/1broseidon/linkpeek/internal/ipc"
)

var keyInteractive bool

var keyCmd = &cobra.Command{
	Use:   "key [KEY]",
	Short: "Send a key press to the overlay",
	Long: `Send a key press to the overlay, exactly as if it was typed while the
overlay had keyboard focus. Keys are spelled like "esc", "alt+esc", "left",
"right", "c" (pin), "alt+c" (pin all), "t" (minimize), "r" (restore zoom) or a
zoom letter such as "f".

With --interactive, keys typed in this terminal are forwarded until Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKey,
}

func init() {
	keyCmd.Flags().BoolVarP(&keyInteractive, "interactive", "i", false, "Forward keys typed in this terminal")
	rootCmd.AddCommand(keyCmd)
}

func runKey(cmd *cobra.Command, args []string) error {
	client := newClient()
	if keyInteractive {
		return forwardKeys(client)
	}
	if len(args) != 1 {
		return errors.New("key required (or use --interactive)")
	}
	ev, err := hotkeys.ParseKey(args[0])
	if err != nil {
		return err
	}
	action, err := client.Key(ev.Key, ev.Alt)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", ev, action)
	return nil
}

func forwardKeys(client *ipc.Client) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("--interactive requires a terminal")
	}
	if err := client.Ping(); err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", client.SocketPath(), err)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	fmt.Print("forwarding keys, Ctrl+C to stop\r\n")
	buf := make([]byte, 16)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		seq := buf[:n]
		if len(seq) == 1 && (seq[0] == 0x03 || seq[0] == 0x04) {
			return nil
		}
		ev, ok := decodeTerminalKey(seq)
		if !ok {
			continue
		}
		action, err := client.Key(ev.Key, ev.Alt)
		if err != nil {
			fmt.Printf("%s: error: %v\r\n", ev, err)
			continue
		}
		fmt.Printf("%s: %s\r\n", ev, action)
	}
}

// decodeTerminalKey maps one raw-mode read to a key event. Alt arrives as an
// ESC prefix.
func decodeTerminalKey(seq []byte) (hotkeys.KeyEvent, bool) {
	s := string(seq)
	switch s {
	case "":
		return hotkeys.KeyEvent{}, false
	case "\x1b":
		return hotkeys.KeyEvent{Key: hotkeys.KeyEscape}, true
	case "\x1b[D", "\x1bOD":
		return hotkeys.KeyEvent{Key: hotkeys.KeyArrowLeft}, true
	case "\x1b[C", "\x1bOC":
		return hotkeys.KeyEvent{Key: hotkeys.KeyArrowRight}, true
	case "\x1b\x1b":
		return hotkeys.KeyEvent{Key: hotkeys.KeyEscape, Alt: true}, true
	}

	alt := false
	if strings.HasPrefix(s, "\x1b") {
		alt = true
		s = s[1:]
	}
	if len(s) != 1 || s[0] < 0x20 || s[0] > 0x7e {
		return hotkeys.KeyEvent{}, false
	}
	return hotkeys.KeyEvent{Key: strings.ToLower(s), Alt: alt}, true
}
