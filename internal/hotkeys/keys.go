package hotkeys

import (
	"fmt"
	"strings"

	"github.com/1broseidon/linkpeek/internal/geometry"
)

// Key names the dispatcher understands.
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyPin        = "c"
	KeyMinimize   = "t"
	KeyRestore    = "r"
)

// ZoomShortcuts maps the letter keys to grid cells. The layout mirrors the
// left-hand QWERTY block: q w e / a f d / z s x.
var ZoomShortcuts = map[string]geometry.ZoomPosition{
	"q": geometry.ZoomTopLeft,
	"w": geometry.ZoomTop,
	"e": geometry.ZoomTopRight,
	"a": geometry.ZoomLeft,
	"f": geometry.ZoomFull,
	"d": geometry.ZoomRight,
	"z": geometry.ZoomBottomLeft,
	"s": geometry.ZoomBottom,
	"x": geometry.ZoomBottomRight,
}

// KeyEvent is one key press delivered to the dispatcher. Events from text
// inputs must be filtered out before they get here.
type KeyEvent struct {
	Key string `json:"key"`
	Alt bool   `json:"alt,omitempty"`
}

func (e KeyEvent) String() string {
	if e.Alt {
		return "alt+" + e.Key
	}
	return e.Key
}

var keyAliases = map[string]string{
	"esc":        KeyEscape,
	"escape":     KeyEscape,
	"left":       KeyArrowLeft,
	"arrowleft":  KeyArrowLeft,
	"prev":       KeyArrowLeft,
	"right":      KeyArrowRight,
	"arrowright": KeyArrowRight,
	"next":       KeyArrowRight,
}

// ParseKey parses a key spelled on the command line, e.g. "esc", "alt+c",
// "Alt-Escape" or "f".
func ParseKey(s string) (KeyEvent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyEvent{}, fmt.Errorf("empty key")
	}

	var ev KeyEvent
	lower := strings.ToLower(s)
	for _, prefix := range []string{"alt+", "alt-", "m-"} {
		if strings.HasPrefix(lower, prefix) {
			ev.Alt = true
			s = s[len(prefix):]
			lower = lower[len(prefix):]
			break
		}
	}

	if name, ok := keyAliases[lower]; ok {
		ev.Key = name
		return ev, nil
	}
	if len(lower) == 1 {
		ev.Key = lower
		return ev, nil
	}
	return KeyEvent{}, fmt.Errorf("unknown key %q", s)
}
