package geometry

import (
	"errors"
	"fmt"
	"strings"
)

// ZoomPosition is one of the 9 snap-grid labels, or ZoomNone for a
// free-floating window.
type ZoomPosition string

const (
	ZoomNone        ZoomPosition = ""
	ZoomTopLeft     ZoomPosition = "top-left"
	ZoomTop         ZoomPosition = "top"
	ZoomTopRight    ZoomPosition = "top-right"
	ZoomLeft        ZoomPosition = "left"
	ZoomFull        ZoomPosition = "full"
	ZoomRight       ZoomPosition = "right"
	ZoomBottomLeft  ZoomPosition = "bottom-left"
	ZoomBottom      ZoomPosition = "bottom"
	ZoomBottomRight ZoomPosition = "bottom-right"
)

// ErrInvalidZoomPosition is returned by ParseZoomPosition for unknown labels.
var ErrInvalidZoomPosition = errors.New("invalid zoom position")

// ZoomPositions lists the grid labels row by row, left to right.
var ZoomPositions = [9]ZoomPosition{
	ZoomTopLeft, ZoomTop, ZoomTopRight,
	ZoomLeft, ZoomFull, ZoomRight,
	ZoomBottomLeft, ZoomBottom, ZoomBottomRight,
}

// Valid reports whether z is one of the 9 grid labels.
func (z ZoomPosition) Valid() bool {
	for _, p := range ZoomPositions {
		if z == p {
			return true
		}
	}
	return false
}

func (z ZoomPosition) String() string {
	if z == ZoomNone {
		return "none"
	}
	return string(z)
}

// ParseZoomPosition parses a grid label. "", "none" and "restore" map to
// ZoomNone.
func ParseZoomPosition(s string) (ZoomPosition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "restore":
		return ZoomNone, nil
	}
	z := ZoomPosition(s)
	if !z.Valid() {
		return ZoomNone, fmt.Errorf("%w: %q", ErrInvalidZoomPosition, s)
	}
	return z, nil
}
