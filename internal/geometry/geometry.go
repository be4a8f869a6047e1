package geometry

import (
	"fmt"
	"math"
)

// MinDimension is the smallest width or height a computed rect may have.
const MinDimension = 1.0

// Point is a position in viewport pixel coordinates (top-left origin)
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in pixels
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Rect represents a window position and size
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position returns the top-left corner of the rect.
func (r Rect) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the dimensions of the rect.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// ClampDrag keeps a dragged window fully inside the viewport.
// x is clipped to [0, viewportWidth-windowWidth] and y to
// [0, viewportHeight-windowHeight]. When the window is larger than the
// viewport the upper bound collapses to 0 so the title bar stays reachable.
func ClampDrag(proposed Point, window Size, viewport Size) Point {
	maxX := nonNegative(finite(viewport.Width) - finite(window.Width))
	maxY := nonNegative(finite(viewport.Height) - finite(window.Height))

	return Point{
		X: clamp(finite(proposed.X), 0, maxX),
		Y: clamp(finite(proposed.Y), 0, maxY),
	}
}

// Centered places a window of the given size in the middle of the viewport.
// The origin never goes negative, even on viewports smaller than the window.
func Centered(size Size, viewport Size) Rect {
	w := atLeastMin(size.Width)
	h := atLeastMin(size.Height)
	return Rect{
		X:      nonNegative(finite(viewport.Width)/2 - w/2),
		Y:      nonNegative(finite(viewport.Height)/2 - h/2),
		Width:  w,
		Height: h,
	}
}

// ZoomRect computes the snapped rectangle for one of the 9 grid positions.
//
// Half cells are (v - 3*padding)/2 wide (or tall), full cells v - 2*padding,
// and the second column/row starts at v/2 + padding/2. This keeps a uniform
// padding-sized gap between adjacent cells and around the viewport edge.
// Returns false for ZoomNone or an unknown label.
func ZoomRect(pos ZoomPosition, viewport Size, padding float64) (Rect, bool) {
	if !pos.Valid() {
		return Rect{}, false
	}

	vw := nonNegative(finite(viewport.Width))
	vh := nonNegative(finite(viewport.Height))
	p := nonNegative(finite(padding))

	halfW := atLeastMin((vw - 3*p) / 2)
	halfH := atLeastMin((vh - 3*p) / 2)
	fullW := atLeastMin(vw - 2*p)
	fullH := atLeastMin(vh - 2*p)

	// Start of the second column / row.
	midX := vw/2 + p/2
	midY := vh/2 + p/2

	switch pos {
	case ZoomTopLeft:
		return Rect{X: p, Y: p, Width: halfW, Height: halfH}, true
	case ZoomTop:
		return Rect{X: p, Y: p, Width: fullW, Height: halfH}, true
	case ZoomTopRight:
		return Rect{X: midX, Y: p, Width: halfW, Height: halfH}, true
	case ZoomLeft:
		return Rect{X: p, Y: p, Width: halfW, Height: fullH}, true
	case ZoomFull:
		return Rect{X: p, Y: p, Width: fullW, Height: fullH}, true
	case ZoomRight:
		return Rect{X: midX, Y: p, Width: halfW, Height: fullH}, true
	case ZoomBottomLeft:
		return Rect{X: p, Y: midY, Width: halfW, Height: halfH}, true
	case ZoomBottom:
		return Rect{X: p, Y: midY, Width: fullW, Height: halfH}, true
	case ZoomBottomRight:
		return Rect{X: midX, Y: midY, Width: halfW, Height: halfH}, true
	}
	return Rect{}, false
}

// SanitizeSize returns a size with both dimensions finite and >= MinDimension.
func SanitizeSize(s Size) Size {
	return Size{Width: atLeastMin(s.Width), Height: atLeastMin(s.Height)}
}

// SanitizePoint replaces NaN/Inf coordinates with 0.
func SanitizePoint(p Point) Point {
	return Point{X: finite(p.X), Y: finite(p.Y)}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func atLeastMin(v float64) float64 {
	v = finite(v)
	if v < MinDimension {
		return MinDimension
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
