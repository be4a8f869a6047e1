package tui

import (
	"strconv"
	"strings"

	"github.com/1broseidon/linkpeek/internal/overlay"
)

// renderWindowMap draws the visible windows of snap onto a width x height
// character canvas scaled from the viewport. Windows are drawn in z-order
// so the topmost one wins where they overlap; each is labeled with its
// 1-based position in the snapshot and the focused one is marked with '*'.
func renderWindowMap(snap *overlay.Snapshot, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	if snap != nil && snap.Viewport.Width > 0 && snap.Viewport.Height > 0 {
		for i, w := range snap.Windows {
			if w.Minimized {
				continue
			}
			label := strconv.Itoa(i + 1)
			if w.ID == snap.Focused {
				label += "*"
			}
			x1 := scale(w.Position.X, snap.Viewport.Width, width)
			y1 := scale(w.Position.Y, snap.Viewport.Height, height)
			x2 := scale(w.Position.X+w.Size.Width, snap.Viewport.Width, width)
			y2 := scale(w.Position.Y+w.Size.Height, snap.Viewport.Height, height)
			drawWindow(canvas, x1, y1, x2, y2, label, width, height)
		}
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func scale(v, extent float64, cells int) int {
	return int(v * float64(cells) / extent)
}

func drawWindow(canvas [][]rune, x1, y1, x2, y2 int, label string, canvasW, canvasH int) {
	// Clamp to canvas bounds
	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW-1 {
		x2 = canvasW - 2
	}
	if y2 >= canvasH-1 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 for a window
	if x2 <= x1 || y2 <= y1 {
		return
	}

	// Clear the interior so lower windows are hidden.
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			canvas[y][x] = ' '
		}
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
