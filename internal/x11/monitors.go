package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/linkpeek/internal/geometry"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// ActiveMonitor returns the monitor under the pointer, clipped to the EWMH
// work area of the current desktop so panels and docks are excluded. Without
// RandR it falls back to the root window geometry.
func (c *Connection) ActiveMonitor() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil || len(monitors) == 0 {
		root, gerr := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
		if gerr != nil {
			return Monitor{}, fmt.Errorf("failed to get root geometry: %w", gerr)
		}
		monitors = []Monitor{{Name: "root", Width: int(root.Width), Height: int(root.Height)}}
	}

	active := monitors[0]
	if mon, ok := c.monitorUnderPointer(monitors); ok {
		active = mon
	}

	if workArea, err := ewmh.WorkareaGet(c.XUtil); err == nil && len(workArea) > 0 {
		desktopIndex := 0
		if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
		wa := workArea[desktopIndex]
		active = clipToWorkArea(active, int(wa.X), int(wa.Y), int(wa.Width), int(wa.Height))
	}

	return active, nil
}

// Viewport returns the usable size of the active monitor.
func (c *Connection) Viewport() (geometry.Size, error) {
	mon, err := c.ActiveMonitor()
	if err != nil {
		return geometry.Size{}, err
	}
	return geometry.Size{Width: float64(mon.Width), Height: float64(mon.Height)}, nil
}

func (c *Connection) monitorUnderPointer(monitors []Monitor) (Monitor, bool) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return Monitor{}, false
	}
	return monitorAt(monitors, int(pointer.RootX), int(pointer.RootY))
}

func monitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	for _, m := range monitors {
		if x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height {
			return m, true
		}
	}
	return Monitor{}, false
}

// clipToWorkArea intersects the monitor with the work area. A work area
// that does not overlap the monitor leaves it unchanged.
func clipToWorkArea(m Monitor, waX, waY, waW, waH int) Monitor {
	x1 := max(m.X, waX)
	y1 := max(m.Y, waY)
	x2 := min(m.X+m.Width, waX+waW)
	y2 := min(m.Y+m.Height, waY+waH)
	if x2 <= x1 || y2 <= y1 {
		return m
	}
	m.X, m.Y = x1, y1
	m.Width, m.Height = x2-x1, y2-y1
	return m
}
