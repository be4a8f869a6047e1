package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/1broseidon/linkpeek/internal/geometry"
	"github.com/1broseidon/linkpeek/internal/overlay"
)

var (
	closeAll bool
	pinAll   bool
)

var openCmd = &cobra.Command{
	Use:   "open [URL [TITLE]]",
	Short: "Open a preview window",
	Long: `Open a preview for URL. The request passes the same checks as a hover:
the ban list, the preview mode, the current page and duplicate detection.
Without arguments an interactive prompt asks for the URL.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runOpen,
}

var hoverCmd = &cobra.Command{
	Use:   "hover LINK_ID URL [TITLE]",
	Short: "Report that the pointer entered a link",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := ""
		if len(args) == 3 {
			title = args[2]
		}
		armed, err := newClient().Hover(args[0], args[1], title)
		if err != nil {
			return err
		}
		fmt.Printf("armed: %v\n", armed)
		return nil
	},
}

var unhoverCmd = &cobra.Command{
	Use:   "unhover LINK_ID",
	Short: "Report that the pointer left a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Unhover(args[0])
	},
}

var pageCmd = &cobra.Command{
	Use:   "page PATH",
	Short: "Set the page path used for exclusion checks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().SetPage(args[0])
	},
}

var closeCmd = &cobra.Command{
	Use:   "close [ID]",
	Short: "Close a preview (default: focused)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		if closeAll {
			return client.CloseAll()
		}
		return client.Close(optionalID(args))
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List open previews in stacking order",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var taskbarCmd = &cobra.Command{
	Use:   "taskbar",
	Short: "List minimized previews",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := newClient().Taskbar()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("taskbar: empty")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\n", e.ID, e.Title)
		}
		return nil
	},
}

var focusCmd = &cobra.Command{
	Use:   "focus ID",
	Short: "Focus and raise a preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Focus(overlay.WindowID(args[0]))
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Focus the next visible preview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Navigate(1)
	},
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Focus the previous visible preview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Navigate(-1)
	},
}

var zoomCmd = &cobra.Command{
	Use:   "zoom [ID] POSITION",
	Short: "Snap a preview to a grid cell",
	Long: `Snap a preview to one of the nine grid cells:
  top-left, top, top-right, left, full, right, bottom-left, bottom, bottom-right.
Zooming to the cell a preview already occupies restores its previous geometry;
"none" restores explicitly.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runZoom,
}

var minimizeCmd = &cobra.Command{
	Use:   "minimize [ID]",
	Short: "Park a preview in the taskbar (default: focused)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Minimize(optionalID(args))
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [ID]",
	Short: "Bring a preview back from the taskbar (default: topmost minimized)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Restore(optionalID(args))
	},
}

var restoreSizeCmd = &cobra.Command{
	Use:   "restore-size [ID]",
	Short: "Return a preview to the default size, centered",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().RestoreSize(optionalID(args))
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin [ID]",
	Short: "Toggle the pin on a preview (default: focused)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pinned, err := newClient().Pin(optionalID(args), pinAll)
		if err != nil {
			return err
		}
		fmt.Printf("pinned: %v\n", pinned)
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy [ID]",
	Short: "Copy a preview's URL to the clipboard (default: focused)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().CopyURL(optionalID(args))
		if err != nil {
			return err
		}
		if res.URL == "" {
			return errors.New("no preview window to copy from")
		}
		fmt.Println(res.URL)
		return nil
	},
}

var viewportCmd = &cobra.Command{
	Use:   "viewport WIDTHxHEIGHT",
	Short: "Report a new viewport size to the daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := parseViewport(args[0])
		if err != nil {
			return err
		}
		return newClient().Viewport(size.Width, size.Height)
	},
}

func init() {
	closeCmd.Flags().BoolVar(&closeAll, "all", false, "Close every preview")
	pinCmd.Flags().BoolVar(&pinAll, "all", false, "Apply the new pin state to every preview")

	rootCmd.AddCommand(openCmd, hoverCmd, unhoverCmd, pageCmd, closeCmd, listCmd,
		taskbarCmd, focusCmd, nextCmd, prevCmd, zoomCmd, minimizeCmd, restoreCmd,
		restoreSizeCmd, pinCmd, copyCmd, viewportCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	var target, title string
	switch len(args) {
	case 2:
		title = args[1]
		fallthrough
	case 1:
		target = args[0]
	default:
		var err error
		target, title, err = promptOpen()
		if err != nil {
			return err
		}
	}

	res, err := newClient().Open(target, title)
	if err != nil {
		return err
	}
	if !res.Opened {
		fmt.Printf("not opened: %s\n", res.Reason)
		return nil
	}
	fmt.Println(res.ID)
	return nil
}

func promptOpen() (string, string, error) {
	var target, title string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("url").
				Title("URL").
				Description("Link to preview").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("url is required")
					}
					return nil
				}).
				Value(&target),
			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Optional; defaults to the host name").
				Value(&title),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(target), strings.TrimSpace(title), nil
}

func runList(cmd *cobra.Command, args []string) error {
	snap, err := newClient().List()
	if err != nil {
		return err
	}
	if len(snap.Windows) == 0 {
		fmt.Println("no previews open")
		return nil
	}
	for _, w := range snap.Windows {
		fmt.Println(formatWindow(w, snap.Focused))
	}
	return nil
}

func formatWindow(w overlay.Window, focused overlay.WindowID) string {
	var flags []string
	if w.ID == focused {
		flags = append(flags, "focused")
	}
	if w.Pinned {
		flags = append(flags, "pinned")
	}
	if w.Minimized {
		flags = append(flags, "minimized")
	}
	if w.Zoomed() {
		flags = append(flags, "zoom="+string(w.Zoom))
	}
	state := "-"
	if len(flags) > 0 {
		state = strings.Join(flags, ",")
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s@%g,%g\t%s\topened %s",
		w.ID, w.Title, w.ResourceKey, w.Size, w.Position.X, w.Position.Y, state, humanize.Time(w.CreatedAt))
}

func runZoom(cmd *cobra.Command, args []string) error {
	var id overlay.WindowID
	pos := args[len(args)-1]
	if len(args) == 2 {
		id = overlay.WindowID(args[0])
	}
	if _, err := geometry.ParseZoomPosition(pos); err != nil {
		return err
	}
	return newClient().Zoom(id, pos)
}

func optionalID(args []string) overlay.WindowID {
	if len(args) == 0 {
		return ""
	}
	return overlay.WindowID(args[0])
}

// parseViewport parses "1920x1080".
func parseViewport(s string) (geometry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("invalid viewport %q (want WIDTHxHEIGHT)", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid viewport width %q: %w", w, err)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid viewport height %q: %w", h, err)
	}
	if !(width > 0 && height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return geometry.Size{}, fmt.Errorf("viewport must be positive, got %s", s)
	}
	return geometry.Size{Width: width, Height: height}, nil
}
