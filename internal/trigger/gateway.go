package trigger

import (
	"log/slog"
	"time"

	"github.com/1broseidon/linkpeek/internal/overlay"
)

// DefaultHoverDelay is how long the pointer must rest on a link before its
// preview opens.
const DefaultHoverDelay = 500 * time.Millisecond

const hoverTimer = "hover"

// Opener creates windows. *overlay.Store satisfies it.
type Opener interface {
	Create(resourceKey, title string) (overlay.WindowID, bool)
}

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	Policy     *Policy
	Opener     Opener
	Timers     *Debouncer
	HoverDelay time.Duration
	Logger     *slog.Logger
}

// Gateway turns hover activity and explicit requests into window creation.
// Like the overlay store it must be driven from one goroutine; hover timers
// fire through the Debouncer's post function.
type Gateway struct {
	policy     *Policy
	opener     Opener
	timers     *Debouncer
	hoverDelay time.Duration
	logger     *slog.Logger

	page      string
	hovered   string
	noPreview map[string]bool
}

// NewGateway creates a gateway.
func NewGateway(opts GatewayOptions) *Gateway {
	g := &Gateway{
		policy:     opts.Policy,
		opener:     opts.Opener,
		timers:     opts.Timers,
		hoverDelay: opts.HoverDelay,
		logger:     opts.Logger,
		noPreview:  make(map[string]bool),
	}
	if g.policy == nil {
		g.policy = &Policy{}
	}
	if g.timers == nil {
		g.timers = NewDebouncer(nil)
	}
	if g.hoverDelay <= 0 {
		g.hoverDelay = DefaultHoverDelay
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Admit is the admission predicate for the overlay store. It evaluates the
// policy against the current page.
func (g *Gateway) Admit(resourceKey string) bool {
	return g.policy.Admit(resourceKey, g.page)
}

// SetPage records the page being shown. Hover state belongs to the previous
// page and is discarded.
func (g *Gateway) SetPage(page string) {
	if page == g.page {
		return
	}
	g.page = page
	g.cancelHover()
	g.noPreview = make(map[string]bool)
}

// Page returns the current page path.
func (g *Gateway) Page() string {
	return g.page
}

// Hovered returns the link whose hover timer is armed, or "".
func (g *Gateway) Hovered() string {
	return g.hovered
}

// RequestOpen opens a preview immediately when the policy allows it.
func (g *Gateway) RequestOpen(rawURL, title string) (overlay.WindowID, Verdict) {
	if v := g.policy.Evaluate(rawURL, g.page); v != Allowed {
		g.logger.Debug("open request rejected", "url", rawURL, "reason", string(v))
		return "", v
	}
	id, ok := g.opener.Create(rawURL, title)
	if !ok {
		return "", RejectOpen
	}
	return id, Allowed
}

// HoverEnter arms the hover timer for linkID. Links the policy refuses are
// remembered and ignored until the page changes. Re-entering the link that
// is already armed does not restart its timer.
func (g *Gateway) HoverEnter(linkID, rawURL, title string) bool {
	if linkID == "" || g.noPreview[linkID] {
		return false
	}
	if v := g.policy.Evaluate(rawURL, g.page); v != Allowed {
		g.noPreview[linkID] = true
		g.logger.Debug("link marked no-preview", "link", linkID, "reason", string(v))
		return false
	}
	if g.hovered == linkID {
		return true
	}

	g.hovered = linkID
	g.timers.Start(hoverTimer, g.hoverDelay, func() {
		if g.hovered != linkID {
			return
		}
		g.hovered = ""
		g.RequestOpen(rawURL, title)
	})
	return true
}

// HoverLeave disarms the hover timer if it belongs to linkID.
func (g *Gateway) HoverLeave(linkID string) {
	if linkID != "" && g.hovered == linkID {
		g.cancelHover()
	}
}

// Close cancels any pending hover.
func (g *Gateway) Close() {
	g.cancelHover()
}

func (g *Gateway) cancelHover() {
	g.timers.Cancel(hoverTimer)
	g.hovered = ""
}
