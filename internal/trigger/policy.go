// Package trigger decides which links may open previews and turns hover
// activity into open requests.
package trigger

import (
	"net/url"
	"strings"

	"github.com/1broseidon/linkpeek/internal/settings"
)

// Verdict is the outcome of an admission check.
type Verdict string

const (
	Allowed        Verdict = "allowed"
	RejectInvalid  Verdict = "invalid"
	RejectDisabled Verdict = "disabled"
	RejectOff      Verdict = "off"
	RejectPage     Verdict = "excluded-page"
	RejectBanned   Verdict = "banned"
	RejectInternal Verdict = "internal"
	RejectOpen     Verdict = "already-open"
)

// DefaultBannedDomains lists sites that refuse to be embedded.
var DefaultBannedDomains = []string{
	"amazon.com",
	"oed.com",
	"github.com",
	"youtube.com",
	"localhost",
	"hetzner.com",
	"substack.com",
	"stripe.com",
	"tiktok.com",
	"medium.com",
}

// DefaultExcludedPages are pages on which previews never open.
var DefaultExcludedPages = []string{"/", "/categories"}

// SettingsSource supplies the current preview preferences.
type SettingsSource interface {
	Current() settings.Settings
}

// Policy is the admission predicate for open requests.
type Policy struct {
	// Banned domains match exactly or as a parent domain.
	Banned []string
	// SiteHost is the host of the site being browsed. Links to it, and
	// relative links, are internal.
	SiteHost string
	// ExcludedPages match exactly or as a path prefix.
	ExcludedPages []string
	Settings      SettingsSource
}

// Evaluate checks url against the current settings while page is shown.
func (p *Policy) Evaluate(rawURL, page string) Verdict {
	if !navigable(rawURL) {
		return RejectInvalid
	}

	st := settings.Default()
	if p.Settings != nil {
		st = p.Settings.Current()
	}
	if !st.Enabled {
		return RejectDisabled
	}
	if st.Mode == settings.ModeOff {
		return RejectOff
	}
	if p.PageExcluded(page) {
		return RejectPage
	}
	if p.IsBanned(rawURL) {
		return RejectBanned
	}
	if p.IsInternal(rawURL) && st.Mode != settings.ModeAll {
		return RejectInternal
	}
	return Allowed
}

// Admit reports whether url may open a preview while page is shown.
func (p *Policy) Admit(rawURL, page string) bool {
	return p.Evaluate(rawURL, page) == Allowed
}

// IsBanned reports whether url's host is a banned domain or a subdomain of
// one.
func (p *Policy) IsBanned(rawURL string) bool {
	host := Domain(rawURL)
	for _, banned := range p.Banned {
		banned = strings.ToLower(strings.TrimSpace(banned))
		if banned == "" {
			continue
		}
		if host == banned || strings.HasSuffix(host, "."+banned) {
			return true
		}
	}
	return false
}

// IsInternal reports whether url points at the site itself. Relative and
// unparsable links count as internal.
func (p *Policy) IsInternal(rawURL string) bool {
	for _, prefix := range []string{"/", "#", "./", "../"} {
		if strings.HasPrefix(rawURL, prefix) {
			return true
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return true
	}
	return p.SiteHost != "" && strings.EqualFold(u.Hostname(), p.SiteHost)
}

// PageExcluded reports whether previews are suppressed on page.
func (p *Policy) PageExcluded(page string) bool {
	if page == "" {
		return false
	}
	for _, excluded := range p.ExcludedPages {
		if page == excluded {
			return true
		}
		if strings.HasPrefix(page, strings.TrimSuffix(excluded, "/")+"/") && excluded != "/" {
			return true
		}
	}
	return false
}

// Domain returns url's lowercased hostname without a leading "www.", or the
// input itself when it has no host.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return strings.ToLower(rawURL)
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func navigable(key string) bool {
	if strings.TrimSpace(key) == "" || key == "#" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(key), "javascript:")
}
