package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/linkpeek/internal/settings"
)

// Viewport sources.
const (
	ViewportStatic = "static"
	ViewportX11    = "x11"
)

// Defaults.
const (
	DefaultPadding              = 10.0
	DefaultHoverDelay           = 500 * time.Millisecond
	DefaultSubmenuTimeout       = 150 * time.Millisecond
	DefaultViewportPollInterval = 2 * time.Second
)

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BannedDomain is a site previews are never opened for.
type BannedDomain struct {
	Name   string `yaml:"name,omitempty"`
	Domain string `yaml:"domain"`
}

// Duration is a time.Duration written as a Go duration string ("500ms").
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts duration strings and bare integers (milliseconds).
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a string like \"500ms\"", value.Line)
	}
	if value.Tag == "!!int" {
		var ms int64
		if err := value.Decode(&ms); err != nil {
			return err
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value.Value))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the daemon configuration.
type Config struct {
	Include includeList `yaml:"include,omitempty"`

	// Viewport is the screen size used when viewport_source is static, and
	// the fallback when X11 is unavailable.
	Viewport             Dimensions `yaml:"viewport"`
	ViewportSource       string     `yaml:"viewport_source"`
	ViewportPollInterval Duration   `yaml:"viewport_poll_interval"`

	Padding     float64    `yaml:"padding"`
	DefaultSize Dimensions `yaml:"default_size"`

	HoverDelay     Duration `yaml:"hover_delay"`
	SubmenuTimeout Duration `yaml:"submenu_timeout"`

	SiteHost      string         `yaml:"site_host"`
	ExcludedPages []string       `yaml:"excluded_pages"`
	BannedDomains []BannedDomain `yaml:"banned_domains"`

	// SettingsFile overrides ~/.config/linkpeek/settings.yaml.
	SettingsFile string `yaml:"settings_file"`

	// GlobalHotkeys maps X11 key sequences ("Mod4-Escape") to overlay keys
	// ("alt+escape"). Empty disables global grabs.
	GlobalHotkeys map[string]string `yaml:"global_hotkeys,omitempty"`

	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Viewport:             Dimensions{Width: 1920, Height: 1080},
		ViewportSource:       ViewportStatic,
		ViewportPollInterval: Duration(DefaultViewportPollInterval),
		Padding:              DefaultPadding,
		DefaultSize:          Dimensions{Width: 600, Height: 500},
		HoverDelay:           Duration(DefaultHoverDelay),
		SubmenuTimeout:       Duration(DefaultSubmenuTimeout),
		ExcludedPages:        []string{"/", "/categories"},
		BannedDomains:        defaultBannedDomains(),
		LogLevel:             "info",
	}
}

func defaultBannedDomains() []BannedDomain {
	return []BannedDomain{
		{Name: "Amazon", Domain: "amazon.com"},
		{Name: "Oxford English Dictionary", Domain: "oed.com"},
		{Name: "Github", Domain: "github.com"},
		{Name: "Youtube", Domain: "youtube.com"},
		{Name: "Localhost", Domain: "localhost"},
		{Name: "Hetzner", Domain: "hetzner.com"},
		{Name: "Substack", Domain: "substack.com"},
		{Name: "Stripe", Domain: "stripe.com"},
		{Name: "TikTok", Domain: "tiktok.com"},
		{Name: "Medium", Domain: "medium.com"},
	}
}

// BannedDomainNames returns the domain column of BannedDomains.
func (c *Config) BannedDomainNames() []string {
	out := make([]string, 0, len(c.BannedDomains))
	for _, b := range c.BannedDomains {
		out = append(out, b.Domain)
	}
	return out
}

// GetSettingsPath returns the settings file with the default applied.
func (c *Config) GetSettingsPath() (string, error) {
	if strings.TrimSpace(c.SettingsFile) == "" {
		return settings.DefaultPath()
	}
	return expandHome(c.SettingsFile)
}

// ValidationError reports an invalid value, with its file position when the
// value came from a file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("width and height must be > 0")}
	}
	switch c.ViewportSource {
	case ViewportStatic, ViewportX11:
	default:
		return &ValidationError{Path: "viewport_source", Err: fmt.Errorf("viewport_source must be one of: static, x11")}
	}
	if c.ViewportPollInterval.Std() < 100*time.Millisecond {
		return &ValidationError{Path: "viewport_poll_interval", Err: fmt.Errorf("viewport_poll_interval must be >= 100ms")}
	}
	if c.Padding < 0 {
		return &ValidationError{Path: "padding", Err: fmt.Errorf("padding must be >= 0")}
	}
	if c.DefaultSize.Width < 1 || c.DefaultSize.Height < 1 {
		return &ValidationError{Path: "default_size", Err: fmt.Errorf("width and height must be >= 1")}
	}
	if c.HoverDelay.Std() < 0 {
		return &ValidationError{Path: "hover_delay", Err: fmt.Errorf("hover_delay must be >= 0")}
	}
	if c.SubmenuTimeout.Std() < 0 {
		return &ValidationError{Path: "submenu_timeout", Err: fmt.Errorf("submenu_timeout must be >= 0")}
	}
	for _, page := range c.ExcludedPages {
		if !strings.HasPrefix(page, "/") {
			return &ValidationError{Path: "excluded_pages", Err: fmt.Errorf("page %q must start with /", page)}
		}
	}
	for i, b := range c.BannedDomains {
		if strings.TrimSpace(b.Domain) == "" {
			return &ValidationError{Path: "banned_domains", Err: fmt.Errorf("entry %d has an empty domain", i)}
		}
	}
	for seq, key := range c.GlobalHotkeys {
		if strings.TrimSpace(seq) == "" || strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "global_hotkeys", Err: fmt.Errorf("bindings must have a key sequence and a key")}
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if c.Padding*3 >= c.Viewport.Width || c.Padding*3 >= c.Viewport.Height {
		fmt.Fprintln(os.Stderr, "warning: padding leaves no room for half-cell zoom on the static viewport")
	}
	return nil
}

// Save writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Include = nil
	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal returns the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	save := *c
	save.Include = nil
	return yaml.Marshal(&save)
}

// includeList accepts either a single path or a list of paths.
type includeList []string

func (l *includeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = includeList{value.Value}
		return nil
	case yaml.SequenceNode:
		var paths []string
		if err := value.Decode(&paths); err != nil {
			return err
		}
		*l = paths
		return nil
	}
	return fmt.Errorf("line %d: include must be a path or a list of paths", value.Line)
}
