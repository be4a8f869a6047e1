package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.BannedDomains) != 10 {
		t.Fatalf("expected 10 banned domains, got %d", len(cfg.BannedDomains))
	}
	if cfg.HoverDelay.Std() != 500*time.Millisecond || cfg.SubmenuTimeout.Std() != 150*time.Millisecond {
		t.Fatalf("unexpected default delays: %v %v", cfg.HoverDelay, cfg.SubmenuTimeout)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Padding != DefaultPadding {
		t.Fatalf("expected default padding, got %v", res.Config.Padding)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.ViewportSource != ViewportStatic {
		t.Fatalf("expected static viewport source, got %q", res.Config.ViewportSource)
	}
}

func TestLoadFromPath_OverridesAndDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"viewport: {width: 1366, height: 768}",
		"padding: 12",
		"hover_delay: 750ms",
		"submenu_timeout: 300",
		"site_host: blog.test",
		"banned_domains:",
		"  - {name: Example, domain: example.com}",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Viewport.Width != 1366 || cfg.Padding != 12 {
		t.Fatalf("unexpected viewport/padding: %+v %v", cfg.Viewport, cfg.Padding)
	}
	if cfg.HoverDelay.Std() != 750*time.Millisecond {
		t.Fatalf("hover_delay = %v", cfg.HoverDelay)
	}
	if cfg.SubmenuTimeout.Std() != 300*time.Millisecond {
		t.Fatalf("submenu_timeout = %v", cfg.SubmenuTimeout)
	}
	if got := cfg.BannedDomainNames(); len(got) != 1 || got[0] != "example.com" {
		t.Fatalf("banned domains = %v", got)
	}
	if cfg.DefaultSize.Width != 600 {
		t.Fatalf("expected untouched default_size, got %+v", cfg.DefaultSize)
	}
	if src := res.SourceOf("viewport.width"); src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("unexpected source for viewport.width: %+v", src)
	}
	if src := res.SourceOf("log_level"); src.Kind != SourceDefault {
		t.Fatalf("expected default source for log_level, got %+v", src)
	}

	keys, err := res.TopLevelSources()
	if err != nil {
		t.Fatalf("TopLevelSources: %v", err)
	}
	bySource := make(map[string]string, len(keys))
	for _, ks := range keys {
		bySource[ks.Key] = ks.Source.String()
	}
	if got, want := bySource["viewport"], res.Files[0]+":1:11"; got != want {
		t.Fatalf("viewport source = %q, want %q", got, want)
	}
	if got := bySource["log_level"]; got != "default" {
		t.Fatalf("log_level source = %q, want default", got)
	}
	if _, ok := bySource["default_size"]; !ok {
		t.Fatalf("TopLevelSources missing default_size: %v", keys)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "padding: 4\nviewport_source: wayland\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "viewport_source" || verr.Source.Line != 2 {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.d", "10-base.yaml"), "padding: 5\nsite_host: a.test\n")
	writeFile(t, filepath.Join(dir, "config.d", "20-override.yaml"), "padding: 6\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - config.d\npadding: 7\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Padding != 7 {
		t.Fatalf("expected padding 7, got %v", res.Config.Padding)
	}
	if res.Config.SiteHost != "a.test" {
		t.Fatalf("expected site_host from include, got %q", res.Config.SiteHost)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	cfg := DefaultConfig()
	cfg.Padding = 14
	cfg.HoverDelay = Duration(time.Second)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "hover_delay: 1s") {
		t.Fatalf("expected duration string in output:\n%s", data)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Padding != 14 || res.Config.HoverDelay.Std() != time.Second {
		t.Fatalf("round trip mismatch: %+v", res.Config)
	}
}

func TestGetSettingsPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SettingsFile = "/tmp/x/settings.yaml"
	got, err := cfg.GetSettingsPath()
	if err != nil || got != "/tmp/x/settings.yaml" {
		t.Fatalf("GetSettingsPath = %q, %v", got, err)
	}
}
