// Package settings holds the user-facing preview preferences: whether
// previews are enabled and which links qualify. The values are persisted as
// YAML and may be edited while the daemon runs.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Mode selects which links may open a preview.
type Mode string

const (
	// ModeAll previews internal and external links.
	ModeAll Mode = "all"
	// ModeExternal previews only links to other sites.
	ModeExternal Mode = "external"
	// ModeOff disables hover previews.
	ModeOff Mode = "off"
)

// ErrUnknownMode is returned for mode strings other than all, external, off.
var ErrUnknownMode = errors.New("unknown preview mode")

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAll, ModeExternal, ModeOff:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (want all, external or off)", ErrUnknownMode, s)
}

// Settings is the persisted preference record.
type Settings struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Mode    Mode `yaml:"mode" json:"mode"`
}

// Default returns enabled previews for external links.
func Default() Settings {
	return Settings{Enabled: true, Mode: ModeExternal}
}

// Validate checks the mode field.
func (s Settings) Validate() error {
	_, err := ParseMode(string(s.Mode))
	return err
}

// DefaultPath returns ~/.config/linkpeek/settings.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "linkpeek", "settings.yaml"), nil
}

// Store is the settings source. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	path    string
	current Settings
}

// Open loads settings from path. A missing file yields defaults and is not
// created until the first Set.
func Open(path string) (*Store, error) {
	s := &Store{path: path, current: Default()}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory returns a store that never touches disk.
func NewMemory(initial Settings) *Store {
	return &Store{current: initial}
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Current returns the latest settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-reads the backing file. A missing file resets to defaults.
// On a parse error the previous value is kept.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	next, err := readFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

// Set validates and persists next, then makes it current.
func (s *Store) Set(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if s.path != "" {
		if err := writeFile(s.path, next); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

// Update applies fn to a copy of the current settings and stores the result.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	next := s.Current()
	fn(&next)
	if err := s.Set(next); err != nil {
		return Settings{}, err
	}
	return next, nil
}

func readFile(path string) (Settings, error) {
	out := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && err != io.EOF {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := out.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func writeFile(path string, st Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(&st)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Write to a sibling and rename so watchers never read a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
