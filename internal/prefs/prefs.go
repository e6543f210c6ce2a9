// Package prefs persists the display theme and the generator theme in a small
// YAML file.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Display string

const (
	Dark  Display = "dark"
	Light Display = "light"
)

const DefaultGeneratorTheme = "fantasy"

var ErrUnknownTheme = errors.New("unknown generator theme")

type Prefs struct {
	Theme          Display `yaml:"theme" json:"theme"`
	GeneratorTheme string  `yaml:"generatorTheme" json:"generatorTheme"`
}

func Defaults() Prefs {
	return Prefs{Theme: Light, GeneratorTheme: DefaultGeneratorTheme}
}

// Store holds preferences in memory and writes them to path on change. An
// empty path keeps them in memory only.
type Store struct {
	mu    sync.Mutex
	path  string
	prefs Prefs
}

// Open loads path. A missing file yields defaults.
func Open(path string) (*Store, error) {
	s := &Store{path: path, prefs: Defaults()}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	p, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("reading preferences %s: %w", path, err)
	}
	s.prefs = p
	return s, nil
}

func InMemory() *Store {
	return &Store{prefs: Defaults()}
}

func (s *Store) Get() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// ToggleDisplay flips between dark and light and saves.
func (s *Store) ToggleDisplay() (Display, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Dark
	if s.prefs.Theme == Dark {
		next = Light
	}
	prev := s.prefs.Theme
	s.prefs.Theme = next
	if err := s.save(); err != nil {
		s.prefs.Theme = prev
		return prev, err
	}
	return next, nil
}

// SetGeneratorTheme saves theme when it is one of available.
func (s *Store) SetGeneratorTheme(theme string, available []string) error {
	theme = strings.TrimSpace(theme)
	if !slices.Contains(available, theme) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.prefs.GeneratorTheme
	s.prefs.GeneratorTheme = theme
	if err := s.save(); err != nil {
		s.prefs.GeneratorTheme = prev
		return err
	}
	return nil
}

// GeneratorTheme returns the saved generator theme when available offers it,
// else the default theme, else the first available one.
func (s *Store) GeneratorTheme(available []string) string {
	saved := s.Get().GeneratorTheme
	switch {
	case slices.Contains(available, saved):
		return saved
	case slices.Contains(available, DefaultGeneratorTheme) || len(available) == 0:
		return DefaultGeneratorTheme
	default:
		return available[0]
	}
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("writing preferences: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}

// decode accepts the current format plus legacy display values: "dark-mode"
// and a boolean dark flag.
func decode(data []byte) (Prefs, error) {
	var raw struct {
		Theme          any    `yaml:"theme"`
		DarkMode       *bool  `yaml:"darkMode"`
		GeneratorTheme string `yaml:"generatorTheme"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Prefs{}, err
	}

	p := Defaults()
	switch v := raw.Theme.(type) {
	case nil:
		if raw.DarkMode != nil && *raw.DarkMode {
			p.Theme = Dark
		}
	case bool:
		if v {
			p.Theme = Dark
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "dark", "dark-mode", "true":
			p.Theme = Dark
		}
	default:
		return Prefs{}, fmt.Errorf("theme must be a string or boolean")
	}
	if t := strings.TrimSpace(raw.GeneratorTheme); t != "" {
		p.GeneratorTheme = t
	}
	return p, nil
}
