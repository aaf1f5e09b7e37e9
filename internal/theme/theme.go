// Package theme holds the process-wide light/dark state. Consumers subscribe
// for changes instead of reading global style variables.
package theme

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/tinytelemetry/hourglass/internal/model"
)

//go:embed palettes.yaml
var defaultPalettesYAML []byte

// Mode is a theme name.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// Palette is the set of colors a mode renders with. Values are hex strings.
type Palette struct {
	Background  string `yaml:"background"`
	Foreground  string `yaml:"foreground"`
	Accent      string `yaml:"accent"`
	Muted       string `yaml:"muted"`
	Warning     string `yaml:"warning"`
	Bar         string `yaml:"bar"`
	SphereInner string `yaml:"sphere_inner"`
	SphereOuter string `yaml:"sphere_outer"`
	Highlight   string `yaml:"highlight"`
}

// Color parses one of the palette hex values; invalid values yield black.
func Color(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// LoadPalettes returns the built-in palettes, overridden per mode and per
// field by overridePath when that file exists.
func LoadPalettes(overridePath string) (map[Mode]Palette, error) {
	palettes := map[Mode]Palette{}
	if err := yaml.Unmarshal(defaultPalettesYAML, &palettes); err != nil {
		return nil, fmt.Errorf("parsing built-in palettes: %w", err)
	}
	if overridePath == "" {
		return palettes, nil
	}

	data, err := os.ReadFile(overridePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return palettes, nil
		}
		return palettes, fmt.Errorf("reading %s: %w", overridePath, err)
	}

	// Decode on top of the built-ins so a partial file only replaces the
	// fields it names.
	var raw map[Mode]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return palettes, fmt.Errorf("parsing %s: %w", overridePath, err)
	}
	for mode, node := range raw {
		p := palettes[mode]
		if err := node.Decode(&p); err != nil {
			return palettes, fmt.Errorf("parsing %s palette %q: %w", overridePath, mode, err)
		}
		palettes[mode] = p
	}
	return palettes, nil
}

// OverridePath is the user palette file inside configDir.
func OverridePath(configDir string) string {
	return filepath.Join(configDir, "theme.yml")
}

// State is the single source of truth for the active theme.
type State struct {
	mu       sync.Mutex
	mode     Mode
	palettes map[Mode]Palette
	store    model.PreferenceStore
	subs     map[int]func(Mode, Palette)
	nextID   int
}

// New creates theme state starting in initial mode. store may be nil.
func New(initial Mode, palettes map[Mode]Palette, store model.PreferenceStore) *State {
	if _, ok := palettes[initial]; !ok {
		initial = Dark
	}
	return &State{
		mode:     initial,
		palettes: palettes,
		store:    store,
		subs:     make(map[int]func(Mode, Palette)),
	}
}

// Load applies the persisted preference, if any, without notifying.
func (s *State) Load() {
	if s.store == nil {
		return
	}
	v, ok, err := s.store.Preference(model.PrefTheme)
	if err != nil {
		log.Printf("theme: read preference: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.palettes[Mode(v)]; ok && known {
		s.mode = Mode(v)
	}
}

// Current returns the active mode and its palette.
func (s *State) Current() (Mode, Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.palettes[s.mode]
}

// Modes lists the available modes in name order.
func (s *State) Modes() []Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Mode, 0, len(s.palettes))
	for m := range s.palettes {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Toggle switches between dark and light.
func (s *State) Toggle() Mode {
	mode, _ := s.Current()
	next := Light
	if mode == Light {
		next = Dark
	}
	s.Set(next)
	return next
}

// Set activates mode, persists it and notifies subscribers synchronously.
// Unknown modes are ignored.
func (s *State) Set(mode Mode) {
	s.mu.Lock()
	palette, ok := s.palettes[mode]
	if !ok || mode == s.mode {
		s.mu.Unlock()
		return
	}
	s.mode = mode
	subs := make([]func(Mode, Palette), 0, len(s.subs))
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SetPreference(model.PrefTheme, string(mode)); err != nil {
			log.Printf("theme: persist preference: %v", err)
		}
	}
	for _, fn := range subs {
		fn(mode, palette)
	}
}

// Subscribe registers fn for theme changes and returns its cancel func.
func (s *State) Subscribe(fn func(Mode, Palette)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
