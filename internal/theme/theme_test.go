package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tinytelemetry/hourglass/internal/model"
)

type memPrefs struct {
	values map[string]string
	sets   int
}

func newMemPrefs() *memPrefs { return &memPrefs{values: map[string]string{}} }

func (m *memPrefs) Preference(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memPrefs) SetPreference(key, value string) error {
	m.values[key] = value
	m.sets++
	return nil
}

func mustPalettes(t *testing.T) map[Mode]Palette {
	t.Helper()
	p, err := LoadPalettes("")
	if err != nil {
		t.Fatalf("LoadPalettes: %v", err)
	}
	return p
}

func TestLoadPalettesBuiltIn(t *testing.T) {
	p := mustPalettes(t)
	for _, mode := range []Mode{Dark, Light} {
		pal, ok := p[mode]
		if !ok {
			t.Fatalf("missing %s palette", mode)
		}
		if pal.Background == "" || pal.Foreground == "" || pal.SphereInner == "" {
			t.Fatalf("%s palette incomplete: %+v", mode, pal)
		}
	}
}

func TestLoadPalettesOverrideIsPartial(t *testing.T) {
	dir := t.TempDir()
	path := OverridePath(dir)
	if err := os.WriteFile(path, []byte("dark:\n  accent: \"#ff00ff\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	base := mustPalettes(t)
	p, err := LoadPalettes(path)
	if err != nil {
		t.Fatalf("LoadPalettes: %v", err)
	}
	if p[Dark].Accent != "#ff00ff" {
		t.Fatalf("accent = %q, want override", p[Dark].Accent)
	}
	if p[Dark].Background != base[Dark].Background {
		t.Fatalf("background = %q, want built-in %q", p[Dark].Background, base[Dark].Background)
	}
	if p[Light] != base[Light] {
		t.Fatal("light palette changed by dark-only override")
	}
}

func TestLoadPalettesMissingOverride(t *testing.T) {
	if _, err := LoadPalettes(filepath.Join(t.TempDir(), "nope.yml")); err != nil {
		t.Fatalf("missing override should be ignored, got %v", err)
	}
}

func TestLoadPalettesBadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yml")
	if err := os.WriteFile(path, []byte("dark: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPalettes(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if _, ok := p[Dark]; !ok {
		t.Fatal("built-in palettes should still be returned")
	}
}

func TestToggleNotifiesAndPersists(t *testing.T) {
	prefs := newMemPrefs()
	s := New(Dark, mustPalettes(t), prefs)

	var got []Mode
	cancel := s.Subscribe(func(m Mode, _ Palette) { got = append(got, m) })

	if next := s.Toggle(); next != Light {
		t.Fatalf("Toggle = %s, want light", next)
	}
	if next := s.Toggle(); next != Dark {
		t.Fatalf("Toggle = %s, want dark", next)
	}
	if len(got) != 2 || got[0] != Light || got[1] != Dark {
		t.Fatalf("notifications = %v", got)
	}
	if prefs.values[model.PrefTheme] != "dark" {
		t.Fatalf("persisted = %q", prefs.values[model.PrefTheme])
	}

	cancel()
	s.Toggle()
	if len(got) != 2 {
		t.Fatalf("notified after unsubscribe: %v", got)
	}
}

func TestSetSameOrUnknownModeIsNoop(t *testing.T) {
	prefs := newMemPrefs()
	s := New(Dark, mustPalettes(t), prefs)
	calls := 0
	s.Subscribe(func(Mode, Palette) { calls++ })

	s.Set(Dark)
	s.Set(Mode("sepia"))
	if calls != 0 || prefs.sets != 0 {
		t.Fatalf("calls=%d sets=%d, want 0", calls, prefs.sets)
	}
}

func TestLoadAppliesPreference(t *testing.T) {
	prefs := newMemPrefs()
	prefs.values[model.PrefTheme] = "light"
	s := New(Dark, mustPalettes(t), prefs)
	s.Load()
	if mode, _ := s.Current(); mode != Light {
		t.Fatalf("mode = %s, want light", mode)
	}

	prefs.values[model.PrefTheme] = "neon"
	s = New(Dark, mustPalettes(t), prefs)
	s.Load()
	if mode, _ := s.Current(); mode != Dark {
		t.Fatalf("unknown preference should be ignored, got %s", mode)
	}
}

func TestNewUnknownInitialFallsBackToDark(t *testing.T) {
	s := New(Mode("x"), mustPalettes(t), nil)
	if mode, pal := s.Current(); mode != Dark || pal.Background == "" {
		t.Fatalf("Current = %s %+v", mode, pal)
	}
	if modes := s.Modes(); len(modes) != 2 || modes[0] != Dark || modes[1] != Light {
		t.Fatalf("Modes = %v", modes)
	}
}

func TestColor(t *testing.T) {
	c := Color("#ffffff")
	if c.R != 1 || c.G != 1 || c.B != 1 {
		t.Fatalf("Color(#ffffff) = %+v", c)
	}
	if c := Color("zzz"); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Fatalf("invalid hex should be black, got %+v", c)
	}
}
