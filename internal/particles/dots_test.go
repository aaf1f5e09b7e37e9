package particles

import (
	"math/rand/v2"
	"testing"
)

func newDotsField(seed uint64) *Field {
	f := NewField(Config{Style: StyleDots}, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	f.Resize(160, 80)
	return f
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", StyleSpheres, false},
		{"spheres", StyleSpheres, false},
		{" Dots ", StyleDots, false},
		{"confetti", StyleSpheres, true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDotsPopulationIsConstant(t *testing.T) {
	f := newDotsField(3)
	f.Start(0)
	s := &recordingSurface{w: 160, h: 80}

	for frame := 0; frame < 600; frame++ {
		f.Step(s)
		if got := len(f.Dots()); got != DefaultDots {
			t.Fatalf("frame %d: %d dots, want %d", frame, got, DefaultDots)
		}
		if f.Active() != DefaultDots {
			t.Fatalf("frame %d: Active() = %d", frame, f.Active())
		}
	}
	if len(f.Particles()) != 0 {
		t.Errorf("dots style spawned %d spheres", len(f.Particles()))
	}
}

func TestShrunkDotRespawns(t *testing.T) {
	f := newDotsField(4)
	f.Start(60)
	s := &recordingSurface{w: 160, h: 80}
	f.Step(s)

	f.dots[0].Size = dotMinSize + dotShrink/2
	f.dots[1].Size = 5
	before := f.dots[1].Pos
	f.Step(s)

	if got := f.dots[0].Size; got < 1 {
		t.Errorf("shrunk dot size = %v, want a fresh dot of size >= 1", got)
	}
	want := 5.0
	want -= dotShrink
	if got := f.dots[1].Size; got != want {
		t.Errorf("dot size = %v, want %v", got, want)
	}
	if f.dots[1].Pos == before && f.dots[1].Vel.X != 0 {
		t.Error("dot did not move")
	}
	if got := len(s.alphas); got != DefaultDots-1 {
		t.Errorf("drew %d dots, want %d (respawned dot skipped)", got, DefaultDots-1)
	}
	for _, a := range s.alphas {
		if a != dotAlpha {
			t.Fatalf("dot alpha = %v, want %v", a, dotAlpha)
		}
	}
}

func TestDotsWaitForSize(t *testing.T) {
	f := NewField(Config{Style: StyleDots}, rand.New(rand.NewPCG(5, 6)))
	f.Start(60)
	f.Step(&recordingSurface{})
	if len(f.Dots()) != 0 {
		t.Fatalf("dots created before the first resize")
	}
	f.Resize(40, 20)
	f.Step(&recordingSurface{w: 40, h: 20})
	if len(f.Dots()) != DefaultDots {
		t.Fatalf("got %d dots after resize, want %d", len(f.Dots()), DefaultDots)
	}
}

func TestSetStyleDropsPopulation(t *testing.T) {
	f := newTestField(7)
	f.Start(100)
	s := &recordingSurface{w: 160, h: 80}
	for i := 0; i < 200; i++ {
		f.Step(s)
	}
	if len(f.Particles()) == 0 {
		t.Fatal("no spheres spawned at full intensity")
	}

	f.SetStyle(StyleDots)
	if f.Style() != StyleDots || len(f.Particles()) != 0 {
		t.Fatalf("style %v with %d spheres after switch", f.Style(), len(f.Particles()))
	}
	f.Step(s)
	if len(f.Dots()) != DefaultDots {
		t.Fatalf("got %d dots, want %d", len(f.Dots()), DefaultDots)
	}

	f.Stop(s)
	if len(f.Dots()) != 0 {
		t.Errorf("Stop kept %d dots", len(f.Dots()))
	}
}
