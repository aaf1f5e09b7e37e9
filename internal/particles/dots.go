package particles

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Style selects how a Field animates.
type Style int

const (
	// StyleSpheres is the fading, motion-driven sphere population whose
	// size follows the intensity setting.
	StyleSpheres Style = iota
	// StyleDots is a constant population of drifting dots that shrink and
	// respawn. Intensity does not apply.
	StyleDots
)

func (s Style) String() string {
	if s == StyleDots {
		return "dots"
	}
	return "spheres"
}

// ParseStyle maps a configured style name to a Style.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "spheres":
		return StyleSpheres, nil
	case "dots":
		return StyleDots, nil
	}
	return StyleSpheres, fmt.Errorf("particles: unknown style %q", name)
}

const (
	DefaultDots = 100

	dotShrink   = 0.1
	dotMinSize  = 0.1
	dotMaxSpeed = 1.5
	dotAlpha    = 0.8
)

// Dot is one member of the dots population. Size is in unscaled units; it
// shrinks by a fixed step per frame and the dot respawns once it is at or
// below the minimum.
type Dot struct {
	Pos  r2.Vec
	Vel  r2.Vec
	Size float64
}

// Dots returns the dots population; it is empty in the spheres style.
func (f *Field) Dots() []Dot { return f.dots }

func (f *Field) newDot() Dot {
	r := f.rng.Float64
	return Dot{
		Pos: r2.Vec{X: r() * f.width, Y: r() * f.height},
		Vel: r2.Vec{
			X: (r()*2*dotMaxSpeed - dotMaxSpeed) * f.cfg.Scale,
			Y: (r()*2*dotMaxSpeed - dotMaxSpeed) * f.cfg.Scale,
		},
		Size: r()*50*r()*r() + 1,
	}
}

// stepDots moves and shrinks every dot. A dot that shrank to the minimum is
// replaced in place by a fresh one and not drawn this frame, so the
// population never changes size.
func (f *Field) stepDots(s Surface) {
	if len(f.dots) == 0 {
		if f.width <= 0 || f.height <= 0 {
			return
		}
		for range f.cfg.Dots {
			f.dots = append(f.dots, f.newDot())
		}
	}

	for i := range f.dots {
		d := &f.dots[i]
		d.Pos = r2.Add(d.Pos, d.Vel)
		if d.Size > dotMinSize {
			d.Size -= dotShrink
		}
		if d.Size <= dotMinSize {
			*d = f.newDot()
			continue
		}
		f.drawDot(s, d)
	}
}

func (f *Field) drawDot(s Surface, d *Dot) {
	r := max(d.Size*f.cfg.Scale, 0.5)
	s.FillCircle(d.Pos, r, Gradient{
		Focus: d.Pos,
		Inner: f.palette.Highlight,
		Outer: f.palette.Highlight,
	}, dotAlpha)
}
