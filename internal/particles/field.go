// Package particles runs the decorative particle animation: a population of
// short-lived spheres, each following one parametric motion rule, fading out
// and being replaced at a rate controlled by an intensity setting.
package particles

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is one transient sphere. It has no identity beyond its position
// in the field's active slice.
type Particle struct {
	Pos        r2.Vec
	Angle      float64
	Radius     float64
	GrowthRate float64
	Speed      float64
	SizeFactor float64
	Opacity    float64
	FadeRate   float64
	Motion     Motion
	Center     int
}

// Depth is the draw-order proxy: larger values are drawn first.
func (p *Particle) Depth() float64 {
	return p.Radius * p.SizeFactor
}

// Gradient shades a disc from Inner at Focus to Outer at the rim.
type Gradient struct {
	Focus r2.Vec
	Inner colorful.Color
	Outer colorful.Color
}

// Surface is the drawing target of a field. Coordinates are logical pixels.
type Surface interface {
	Clear()
	Size() (width, height int)
	FillCircle(center r2.Vec, radius float64, g Gradient, alpha float64)
}

// Palette holds the colors particles are drawn with.
type Palette struct {
	Inner     colorful.Color
	Outer     colorful.Color
	Highlight colorful.Color
}

// DefaultPalette is a cool white sphere on a dark background.
var DefaultPalette = Palette{
	Inner:     colorful.Color{R: 0.95, G: 0.97, B: 1},
	Outer:     colorful.Color{R: 0.25, G: 0.35, B: 0.55},
	Highlight: colorful.Color{R: 1, G: 1, B: 1},
}

// Config tunes a Field. Zero values take defaults.
type Config struct {
	// SpawnScale is k in p = (intensity/100)^2 * k.
	SpawnScale float64
	// Scale converts the motion parameter ranges into logical pixels.
	Scale float64
	// MaxDiscRadius is the drawn radius of a particle with SizeFactor 1.
	MaxDiscRadius float64
	// Centers is the number of precomputed orbit centers.
	Centers int
	// OrbitEntries is how many catalog slots are orbits (one per center,
	// starting at center 0).
	OrbitEntries int
	// MaxParticles bounds the active set; spawning is skipped at the limit.
	MaxParticles int
	// Style selects spheres (default) or dots.
	Style Style
	// Dots is the population size of the dots style.
	Dots int
}

const (
	DefaultSpawnScale    = 0.5
	DefaultScale         = 0.25
	DefaultMaxDiscRadius = 6.0
	DefaultCenters       = 10
	DefaultOrbitEntries  = 2
	DefaultMaxParticles  = 400
)

func (c Config) withDefaults() Config {
	if c.SpawnScale <= 0 {
		c.SpawnScale = DefaultSpawnScale
	}
	if c.Scale <= 0 {
		c.Scale = DefaultScale
	}
	if c.MaxDiscRadius <= 0 {
		c.MaxDiscRadius = DefaultMaxDiscRadius
	}
	if c.Centers <= 0 {
		c.Centers = DefaultCenters
	}
	if c.OrbitEntries <= 0 {
		c.OrbitEntries = DefaultOrbitEntries
	}
	c.OrbitEntries = min(c.OrbitEntries, c.Centers)
	if c.MaxParticles <= 0 {
		c.MaxParticles = DefaultMaxParticles
	}
	if c.Dots <= 0 {
		c.Dots = DefaultDots
	}
	return c
}

// SpawnProbability maps an intensity in [0,100] to a per-frame spawn chance.
// The square biases the control toward the low end; only 0 yields 0.
func SpawnProbability(intensity int, k float64) float64 {
	i := float64(min(max(intensity, 0), 100)) / 100
	return i * i * k
}

// Field owns the active particle set and advances it one frame per Step.
// It is not safe for concurrent use.
type Field struct {
	cfg     Config
	rng     *rand.Rand
	catalog []catalogEntry
	centers []r2.Vec
	placed  bool
	palette Palette

	style     Style
	particles []Particle
	dots      []Dot
	width     float64
	height    float64
	intensity int
	spawnP    float64
	running   bool
	frame     uint64
}

// NewField creates a stopped field. A nil rng uses a randomly seeded source.
func NewField(cfg Config, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	cfg = cfg.withDefaults()
	return &Field{
		cfg:       cfg,
		rng:       rng,
		catalog:   buildCatalog(cfg.OrbitEntries),
		centers:   make([]r2.Vec, cfg.Centers),
		palette:   DefaultPalette,
		style:     cfg.Style,
		particles: make([]Particle, 0, cfg.MaxParticles),
	}
}

// Start enables the animation with the given intensity (0-100).
func (f *Field) Start(intensity int) {
	f.SetIntensity(intensity)
	f.running = true
}

// SetIntensity changes the spawn rate without restarting.
func (f *Field) SetIntensity(intensity int) {
	f.intensity = min(max(intensity, 0), 100)
	f.spawnP = SpawnProbability(f.intensity, f.cfg.SpawnScale)
}

// Intensity returns the current intensity setting.
func (f *Field) Intensity() int { return f.intensity }

// SpawnChance returns the current per-frame spawn probability.
func (f *Field) SpawnChance() float64 { return f.spawnP }

// Stop halts the animation and drops every particle. The surface, if given,
// is cleared.
func (f *Field) Stop(s Surface) {
	f.running = false
	f.particles = f.particles[:0]
	f.dots = f.dots[:0]
	if s != nil {
		s.Clear()
	}
}

// Running reports whether Step advances the field.
func (f *Field) Running() bool { return f.running }

// Resize records the logical drawing size. Existing particles keep their
// coordinates; orbit centers are placed on the first non-empty size.
func (f *Field) Resize(width, height int) {
	f.width = float64(max(width, 0))
	f.height = float64(max(height, 0))
	if !f.placed && f.width > 0 && f.height > 0 {
		f.placeCenters()
	}
}

// SetPalette changes particle colors; it applies from the next frame.
func (f *Field) SetPalette(p Palette) { f.palette = p }

// Style returns the animation style.
func (f *Field) Style() Style { return f.style }

// SetStyle switches the animation style. The population of the previous
// style is dropped; the new one starts on the next Step.
func (f *Field) SetStyle(st Style) {
	if st == f.style {
		return
	}
	f.style = st
	f.particles = f.particles[:0]
	f.dots = f.dots[:0]
}

// Particles returns the sphere population in the order the last Step drew
// it. A particle spawned during that Step sits at the end, undrawn.
func (f *Field) Particles() []Particle { return f.particles }

// Active returns the population size of the current style.
func (f *Field) Active() int {
	if f.style == StyleDots {
		return len(f.dots)
	}
	return len(f.particles)
}

// Frame returns the number of frames stepped since creation.
func (f *Field) Frame() uint64 { return f.frame }

// MotionMix counts active particles per motion kind.
func (f *Field) MotionMix() map[Motion]int {
	mix := make(map[Motion]int, motionCount)
	for i := range f.particles {
		mix[f.particles[i].Motion]++
	}
	return mix
}

func (f *Field) placeCenters() {
	f.placed = true
	for i := range f.centers {
		f.centers[i] = r2.Vec{X: f.rng.Float64() * f.width, Y: f.rng.Float64() * f.height}
	}
}

// Step advances one frame: clear, depth sort, update and draw, drop faded
// particles, maybe spawn one. In the dots style it moves, shrinks and
// respawns the dots instead. It returns false when the field is stopped.
func (f *Field) Step(s Surface) bool {
	if !f.running {
		return false
	}
	f.frame++
	s.Clear()

	if f.style == StyleDots {
		f.stepDots(s)
		return true
	}

	slices.SortStableFunc(f.particles, func(a, b Particle) int {
		da, db := a.Depth(), b.Depth()
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})

	alive := 0
	for i := range f.particles {
		p := &f.particles[i]
		advance(p, f.centers, f.cfg.Scale)
		p.Opacity -= p.FadeRate
		if p.Opacity <= 0 {
			continue
		}
		f.draw(s, p)
		f.particles[alive] = *p
		alive++
	}
	f.particles = f.particles[:alive]

	if len(f.particles) < f.cfg.MaxParticles && f.rng.Float64() < f.spawnP {
		f.particles = append(f.particles, f.spawn())
	}
	return true
}

func (f *Field) spawn() Particle {
	scale := f.cfg.Scale
	entry := f.catalog[f.rng.IntN(len(f.catalog))]
	return Particle{
		Pos:        r2.Vec{X: f.rng.Float64() * f.width, Y: f.rng.Float64() * f.height},
		Radius:     (f.rng.Float64()*50 + 1) * scale,
		GrowthRate: (f.rng.Float64()*0.02 + 0.01) * scale,
		Speed:      (f.rng.Float64()*2 + 1) * scale,
		SizeFactor: f.rng.Float64(),
		Opacity:    1,
		FadeRate:   0.004 + f.rng.Float64()*0.002,
		Motion:     entry.motion,
		Center:     entry.center,
	}
}

// draw renders the lit sphere: a shaded disc with two small highlights
// toward the top-left.
func (f *Field) draw(s Surface, p *Particle) {
	r := 0.5 + p.SizeFactor*f.cfg.MaxDiscRadius
	light := r2.Vec{X: -0.35 * r, Y: -0.35 * r}
	s.FillCircle(p.Pos, r, Gradient{
		Focus: r2.Add(p.Pos, light),
		Inner: f.palette.Inner,
		Outer: f.palette.Outer,
	}, p.Opacity)

	hl := Gradient{Inner: f.palette.Highlight, Outer: f.palette.Inner}
	for _, spot := range [...]struct{ dx, dy, size, alpha float64 }{
		{-0.45, -0.40, 0.28, 0.55},
		{-0.25, -0.60, 0.14, 0.85},
	} {
		c := r2.Add(p.Pos, r2.Vec{X: spot.dx * r, Y: spot.dy * r})
		hl.Focus = c
		s.FillCircle(c, math.Max(spot.size*r, 0.5), hl, p.Opacity*spot.alpha)
	}
}
