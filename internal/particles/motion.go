package particles

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Motion identifies a per-frame position update rule.
type Motion uint8

const (
	MotionSine Motion = iota
	MotionSineReverse
	MotionOrbit
	MotionCircle
	MotionEllipse
	MotionHypotrochoid
	motionCount
)

func (m Motion) String() string {
	switch m {
	case MotionSine:
		return "sine"
	case MotionSineReverse:
		return "sine-rev"
	case MotionOrbit:
		return "orbit"
	case MotionCircle:
		return "circle"
	case MotionEllipse:
		return "ellipse"
	case MotionHypotrochoid:
		return "hypotrochoid"
	default:
		return "unknown"
	}
}

// Motions lists every motion kind in catalog order.
func Motions() []Motion {
	out := make([]Motion, 0, motionCount)
	for m := Motion(0); m < motionCount; m++ {
		out = append(out, m)
	}
	return out
}

// catalogEntry is one uniformly selectable slot: a motion plus, for orbits,
// the index of the precomputed center it circles.
type catalogEntry struct {
	motion Motion
	center int
}

func buildCatalog(orbitEntries int) []catalogEntry {
	cat := []catalogEntry{
		{motion: MotionSine},
		{motion: MotionSineReverse},
	}
	for i := 0; i < orbitEntries; i++ {
		cat = append(cat, catalogEntry{motion: MotionOrbit, center: i})
	}
	return append(cat,
		catalogEntry{motion: MotionCircle},
		catalogEntry{motion: MotionEllipse},
		catalogEntry{motion: MotionHypotrochoid},
	)
}

// advance applies p's motion rule once. centers holds the precomputed orbit
// centers; p.Center is always a valid index by construction.
func advance(p *Particle, centers []r2.Vec, scale float64) {
	switch p.Motion {
	case MotionSine:
		p.Pos.X += p.Speed
		p.Pos.Y += math.Sin(p.Pos.X*0.005/scale) * 5 * scale
	case MotionSineReverse:
		p.Pos.X -= p.Speed
		p.Pos.Y += math.Sin(p.Pos.X*0.005/scale) * 5 * scale
	case MotionOrbit:
		p.Angle += p.Speed / scale * 0.05
		p.Pos = r2.Add(centers[p.Center], r2.Vec{
			X: p.Radius * math.Cos(p.Angle),
			Y: p.Radius * math.Sin(p.Angle),
		})
		p.Radius += p.GrowthRate
	case MotionCircle:
		p.Pos = r2.Add(p.Pos, r2.Scale(p.Speed, r2.Vec{X: math.Cos(p.Angle), Y: math.Sin(p.Angle)}))
		p.Angle += 0.05
	case MotionEllipse:
		p.Pos = r2.Add(p.Pos, r2.Scale(p.Radius*0.1, r2.Vec{X: math.Cos(p.Angle), Y: math.Sin(p.Angle)}))
		p.Angle += p.GrowthRate / scale
	case MotionHypotrochoid:
		p.Pos = r2.Add(p.Pos, r2.Scale(p.Speed, r2.Vec{X: math.Sin(p.Angle), Y: math.Cos(p.Angle)}))
		p.Angle += p.GrowthRate / scale
	}
}
