package scene

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
)

// lengthDivisions is the number of chords used to approximate arc length.
const lengthDivisions = 200

// Curve is a parametric 3D curve over t in [0,1].
type Curve interface {
	Point(t float64) r3.Vector
	PointAt(u float64) r3.Vector
	TangentAt(u float64) r3.Vector
	Length() float64
}

// CubicBezier is a cubic bezier curve through V0 and V3 shaped by V1 and V2.
// Arc-length lookups are cached on first use; the control points must not
// change afterwards.
type CubicBezier struct {
	V0, V1, V2, V3 r3.Vector

	lengths []float64
}

func NewCubicBezier(v0, v1, v2, v3 r3.Vector) *CubicBezier {
	return &CubicBezier{V0: v0, V1: v1, V2: v2, V3: v3}
}

// Point evaluates the curve at parameter t.
func (c *CubicBezier) Point(t float64) r3.Vector {
	k := 1 - t
	return c.V0.Mul(k * k * k).
		Add(c.V1.Mul(3 * k * k * t)).
		Add(c.V2.Mul(3 * k * t * t)).
		Add(c.V3.Mul(t * t * t))
}

// Tangent returns the unit tangent at parameter t.
func (c *CubicBezier) Tangent(t float64) r3.Vector {
	k := 1 - t
	d := c.V1.Sub(c.V0).Mul(3 * k * k).
		Add(c.V2.Sub(c.V1).Mul(6 * k * t)).
		Add(c.V3.Sub(c.V2).Mul(3 * t * t))
	if d.Norm2() == 0 {
		// coincident control points; fall back to a finite difference
		const delta = 0.0001
		t1, t2 := math.Max(0, t-delta), math.Min(1, t+delta)
		d = c.Point(t2).Sub(c.Point(t1))
		if d.Norm2() == 0 {
			return r3.Vector{Z: 1}
		}
	}
	return d.Normalize()
}

// Lengths returns the cumulative chord lengths at lengthDivisions+1 evenly
// spaced parameters.
func (c *CubicBezier) Lengths() []float64 {
	if c.lengths != nil {
		return c.lengths
	}
	lengths := make([]float64, lengthDivisions+1)
	last := c.Point(0)
	sum := 0.0
	for i := 1; i <= lengthDivisions; i++ {
		p := c.Point(float64(i) / lengthDivisions)
		sum += p.Distance(last)
		lengths[i] = sum
		last = p
	}
	c.lengths = lengths
	return lengths
}

// Length is the approximate arc length of the curve.
func (c *CubicBezier) Length() float64 {
	l := c.Lengths()
	return l[len(l)-1]
}

// UtoT maps a normalized arc-length position u to the curve parameter t.
func (c *CubicBezier) UtoT(u float64) float64 {
	lengths := c.Lengths()
	total := lengths[len(lengths)-1]
	if total == 0 {
		return u
	}
	target := u * total

	i := sort.SearchFloat64s(lengths, target)
	if i < len(lengths) && lengths[i] == target {
		return float64(i) / float64(len(lengths)-1)
	}
	if i == 0 {
		return 0
	}
	if i >= len(lengths) {
		return 1
	}
	before, after := lengths[i-1], lengths[i]
	fraction := (target - before) / (after - before)
	return (float64(i-1) + fraction) / float64(len(lengths)-1)
}

// PointAt evaluates the curve at normalized arc length u.
func (c *CubicBezier) PointAt(u float64) r3.Vector {
	return c.Point(c.UtoT(u))
}

// TangentAt returns the unit tangent at normalized arc length u.
func (c *CubicBezier) TangentAt(u float64) r3.Vector {
	return c.Tangent(c.UtoT(u))
}
