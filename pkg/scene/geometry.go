package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// DrawRange is the window into a geometry's index buffer that gets rendered.
// Start and Count are kept fractional so animations can accumulate
// sub-index progress frame by frame.
type DrawRange struct {
	Start, Count float64
}

// Geometry is an indexed triangle list.
type Geometry struct {
	Name      string
	Positions []r3.Vector
	Indices   []uint32

	// Path holds the centerline samples of swept geometries (tubes), one per
	// tubular segment boundary. Empty for other shapes.
	Path []r3.Vector

	drawRange DrawRange
	disposed  bool
}

// NewGeometry wraps positions and indices. The draw range covers everything.
func NewGeometry(positions []r3.Vector, indices []uint32) *Geometry {
	return &Geometry{
		Positions: positions,
		Indices:   indices,
		drawRange: DrawRange{Start: 0, Count: math.Inf(1)},
	}
}

// IndexCount is the number of indices (three per triangle).
func (g *Geometry) IndexCount() int {
	return len(g.Indices)
}

// DrawRange returns the current draw range.
func (g *Geometry) DrawRange() DrawRange {
	return g.drawRange
}

// SetDrawRange sets the current draw range.
func (g *Geometry) SetDrawRange(start, count float64) {
	g.drawRange = DrawRange{Start: start, Count: count}
}

// Window resolves the draw range to whole indices clamped to the buffer,
// returning the first index and the number of indices to render.
func (g *Geometry) Window() (first, n int) {
	total := len(g.Indices)
	start := math.Max(0, g.drawRange.Start)
	if start >= float64(total) {
		return total, 0
	}
	first = int(start)
	end := start + math.Max(0, g.drawRange.Count)
	if end > float64(total) {
		end = float64(total)
	}
	n = int(end) - first
	n -= n % 3
	if n < 0 {
		n = 0
	}
	return first, n
}

// ApplyMatrix transforms every vertex (and path sample) in place.
func (g *Geometry) ApplyMatrix(m Mat4) *Geometry {
	for i, p := range g.Positions {
		g.Positions[i] = m.TransformPoint(p)
	}
	for i, p := range g.Path {
		g.Path[i] = m.TransformPoint(p)
	}
	return g
}

// Translate moves every vertex by v.
func (g *Geometry) Translate(v r3.Vector) *Geometry {
	return g.ApplyMatrix(Translation(v))
}

// RotateX rotates every vertex about the X axis.
func (g *Geometry) RotateX(angle float64) *Geometry {
	return g.ApplyMatrix(RotationX(angle))
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (g *Geometry) Bounds() (lo, hi r3.Vector) {
	if len(g.Positions) == 0 {
		return r3.Vector{}, r3.Vector{}
	}
	lo, hi = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

// Dispose releases the buffers. Safe to call more than once.
func (g *Geometry) Dispose() {
	if g == nil || g.disposed {
		return
	}
	g.Positions = nil
	g.Indices = nil
	g.Path = nil
	g.disposed = true
}

// Disposed reports whether Dispose has been called.
func (g *Geometry) Disposed() bool {
	return g.disposed
}
