package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// frames holds the parallel-transport frames along a curve.
type frames struct {
	tangents, normals, binormals []r3.Vector
}

// computeFrames samples segments+1 tangents by arc length and transports an
// initial normal along them so the tube does not twist.
func computeFrames(c Curve, segments int) frames {
	f := frames{
		tangents:  make([]r3.Vector, segments+1),
		normals:   make([]r3.Vector, segments+1),
		binormals: make([]r3.Vector, segments+1),
	}
	for i := 0; i <= segments; i++ {
		f.tangents[i] = c.TangentAt(float64(i) / float64(segments))
	}

	// initial normal along the axis least aligned with the first tangent
	t0 := f.tangents[0]
	minAxis := math.MaxFloat64
	var axis r3.Vector
	tx, ty, tz := math.Abs(t0.X), math.Abs(t0.Y), math.Abs(t0.Z)
	if tx <= minAxis {
		minAxis = tx
		axis = r3.Vector{X: 1}
	}
	if ty <= minAxis {
		minAxis = ty
		axis = r3.Vector{Y: 1}
	}
	if tz <= minAxis {
		axis = r3.Vector{Z: 1}
	}
	vec := t0.Cross(axis).Normalize()
	f.normals[0] = t0.Cross(vec)
	f.binormals[0] = t0.Cross(f.normals[0])

	for i := 1; i <= segments; i++ {
		f.normals[i] = f.normals[i-1]
		vec := f.tangents[i-1].Cross(f.tangents[i])
		if vec.Norm() > 1e-10 {
			vec = vec.Normalize()
			dot := math.Max(-1, math.Min(1, f.tangents[i-1].Dot(f.tangents[i])))
			f.normals[i] = RotateAxis(f.normals[i], vec, math.Acos(dot))
		}
		f.binormals[i] = f.tangents[i].Cross(f.normals[i])
	}
	return f
}

// NewTubeGeometry sweeps a circle of the given radius along c. The index
// buffer is ordered from the start of the curve to its end, with
// radialSegments*6 indices per tubular segment, so a draw range starting at
// zero reveals the tube from its start.
func NewTubeGeometry(c Curve, tubularSegments int, radius float64, radialSegments int) *Geometry {
	if tubularSegments < 1 {
		tubularSegments = 1
	}
	if radialSegments < 3 {
		radialSegments = 3
	}
	f := computeFrames(c, tubularSegments)

	positions := make([]r3.Vector, 0, (tubularSegments+1)*(radialSegments+1))
	path := make([]r3.Vector, 0, tubularSegments+1)
	for i := 0; i <= tubularSegments; i++ {
		p := c.PointAt(float64(i) / float64(tubularSegments))
		path = append(path, p)
		n, b := f.normals[i], f.binormals[i]
		for j := 0; j <= radialSegments; j++ {
			v := float64(j) / float64(radialSegments) * 2 * math.Pi
			sin, cos := math.Sin(v), -math.Cos(v)
			normal := n.Mul(cos).Add(b.Mul(sin))
			if normal.Norm2() > 0 {
				normal = normal.Normalize()
			}
			positions = append(positions, p.Add(normal.Mul(radius)))
		}
	}

	indices := make([]uint32, 0, tubularSegments*radialSegments*6)
	stride := uint32(radialSegments + 1)
	for j := uint32(1); j <= uint32(tubularSegments); j++ {
		for i := uint32(1); i <= uint32(radialSegments); i++ {
			a := stride*(j-1) + (i - 1)
			b := stride*j + (i - 1)
			c := stride*j + i
			d := stride*(j-1) + i
			indices = append(indices, a, b, d, b, c, d)
		}
	}

	g := NewGeometry(positions, indices)
	g.Path = path
	return g
}

// TubeSegmentRange converts the draw range of a tube built with
// radialSegments into the range of path samples it covers.
func TubeSegmentRange(g *Geometry, radialSegments int) (from, to int) {
	first, n := g.Window()
	if n == 0 || len(g.Path) == 0 {
		return 0, 0
	}
	perSegment := radialSegments * 6
	from = first / perSegment
	to = (first + n + perSegment - 1) / perSegment
	if to > len(g.Path)-1 {
		to = len(g.Path) - 1
	}
	return from, to
}
