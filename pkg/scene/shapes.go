package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// NewCircleGeometry builds a flat disc in the XY plane facing +Z.
func NewCircleGeometry(radius float64, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	positions := []r3.Vector{{}}
	for s := 0; s <= segments; s++ {
		theta := float64(s) / float64(segments) * 2 * math.Pi
		positions = append(positions, r3.Vector{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)})
	}
	var indices []uint32
	for i := 1; i <= segments; i++ {
		indices = append(indices, uint32(i), uint32(i+1), 0)
	}
	return NewGeometry(positions, indices)
}

// NewRingGeometry builds a flat annulus in the XY plane facing +Z.
func NewRingGeometry(innerRadius, outerRadius float64, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	var positions []r3.Vector
	for _, r := range []float64{innerRadius, outerRadius} {
		for s := 0; s <= segments; s++ {
			theta := float64(s) / float64(segments) * 2 * math.Pi
			positions = append(positions, r3.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta)})
		}
	}
	var indices []uint32
	stride := uint32(segments + 1)
	for s := uint32(0); s < uint32(segments); s++ {
		a, b := s, s+stride
		c, d := s+stride+1, s+1
		indices = append(indices, a, b, d, b, c, d)
	}
	return NewGeometry(positions, indices)
}

// NewCylinderGeometry builds a capped cylinder centered on the origin along Y.
func NewCylinderGeometry(radiusTop, radiusBottom, height float64, radialSegments int) *Geometry {
	if radialSegments < 3 {
		radialSegments = 3
	}
	half := height / 2
	var positions []r3.Vector
	var indices []uint32

	// torso: row 0 at the top, row 1 at the bottom
	for row := 0; row <= 1; row++ {
		radius := float64(row)*(radiusBottom-radiusTop) + radiusTop
		y := -float64(row)*height + half
		for x := 0; x <= radialSegments; x++ {
			theta := float64(x) / float64(radialSegments) * 2 * math.Pi
			positions = append(positions, r3.Vector{X: radius * math.Sin(theta), Y: y, Z: radius * math.Cos(theta)})
		}
	}
	stride := uint32(radialSegments + 1)
	for x := uint32(0); x < uint32(radialSegments); x++ {
		a, b := x, x+stride
		c, d := x+stride+1, x+1
		indices = append(indices, a, b, d, b, c, d)
	}

	addCap := func(top bool) {
		radius, y := radiusBottom, -half
		if top {
			radius, y = radiusTop, half
		}
		center := uint32(len(positions))
		positions = append(positions, r3.Vector{Y: y})
		for x := 0; x <= radialSegments; x++ {
			theta := float64(x) / float64(radialSegments) * 2 * math.Pi
			positions = append(positions, r3.Vector{X: radius * math.Sin(theta), Y: y, Z: radius * math.Cos(theta)})
		}
		for x := uint32(1); x <= uint32(radialSegments); x++ {
			if top {
				indices = append(indices, center+x, center+x+1, center)
			} else {
				indices = append(indices, center+x+1, center+x, center)
			}
		}
	}
	addCap(true)
	addCap(false)
	return NewGeometry(positions, indices)
}

// NewBoxGeometry builds an axis-aligned box centered on the origin.
func NewBoxGeometry(width, height, depth float64) *Geometry {
	w, h, d := width/2, height/2, depth/2
	positions := []r3.Vector{
		{X: -w, Y: -h, Z: -d}, {X: w, Y: -h, Z: -d}, {X: w, Y: h, Z: -d}, {X: -w, Y: h, Z: -d},
		{X: -w, Y: -h, Z: d}, {X: w, Y: -h, Z: d}, {X: w, Y: h, Z: d}, {X: -w, Y: h, Z: d},
	}
	indices := []uint32{
		4, 5, 6, 4, 6, 7, // +z
		1, 0, 3, 1, 3, 2, // -z
		5, 1, 2, 5, 2, 6, // +x
		0, 4, 7, 0, 7, 3, // -x
		7, 6, 2, 7, 2, 3, // +y
		0, 1, 5, 0, 5, 4, // -y
	}
	return NewGeometry(positions, indices)
}
