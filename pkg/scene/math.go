// Package scene provides the renderable primitives the globe generators build:
// indexed geometries with draw ranges, materials, meshes, instanced meshes,
// point clouds and groups, plus the small amount of 3D math they need.
package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// Mat4 is a 4x4 matrix stored in column-major order.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Basis is an orthonormal rotation expressed as its three axis columns.
type Basis struct {
	X, Y, Z r3.Vector
}

// IdentityBasis is the unrotated basis.
var IdentityBasis = Basis{
	X: r3.Vector{X: 1},
	Y: r3.Vector{Y: 1},
	Z: r3.Vector{Z: 1},
}

// LookRotation returns the rotation that points the local +Z axis from eye
// towards target. This is how non-camera objects are oriented, so flat
// primitives built in the XY plane end up facing the target.
func LookRotation(eye, target, up r3.Vector) Basis {
	z := target.Sub(eye)
	if z.Norm2() == 0 {
		z = r3.Vector{Z: 1}
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.Norm2() == 0 {
		// up and z are parallel
		if math.Abs(up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	return Basis{X: x, Y: y, Z: z}
}

// Apply rotates v by the basis.
func (b Basis) Apply(v r3.Vector) r3.Vector {
	return b.X.Mul(v.X).Add(b.Y.Mul(v.Y)).Add(b.Z.Mul(v.Z))
}

// Compose builds a model matrix from a translation, a rotation and a scale.
func Compose(position r3.Vector, rotation Basis, scale r3.Vector) Mat4 {
	x := rotation.X.Mul(scale.X)
	y := rotation.Y.Mul(scale.Y)
	z := rotation.Z.Mul(scale.Z)
	return Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		position.X, position.Y, position.Z, 1,
	}
}

// RotationX returns a rotation of angle radians about the X axis.
func RotationX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationY returns a rotation of angle radians about the Y axis.
func RotationY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ returns a rotation of angle radians about the Z axis.
func RotationZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a translation matrix.
func Translation(v r3.Vector) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ { // column of o
		for j := 0; j < 4; j++ { // row of m
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[k*4+j] * o[i*4+k]
			}
			out[i*4+j] = sum
		}
	}
	return out
}

// TransformPoint applies the full affine transform to p.
func (m Mat4) TransformPoint(p r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// TransformDirection applies only the linear part of the transform to d.
func (m Mat4) TransformDirection(d r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		Y: m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		Z: m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Position returns the translation column.
func (m Mat4) Position() r3.Vector {
	return r3.Vector{X: m[12], Y: m[13], Z: m[14]}
}

// Column returns the i-th basis column (0..2) including its scale.
func (m Mat4) Column(i int) r3.Vector {
	return r3.Vector{X: m[i*4], Y: m[i*4+1], Z: m[i*4+2]}
}

// RotateAxis rotates v about the unit axis k by theta radians.
func RotateAxis(v, k r3.Vector, theta float64) r3.Vector {
	c, s := math.Cos(theta), math.Sin(theta)
	return v.Mul(c).Add(k.Cross(v).Mul(s)).Add(k.Mul(k.Dot(v) * (1 - c)))
}

// Transform is a position, rotation and scale that can be baked into a Mat4.
type Transform struct {
	Position r3.Vector
	Rotation Basis
	Scale    r3.Vector
}

// NewTransform returns an identity transform with unit scale.
func NewTransform() Transform {
	return Transform{
		Rotation: IdentityBasis,
		Scale:    r3.Vector{X: 1, Y: 1, Z: 1},
	}
}

// LookAt orients the transform so its +Z axis faces target.
func (t *Transform) LookAt(target r3.Vector) {
	t.Rotation = LookRotation(t.Position, target, r3.Vector{Y: 1})
}

// Matrix bakes the transform.
func (t Transform) Matrix() Mat4 {
	return Compose(t.Position, t.Rotation, t.Scale)
}
