package globeengine

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/sudorandom/pr-globe/pkg/scene"
)

// ScreenPoint is a globe-space point after projection. Scale is the number of
// pixels one world unit covers at Depth.
type ScreenPoint struct {
	X, Y  float64
	Depth float64
	Scale float64
}

// Camera is a fixed perspective camera looking down -Z at a globe that the
// user spins. Rotation follows the pointer while dragging and drifts slowly
// around Y otherwise.
type Camera struct {
	Width, Height int

	FOV      float64 // vertical, degrees
	Distance float64

	Offset        r3.Vector // resting euler rotation of the globe
	AutoRotation  float64   // radians per second
	RotationSpeed float64
	Easing        float64
	MaxRotationX  float64

	rotationX float64
	yaw       float64
	targetX   float64
	targetY   float64

	autoScalar       float64
	autoScalarTarget float64

	dragging bool
	ndcX     float64
	ndcY     float64
	lastNDCX float64
	lastNDCY float64
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		Width:         width,
		Height:        height,
		FOV:           20,
		Distance:      220,
		Offset:        r3.Vector{X: .3, Y: 4.6, Z: .05},
		AutoRotation:  .05,
		RotationSpeed: 1,
		Easing:        .175,
		MaxRotationX:  .5,
	}
	c.Reset()
	return c
}

// Reset puts the globe back at its resting rotation.
func (c *Camera) Reset() {
	c.rotationX = c.Offset.X
	c.yaw = c.Offset.Y
	c.targetX, c.targetY = 0, 0
	c.autoScalar, c.autoScalarTarget = 1, 1
	c.dragging = false
}

// SetPointer records the pointer position in screen pixels.
func (c *Camera) SetPointer(x, y float64) {
	c.ndcX = x/float64(c.Width)*2 - 1
	c.ndcY = -(y/float64(c.Height)*2 - 1)
}

// SetDragging starts or stops a drag. Starting a drag forgets any pointer
// movement made before it.
func (c *Camera) SetDragging(dragging bool) {
	if dragging && !c.dragging {
		c.lastNDCX, c.lastNDCY = c.ndcX, c.ndcY
	}
	c.dragging = dragging
}

func (c *Camera) Dragging() bool {
	return c.dragging
}

// PauseAutoRotation eases the idle spin out (or back in) over the next
// updates; used while an info card is open.
func (c *Camera) PauseAutoRotation(paused bool) {
	if paused {
		c.autoScalarTarget = 0
	} else {
		c.autoScalarTarget = 1
	}
}

// Rotation returns the current euler rotation of the globe.
func (c *Camera) Rotation() r3.Vector {
	return r3.Vector{X: c.rotationX, Y: c.yaw, Z: c.Offset.Z}
}

// Update advances the rotation by delta seconds.
func (c *Camera) Update(delta float64) {
	var dx, dy float64
	if c.dragging {
		dy = c.ndcY - c.lastNDCY
		c.targetY = clamp(c.targetY-dy, -c.MaxRotationX, c.MaxRotationX)
		dx = c.ndcX - c.lastNDCX
	}

	c.rotationX += (c.targetY + c.Offset.X - c.rotationX) * c.Easing

	c.targetX += (0 - (c.targetX - dx)) * c.Easing
	c.yaw += c.targetX * c.RotationSpeed
	if !c.dragging {
		c.yaw += delta * c.AutoRotation * c.autoScalar
	}
	c.yaw = math.Mod(c.yaw, 2*math.Pi)

	c.autoScalar += (c.autoScalarTarget - c.autoScalar) * .05
	c.lastNDCX, c.lastNDCY = c.ndcX, c.ndcY
}

// Matrix is the globe's model matrix: the tilt around X is applied on top of
// the spin around Y.
func (c *Camera) Matrix() scene.Mat4 {
	return scene.RotationX(c.rotationX).
		Mul(scene.RotationY(c.yaw)).
		Mul(scene.RotationZ(c.Offset.Z))
}

func (c *Camera) focal() float64 {
	return float64(c.Height) / 2 / math.Tan(c.FOV*math.Pi/360)
}

// Project maps a point already in world space to the screen. It reports
// false for points at or behind the camera.
func (c *Camera) Project(w r3.Vector) (ScreenPoint, bool) {
	depth := c.Distance - w.Z
	if depth <= 1e-6 {
		return ScreenPoint{}, false
	}
	scale := c.focal() / depth
	return ScreenPoint{
		X:     float64(c.Width)/2 + w.X*scale,
		Y:     float64(c.Height)/2 - w.Y*scale,
		Depth: depth,
		Scale: scale,
	}, true
}

// Occluded reports whether the globe of the given radius hides the world
// space point w from the camera. Points on the near side of the surface are
// visible.
func (c *Camera) Occluded(w r3.Vector, radius float64) bool {
	eye := r3.Vector{Z: c.Distance}
	d := w.Sub(eye)
	a := d.Dot(d)
	if a == 0 {
		return false
	}
	b := 2 * eye.Dot(d)
	cc := eye.Dot(eye) - radius*radius
	disc := b*b - 4*a*cc
	if disc < 0 {
		return false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	return t > 0 && t < 1-1e-4
}

// GlobeRadius is the on-screen radius of the silhouette of a globe of the
// given world radius.
func (c *Camera) GlobeRadius(radius float64) float64 {
	if radius >= c.Distance {
		return math.Inf(1)
	}
	return c.focal() * radius / math.Sqrt(c.Distance*c.Distance-radius*radius)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
