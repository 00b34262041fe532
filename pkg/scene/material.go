package scene

import "image/color"

type Blending int

const (
	NormalBlending Blending = iota
	AdditiveBlending
)

// Material describes how a mesh is shaded. Only the properties the 2D
// renderer understands are kept.
type Material struct {
	Name        string
	Color       color.RGBA
	Opacity     float64
	Transparent bool
	Visible     bool
	Blending    Blending
	AlphaTest   float64
	// Size is the point size for point clouds.
	Size float64

	disposed bool
}

// NewMaterial returns a visible, opaque material of the given color.
func NewMaterial(name string, c color.RGBA) *Material {
	return &Material{
		Name:    name,
		Color:   c,
		Opacity: 1,
		Visible: true,
	}
}

// HiddenMaterial returns a material that never renders. Used for hit volumes.
func HiddenMaterial(name string) *Material {
	return &Material{Name: name, Opacity: 1, Visible: false}
}

// Clone returns an independent copy.
func (m *Material) Clone() *Material {
	c := *m
	c.disposed = false
	return &c
}

// Dispose marks the material as released. Safe to call more than once.
func (m *Material) Dispose() {
	if m == nil {
		return
	}
	m.disposed = true
}

// Disposed reports whether Dispose has been called.
func (m *Material) Disposed() bool {
	return m.disposed
}

var ColorWhite = color.RGBA{255, 255, 255, 255}
