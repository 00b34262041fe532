package scene

import (
	"image/color"

	"github.com/golang/geo/r3"
)

// Object is anything that can live in a Group.
type Object interface {
	Dispose()
}

// Mesh is a single geometry rendered with a single material.
type Mesh struct {
	Name      string
	Geometry  *Geometry
	Material  *Material
	Transform Transform
	UserData  any
}

func NewMesh(g *Geometry, m *Material) *Mesh {
	return &Mesh{Geometry: g, Material: m, Transform: NewTransform()}
}

// Matrix is the mesh's model matrix.
func (m *Mesh) Matrix() Mat4 {
	return m.Transform.Matrix()
}

// Dispose releases the geometry and material the mesh points at. Callers
// that share a geometry or material between meshes must not dispose those
// meshes individually.
func (m *Mesh) Dispose() {
	m.Geometry.Dispose()
	m.Material.Dispose()
}

// InstancedMesh renders one geometry many times with per-instance matrices.
type InstancedMesh struct {
	Name     string
	Geometry *Geometry
	Material *Material
	Matrices []Mat4
}

func NewInstancedMesh(g *Geometry, m *Material, count int) *InstancedMesh {
	matrices := make([]Mat4, count)
	for i := range matrices {
		matrices[i] = Identity()
	}
	return &InstancedMesh{Geometry: g, Material: m, Matrices: matrices}
}

func (im *InstancedMesh) Count() int {
	return len(im.Matrices)
}

func (im *InstancedMesh) SetMatrixAt(i int, m Mat4) {
	im.Matrices[i] = m
}

func (im *InstancedMesh) MatrixAt(i int) Mat4 {
	return im.Matrices[i]
}

func (im *InstancedMesh) Dispose() {
	im.Geometry.Dispose()
	im.Material.Dispose()
	im.Matrices = nil
}

// Points is a point cloud with per-point colors.
type Points struct {
	Name      string
	Positions []r3.Vector
	Colors    []color.RGBA
	Material  *Material
}

func (p *Points) Count() int {
	return len(p.Positions)
}

func (p *Points) Dispose() {
	p.Positions = nil
	p.Colors = nil
	p.Material.Dispose()
}

// Group is an ordered collection of child objects.
type Group struct {
	Name     string
	children []Object
}

func NewGroup(name string) *Group {
	return &Group{Name: name}
}

// Add appends o unless it is already a child.
func (g *Group) Add(o Object) {
	if g.Contains(o) {
		return
	}
	g.children = append(g.children, o)
}

// Remove detaches o and reports whether it was a child.
func (g *Group) Remove(o Object) bool {
	for i, c := range g.children {
		if c == o {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Group) Contains(o Object) bool {
	for _, c := range g.children {
		if c == o {
			return true
		}
	}
	return false
}

// Children returns the current children. The slice must not be modified.
func (g *Group) Children() []Object {
	return g.children
}

func (g *Group) Len() int {
	return len(g.children)
}

// Dispose disposes every child and empties the group.
func (g *Group) Dispose() {
	for _, c := range g.children {
		c.Dispose()
	}
	g.children = nil
}
