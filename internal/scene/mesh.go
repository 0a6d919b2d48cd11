package scene

import "topovista/internal/vmath"

// Material describes how a mesh surface is shaded. Emissive is the
// hover-highlight channel and rests at black.
type Material struct {
	Name     string
	Diffuse  vmath.Color
	Emissive vmath.Color
}

// Mesh is a drawable node: a geometry plus a material. Template
// meshes loaded from assets are cloned per device; procedural meshes
// are built directly.
type Mesh struct {
	Node
	Geometry Geometry
	Material Material

	// Billboard marks the mesh as always facing the viewer, used by
	// labels.
	Billboard bool

	children []*Mesh
}

// NewMesh creates an enabled mesh with the given geometry and
// material.
func NewMesh(name string, geometry Geometry, material Material) *Mesh {
	m := &Mesh{Geometry: geometry, Material: material}
	m.Node = *NewNode(name)
	return m
}

// AddChild parents child under the mesh. Child visibility becomes
// subordinate to the mesh's own enabled flag.
func (m *Mesh) AddChild(child *Mesh) {
	child.SetParent(&m.Node)
	m.children = append(m.children, child)
}

// Children returns the mesh's direct children.
func (m *Mesh) Children() []*Mesh {
	return m.children
}

// Clone returns a deep copy of the mesh and its subtree under a new
// name. The clone is detached from the original's parent and starts
// enabled.
func (m *Mesh) Clone(name string) *Mesh {
	out := NewMesh(name, m.Geometry.clone(), m.Material)
	out.Position = m.Position
	out.Rotation = m.Rotation
	out.Scaling = m.Scaling
	out.Billboard = m.Billboard
	for _, child := range m.children {
		out.AddChild(child.Clone(child.Name))
	}
	return out
}
