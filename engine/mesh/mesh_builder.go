package mesh

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
)

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithID is an option builder that sets the mesh identifier.
//
// Parameters:
//   - id: index of the tracked element the mesh represents
//
// Returns:
//   - MeshBuilderOption: a function that applies the id option to a mesh
func WithID(id int) MeshBuilderOption {
	return func(m *mesh) {
		m.id = id
	}
}

// WithName is an option builder that sets the mesh name.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option to a mesh
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithGeometry is an option builder that sets the plane geometry.
//
// Parameters:
//   - g: the plane geometry
//
// Returns:
//   - MeshBuilderOption: a function that applies the geometry option to a mesh
func WithGeometry(g *PlaneGeometry) MeshBuilderOption {
	return func(m *mesh) {
		m.geometry = g
	}
}

// WithMaterial is an option builder that sets the mesh material.
//
// Parameters:
//   - mat: the material, usually a clone of the shared template
//
// Returns:
//   - MeshBuilderOption: a function that applies the material option to a mesh
func WithMaterial(mat material.Material) MeshBuilderOption {
	return func(m *mesh) {
		m.material = mat
	}
}

// WithPosition is an option builder that sets the initial world position.
//
// Parameters:
//   - pos: the plane center
//
// Returns:
//   - MeshBuilderOption: a function that applies the position option to a mesh
func WithPosition(pos common.Vec3) MeshBuilderOption {
	return func(m *mesh) {
		m.position = pos
	}
}
