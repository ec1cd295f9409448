package mesh

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	mu *sync.Mutex

	id       int
	name     string
	geometry *PlaneGeometry
	material material.Material
	position common.Vec3
}

// Mesh is a textured gallery plane: a PlaneGeometry placed at a world position with its own material.
// The plane lies in the XY plane at the mesh position and is pickable from both sides.
type Mesh interface {
	// ID returns the mesh identifier, equal to the index of its tracked element.
	ID() int

	// Name returns the mesh name used for GPU resource labels.
	Name() string

	// Geometry returns the current plane geometry.
	Geometry() *PlaneGeometry

	// SetGeometry replaces the plane geometry.
	//
	// Parameters:
	//   - g: the new geometry
	SetGeometry(g *PlaneGeometry)

	// Material returns the mesh material.
	Material() material.Material

	// Position returns the world position of the plane center.
	Position() common.Vec3

	// SetPosition moves the plane center. z is always 0 for gallery planes.
	//
	// Parameters:
	//   - x, y: world coordinates
	SetPosition(x, y float64)

	// Intersect tests a ray against the plane rectangle.
	//
	// Parameters:
	//   - ray: a world-space ray with a unit direction
	//
	// Returns:
	//   - dist: distance along the ray to the hit point
	//   - u, v: UV at the hit point
	//   - ok: false on a miss, for rays parallel to the plane, hits behind the origin and zero-area planes
	Intersect(ray common.Ray) (dist, u, v float64, ok bool)

	// Uniform snapshots position and material into the per-plane GPU uniform.
	Uniform() GPUPlaneUniform
}

var _ Mesh = &mesh{}

// NewMesh creates a new Mesh instance configured with the provided options.
// Without a material the mesh gets a fresh default Material.
//
// Parameters:
//   - options: variadic list of MeshBuilderOption functions to configure the mesh
//
// Returns:
//   - Mesh: a new Mesh instance
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{
		mu:       &sync.Mutex{},
		geometry: NewPlaneGeometry(0, 0, DefaultSegments, DefaultSegments),
	}
	for _, opt := range options {
		opt(m)
	}
	if m.material == nil {
		m.material = material.NewMaterial()
	}
	return m
}

func (m *mesh) ID() int {
	return m.id
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Geometry() *PlaneGeometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.geometry
}

func (m *mesh) SetGeometry(g *PlaneGeometry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geometry = g
}

func (m *mesh) Material() material.Material {
	return m.material
}

func (m *mesh) Position() common.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *mesh) SetPosition(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = common.Vec3{x, y, 0}
}

func (m *mesh) Intersect(ray common.Ray) (dist, u, v float64, ok bool) {
	m.mu.Lock()
	g, pos := m.geometry, m.position
	m.mu.Unlock()

	if g == nil || g.Degenerate() {
		return 0, 0, 0, false
	}
	if math.Abs(ray.Direction[2]) < 1e-12 {
		return 0, 0, 0, false
	}

	t := (pos[2] - ray.Origin[2]) / ray.Direction[2]
	if t <= 0 {
		return 0, 0, 0, false
	}

	hit := ray.At(t)
	lx, ly := hit[0]-pos[0], hit[1]-pos[1]
	if math.Abs(lx) > g.Width/2 || math.Abs(ly) > g.Height/2 {
		return 0, 0, 0, false
	}

	return t, lx/g.Width + 0.5, ly/g.Height + 0.5, true
}

func (m *mesh) Uniform() GPUPlaneUniform {
	pos := m.Position()
	return GPUPlaneUniform{
		Offset:   [4]float32{float32(pos[0]), float32(pos[1]), float32(pos[2]), 1},
		Material: m.material.Uniform(),
	}
}
