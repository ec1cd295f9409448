package picker

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/mesh"
)

// Hit describes the nearest plane under a ray.
type Hit struct {
	Mesh     mesh.Mesh
	Index    int
	Distance float64
	U, V     float64
}

// Pick returns the nearest mesh intersected by ray. Meshes are tested linearly; on equal distance the
// earlier mesh wins. Zero-area meshes are never hit.
//
// Parameters:
//   - ray: world-space ray with a unit direction
//   - meshes: candidate meshes
//
// Returns:
//   - Hit: the nearest hit, zero when ok is false
//   - bool: whether anything was hit
func Pick(ray common.Ray, meshes []mesh.Mesh) (Hit, bool) {
	var best Hit
	found := false

	for i, m := range meshes {
		if m == nil {
			continue
		}
		dist, u, v, ok := m.Intersect(ray)
		if !ok {
			continue
		}
		if !found || dist < best.Distance {
			best = Hit{Mesh: m, Index: i, Distance: dist, U: u, V: v}
			found = true
		}
	}

	return best, found
}
