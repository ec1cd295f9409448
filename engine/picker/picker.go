package picker

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/mesh"
)

// MeshSource supplies the meshes to pick against.
type MeshSource interface {
	Meshes() []mesh.Mesh
}

type pickerImpl struct {
	mu *sync.Mutex

	camera camera.Camera
	source MeshSource

	last    Hit
	hasLast bool
}

// Picker turns pointer positions into hover points. On every pointer move it casts a camera ray
// through the pointer, finds the nearest plane and writes the hit UV into that plane's material.
// A miss leaves every hover point untouched.
type Picker interface {
	// PointerMove processes a pointer position in container pixels.
	//
	// Parameters:
	//   - x, y: pointer position, origin top-left
	//
	// Returns:
	//   - Hit: the hit that was applied
	//   - bool: false when the ray hit nothing
	PointerMove(x, y float64) (Hit, bool)

	// LastHit returns the most recent applied hit.
	LastHit() (Hit, bool)
}

var _ Picker = &pickerImpl{}

// NewPicker creates a Picker casting rays from cam against the meshes of source.
//
// Parameters:
//   - cam: the gallery camera
//   - source: the mesh collection
//
// Returns:
//   - Picker: the picker
func NewPicker(cam camera.Camera, source MeshSource) Picker {
	return &pickerImpl{
		mu:     &sync.Mutex{},
		camera: cam,
		source: source,
	}
}

func (p *pickerImpl) PointerMove(x, y float64) (Hit, bool) {
	ndcX, ndcY := camera.PixelToNDC(x, y, p.camera.Width(), p.camera.Height())
	ray := p.camera.Ray(ndcX, ndcY)

	hit, ok := Pick(ray, p.source.Meshes())
	if !ok {
		return Hit{}, false
	}

	hit.Mesh.Material().SetHoverPoint(hit.U, hit.V)
	common.Logger().Debug("hover point", "mesh", hit.Index, "u", hit.U, "v", hit.V)

	p.mu.Lock()
	p.last, p.hasLast = hit, true
	p.mu.Unlock()
	return hit, true
}

func (p *pickerImpl) LastHit() (Hit, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.hasLast
}
