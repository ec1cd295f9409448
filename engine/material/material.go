package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/tween"
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name        string
	pipelineKey string
	texture     common.TextureStagingData

	time       float64
	hoverPoint [2]float64
	hover      tween.Tweener
}

// Material holds the per-plane uniform set of the gallery shader: shared time, the bound image
// texture, the tweened hover intensity and the last picked hover point.
//
// A single configured Material acts as the template; each plane receives its own Clone so that
// hover state never leaks between planes. hoverState only changes through the hover tween.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// Texture retrieves the staged image bound to the material.
	//
	// Returns:
	//   - common.TextureStagingData: the staged pixels, empty when unbound
	Texture() common.TextureStagingData

	// SetTexture binds a staged image to the material.
	//
	// Parameters:
	//   - tex: the staged RGBA pixels
	SetTexture(tex common.TextureStagingData)

	// Time retrieves the scene time last written into the material.
	Time() float64

	// SetTime writes the shared scene time.
	SetTime(t float64)

	// HoverState retrieves the current hover intensity in [0, 1].
	HoverState() float64

	// HoverTarget retrieves the value the hover tween is heading to.
	HoverTarget() float64

	// HoverPoint retrieves the last picked UV on the plane. Defaults to the plane center.
	//
	// Returns:
	//   - u, v: texture coordinates in [0, 1]
	HoverPoint() (u, v float64)

	// SetHoverPoint stores a picked UV. Values are clamped to [0, 1].
	//
	// Parameters:
	//   - u, v: texture coordinates
	SetHoverPoint(u, v float64)

	// Hover starts (or redirects) the hover tween towards target.
	//
	// Parameters:
	//   - target: 1 on pointer enter, 0 on pointer leave
	Hover(target float64)

	// AdvanceHover moves the hover tween clock forward.
	//
	// Parameters:
	//   - delta: elapsed seconds
	//
	// Returns:
	//   - float64: the updated hover state
	AdvanceHover(delta float64) float64

	// Uniform snapshots the material into its GPU representation.
	Uniform() GPUMaterialUniform

	// Clone returns an independent copy sharing only the pipeline key and hover timing.
	// Time, texture and hover state start fresh.
	Clone() Material
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:         &sync.Mutex{},
		hoverPoint: [2]float64{0.5, 0.5},
	}
	for _, opt := range options {
		opt(m)
	}
	if m.hover == nil {
		m.hover = tween.NewTweener()
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) PipelineKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipelineKey
}

func (m *material) SetPipelineKey(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pipelineKey = key
}

func (m *material) Texture() common.TextureStagingData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texture
}

func (m *material) SetTexture(tex common.TextureStagingData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texture = tex
}

func (m *material) Time() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.time
}

func (m *material) SetTime(t float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.time = t
}

func (m *material) HoverState() float64 {
	return m.hover.Value()
}

func (m *material) HoverTarget() float64 {
	return m.hover.Target()
}

func (m *material) HoverPoint() (u, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hoverPoint[0], m.hoverPoint[1]
}

func (m *material) SetHoverPoint(u, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hoverPoint = [2]float64{common.Clamp(u, 0, 1), common.Clamp(v, 0, 1)}
}

func (m *material) Hover(target float64) {
	m.hover.To(common.Clamp(target, 0, 1))
}

func (m *material) AdvanceHover(delta float64) float64 {
	return m.hover.Advance(delta)
}

func (m *material) Uniform() GPUMaterialUniform {
	state := m.hover.Value()

	m.mu.Lock()
	defer m.mu.Unlock()
	return GPUMaterialUniform{
		HoverPoint: [2]float32{float32(m.hoverPoint[0]), float32(m.hoverPoint[1])},
		Time:       float32(m.time),
		HoverState: float32(state),
	}
}

func (m *material) Clone() Material {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &material{
		mu:          &sync.Mutex{},
		name:        m.name,
		pipelineKey: m.pipelineKey,
		hoverPoint:  [2]float64{0.5, 0.5},
		hover:       m.hover.Clone(),
	}
}
