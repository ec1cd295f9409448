package renderer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
	"github.com/Carmen-Shannon/oxy-gallery/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gallery/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// PlanePipelineKey is the registered key of the textured plane pipeline.
const PlanePipelineKey = "gallery_plane"

// WhiteTexture is a single opaque white pixel, bound to planes without an image.
var WhiteTexture = common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}

// planeResources holds the GPU side of one plane. The uniform provider also owns the mesh buffers.
type planeResources struct {
	mesh    mesh.Mesh
	uniform bind_group_provider.BindGroupProvider
	image   bind_group_provider.BindGroupProvider
}

type planeBackend struct {
	mu *sync.Mutex

	renderer Renderer
	camera   camera.Camera
	pipeline pipeline.Pipeline
	layouts  map[int]wgpu.BindGroupLayoutDescriptor

	cameraGroup, cameraBinding int
	planeGroup, planeBinding   int
	imageGroup, textureBinding int
	samplerBinding             int

	cameraProvider bind_group_provider.BindGroupProvider
	planes         []*planeResources

	fallback common.TextureStagingData
	sampler  SamplerStagingData
}

// PlaneBackend owns the GPU resources of every gallery plane and issues the scene pass draw calls.
// Per plane it keeps the mesh buffers, the plane uniform bind group and the image bind group; the
// camera bind group is shared.
type PlaneBackend interface {
	scene.Backend
	postprocess.PlaneDrawer

	// Len returns the number of planes with live GPU resources.
	Len() int

	// Release frees every plane and the camera bind group.
	Release()
}

var _ PlaneBackend = &planeBackend{}

// NewPlaneBackend registers the plane pipeline on r and creates the shared camera bind group.
// Binding slots are resolved from the shader annotations rather than fixed indices.
//
// Parameters:
//   - r: the renderer, with its surface configured
//   - cam: the camera whose uniform is uploaded before every scene pass
//   - options: functional options to further configure the backend
//
// Returns:
//   - PlaneBackend: the ready backend
//   - error: an error if the shaders, the pipeline or the camera bind group could not be created
func NewPlaneBackend(r Renderer, cam camera.Camera, options ...PlaneBackendBuilderOption) (PlaneBackend, error) {
	b := &planeBackend{
		mu:       &sync.Mutex{},
		renderer: r,
		camera:   cam,
		fallback: WhiteTexture,
		sampler:  ClampedLinearSampler,
	}
	for _, opt := range options {
		opt(b)
	}

	vs, err := shader.NewShader("plane_vert", shader.ShaderTypeVertex, material.PlaneVertexShaderSource)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader("plane_frag", shader.ShaderTypeFragment, material.PlaneFragmentShaderSource)
	if err != nil {
		return nil, err
	}

	var ok bool
	if b.cameraGroup, b.cameraBinding, ok = vs.StructBinding(shader.AnnotationArgCamera); !ok {
		return nil, errors.New("plane vertex shader declares no camera uniform")
	}
	if b.planeGroup, b.planeBinding, ok = vs.StructBinding(shader.AnnotationArgPlane); !ok {
		return nil, errors.New("plane vertex shader declares no plane uniform")
	}
	if b.imageGroup, b.textureBinding, ok = fs.ProviderBinding(shader.AnnotationArgImage, shader.AnnotationArgColorTexture); !ok {
		return nil, errors.New("plane fragment shader declares no image texture")
	}
	samplerGroup, samplerBinding, ok := fs.ProviderBinding(shader.AnnotationArgImage, shader.AnnotationArgColorSampler)
	if !ok || samplerGroup != b.imageGroup {
		return nil, fmt.Errorf("plane fragment shader declares no image sampler in group %d", b.imageGroup)
	}
	b.samplerBinding = samplerBinding
	if err := distinctGroups(b.cameraGroup, b.planeGroup, b.imageGroup); err != nil {
		return nil, fmt.Errorf("plane pipeline: %w", err)
	}

	p := pipeline.NewPipeline(PlanePipelineKey, pipeline.PipelineTargetScene,
		pipeline.WithShaders(vs, fs),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, err
	}
	b.pipeline = r.Pipeline(PlanePipelineKey)
	b.layouts = MergedBindGroupLayouts(b.pipeline)

	b.cameraProvider = bind_group_provider.NewBindGroupProvider("camera")
	if err := r.InitBindGroup(b.cameraProvider, b.layouts[b.cameraGroup], nil, nil); err != nil {
		b.cameraProvider.Release()
		return nil, fmt.Errorf("camera bind group: %w", err)
	}
	return b, nil
}

// distinctGroups checks that the groups are pairwise distinct and cover 0..n-1.
func distinctGroups(groups ...int) error {
	sorted := slices.Clone(groups)
	slices.Sort(sorted)
	for i, g := range sorted {
		if g != i {
			return fmt.Errorf("bind groups %v must be distinct and contiguous from 0", groups)
		}
	}
	return nil
}

// find returns the resources of m, or nil. Caller must hold the lock.
func (b *planeBackend) find(m mesh.Mesh) *planeResources {
	for _, res := range b.planes {
		if res.mesh.ID() == m.ID() {
			return res
		}
	}
	return nil
}

func (b *planeBackend) CreatePlane(m mesh.Mesh) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.find(m) != nil {
		return fmt.Errorf("plane %d already created", m.ID())
	}

	res := &planeResources{
		mesh:    m,
		uniform: bind_group_provider.NewBindGroupProvider(m.Name()),
		image:   bind_group_provider.NewBindGroupProvider(m.Name() + " image"),
	}
	if err := b.initPlane(res); err != nil {
		res.uniform.Release()
		res.image.Release()
		return err
	}
	b.planes = append(b.planes, res)

	common.Logger().Debug("plane created", "id", m.ID(), "name", m.Name())
	return nil
}

// initPlane uploads geometry, the initial uniform and the image of a new plane. Caller must hold the lock.
func (b *planeBackend) initPlane(res *planeResources) error {
	if g := res.mesh.Geometry(); g != nil {
		if err := b.renderer.InitMeshBuffers(res.uniform, g.VertexData(), g.IndexData(), g.IndexCount()); err != nil {
			return fmt.Errorf("mesh buffers: %w", err)
		}
	}
	if err := b.renderer.InitBindGroup(res.uniform, b.layouts[b.planeGroup], nil, nil); err != nil {
		return fmt.Errorf("plane bind group: %w", err)
	}
	u := res.mesh.Uniform()
	b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: res.uniform, Binding: b.planeBinding, Data: u.Marshal()},
	})

	tex := res.mesh.Material().Texture()
	if tex.Empty() {
		tex = b.fallback
	}
	if err := b.renderer.InitTextureView(res.image, b.textureBinding, tex); err != nil {
		return fmt.Errorf("image texture: %w", err)
	}
	if err := b.renderer.InitSampler(res.image, b.samplerBinding, b.sampler); err != nil {
		return fmt.Errorf("image sampler: %w", err)
	}
	if err := b.renderer.InitBindGroup(res.image, b.layouts[b.imageGroup], nil, nil); err != nil {
		return fmt.Errorf("image bind group: %w", err)
	}
	return nil
}

func (b *planeBackend) ReplaceGeometry(m mesh.Mesh, g *mesh.PlaneGeometry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := b.find(m)
	if res == nil {
		return fmt.Errorf("plane %d not created", m.ID())
	}

	if g == nil {
		res.uniform.ReleaseMeshBuffers()
		return nil
	}
	// InitMeshBuffers swaps the buffers only after both uploads succeed.
	return b.renderer.InitMeshBuffers(res.uniform, g.VertexData(), g.IndexData(), g.IndexCount())
}

func (b *planeBackend) WritePlaneUniform(m mesh.Mesh, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res := b.find(m)
	if res == nil {
		return
	}
	b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: res.uniform, Binding: b.planeBinding, Data: data},
	})
}

func (b *planeBackend) ReleasePlane(m mesh.Mesh) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.planes = slices.DeleteFunc(b.planes, func(res *planeResources) bool {
		if res.mesh.ID() != m.ID() {
			return false
		}
		res.uniform.Release()
		res.image.Release()
		return true
	})
}

func (b *planeBackend) DrawPlanes() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cu := b.camera.Uniform()
	b.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: b.cameraProvider, Binding: b.cameraBinding, Data: cu.Marshal()},
	})

	groups := make([]bind_group_provider.BindGroupProvider, 3)
	groups[b.cameraGroup] = b.cameraProvider
	for _, res := range b.planes {
		if g := res.mesh.Geometry(); g == nil || g.Degenerate() {
			continue
		}
		groups[b.planeGroup] = res.uniform
		groups[b.imageGroup] = res.image
		if err := b.renderer.DrawCall(PlanePipelineKey, res.uniform, 1, groups); err != nil {
			return err
		}
	}
	return nil
}

func (b *planeBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.planes)
}

func (b *planeBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, res := range b.planes {
		res.uniform.Release()
		res.image.Release()
	}
	b.planes = nil
	b.cameraProvider.Release()
}
