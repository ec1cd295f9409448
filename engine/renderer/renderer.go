package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *wgpu.Color
	pendingPipelines     []pipeline.Pipeline
}

// Renderer is the high-level GPU API of the gallery.
//
// A frame is recorded in two passes on one command encoder: the scene pass draws into an offscreen,
// optionally multisampled color target, then the post pass samples that target and draws into the
// swapchain:
//
//	BeginScenePass -> DrawCall* -> EndScenePass -> BeginPostPass -> DrawFullscreen -> EndFrame -> Present
//
// Pipelines are registered once and looked up by key.
type Renderer interface {
	// Pipeline retrieves a registered Pipeline by key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the registered pipeline, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a copy of the registered pipelines keyed by PipelineKey.
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines compiles and caches pipelines. Keys that are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the pipeline descriptions to register
	//
	// Returns:
	//   - error: the first compilation error
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface and recreates the offscreen target. Bind groups referencing
	// the previous SceneColorView must be rebuilt afterwards.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the new targets could not be created
	Resize(width, height int) error

	// SetPresentMode sets the present mode. A call to Resize is required for it to take effect.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the scene pass clears to.
	SetClearColor(c wgpu.Color)

	// SceneColorView returns the sampleable view of the offscreen scene target.
	SceneColorView() *wgpu.TextureView

	// InitMeshBuffers creates GPU vertex and index buffers from raw bytes on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates uniform buffers and the bind group for a layout descriptor on the provider.
	// Textures and samplers must be set first, with InitTextureView and InitSampler or directly.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the bind group on
	//   - descriptor: the layout descriptor, usually from MergedBindGroupLayouts
	//   - bufferUsageOverrides: extra usage flags keyed by binding (nil safe)
	//   - bufferSizeOverrides: sizes replacing MinBindingSize keyed by binding (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView uploads staged RGBA pixels and stores the texture view on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData SamplerStagingData) error

	// WriteBuffers queues buffer uploads. Writes queued before EndFrame are visible to that frame.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginScenePass opens a frame and begins the pass into the offscreen target.
	BeginScenePass() error

	// DrawCall encodes an indexed draw with a registered scene pipeline.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline key
	//   - meshProvider: the provider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers whose bind groups are set at indices 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not registered
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndScenePass ends the scene pass.
	EndScenePass()

	// BeginPostPass acquires the swapchain texture and begins the pass into it.
	BeginPostPass() error

	// DrawFullscreen encodes a full-screen triangle with a registered screen pipeline.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline key
	//   - bindGroups: providers whose bind groups are set at indices 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not registered
	DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends any open pass and submits the frame.
	EndFrame()

	// Present presents the swapchain texture acquired by BeginPostPass.
	Present()

	// Release frees the compiled pipelines, the offscreen target and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for a window's surface. It acquires the GPU, configures the surface at
// the window size and registers any pipelines passed with WithPipeline.
// Panics if no adapter or device can be acquired.
//
// Parameters:
//   - backendType: the backend implementation to use
//   - window: the window whose surface is rendered to
//   - options: functional options applied before the backend is created
//
// Returns:
//   - Renderer: the ready renderer
//   - error: an error if the surface or a pipeline could not be set up
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Options first so forceFallbackAdapter is known before the adapter request.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	if err := r.backend.ConfigureSurface(window.Width(), window.Height()); err != nil {
		return nil, fmt.Errorf("configure surface: %w", err)
	}
	if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
		return nil, err
	}
	r.pendingPipelines = nil
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(c wgpu.Color) {
	r.backend.SetClearColor(c)
}

func (r *renderer) SceneColorView() *wgpu.TextureView {
	return r.backend.SceneColorView()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %s: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginScenePass() error {
	return r.backend.BeginScenePass()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("pipeline %q not registered", pipelineKey)
	}
	r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
	return nil
}

func (r *renderer) EndScenePass() {
	r.backend.EndScenePass()
}

func (r *renderer) BeginPostPass() error {
	return r.backend.BeginPostPass()
}

func (r *renderer) DrawFullscreen(pipelineKey string, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("pipeline %q not registered", pipelineKey)
	}
	r.backend.DrawFullscreen(p, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for _, p := range r.pipelineCache {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
			p.SetRenderPipeline(nil)
		}
	}
	r.mu.Unlock()

	r.backend.Release()
}
