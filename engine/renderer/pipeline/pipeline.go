package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineTarget identifies the attachment set a render pipeline draws into.
type PipelineTarget int

const (
	// PipelineTargetScene draws into the multisampled offscreen color target with depth.
	PipelineTargetScene PipelineTarget = iota

	// PipelineTargetScreen draws into the presentable surface, single-sampled and without depth.
	PipelineTargetScreen
)

// String returns the target name.
func (t PipelineTarget) String() string {
	switch t {
	case PipelineTargetScene:
		return "scene"
	case PipelineTargetScreen:
		return "screen"
	default:
		return fmt.Sprintf("PipelineTarget(%d)", int(t))
	}
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineKey string
	target      PipelineTarget

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is set by the renderer backend on registration.
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a render pipeline: its two shader stages, the attachment set it targets and the
// fixed-function state the backend compiles it with.
type Pipeline interface {
	// PipelineKey returns the unique key used for caching and lookups.
	PipelineKey() string

	// Target returns the attachment set the pipeline draws into.
	Target() PipelineTarget

	// Shader retrieves the shader of a stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader of the stage, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// Validate checks that both stages are set and match their slots.
	//
	// Returns:
	//   - error: an error describing the first missing or mismatched stage
	Validate() error

	// RenderPipeline returns the compiled pipeline, or nil before registration.
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the compiled pipeline.
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// DepthTestEnabled reports whether fragments are depth tested. Ignored for PipelineTargetScreen.
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth. Ignored for PipelineTargetScreen.
	DepthWriteEnabled() bool

	// BlendEnabled reports whether BlendState is applied to the color target.
	BlendEnabled() bool

	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask
	BlendState() *wgpu.BlendState
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline description.
// Defaults: depth test and write on, blending off with a straight-alpha blend state ready, no culling
// (planes are double-sided), triangle lists, counter-clockwise front faces.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - target: the attachment set the pipeline draws into
//   - opts: a variadic list of PipelineBuilderOption functions
//
// Returns:
//   - Pipeline: the configured pipeline description
func NewPipeline(pipelineKey string, target PipelineTarget, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		target:            target,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Target() PipelineTarget {
	return p.target
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Validate() error {
	var errs []error
	if p.vertexShader == nil {
		errs = append(errs, errors.New("missing vertex shader"))
	} else if p.vertexShader.ShaderType() != shader.ShaderTypeVertex {
		errs = append(errs, fmt.Errorf("shader %s is not a vertex shader", p.vertexShader.Key()))
	}
	if p.fragmentShader == nil {
		errs = append(errs, errors.New("missing fragment shader"))
	} else if p.fragmentShader.ShaderType() != shader.ShaderTypeFragment {
		errs = append(errs, fmt.Errorf("shader %s is not a fragment shader", p.fragmentShader.Key()))
	}
	if len(errs) > 0 {
		return fmt.Errorf("pipeline %s: %w", p.pipelineKey, errors.Join(errs...))
	}
	return nil
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}
