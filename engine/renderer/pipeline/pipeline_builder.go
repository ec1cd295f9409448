package pipeline

import (
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithShaders sets both stages. Stage mismatches are reported by Validate, not here.
//
// Parameters:
//   - vertex: the vertex stage
//   - fragment: the fragment stage
//
// Returns:
//   - PipelineBuilderOption: a function that stores both stages
func WithShaders(vertex, fragment shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = vertex
		p.fragmentShader = fragment
	}
}

// WithDepth sets depth testing and writing. Screen pipelines have no depth attachment and ignore both.
//
// Parameters:
//   - test: whether fragments are tested against the depth buffer
//   - write: whether fragments write the depth buffer
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth state
func WithDepth(test, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = test
		p.depthWriteEnabled = write
	}
}

// WithBlend enables blending with state. A nil state disables blending and keeps the default
// straight-alpha state for later inspection.
//
// Parameters:
//   - state: the blend state, or nil
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state
func WithBlend(state *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = state != nil
		if state != nil {
			p.blendState = state
		}
	}
}

// WithPrimitive sets primitive assembly and culling.
//
// Parameters:
//   - topology: e.g. wgpu.PrimitiveTopologyTriangleList
//   - cull: e.g. wgpu.CullModeBack, wgpu.CullModeNone for double-sided planes
//   - front: the winding of front faces
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive state
func WithPrimitive(topology wgpu.PrimitiveTopology, cull wgpu.CullMode, front wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
		p.cullMode = cull
		p.frontFace = front
	}
}

// WithWriteMask limits the color channels the pipeline writes.
func WithWriteMask(mask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = mask
	}
}
