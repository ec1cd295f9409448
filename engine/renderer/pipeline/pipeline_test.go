package pipeline

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func postShaders(t *testing.T) (shader.Shader, shader.Shader) {
	t.Helper()
	vs, err := shader.NewShader("post_vert", shader.ShaderTypeVertex, postprocess.VertexShaderSource)
	if err != nil {
		t.Fatalf("vertex: %v", err)
	}
	fs, err := shader.NewShader("post_frag", shader.ShaderTypeFragment, postprocess.FragmentShaderSource)
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	return vs, fs
}

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("plane", PipelineTargetScene)

	if p.PipelineKey() != "plane" || p.Target() != PipelineTargetScene {
		t.Fatalf("key/target = %s/%s", p.PipelineKey(), p.Target())
	}
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() {
		t.Error("depth test and write should default on")
	}
	if p.BlendEnabled() {
		t.Error("blending should default off")
	}
	if p.CullMode() != wgpu.CullModeNone {
		t.Errorf("cull mode = %v, want none", p.CullMode())
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("topology = %v", p.Topology())
	}
	if p.BlendState() == nil {
		t.Error("default blend state missing")
	}
	if p.RenderPipeline() != nil {
		t.Error("render pipeline set before registration")
	}
}

func TestPipelineOptions(t *testing.T) {
	vs, fs := postShaders(t)
	p := NewPipeline("post", PipelineTargetScreen,
		WithShaders(vs, fs),
		WithDepth(false, true),
		WithPrimitive(wgpu.PrimitiveTopologyTriangleStrip, wgpu.CullModeBack, wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	if p.Shader(shader.ShaderTypeVertex) != vs || p.Shader(shader.ShaderTypeFragment) != fs {
		t.Error("shaders not stored per stage")
	}
	if p.DepthTestEnabled() || !p.DepthWriteEnabled() {
		t.Error("depth state not applied")
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleStrip || p.CullMode() != wgpu.CullModeBack || p.FrontFace() != wgpu.FrontFaceCW {
		t.Errorf("primitive = %v/%v/%v", p.Topology(), p.CullMode(), p.FrontFace())
	}
	if p.WriteMask() != wgpu.ColorWriteMaskRed {
		t.Errorf("write mask = %v", p.WriteMask())
	}
}

func TestWithBlend(t *testing.T) {
	additive := &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
	}

	p := NewPipeline("plane", PipelineTargetScene, WithBlend(additive))
	if !p.BlendEnabled() || p.BlendState() != additive {
		t.Error("blend state not applied")
	}

	p = NewPipeline("plane", PipelineTargetScene, WithBlend(additive), WithBlend(nil))
	if p.BlendEnabled() {
		t.Error("nil state should disable blending")
	}
	if p.BlendState() != additive {
		t.Error("nil state should keep the previous state")
	}
}

func TestPipelineValidate(t *testing.T) {
	vs, fs := postShaders(t)

	tests := []struct {
		name    string
		opts    []PipelineBuilderOption
		wantErr string
	}{
		{name: "complete", opts: []PipelineBuilderOption{WithShaders(vs, fs)}},
		{name: "no shaders", wantErr: "missing vertex shader"},
		{name: "no fragment", opts: []PipelineBuilderOption{WithShaders(vs, nil)}, wantErr: "missing fragment shader"},
		{name: "swapped", opts: []PipelineBuilderOption{WithShaders(fs, vs)}, wantErr: "is not a vertex shader"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPipeline("post", PipelineTargetScreen, tt.opts...).Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestPipelineTargetString(t *testing.T) {
	if PipelineTargetScene.String() != "scene" || PipelineTargetScreen.String() != "screen" {
		t.Error("unexpected target names")
	}
	if PipelineTarget(7).String() != "PipelineTarget(7)" {
		t.Errorf("unknown target = %s", PipelineTarget(7))
	}
}
