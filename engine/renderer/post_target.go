package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PostPipelineKey is the registered key of the full-screen distortion pipeline.
const PostPipelineKey = "gallery_post"

type postTarget struct {
	mu *sync.Mutex

	renderer Renderer
	provider bind_group_provider.BindGroupProvider
	layout   wgpu.BindGroupLayoutDescriptor

	textureBinding int
	samplerBinding int
	uniformBinding int
}

// PostTarget drives a Renderer frame for the post-process compositor. The distortion pass samples
// the renderer's offscreen scene target through a bind group that is rebuilt whenever the target is.
type PostTarget interface {
	postprocess.FrameTarget

	// Release frees the post bind group, its uniform buffer and sampler.
	Release()
}

var _ PostTarget = &postTarget{}

// NewPostTarget registers the distortion pipeline on r and binds the current scene target.
//
// Parameters:
//   - r: the renderer, with its surface configured
//
// Returns:
//   - PostTarget: the frame target for a postprocess.Compositor
//   - error: an error if the shaders, the pipeline or the bind group could not be created
func NewPostTarget(r Renderer) (PostTarget, error) {
	vs, err := shader.NewShader("post_vert", shader.ShaderTypeVertex, postprocess.VertexShaderSource)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader("post_frag", shader.ShaderTypeFragment, postprocess.FragmentShaderSource)
	if err != nil {
		return nil, err
	}

	t := &postTarget{
		mu:       &sync.Mutex{},
		renderer: r,
		provider: bind_group_provider.NewBindGroupProvider("post"),
	}

	texGroup, texBinding, ok1 := fs.ProviderBinding(shader.AnnotationArgSceneColor, shader.AnnotationArgColorTexture)
	sampGroup, sampBinding, ok2 := fs.ProviderBinding(shader.AnnotationArgSceneColor, shader.AnnotationArgColorSampler)
	uniGroup, uniBinding, ok3 := fs.StructBinding(shader.AnnotationArgPost)
	if !ok1 || !ok2 || !ok3 {
		return nil, errors.New("post fragment shader must declare scene color texture, sampler and post uniform")
	}
	if texGroup != 0 || sampGroup != 0 || uniGroup != 0 {
		return nil, fmt.Errorf("post bindings must all be in group 0, got %d, %d, %d", texGroup, sampGroup, uniGroup)
	}
	t.textureBinding, t.samplerBinding, t.uniformBinding = texBinding, sampBinding, uniBinding

	p := pipeline.NewPipeline(PostPipelineKey, pipeline.PipelineTargetScreen,
		pipeline.WithShaders(vs, fs),
		pipeline.WithDepth(false, false),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, err
	}
	t.layout = MergedBindGroupLayouts(r.Pipeline(PostPipelineKey))[0]

	if err := r.InitSampler(t.provider, t.samplerBinding, ClampedLinearSampler); err != nil {
		return nil, fmt.Errorf("post sampler: %w", err)
	}
	if err := t.bind(); err != nil {
		t.provider.Release()
		return nil, err
	}
	return t, nil
}

// bind (re)creates the bind group against the current scene color view. Uniform buffer and
// sampler survive. Caller must hold the lock or be the constructor.
func (t *postTarget) bind() error {
	view := t.renderer.SceneColorView()
	if view == nil {
		return errors.New("renderer has no scene color target")
	}
	t.provider.ReleaseBindGroup()
	t.provider.SetBorrowedTextureView(t.textureBinding, view)
	if err := t.renderer.InitBindGroup(t.provider, t.layout, nil, nil); err != nil {
		return fmt.Errorf("post bind group: %w", err)
	}
	return nil
}

func (t *postTarget) BeginScenePass() error {
	return t.renderer.BeginScenePass()
}

func (t *postTarget) EndScenePass() {
	t.renderer.EndScenePass()
}

func (t *postTarget) BeginPostPass() error {
	return t.renderer.BeginPostPass()
}

func (t *postTarget) DrawPost(uniform []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.renderer.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: t.provider, Binding: t.uniformBinding, Data: uniform},
	})
	return t.renderer.DrawFullscreen(PostPipelineKey, []bind_group_provider.BindGroupProvider{t.provider})
}

func (t *postTarget) EndFrame() {
	t.renderer.EndFrame()
}

func (t *postTarget) Present() {
	t.renderer.Present()
}

func (t *postTarget) ResizeTargets(width, height int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.renderer.Resize(width, height); err != nil {
		return err
	}
	if err := t.bind(); err != nil {
		return err
	}
	common.Logger().Debug("post target rebound", "width", width, "height", height)
	return nil
}

func (t *postTarget) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.provider.Release()
}
