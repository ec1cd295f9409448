package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is a vertex stage with an @vertex entry point.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a fragment stage with an @fragment entry point.
	ShaderTypeFragment
)

// String returns the stage name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	declarations               []Annotation
}

// Shader is a pre-processed and reflected WGSL stage. It exposes everything the renderer needs to build
// a pipeline: the final source, the entry point, vertex buffer layouts and bind group layout descriptors.
type Shader interface {
	// Key retrieves the unique identifier of the shader, used as the module label.
	Key() string

	// Source retrieves the pre-processed WGSL source.
	Source() string

	// ShaderType retrieves the stage of the shader.
	ShaderType() ShaderType

	// EntryPoint returns the name of the stage's entry function.
	EntryPoint() string

	// BindGroupLayoutDescriptors retrieves all reflected bind group layouts, keyed by group index.
	// Entry visibility is the shader's own stage; the renderer merges stages per pipeline.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable name bound at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if nothing is bound there
	BindGroupVarName(group, binding int) string

	// VertexLayouts retrieves the vertex buffer layouts, one per vertex input struct, in buffer slot order.
	// Fragment shaders and vertex shaders without vertex inputs return nil.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Declarations returns the @oxy:group and @oxy:provider annotations of the shader in source order.
	Declarations() []Annotation

	// ProviderBinding resolves the slot of a provider binding declared with @oxy:provider.
	//
	// Parameters:
	//   - identity: the provider identity, e.g. AnnotationArgImage
	//   - role: the binding role, e.g. AnnotationArgColorTexture
	//
	// Returns:
	//   - group: the bind group index
	//   - binding: the binding index
	//   - ok: false if the shader declares no such binding
	ProviderBinding(identity, role AnnotationArg) (group, binding int, ok bool)

	// StructBinding resolves the slot of a uniform declared with @oxy:group for a registered struct.
	//
	// Parameters:
	//   - structType: the struct key, e.g. AnnotationArgCamera
	//
	// Returns:
	//   - group: the bind group index
	//   - binding: the binding index
	//   - ok: false if the shader declares no such binding
	StructBinding(structType AnnotationArg) (group, binding int, ok bool)
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects an annotated WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the source is compiled for
//   - source: annotated WGSL source, usually embedded from an assets directory
//
// Returns:
//   - Shader: the reflected shader
//   - error: an error if pre-processing fails or the entry point is missing
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("shader %s: empty source", key)
	}

	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: pre-process: %w", key, err)
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		declarations: append([]Annotation(nil), pp.Declarations()...),
	}

	s.entryPoint = parseEntryPoint(processed, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @%s entry point", key, shaderType)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(processed)
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(processed, visibility)
	return s, nil
}

// MustShader is like NewShader but panics on error. It is intended for embedded sources.
func MustShader(key string, shaderType ShaderType, source string) Shader {
	s, err := NewShader(key, shaderType, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) ProviderBinding(identity, role AnnotationArg) (int, int, bool) {
	for _, d := range s.declarations {
		if d.Type != AnnotationTypeProvider || d.Args[0] != identity {
			continue
		}
		if len(d.Args) > 1 && d.Args[1] != role {
			continue
		}
		return *d.Group, *d.Binding, true
	}
	return -1, -1, false
}

func (s *shader) StructBinding(structType AnnotationArg) (int, int, bool) {
	for _, d := range s.declarations {
		if d.Type == AnnotationTypeBindingGroup && d.Args[2] == structType {
			return *d.Group, *d.Binding, true
		}
	}
	return -1, -1, false
}
