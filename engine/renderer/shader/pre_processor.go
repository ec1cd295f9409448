// pre_processor.go expands @oxy: annotations in WGSL source. The struct registry maps annotation
// keys to the embedded WGSL struct definitions of the engine's GPU types, so shaders and Go structs
// share a single layout definition.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
	"github.com/Carmen-Shannon/oxy-gallery/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gallery/engine/postprocess"
)

// registryEntry pairs embedded WGSL struct source with the struct's type name.
type registryEntry struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations is reset at the start of each Process call.
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations and records binding declarations for resource wiring.
type PreProcessor interface {
	// Process replaces include annotations with struct source and group annotations with generated
	// declarations. Provider annotations produce no output but are recorded.
	//
	// Parameters:
	//   - source: annotated WGSL source
	//
	// Returns:
	//   - string: plain WGSL source
	//   - error: an error if an annotation is malformed or included twice
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations from the last Process call, in source order.
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU structs registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:   {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			annotationArgVertex:   {Source: mesh.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgMaterial: {Source: material.GPUMaterialUniformSource, Type: "MaterialUniform"},
			AnnotationArgPlane:    {Source: mesh.GPUPlaneUniformSource, Type: "PlaneUniform"},
			AnnotationArgPost:     {Source: postprocess.GPUPostUniformSource, Type: "PostUniform"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			if included[a.Args[0]] {
				return "", fmt.Errorf("line %d: struct %q included twice", i+1, a.Args[0])
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(p.structRegistry[a.Args[0]].Source, "\n"))
		case AnnotationTypeBindingGroup:
			entry := p.structRegistry[a.Args[2]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
