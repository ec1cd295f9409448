package material

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/tween"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key of the material.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithTexture is an option builder that binds a staged image to the material.
//
// Parameters:
//   - tex: the staged RGBA pixels
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.texture = tex
	}
}

// WithHoverTiming is an option builder that sets the hover tween duration and ease.
// Clones inherit the timing.
//
// Parameters:
//   - seconds: tween duration
//   - ease: easing function, nil keeps power1.out
//
// Returns:
//   - MaterialBuilderOption: a function that applies the hover timing to a material
func WithHoverTiming(seconds float64, ease tween.Ease) MaterialBuilderOption {
	return func(m *material) {
		m.hover = tween.NewTweener(tween.WithDuration(seconds), tween.WithEase(ease))
	}
}
