package renderer

import "github.com/Carmen-Shannon/oxy-gallery/common"

// PlaneBackendBuilderOption is a functional option used to configure a PlaneBackend during construction.
type PlaneBackendBuilderOption func(*planeBackend)

// WithFallbackTexture sets the image bound to planes whose material has no texture.
//
// Parameters:
//   - tex: staged RGBA pixels, ignored when empty
//
// Returns:
//   - PlaneBackendBuilderOption: a function that sets the fallback texture
func WithFallbackTexture(tex common.TextureStagingData) PlaneBackendBuilderOption {
	return func(b *planeBackend) {
		if !tex.Empty() {
			b.fallback = tex
		}
	}
}

// WithImageSampler sets the sampler used for plane images.
func WithImageSampler(s SamplerStagingData) PlaneBackendBuilderOption {
	return func(b *planeBackend) {
		b.sampler = s
	}
}
