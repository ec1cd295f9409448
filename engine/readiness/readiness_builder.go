package readiness

import "time"

type GateBuilderOption func(*gateImpl)

// WithFonts adds font sources. Fonts are parsed in order.
func WithFonts(sources ...Source) GateBuilderOption {
	return func(g *gateImpl) {
		g.fonts = append(g.fonts, sources...)
	}
}

// WithImages adds image sources. The decoded images keep this order.
func WithImages(sources ...Source) GateBuilderOption {
	return func(g *gateImpl) {
		g.images = append(g.images, sources...)
	}
}

// WithTimeout bounds the whole load. Zero disables the timeout.
func WithTimeout(d time.Duration) GateBuilderOption {
	return func(g *gateImpl) {
		g.timeout = d
	}
}

// WithMaxTextureSize sets the largest texture side; bigger images are downscaled with Catmull-Rom.
func WithMaxTextureSize(px int) GateBuilderOption {
	return func(g *gateImpl) {
		g.maxTextureSize = px
	}
}

// WithWorkers sets the number of image decode workers (minimum 1).
func WithWorkers(n int) GateBuilderOption {
	return func(g *gateImpl) {
		g.workers = max(n, 1)
	}
}

// WithProgress registers a callback invoked after every loaded asset. It may be called from several goroutines.
func WithProgress(fn func(done, total int)) GateBuilderOption {
	return func(g *gateImpl) {
		g.progress = fn
	}
}
