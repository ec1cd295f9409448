package engine

import (
	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/layout"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
	"github.com/Carmen-Shannon/oxy-gallery/engine/picker"
	"github.com/Carmen-Shannon/oxy-gallery/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scroll"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiler enables periodic frame statistics logging.
//
// Parameters:
//   - p: the profiler ticked once per frame, nil disables profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithClock selects the clock mode. For ClockFixed value is the time step per tick, for ClockDelta it is
// the rate applied to wall-clock seconds. Values <= 0 keep the mode's default (0.05 and 3.0).
//
// Parameters:
//   - mode: ClockFixed or ClockDelta
//   - value: step or rate
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(mode ClockMode, value float64) EngineBuilderOption {
	return func(e *engine) {
		e.clockMode = mode
		if value <= 0 {
			return
		}
		if mode == ClockDelta {
			e.clockRate = value
		} else {
			e.clockStep = value
		}
	}
}

// WithCamera sets the gallery camera. The engine configures it with the viewport size.
//
// Parameters:
//   - c: the camera shared with the plane backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithMaterial sets the material template cloned onto every plane.
//
// Parameters:
//   - m: the material template
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaterial(m material.Material) EngineBuilderOption {
	return func(e *engine) {
		e.template = m
	}
}

// WithScroll sets the scroll provider.
//
// Parameters:
//   - s: the scroll provider
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScroll(s scroll.Scroll) EngineBuilderOption {
	return func(e *engine) {
		e.scroll = s
	}
}

// WithDocumentOptions sets the layout options of the document built in Start.
func WithDocumentOptions(options ...layout.DocumentBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.docOptions = append(e.docOptions, options...)
	}
}

// WithSceneOptions sets additional scene options. The viewport is always set from the host.
func WithSceneOptions(options ...scene.SceneBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.sceneOpts = append(e.sceneOpts, options...)
	}
}

// WithFixedRects pins images to explicit document rectangles, in image order.
// A nil entry, or an image past the end of rects, uses the automatic column layout.
//
// Parameters:
//   - rects: document rectangles, top-left origin
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFixedRects(rects ...*common.Rect) EngineBuilderOption {
	return func(e *engine) {
		e.fixedRects = rects
	}
}

// WithPageRatio sets the fraction of the viewport height scrolled by Page Up/Down and Space.
// Values <= 0 keep the default (0.9).
func WithPageRatio(ratio float64) EngineBuilderOption {
	return func(e *engine) {
		if ratio > 0 {
			e.pageRatio = ratio
		}
	}
}

// WithHoverCallback sets a function called with every pick that hit a plane.
func WithHoverCallback(fn func(hit picker.Hit)) EngineBuilderOption {
	return func(e *engine) {
		e.onHoverMesh = fn
	}
}
