package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/layout"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
	"github.com/Carmen-Shannon/oxy-gallery/engine/picker"
	"github.com/Carmen-Shannon/oxy-gallery/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-gallery/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gallery/engine/readiness"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scene"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scroll"
)

// ErrNotRunning is returned by Tick and Run before Start succeeded, or after the gate blocked.
var ErrNotRunning = errors.New("engine: not running")

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("engine: already started")

// FrameContext is the per-tick scene state handed to the scene and the compositor.
type FrameContext = common.FrameContext

// State is the lifecycle state of the engine.
type State int32

const (
	// StateUninitialized is the state before Start resolves.
	StateUninitialized State = iota
	// StateRunning means the scene is built and ticks render frames.
	StateRunning
	// StateBlocked means the readiness gate failed or timed out. The engine never renders.
	StateBlocked
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ClockMode selects how scene time advances per tick.
type ClockMode int

const (
	// ClockFixed adds a fixed step to the scene time every tick.
	ClockFixed ClockMode = iota
	// ClockDelta adds wall-clock seconds times a rate every tick.
	ClockDelta
)

const (
	defaultClockStep = 0.05
	defaultClockRate = 3.0
	defaultPageRatio = 0.9
)

// String returns the clock mode name as used on the command line.
func (m ClockMode) String() string {
	switch m {
	case ClockFixed:
		return "fixed"
	case ClockDelta:
		return "delta"
	default:
		return fmt.Sprintf("ClockMode(%d)", int(m))
	}
}

// ParseClockMode parses "fixed" or "delta".
//
// Parameters:
//   - s: the mode name
//
// Returns:
//   - ClockMode: the parsed mode
//   - error: an error for any other value
func ParseClockMode(s string) (ClockMode, error) {
	switch s {
	case "fixed":
		return ClockFixed, nil
	case "delta":
		return ClockDelta, nil
	default:
		return ClockFixed, fmt.Errorf("unknown clock mode %q, want fixed or delta", s)
	}
}

// Host is the native window the engine runs in. window.Window satisfies it.
type Host interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	SetWheelCallback(callback func(lines float64))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetPointerMoveCallback(callback func(x, y float64))
	SetPointerLeaveCallback(callback func())
	ProcessMessages()
	Width() int
	Height() int
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	state   State
	started bool

	host       Host
	gate       readiness.Gate
	backend    scene.Backend
	compositor postprocess.Compositor

	camera      camera.Camera
	template    material.Material
	scroll      scroll.Scroll
	docOptions  []layout.DocumentBuilderOption
	sceneOpts   []scene.SceneBuilderOption
	fixedRects  []*common.Rect
	profiler    *profiler.Profiler
	onHoverMesh func(hit picker.Hit)

	clockMode ClockMode
	clockStep float64
	clockRate float64
	pageRatio float64

	doc    layout.Document
	scene  scene.Scene
	picker picker.Picker

	now      func() time.Time
	lastTick time.Time
	frame    FrameContext
	shift    bool

	// last pointer position in framebuffer pixels, valid while pointerIn
	pointerIn          bool
	pointerX, pointerY float64
}

// Engine is the frame driver of the gallery. It waits for the readiness gate, builds one plane per
// image and then renders one frame per host loop iteration. Input and resize events arrive through the
// host between ticks on the same thread; ticks never overlap.
type Engine interface {
	// Start waits for the readiness gate, lays out the document, builds the scene and configures the
	// camera, the scroll limit and the compositor. It transitions to StateRunning exactly once.
	//
	// Parameters:
	//   - ctx: cancels the wait on the gate
	//
	// Returns:
	//   - error: an error wrapping readiness.ErrBlocked when assets failed, ErrAlreadyStarted on a
	//     second call, or a wrapped scene build error
	Start(ctx context.Context) error

	// Tick advances the clock and scroll, places and updates every plane and renders one frame.
	//
	// Returns:
	//   - error: ErrNotRunning, or the wrapped render error
	Tick() error

	// Resize applies a new viewport size: camera, layout, plane geometry, scroll limit and compositor
	// targets. Non-positive sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width, height: the new framebuffer size in pixels
	//
	// Returns:
	//   - error: the joined errors of the scene and the compositor
	Resize(width, height int) error

	// PointerMove dispatches element enter/leave and updates the hover point of the plane under the pointer.
	//
	// Parameters:
	//   - x, y: pointer position in pixels, origin top-left
	PointerMove(x, y float64)

	// PointerLeave fires the leave handler of the hovered element when the pointer exits the window.
	PointerLeave()

	// Wheel scrolls by a number of wheel lines, positive scrolls the content down.
	Wheel(lines float64)

	// KeyDown handles keyboard scrolling: arrows, Page Up/Down, Space (Shift+Space scrolls up), Home and End.
	KeyDown(keyCode uint32)

	// KeyUp tracks modifier release.
	KeyUp(keyCode uint32)

	// Run installs the host callbacks and drives ticks from the host message loop until it exits.
	//
	// Returns:
	//   - error: ErrNotRunning if Start has not succeeded
	Run() error

	// State returns the lifecycle state.
	State() State

	// Frame returns the FrameContext of the last tick.
	Frame() FrameContext

	// Scene returns the built scene, or nil before Start.
	Scene() scene.Scene

	// Document returns the laid-out document, or nil before Start.
	Document() layout.Document

	// Camera returns the gallery camera.
	Camera() camera.Camera

	// Scroll returns the scroll provider.
	Scroll() scroll.Scroll

	// Release frees every plane. The engine stops rendering and cannot be started again.
	Release()
}

var _ Engine = &engine{}

// NewEngine creates an Engine. host, gate, backend and compositor are required; NewEngine panics if any
// is nil. The backend must be the plane drawer of the compositor.
// Defaults: fixed clock with a 0.05 step, a default camera, material and scroll provider.
//
// Parameters:
//   - host: the native window
//   - gate: the readiness gate for fonts and images
//   - backend: the GPU plane backend
//   - compositor: the frame compositor
//   - options: variadic list of EngineBuilderOption functions
//
// Returns:
//   - Engine: the configured engine, in StateUninitialized
func NewEngine(host Host, gate readiness.Gate, backend scene.Backend, compositor postprocess.Compositor, options ...EngineBuilderOption) Engine {
	switch {
	case host == nil:
		panic("engine: NewEngine requires a non-nil Host")
	case gate == nil:
		panic("engine: NewEngine requires a non-nil readiness Gate")
	case backend == nil:
		panic("engine: NewEngine requires a non-nil scene Backend")
	case compositor == nil:
		panic("engine: NewEngine requires a non-nil Compositor")
	}

	e := &engine{
		mu:         &sync.Mutex{},
		host:       host,
		gate:       gate,
		backend:    backend,
		compositor: compositor,
		clockMode:  ClockFixed,
		clockStep:  defaultClockStep,
		clockRate:  defaultClockRate,
		pageRatio:  defaultPageRatio,
		now:        time.Now,
	}
	for _, option := range options {
		option(e)
	}

	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.template == nil {
		e.template = material.NewMaterial()
	}
	if e.scroll == nil {
		e.scroll = scroll.NewScroll()
	}
	return e
}

func (e *engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true

	assets, err := e.gate.Wait(ctx)
	if err != nil {
		e.state = StateBlocked
		common.Logger().Error("gallery blocked", "err", err)
		return err
	}

	elements := make([]layout.Element, len(assets.Images))
	textures := make([]common.TextureStagingData, len(assets.Images))
	for i, img := range assets.Images {
		elements[i] = layout.Element{
			Name:          img.Name,
			NaturalWidth:  float64(img.NaturalWidth),
			NaturalHeight: float64(img.NaturalHeight),
		}
		if i < len(e.fixedRects) {
			elements[i].Fixed = e.fixedRects[i]
		}
		textures[i] = img.Texture
	}

	w, h := viewportOf(e.host)
	e.camera.Configure(w, h)

	e.doc = layout.NewDocument(elements, e.docOptions...)
	e.doc.Relayout(float64(w))

	sceneOpts := append([]scene.SceneBuilderOption{scene.WithViewport(float64(w), float64(h))}, e.sceneOpts...)
	e.scene = scene.NewScene(e.backend, e.template, sceneOpts...)
	if err := e.scene.Build(e.doc, textures); err != nil {
		return fmt.Errorf("engine: build scene: %w", err)
	}
	e.picker = picker.NewPicker(e.camera, e.scene)

	e.scroll.SetLimit(e.doc.Height() - float64(h))
	if err := e.compositor.Resize(w, h); err != nil {
		e.scene.Release()
		return fmt.Errorf("engine: configure compositor: %w", err)
	}

	e.lastTick = e.now()
	e.state = StateRunning
	common.Logger().Info("gallery running",
		"images", len(assets.Images),
		"fonts", len(assets.Fonts),
		"width", w,
		"height", h,
		"document_height", e.doc.Height(),
	)
	return nil
}

// viewportOf reads the host size, clamped to at least one pixel.
func viewportOf(h Host) (int, int) {
	return max(h.Width(), 1), max(h.Height(), 1)
}

func (e *engine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return ErrNotRunning
	}

	now := e.now()
	delta := now.Sub(e.lastTick).Seconds()
	e.lastTick = now

	fc := e.frame
	switch e.clockMode {
	case ClockDelta:
		fc.Time += delta * e.clockRate
	default:
		fc.Time += e.clockStep
	}

	e.scroll.Tick()
	fc.ScrollOffset = e.scroll.Offset()
	fc.ScrollSpeed = e.scroll.Speed()
	fc.Delta = delta
	fc.Frame++
	e.frame = fc

	// Content moving under a still pointer changes which element it is over.
	if e.pointerIn {
		e.doc.PointerMove(e.pointerX, e.pointerY, fc.ScrollOffset)
	}
	e.scene.Reposition(fc)
	e.scene.AdvanceTweens(delta)
	e.scene.PushUniforms(fc)
	e.compositor.SetFrameUniforms(fc.Time, fc.ScrollSpeed)

	err := e.compositor.Render()
	if e.profiler != nil {
		e.profiler.Tick()
	}
	if err != nil {
		return fmt.Errorf("engine: frame %d: %w", fc.Frame, err)
	}
	return nil
}

func (e *engine) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.camera.Configure(width, height)
	if e.state != StateRunning {
		return e.compositor.Resize(width, height)
	}

	e.doc.Relayout(float64(width))
	sceneErr := e.scene.OnResize(float64(width), float64(height))
	e.scroll.SetLimit(e.doc.Height() - float64(height))
	compErr := e.compositor.Resize(width, height)

	common.Logger().Debug("gallery resized", "width", width, "height", height, "document_height", e.doc.Height())
	return errors.Join(sceneErr, compErr)
}

func (e *engine) PointerMove(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return
	}
	e.pointerIn, e.pointerX, e.pointerY = true, x, y
	e.doc.PointerMove(x, y, e.scroll.Offset())
	if hit, ok := e.picker.PointerMove(x, y); ok && e.onHoverMesh != nil {
		e.onHoverMesh(hit)
	}
}

func (e *engine) PointerLeave() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return
	}
	e.pointerIn = false
	e.doc.PointerLeaveWindow()
}

func (e *engine) Wheel(lines float64) {
	e.scroll.AddWheel(lines)
}

func (e *engine) KeyDown(keyCode uint32) {
	e.mu.Lock()
	page := float64(max(e.host.Height(), 1)) * e.pageRatio
	shift := e.shift
	e.mu.Unlock()

	switch keyCode {
	case common.KeyLeftShift, common.KeyRightShift:
		e.mu.Lock()
		e.shift = true
		e.mu.Unlock()
	case common.KeyDown:
		e.scroll.AddWheel(1)
	case common.KeyUp:
		e.scroll.AddWheel(-1)
	case common.KeyPageDown:
		e.scroll.ScrollTo(e.scroll.Target() + page)
	case common.KeyPageUp:
		e.scroll.ScrollTo(e.scroll.Target() - page)
	case common.KeySpace:
		if shift {
			e.scroll.ScrollTo(e.scroll.Target() - page)
		} else {
			e.scroll.ScrollTo(e.scroll.Target() + page)
		}
	case common.KeyHome:
		e.scroll.ScrollTo(0)
	case common.KeyEnd:
		e.scroll.ScrollTo(e.scroll.Limit())
	}
}

func (e *engine) KeyUp(keyCode uint32) {
	if keyCode != common.KeyLeftShift && keyCode != common.KeyRightShift {
		return
	}
	e.mu.Lock()
	e.shift = false
	e.mu.Unlock()
}

func (e *engine) Run() error {
	if e.State() != StateRunning {
		return ErrNotRunning
	}

	var lastErr string
	e.host.SetUpdateCallback(func() {
		err := e.Tick()
		switch {
		case err == nil:
			lastErr = ""
		case err.Error() != lastErr:
			// repeated failures of the same kind are logged once
			lastErr = err.Error()
			common.Logger().Warn("frame failed", "err", err)
		}
	})
	e.host.SetResizeCallback(func(width, height int) {
		if err := e.Resize(width, height); err != nil {
			common.Logger().Warn("resize failed", "width", width, "height", height, "err", err)
		}
	})
	e.host.SetWheelCallback(e.Wheel)
	e.host.SetKeyDownCallback(e.KeyDown)
	e.host.SetKeyUpCallback(e.KeyUp)
	e.host.SetPointerMoveCallback(e.PointerMove)
	e.host.SetPointerLeaveCallback(e.PointerLeave)

	e.host.ProcessMessages()
	common.Logger().Info("gallery stopped", "frames", e.Frame().Frame)
	return nil
}

func (e *engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *engine) Frame() FrameContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

func (e *engine) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

func (e *engine) Document() layout.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Scroll() scroll.Scroll {
	return e.scroll
}

func (e *engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.scene != nil {
		e.scene.Release()
	}
	if e.state == StateRunning {
		e.state = StateUninitialized
	}
}
