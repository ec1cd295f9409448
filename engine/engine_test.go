package engine

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gallery/engine/picker"
	"github.com/Carmen-Shannon/oxy-gallery/engine/postprocess"
	"github.com/Carmen-Shannon/oxy-gallery/engine/readiness"
	"github.com/Carmen-Shannon/oxy-gallery/engine/scroll"
)

type fakeHost struct {
	w, h int

	onUpdate       func()
	onResize       func(w, h int)
	onWheel        func(lines float64)
	onKeyDown      func(code uint32)
	onKeyUp        func(code uint32)
	onPointerMove  func(x, y float64)
	onPointerLeave func()

	loop func(h *fakeHost)
}

func (f *fakeHost) SetUpdateCallback(cb func())                  { f.onUpdate = cb }
func (f *fakeHost) SetResizeCallback(cb func(w, h int))          { f.onResize = cb }
func (f *fakeHost) SetWheelCallback(cb func(lines float64))      { f.onWheel = cb }
func (f *fakeHost) SetKeyDownCallback(cb func(code uint32))      { f.onKeyDown = cb }
func (f *fakeHost) SetKeyUpCallback(cb func(code uint32))        { f.onKeyUp = cb }
func (f *fakeHost) SetPointerMoveCallback(cb func(x, y float64)) { f.onPointerMove = cb }
func (f *fakeHost) SetPointerLeaveCallback(cb func())            { f.onPointerLeave = cb }
func (f *fakeHost) Width() int                                   { return f.w }
func (f *fakeHost) Height() int                                  { return f.h }

func (f *fakeHost) ProcessMessages() {
	if f.loop != nil {
		f.loop(f)
	}
}

// fakeGPU stands in for both the plane backend and the frame target.
type fakeGPU struct {
	calls    []string
	created  int
	replaced int
	released int
	uniform  []byte
	w, h     int

	// postAtRender records the post uniform bytes seen when each frame was drawn.
	postAtRender [][]byte
}

func (f *fakeGPU) CreatePlane(m mesh.Mesh) error { f.created++; return nil }

func (f *fakeGPU) ReplaceGeometry(m mesh.Mesh, g *mesh.PlaneGeometry) error {
	f.replaced++
	return nil
}

func (f *fakeGPU) WritePlaneUniform(m mesh.Mesh, data []byte) {}

func (f *fakeGPU) ReleasePlane(m mesh.Mesh) { f.released++ }

func (f *fakeGPU) DrawPlanes() error {
	f.calls = append(f.calls, "draw-planes")
	return nil
}

func (f *fakeGPU) BeginScenePass() error { return nil }
func (f *fakeGPU) EndScenePass()         {}
func (f *fakeGPU) BeginPostPass() error  { return nil }
func (f *fakeGPU) EndFrame()             {}
func (f *fakeGPU) Present()              { f.calls = append(f.calls, "present") }

func (f *fakeGPU) DrawPost(uniform []byte) error {
	f.uniform = uniform
	f.postAtRender = append(f.postAtRender, uniform)
	return nil
}

func (f *fakeGPU) ResizeTargets(w, h int) error {
	f.w, f.h = w, h
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: 180, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func readFloat(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}

// testClock returns a now function advancing by step on every call.
func testClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

type harness struct {
	host *fakeHost
	gpu  *fakeGPU
	eng  *engine
}

func newHarness(t *testing.T, options ...EngineBuilderOption) *harness {
	t.Helper()

	gate := readiness.NewGate(readiness.WithImages(
		readiness.Source{Name: "first", Data: pngBytes(t, 20, 15)},
		readiness.Source{Name: "second", Data: pngBytes(t, 16, 16)},
	))
	host := &fakeHost{w: 800, h: 600}
	gpu := &fakeGPU{}
	comp := postprocess.NewCompositor(gpu, gpu)

	base := []EngineBuilderOption{
		WithFixedRects(
			&common.Rect{Top: 100, Left: 50, Width: 200, Height: 150},
			&common.Rect{Top: 2000, Left: 300, Width: 100, Height: 100},
		),
	}
	e := NewEngine(host, gate, gpu, comp, append(base, options...)...).(*engine)
	e.now = testClock(time.Second / 60)
	return &harness{host: host, gpu: gpu, eng: e}
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	if err := h.eng.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func TestStartBuildsScene(t *testing.T) {
	h := newHarness(t)
	if h.eng.State() != StateUninitialized {
		t.Fatalf("initial State() = %v", h.eng.State())
	}
	h.start(t)

	if h.eng.State() != StateRunning {
		t.Fatalf("State() = %v, want running", h.eng.State())
	}
	if h.gpu.created != 2 || h.eng.Scene().Len() != 2 {
		t.Fatalf("created %d planes, scene has %d, want 2", h.gpu.created, h.eng.Scene().Len())
	}
	pos := h.eng.Scene().Meshes()[0].Position()
	if pos[0] != -250 || pos[1] != 125 {
		t.Fatalf("plane 0 at (%v, %v), want (-250, 125)", pos[0], pos[1])
	}
	if h.gpu.w != 800 || h.gpu.h != 600 {
		t.Fatalf("targets sized %dx%d, want 800x600", h.gpu.w, h.gpu.h)
	}
	if h.eng.Camera().Width() != 800 || h.eng.Camera().Height() != 600 {
		t.Fatalf("camera %vx%v, want 800x600", h.eng.Camera().Width(), h.eng.Camera().Height())
	}
	want := h.eng.Document().Height() - 600
	if got := h.eng.Scroll().Limit(); got != want {
		t.Fatalf("scroll limit = %v, want %v", got, want)
	}

	if err := h.eng.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestStartBlocked(t *testing.T) {
	gate := readiness.NewGate(readiness.WithImages(readiness.Source{Name: "missing", Path: "does/not/exist.png"}))
	gpu := &fakeGPU{}
	e := NewEngine(&fakeHost{w: 800, h: 600}, gate, gpu, postprocess.NewCompositor(gpu, gpu))

	err := e.Start(context.Background())
	if !errors.Is(err, readiness.ErrBlocked) {
		t.Fatalf("Start = %v, want ErrBlocked", err)
	}
	if e.State() != StateBlocked {
		t.Fatalf("State() = %v, want blocked", e.State())
	}
	if err := e.Tick(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Tick = %v, want ErrNotRunning", err)
	}
	if err := e.Run(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Run = %v, want ErrNotRunning", err)
	}
	if gpu.created != 0 || len(gpu.calls) != 0 {
		t.Fatalf("blocked engine touched the GPU: created=%d calls=%v", gpu.created, gpu.calls)
	}
}

func TestTickBeforeStart(t *testing.T) {
	h := newHarness(t)
	if err := h.eng.Tick(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Tick = %v, want ErrNotRunning", err)
	}
}

func TestPostUniformsMatchTick(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	h.eng.Wheel(400)

	for range 21 {
		if err := h.eng.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		fc := h.eng.Frame()
		got := h.gpu.postAtRender[len(h.gpu.postAtRender)-1]
		if readFloat(got, 0) != float32(fc.Time) {
			t.Fatalf("frame %d: post time = %v, want %v", fc.Frame, readFloat(got, 0), fc.Time)
		}
		if readFloat(got, 4) != float32(fc.ScrollSpeed) {
			t.Fatalf("frame %d: post speed = %v, want %v", fc.Frame, readFloat(got, 4), fc.ScrollSpeed)
		}
		for i, m := range h.eng.Scene().Meshes() {
			if m.Material().Time() != fc.Time {
				t.Fatalf("frame %d: mesh %d time = %v, want %v", fc.Frame, i, m.Material().Time(), fc.Time)
			}
		}
	}

	fc := h.eng.Frame()
	if fc.Frame != 21 {
		t.Fatalf("Frame = %d, want 21", fc.Frame)
	}
	if math.Abs(fc.Time-1.05) > 1e-9 {
		t.Fatalf("Time = %v, want 1.05", fc.Time)
	}
	if fc.ScrollSpeed <= 0 {
		t.Fatalf("ScrollSpeed = %v, want positive while scrolling down", fc.ScrollSpeed)
	}
}

// fixedSpeedScroll wraps a real scroll provider and reports a constant speed.
type fixedSpeedScroll struct {
	scroll.Scroll
	speed float64
}

func (f *fixedSpeedScroll) Speed() float64 { return f.speed }

func TestPostUniformsCarryProviderSpeed(t *testing.T) {
	h := newHarness(t, WithScroll(&fixedSpeedScroll{Scroll: scroll.NewScroll(), speed: 2.5}))
	h.start(t)

	for range 21 {
		if err := h.eng.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	got := h.gpu.postAtRender[len(h.gpu.postAtRender)-1]
	if readFloat(got, 4) != 2.5 {
		t.Fatalf("post speed = %v, want 2.5", readFloat(got, 4))
	}
	fc := h.eng.Frame()
	if math.Abs(fc.Time-1.05) > 1e-9 || readFloat(got, 0) != float32(fc.Time) {
		t.Fatalf("post time = %v, frame time = %v, want 1.05", readFloat(got, 0), fc.Time)
	}
	if fc.ScrollSpeed != 2.5 {
		t.Fatalf("ScrollSpeed = %v, want 2.5", fc.ScrollSpeed)
	}
}

func TestDeltaClock(t *testing.T) {
	h := newHarness(t, WithClock(ClockDelta, 0))
	h.start(t)

	for range 10 {
		if err := h.eng.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	fc := h.eng.Frame()
	if math.Abs(fc.Time-0.5) > 1e-6 {
		t.Fatalf("Time = %v, want 0.5 after 10 ticks at 60 Hz", fc.Time)
	}
	if math.Abs(fc.Delta-1.0/60) > 1e-6 {
		t.Fatalf("Delta = %v, want 1/60", fc.Delta)
	}
}

func TestScrollMovesPlanesVertically(t *testing.T) {
	h := newHarness(t, WithScroll(scroll.NewScroll(scroll.WithEase(1))))
	h.start(t)

	before := h.eng.Scene().Meshes()[0].Position()
	h.eng.Wheel(300)
	if err := h.eng.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	after := h.eng.Scene().Meshes()[0].Position()

	if after[0] != before[0] {
		t.Fatalf("x moved from %v to %v", before[0], after[0])
	}
	if after[1] != before[1]+300 {
		t.Fatalf("y = %v, want %v", after[1], before[1]+300)
	}
	if h.eng.Frame().ScrollOffset != 300 {
		t.Fatalf("ScrollOffset = %v, want 300", h.eng.Frame().ScrollOffset)
	}
}

func TestResize(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	if err := h.eng.Resize(1000, 800); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if h.gpu.replaced != 2 {
		t.Fatalf("replaced %d geometries, want 2", h.gpu.replaced)
	}
	if h.gpu.w != 1000 || h.gpu.h != 800 {
		t.Fatalf("targets sized %dx%d, want 1000x800", h.gpu.w, h.gpu.h)
	}
	if h.eng.Camera().Width() != 1000 {
		t.Fatalf("camera width = %v, want 1000", h.eng.Camera().Width())
	}
	if got, want := h.eng.Scroll().Limit(), h.eng.Document().Height()-800; got != want {
		t.Fatalf("scroll limit = %v, want %v", got, want)
	}
	// x = 50 - 500 + 100, y = 0 - 100 + 400 - 75
	pos := h.eng.Scene().Meshes()[0].Position()
	if pos[0] != -350 || pos[1] != 225 {
		t.Fatalf("plane 0 at (%v, %v), want (-350, 225)", pos[0], pos[1])
	}

	if err := h.eng.Resize(0, 0); err != nil {
		t.Fatalf("Resize(0, 0): %v", err)
	}
	if h.gpu.replaced != 2 || h.gpu.w != 1000 {
		t.Fatal("zero-size resize was applied")
	}
}

func TestPointerHover(t *testing.T) {
	var hits []picker.Hit
	h := newHarness(t, WithHoverCallback(func(hit picker.Hit) { hits = append(hits, hit) }))
	h.start(t)

	// center of the first element
	h.eng.PointerMove(150, 175)

	if h.eng.Document().Hovered() != 0 {
		t.Fatalf("Hovered() = %d, want 0", h.eng.Document().Hovered())
	}
	first := h.eng.Scene().Meshes()[0].Material()
	second := h.eng.Scene().Meshes()[1].Material()
	if first.HoverTarget() != 1 || second.HoverTarget() != 0 {
		t.Fatalf("hover targets = %v, %v, want 1, 0", first.HoverTarget(), second.HoverTarget())
	}
	if len(hits) != 1 || hits[0].Index != 0 {
		t.Fatalf("hits = %+v, want one hit on plane 0", hits)
	}
	u, v := first.HoverPoint()
	if math.Abs(u-0.5) > 1e-6 || math.Abs(v-0.5) > 1e-6 {
		t.Fatalf("hover point = (%v, %v), want (0.5, 0.5)", u, v)
	}

	for range 5 {
		if err := h.eng.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if first.HoverState() <= 0 {
		t.Fatalf("HoverState = %v, want rising", first.HoverState())
	}

	h.eng.PointerLeave()
	if first.HoverTarget() != 0 {
		t.Fatalf("HoverTarget after leave = %v, want 0", first.HoverTarget())
	}
}

func TestHoverFollowsScrollUnderStillPointer(t *testing.T) {
	h := newHarness(t, WithScroll(scroll.NewScroll(scroll.WithEase(1))))
	h.start(t)
	first := h.eng.Scene().Meshes()[0].Material()
	second := h.eng.Scene().Meshes()[1].Material()

	h.eng.PointerMove(150, 175)
	if h.eng.Document().Hovered() != 0 {
		t.Fatalf("Hovered() = %d, want 0", h.eng.Document().Hovered())
	}

	// the first element scrolls away from the pointer
	h.eng.Wheel(1000)
	if err := h.eng.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if h.eng.Document().Hovered() != -1 {
		t.Fatalf("Hovered() after scroll = %d, want -1", h.eng.Document().Hovered())
	}
	if first.HoverTarget() != 0 {
		t.Fatalf("first HoverTarget = %v, want 0", first.HoverTarget())
	}

	// the second element (top 2000, left 300) scrolls under a pointer at client (350, 580)
	h.eng.PointerMove(350, 580)
	if h.eng.Document().Hovered() != -1 {
		t.Fatalf("Hovered() = %d, want -1 before the second element arrives", h.eng.Document().Hovered())
	}
	h.eng.Wheel(500)
	if err := h.eng.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if h.eng.Document().Hovered() != 1 || second.HoverTarget() != 1 {
		t.Fatalf("Hovered() = %d, second HoverTarget = %v, want 1, 1",
			h.eng.Document().Hovered(), second.HoverTarget())
	}

	// once the pointer left the window, scrolling does not hover anything
	h.eng.PointerLeave()
	h.eng.Wheel(-1500)
	if err := h.eng.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if h.eng.Document().Hovered() != -1 || first.HoverTarget() != 0 {
		t.Fatalf("Hovered() = %d after leave, want -1", h.eng.Document().Hovered())
	}
}

func TestKeyboardScrolling(t *testing.T) {
	h := newHarness(t)
	h.start(t)
	s := h.eng.Scroll()

	h.eng.KeyDown(common.KeyEnd)
	if s.Target() != s.Limit() {
		t.Fatalf("End: target = %v, want %v", s.Target(), s.Limit())
	}
	h.eng.KeyDown(common.KeyHome)
	if s.Target() != 0 {
		t.Fatalf("Home: target = %v, want 0", s.Target())
	}

	tests := []struct {
		name string
		keys []uint32
		want float64
	}{
		{"page down", []uint32{common.KeyPageDown}, 540},
		{"space", []uint32{common.KeySpace}, 1080},
		{"arrow down", []uint32{common.KeyDown}, 1081},
		{"arrow up", []uint32{common.KeyUp}, 1080},
		{"shift space", []uint32{common.KeyLeftShift, common.KeySpace}, 540},
		{"page up", []uint32{common.KeyPageUp}, 0},
	}
	for _, tt := range tests {
		for _, k := range tt.keys {
			h.eng.KeyDown(k)
		}
		h.eng.KeyUp(common.KeyLeftShift)
		if s.Target() != tt.want {
			t.Fatalf("%s: target = %v, want %v", tt.name, s.Target(), tt.want)
		}
	}
}

func TestRunDrivesTicksFromHost(t *testing.T) {
	h := newHarness(t)
	h.host.loop = func(f *fakeHost) {
		f.onUpdate()
		f.onResize(1024, 768)
		f.onWheel(120)
		f.onPointerMove(150, 175)
		f.onUpdate()
		f.onPointerLeave()
		f.onUpdate()
	}
	h.start(t)

	if err := h.eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := h.eng.Frame().Frame; got != 3 {
		t.Fatalf("frames = %d, want 3", got)
	}
	if h.gpu.w != 1024 || h.gpu.h != 768 {
		t.Fatalf("targets sized %dx%d, want 1024x768", h.gpu.w, h.gpu.h)
	}
	if h.eng.Scroll().Target() != 120 {
		t.Fatalf("scroll target = %v, want 120", h.eng.Scroll().Target())
	}
	if h.eng.Document().Hovered() != -1 {
		t.Fatalf("Hovered() = %d, want -1 after leave", h.eng.Document().Hovered())
	}
}

func TestReleaseStopsTicks(t *testing.T) {
	h := newHarness(t)
	h.start(t)

	h.eng.Release()
	if h.gpu.released != 2 {
		t.Fatalf("released %d planes, want 2", h.gpu.released)
	}
	if err := h.eng.Tick(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("Tick after Release = %v, want ErrNotRunning", err)
	}
	if err := h.eng.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("Start after Release = %v, want ErrAlreadyStarted", err)
	}
}

func TestParseClockMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockMode
		wantErr bool
	}{
		{"fixed", ClockFixed, false},
		{"delta", ClockDelta, false},
		{"wall", ClockFixed, true},
	}
	for _, tt := range tests {
		got, err := ParseClockMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseClockMode(%q) = %v, %v", tt.in, got, err)
		}
		if err == nil && got.String() != tt.in {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), tt.in)
		}
	}
	if StateBlocked.String() != "blocked" || State(9).String() != "State(9)" {
		t.Error("unexpected State strings")
	}
}
