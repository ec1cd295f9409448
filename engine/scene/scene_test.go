package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/layout"
	"github.com/Carmen-Shannon/oxy-gallery/engine/material"
	"github.com/Carmen-Shannon/oxy-gallery/engine/mesh"
)

type fakeBackend struct {
	calls    []string
	uniforms map[int][]byte
	failOn   int

	// failReplace makes every ReplaceGeometry call fail.
	failReplace bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{uniforms: map[int][]byte{}, failOn: -1}
}

func (f *fakeBackend) CreatePlane(m mesh.Mesh) error {
	if m.ID() == f.failOn {
		return errors.New("out of memory")
	}
	f.calls = append(f.calls, "create")
	return nil
}

func (f *fakeBackend) ReplaceGeometry(m mesh.Mesh, g *mesh.PlaneGeometry) error {
	if f.failReplace {
		return errors.New("device lost")
	}
	f.calls = append(f.calls, "release-geometry", "upload-geometry")
	return nil
}

func (f *fakeBackend) WritePlaneUniform(m mesh.Mesh, data []byte) {
	f.uniforms[m.ID()] = data
}

func (f *fakeBackend) ReleasePlane(m mesh.Mesh) {
	f.calls = append(f.calls, "release")
}

func fixedDoc(rects ...common.Rect) layout.Document {
	elements := make([]layout.Element, len(rects))
	for i := range rects {
		elements[i] = layout.Element{Name: "img", Fixed: &rects[i]}
	}
	doc := layout.NewDocument(elements)
	doc.Relayout(800)
	return doc
}

func newTestScene(b Backend) Scene {
	return NewScene(b, material.NewMaterial(material.WithName("plane")), WithViewport(800, 600))
}

func TestBuildCountAndInitialPositions(t *testing.T) {
	doc := fixedDoc(
		common.Rect{Top: 100, Left: 50, Width: 200, Height: 150},
		common.Rect{Top: 400, Left: 300, Width: 100, Height: 100},
	)
	s := newTestScene(newFakeBackend())

	if err := s.Build(doc, nil); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s.Len() != doc.Len() || len(s.Meshes()) != doc.Len() {
		t.Fatalf("mesh count = %d, want %d", len(s.Meshes()), doc.Len())
	}

	for i, m := range s.Meshes() {
		x, y := PlanePosition(doc.Bounds(i), 0, 800, 600)
		if pos := m.Position(); pos[0] != x || pos[1] != y || pos[2] != 0 {
			t.Fatalf("mesh %d at %v, want (%v, %v, 0)", i, pos, x, y)
		}
	}
	if pos := s.Meshes()[0].Position(); pos[0] != -250 || pos[1] != 125 {
		t.Fatalf("mesh 0 at %v, want (-250, 125)", pos)
	}

	if err := s.Build(doc, nil); !errors.Is(err, ErrAlreadyBuilt) {
		t.Fatalf("second Build() error = %v, want ErrAlreadyBuilt", err)
	}
}

func TestRepositionScrollAndIdempotence(t *testing.T) {
	doc := fixedDoc(common.Rect{Top: 100, Left: 50, Width: 200, Height: 150})
	s := newTestScene(newFakeBackend())
	if err := s.Build(doc, nil); err != nil {
		t.Fatal(err)
	}
	m := s.Meshes()[0]
	before := m.Position()

	fc := common.FrameContext{ScrollOffset: 300}
	s.Reposition(fc)
	first := m.Position()
	s.Reposition(fc)
	second := m.Position()

	if first != second {
		t.Fatalf("Reposition not idempotent: %v then %v", first, second)
	}
	if first[1]-before[1] != 300 || first[0] != before[0] {
		t.Fatalf("scroll 0 -> 300 moved %v to %v", before, first)
	}
}

func TestOnResizeUsesFreshRects(t *testing.T) {
	rect := common.Rect{Top: 100, Left: 50, Width: 200, Height: 150}
	doc := layout.NewDocument([]layout.Element{{Name: "img", Fixed: &rect}})
	doc.Relayout(800)

	backend := newFakeBackend()
	s := newTestScene(backend)
	if err := s.Build(doc, nil); err != nil {
		t.Fatal(err)
	}
	s.Reposition(common.FrameContext{ScrollOffset: 40})

	rect.Width, rect.Height, rect.Left = 400, 300, 0
	doc.Relayout(1000)
	if err := s.OnResize(1000, 500); err != nil {
		t.Fatalf("OnResize() error = %v", err)
	}

	m := s.Meshes()[0]
	g := m.Geometry()
	if g.Width != 400 || g.Height != 300 {
		t.Fatalf("geometry = %vx%v, want 400x300", g.Width, g.Height)
	}
	x, y := PlanePosition(rect, 40, 1000, 500)
	if pos := m.Position(); pos[0] != x || pos[1] != y {
		t.Fatalf("position = %v, want (%v, %v)", pos, x, y)
	}
	if s.Tracked()[0].Rect != rect {
		t.Fatalf("cached rect = %+v, want %+v", s.Tracked()[0].Rect, rect)
	}

	want := []string{"create", "release-geometry", "upload-geometry"}
	for i := range want {
		if backend.calls[i] != want[i] {
			t.Fatalf("backend calls = %v, want %v", backend.calls, want)
		}
	}
}

func TestOnResizeFailureKeepsRectAndGeometry(t *testing.T) {
	rect := common.Rect{Top: 100, Left: 50, Width: 240, Height: 120}
	doc := layout.NewDocument([]layout.Element{{Name: "img", Fixed: &rect}})
	doc.Relayout(800)

	backend := newFakeBackend()
	s := newTestScene(backend)
	if err := s.Build(doc, nil); err != nil {
		t.Fatal(err)
	}
	old := rect

	backend.failReplace = true
	rect.Width, rect.Height = 480, 240
	doc.Relayout(1000)
	if err := s.OnResize(1000, 500); err == nil {
		t.Fatal("OnResize() should report the failed replacement")
	}

	cached := s.Tracked()[0].Rect
	g := s.Meshes()[0].Geometry()
	if cached != old {
		t.Fatalf("cached rect = %+v, want %+v", cached, old)
	}
	if g.Width != cached.Width || g.Height != cached.Height {
		t.Fatalf("geometry %vx%v does not match cached rect %vx%v", g.Width, g.Height, cached.Width, cached.Height)
	}
	x, y := PlanePosition(old, 0, 1000, 500)
	if pos := s.Meshes()[0].Position(); pos[0] != x || pos[1] != y {
		t.Fatalf("position = %v, want (%v, %v)", pos, x, y)
	}

	// the next successful resize picks up the new rect
	backend.failReplace = false
	if err := s.OnResize(1000, 500); err != nil {
		t.Fatalf("OnResize() error = %v", err)
	}
	if s.Tracked()[0].Rect != rect || s.Meshes()[0].Geometry().Width != 480 {
		t.Fatalf("cached rect = %+v after recovery, want %+v", s.Tracked()[0].Rect, rect)
	}
}

func TestDegenerateRectBuilds(t *testing.T) {
	doc := layout.NewDocument([]layout.Element{{Name: "not loaded"}})
	doc.Relayout(800)
	s := newTestScene(newFakeBackend())

	if err := s.Build(doc, nil); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !s.Meshes()[0].Geometry().Degenerate() {
		t.Fatal("expected a zero-area plane")
	}
}

func TestBuildFailureReleasesCreatedPlanes(t *testing.T) {
	doc := fixedDoc(
		common.Rect{Width: 10, Height: 10},
		common.Rect{Width: 10, Height: 10},
	)
	backend := newFakeBackend()
	backend.failOn = 1
	s := newTestScene(backend)

	if err := s.Build(doc, nil); err == nil {
		t.Fatal("Build() succeeded with a failing backend")
	}
	if s.Built() {
		t.Fatal("scene reports built after failure")
	}
	if len(backend.calls) != 2 || backend.calls[1] != "release" {
		t.Fatalf("backend calls = %v, want [create release]", backend.calls)
	}
}

func TestHoverHandlersAndUniformPush(t *testing.T) {
	doc := fixedDoc(
		common.Rect{Top: 0, Left: 0, Width: 100, Height: 100},
		common.Rect{Top: 200, Left: 0, Width: 100, Height: 100},
	)
	backend := newFakeBackend()
	s := newTestScene(backend)
	tex := common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}
	if err := s.Build(doc, []common.TextureStagingData{tex}); err != nil {
		t.Fatal(err)
	}

	if s.Meshes()[0].Material().Texture().Empty() || !s.Meshes()[1].Material().Texture().Empty() {
		t.Fatal("textures not bound by index")
	}

	doc.PointerMove(10, 10, 0)
	s.AdvanceTweens(0.5)
	a, b := s.Meshes()[0].Material(), s.Meshes()[1].Material()
	if a.HoverTarget() != 1 || a.HoverState() <= 0 {
		t.Fatalf("hovered plane: target %v state %v", a.HoverTarget(), a.HoverState())
	}
	if b.HoverState() != 0 {
		t.Fatalf("other plane hover state = %v", b.HoverState())
	}

	s.PushUniforms(common.FrameContext{Time: 1.05})
	for _, m := range s.Meshes() {
		if m.Material().Time() != 1.05 {
			t.Fatalf("mesh %d time = %v", m.ID(), m.Material().Time())
		}
		if len(backend.uniforms[m.ID()]) != 32 {
			t.Fatalf("mesh %d uniform = %d bytes", m.ID(), len(backend.uniforms[m.ID()]))
		}
	}
}
