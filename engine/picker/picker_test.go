package picker

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/camera"
	"github.com/Carmen-Shannon/oxy-gallery/engine/mesh"
)

type meshList []mesh.Mesh

func (l meshList) Meshes() []mesh.Mesh { return l }

func plane(id int, w, h, x, y float64) mesh.Mesh {
	m := mesh.NewMesh(mesh.WithID(id), mesh.WithGeometry(mesh.NewPlaneGeometry(w, h, 10, 10)))
	m.SetPosition(x, y)
	return m
}

func TestPickNearestAndTies(t *testing.T) {
	a := plane(0, 100, 100, 0, 0)
	b := plane(1, 100, 100, 0, 0)
	down := common.Ray{Origin: common.Vec3{0, 0, 600}, Direction: common.Vec3{0, 0, -1}}

	hit, ok := Pick(down, []mesh.Mesh{a, b})
	if !ok || hit.Index != 0 {
		t.Fatalf("tie: hit = %+v, ok = %v, want index 0", hit, ok)
	}

	if _, ok := Pick(down, nil); ok {
		t.Fatal("empty scene reported a hit")
	}

	degenerate := plane(2, 0, 0, 0, 0)
	hit, ok = Pick(down, []mesh.Mesh{degenerate, b})
	if !ok || hit.Index != 1 || math.Abs(hit.Distance-600) > 1e-9 {
		t.Fatalf("hit = %+v, ok = %v, want mesh 1 at 600", hit, ok)
	}
}

func TestPointerMoveWritesOnlyHitMesh(t *testing.T) {
	cam := camera.NewCamera()
	cam.Configure(800, 600)

	// Plane at document rect {top 100, left 50, w 200, h 150} sits at (-250, 125).
	target := plane(0, 200, 150, -250, 125)
	other := plane(1, 200, 150, 200, -100)
	p := NewPicker(cam, meshList{target, other})

	// UV (0.3, 0.7) lies 60px right of the left edge and 45px below the top edge.
	hit, ok := p.PointerMove(50+60, 100+45)
	if !ok || hit.Mesh != target {
		t.Fatalf("PointerMove hit = %+v, ok = %v", hit, ok)
	}

	u, v := target.Material().HoverPoint()
	if math.Abs(u-0.3) > 1e-6 || math.Abs(v-0.7) > 1e-6 {
		t.Fatalf("target hover point = (%v, %v), want (0.3, 0.7)", u, v)
	}
	if u, v := other.Material().HoverPoint(); u != 0.5 || v != 0.5 {
		t.Fatalf("other hover point modified: (%v, %v)", u, v)
	}
}

func TestPointerMoveMissKeepsHoverPoint(t *testing.T) {
	cam := camera.NewCamera(camera.WithViewport(800, 600))
	m := plane(0, 100, 100, 0, 0)
	m.Material().SetHoverPoint(0.1, 0.9)
	p := NewPicker(cam, meshList{m})

	if _, ok := p.PointerMove(5, 5); ok {
		t.Fatal("expected a miss in the corner")
	}
	if u, v := m.Material().HoverPoint(); u != 0.1 || v != 0.9 {
		t.Fatalf("hover point changed on miss: (%v, %v)", u, v)
	}
	if _, ok := p.LastHit(); ok {
		t.Fatal("LastHit reported a hit after a miss")
	}
}
