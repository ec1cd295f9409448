package mesh

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

func TestPlaneGeometryCounts(t *testing.T) {
	g := NewPlaneGeometry(200, 100, DefaultSegments, DefaultSegments)

	if len(g.Vertices) != 121 {
		t.Fatalf("vertex count = %d, want 121", len(g.Vertices))
	}
	if g.IndexCount() != 600 {
		t.Fatalf("index count = %d, want 600", g.IndexCount())
	}
	if len(g.VertexData()) != 121*20 {
		t.Fatalf("vertex data = %d bytes", len(g.VertexData()))
	}
	if len(g.IndexData()) != 600*4 {
		t.Fatalf("index data = %d bytes", len(g.IndexData()))
	}
}

func TestPlaneGeometryCornersAndUV(t *testing.T) {
	g := NewPlaneGeometry(200, 100, 10, 10)

	first := g.Vertices[0]
	if first.Position != [3]float32{-100, 50, 0} || first.TexCoord != [2]float32{0, 1} {
		t.Fatalf("top-left vertex = %+v", first)
	}
	last := g.Vertices[len(g.Vertices)-1]
	if last.Position != [3]float32{100, -50, 0} || last.TexCoord != [2]float32{1, 0} {
		t.Fatalf("bottom-right vertex = %+v", last)
	}
}

func TestPlaneGeometrySegmentsClamped(t *testing.T) {
	g := NewPlaneGeometry(10, 10, 0, -3)
	if len(g.Vertices) != 4 || g.IndexCount() != 6 {
		t.Fatalf("got %d vertices, %d indices", len(g.Vertices), g.IndexCount())
	}
}

func TestIntersect(t *testing.T) {
	m := NewMesh(WithGeometry(NewPlaneGeometry(200, 100, 10, 10)))
	m.SetPosition(50, -20)

	tests := []struct {
		name   string
		ray    common.Ray
		wantOK bool
		wantU  float64
		wantV  float64
	}{
		{
			name:   "center from front",
			ray:    common.Ray{Origin: common.Vec3{50, -20, 600}, Direction: common.Vec3{0, 0, -1}},
			wantOK: true,
			wantU:  0.5,
			wantV:  0.5,
		},
		{
			name:   "offset point",
			ray:    common.Ray{Origin: common.Vec3{50 - 40, -20 + 20, 600}, Direction: common.Vec3{0, 0, -1}},
			wantOK: true,
			wantU:  0.3,
			wantV:  0.7,
		},
		{
			name:   "from behind",
			ray:    common.Ray{Origin: common.Vec3{50, -20, -10}, Direction: common.Vec3{0, 0, 1}},
			wantOK: true,
			wantU:  0.5,
			wantV:  0.5,
		},
		{
			name: "outside",
			ray:  common.Ray{Origin: common.Vec3{300, 0, 600}, Direction: common.Vec3{0, 0, -1}},
		},
		{
			name: "pointing away",
			ray:  common.Ray{Origin: common.Vec3{50, -20, 600}, Direction: common.Vec3{0, 0, 1}},
		},
		{
			name: "parallel",
			ray:  common.Ray{Origin: common.Vec3{50, -20, 600}, Direction: common.Vec3{1, 0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, u, v, ok := m.Intersect(tt.ray)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (math.Abs(u-tt.wantU) > 1e-9 || math.Abs(v-tt.wantV) > 1e-9) {
				t.Fatalf("uv = (%v, %v), want (%v, %v)", u, v, tt.wantU, tt.wantV)
			}
		})
	}
}

func TestIntersectZeroArea(t *testing.T) {
	m := NewMesh(WithGeometry(NewPlaneGeometry(0, 100, 10, 10)))
	ray := common.Ray{Origin: common.Vec3{0, 0, 600}, Direction: common.Vec3{0, 0, -1}}
	if _, _, _, ok := m.Intersect(ray); ok {
		t.Fatal("zero-area plane reported a hit")
	}
}

func TestUniform(t *testing.T) {
	m := NewMesh()
	m.SetPosition(-250, 125)
	m.Material().SetTime(2)

	u := m.Uniform()
	if u.Offset != [4]float32{-250, 125, 0, 1} || u.Material.Time != 2 {
		t.Fatalf("Uniform() = %+v", u)
	}
	if len(u.Marshal()) != 32 || u.Size() != 32 {
		t.Fatalf("uniform size = %d", u.Size())
	}
}
