package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestConfigureFov(t *testing.T) {
	c := NewCamera()
	c.Configure(800, 600)

	wantFov := 2 * math.Atan(300.0/600.0)
	if !approx(c.Fov(), wantFov, 1e-12) {
		t.Fatalf("Fov() = %v, want %v", c.Fov(), wantFov)
	}
	if !approx(c.FovDegrees(), 53.13010235415598, 1e-9) {
		t.Fatalf("FovDegrees() = %v", c.FovDegrees())
	}
	if !approx(c.Aspect(), 800.0/600.0, 1e-12) {
		t.Fatalf("Aspect() = %v", c.Aspect())
	}

	hw, hh := c.HalfExtent()
	if !approx(hw, 400, 1e-9) || !approx(hh, 300, 1e-9) {
		t.Fatalf("HalfExtent() = (%v, %v), want (400, 300)", hw, hh)
	}
}

func TestConfigureZeroSizeClamped(t *testing.T) {
	c := NewCamera()
	c.Configure(0, 0)

	if c.Width() != 1 || c.Height() != 1 {
		t.Fatalf("size = %vx%v, want 1x1", c.Width(), c.Height())
	}
	if math.IsNaN(c.Fov()) || c.Fov() <= 0 {
		t.Fatalf("Fov() = %v after zero-size configure", c.Fov())
	}
}

func TestCenterRayHitsOrigin(t *testing.T) {
	c := NewCamera(WithViewport(1024, 768))

	r := c.Ray(0, 0)
	if r.Origin != (common.Vec3{0, 0, 600}) {
		t.Fatalf("ray origin = %v", r.Origin)
	}
	if !approx(r.Direction[0], 0, 1e-9) || !approx(r.Direction[1], 0, 1e-9) || !approx(r.Direction[2], -1, 1e-9) {
		t.Fatalf("ray direction = %v, want (0, 0, -1)", r.Direction)
	}
}

func TestPixelExactProjection(t *testing.T) {
	c := NewCamera()
	c.Configure(800, 600)

	// (-250, 125) on the z = 0 plane sits 150px from the left and 175px from the top.
	ndcX, ndcY := c.Project(common.Vec3{-250, 125, 0})
	wantX, wantY := PixelToNDC(150, 175, 800, 600)
	if !approx(ndcX, wantX, 1e-9) || !approx(ndcY, wantY, 1e-9) {
		t.Fatalf("Project() = (%v, %v), want (%v, %v)", ndcX, ndcY, wantX, wantY)
	}

	r := c.Ray(wantX, wantY)
	tHit := -r.Origin[2] / r.Direction[2]
	hit := r.At(tHit)
	if !approx(hit[0], -250, 1e-6) || !approx(hit[1], 125, 1e-6) {
		t.Fatalf("ray hit z=0 at %v, want (-250, 125)", hit)
	}
}

func TestPixelToNDC(t *testing.T) {
	tests := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{"top left", 0, 0, -1, 1},
		{"center", 400, 300, 0, 0},
		{"bottom right", 800, 600, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := PixelToNDC(tt.x, tt.y, 800, 600)
			if !approx(x, tt.wantX, 1e-12) || !approx(y, tt.wantY, 1e-12) {
				t.Fatalf("PixelToNDC(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestUniformMarshalSize(t *testing.T) {
	c := NewCamera(WithViewport(640, 480))
	u := c.Uniform()
	buf := u.Marshal()
	if len(buf) != 96 {
		t.Fatalf("len(Marshal()) = %d, want 96", len(buf))
	}
	if u.Viewport != [2]float32{640, 480} || u.Depth != 600 {
		t.Fatalf("uniform = %+v", u)
	}
}
