package common

import (
	"math"
	"testing"
)

func TestInvert4RoundTrip(t *testing.T) {
	var view, proj, vp, inv, id Mat4
	LookAt(&view, Vec3{10, 20, 600}, Vec3{10, 20, 0}, Vec3{0, 1, 0})
	Perspective(&proj, 0.9, 4.0/3.0, 100, 2000)
	Mul4(&vp, &proj, &view)

	if !Invert4(&inv, &vp) {
		t.Fatal("Invert4 reported singular matrix")
	}
	Mul4(&id, &vp, &inv)
	for i := range id {
		want := 0.0
		if i%5 == 0 {
			want = 1
		}
		if math.Abs(id[i]-want) > 1e-6 {
			t.Fatalf("vp * inv(vp) [%d] = %v, want %v", i, id[i], want)
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out Mat4
	Identity(&out)
	if Invert4(&out, &zero) {
		t.Fatal("expected singular matrix to fail inversion")
	}
	if out[0] != 1 || out[15] != 1 {
		t.Fatal("out must be unchanged on failure")
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj Mat4
	Perspective(&proj, math.Pi/2, 1, 100, 2000)

	tests := []struct {
		name  string
		viewZ float64
		want  float64
	}{
		{"near plane", -100, 0},
		{"far plane", -2000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := TransformPoint(&proj, Vec3{0, 0, tt.viewZ})
			if math.Abs(p[2]-tt.want) > 1e-9 {
				t.Errorf("depth = %v, want %v", p[2], tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{Top: 100, Left: 50, Width: 200, Height: 150}
	if !r.Contains(50, 100) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(250, 100) {
		t.Error("right edge should be exclusive")
	}
	if r.Contains(60, 250) {
		t.Error("bottom edge should be exclusive")
	}
	if !(Rect{}).Degenerate() {
		t.Error("zero rect should be degenerate")
	}
}
