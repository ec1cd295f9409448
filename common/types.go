// package common contains plain data types and math helpers shared by the gallery engine packages.
// They are not interface-wrapped; they express commonly used values such as rectangles, rays and staged pixels.
package common

import "math"

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major, top row first.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Empty reports whether the staging data carries no pixels.
func (t TextureStagingData) Empty() bool {
	return t.Width == 0 || t.Height == 0 || len(t.Pixels) == 0
}

// Rect is a layout rectangle in document pixels with a top-left origin, the shape returned by a
// bounding-rectangle query on a laid-out element.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle. The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Offset returns the rectangle moved by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Top: r.Top + dy, Left: r.Left + dx, Width: r.Width, Height: r.Height}
}

// Degenerate reports whether the rectangle has no area.
func (r Rect) Degenerate() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Vec3 is a 3-component vector in world space.
type Vec3 [3]float64

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Ray is a half-line starting at Origin and extending along the unit vector Direction.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// FrameContext is the per-tick snapshot handed to every component that reads frame state.
// It is built once at the start of a tick and never mutated afterwards.
type FrameContext struct {
	// Time is the shared time accumulator written into every material and the post-process stage.
	Time float64
	// Delta is the wall-clock seconds since the previous tick.
	Delta float64
	// ScrollOffset is the smoothed scroll offset in pixels.
	ScrollOffset float64
	// ScrollSpeed is the smoothed, signed scroll speed.
	ScrollSpeed float64
	// Frame is the tick counter, starting at 1 for the first tick.
	Frame uint64
}
