package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

const (
	defaultDepth = 600.0
	defaultNear  = 100.0
	defaultFar   = 2000.0
)

type cameraImpl struct {
	mu *sync.Mutex

	width  float64
	height float64

	depth float64
	near  float64
	far   float64
	fov   float64

	viewMatrix                  common.Mat4
	projectionMatrix            common.Mat4
	viewProjectionMatrix        common.Mat4
	inverseViewProjectionMatrix common.Mat4
}

// Camera is the perspective viewport manager of the gallery.
// The camera sits on the +Z axis looking at the origin, at a fixed depth chosen so that
// one world unit on the z = 0 plane maps to exactly one pixel of the container.
// Configure must be called whenever the container is resized.
type Camera interface {
	// Configure recomputes fov, aspect and the matrices for a new container size.
	// A zero dimension is clamped to one pixel so the projection stays invertible.
	//
	// Parameters:
	//   - width, height: container size in pixels
	Configure(width, height int)

	// Width returns the configured container width in pixels.
	Width() float64

	// Height returns the configured container height in pixels.
	Height() float64

	// Depth returns the camera distance from the z = 0 plane.
	Depth() float64

	// Near returns the near clipping plane distance.
	Near() float64

	// Far returns the far clipping plane distance.
	Far() float64

	// Fov returns the vertical field of view in radians: 2 * atan((height / 2) / depth).
	Fov() float64

	// FovDegrees returns the vertical field of view in degrees.
	FovDegrees() float64

	// Aspect returns width / height.
	Aspect() float64

	// HalfExtent returns half of the visible world extent on the z = 0 plane.
	// With the pixel-exact fov this equals half of the container size.
	//
	// Returns:
	//   - w, h: half width and half height in world units
	HalfExtent() (w, h float64)

	// Position returns the world-space camera position.
	Position() common.Vec3

	// ViewMatrix returns the current view matrix (column-major).
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the current projection matrix (column-major).
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns projection * view (column-major).
	ViewProjectionMatrix() common.Mat4

	// Ray builds a world-space picking ray from normalized device coordinates.
	// The ray starts at the camera position and passes through the unprojected point.
	//
	// Parameters:
	//   - ndcX, ndcY: normalized device coordinates in [-1, 1], +Y up
	//
	// Returns:
	//   - common.Ray: the picking ray with a unit direction
	Ray(ndcX, ndcY float64) common.Ray

	// Project maps a world-space point to normalized device coordinates.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - ndcX, ndcY: the projected coordinates
	Project(p common.Vec3) (ndcX, ndcY float64)

	// Uniform returns the GPU representation of the camera state.
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the given options. Without options the camera
// sits at depth 600 with a 100..2000 clipping range and a 1x1 viewport.
//
// Parameters:
//   - options: variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the configured camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		width:  1,
		height: 1,
		depth:  defaultDepth,
		near:   defaultNear,
		far:    defaultFar,
	}

	for _, opt := range options {
		opt(c)
	}

	c.recompute()
	return c
}

// PixelToNDC converts a container pixel position (origin top-left, +Y down) into
// normalized device coordinates (+Y up).
//
// Parameters:
//   - x, y: pixel position inside the container
//   - width, height: container size in pixels
//
// Returns:
//   - ndcX, ndcY: normalized device coordinates
func PixelToNDC(x, y, width, height float64) (ndcX, ndcY float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return x/width*2 - 1, -(y/height*2 - 1)
}

func (c *cameraImpl) Configure(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.width = float64(max(width, 1))
	c.height = float64(max(height, 1))
	c.recompute()
}

func (c *cameraImpl) Width() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

func (c *cameraImpl) Height() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

func (c *cameraImpl) Depth() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.depth
}

func (c *cameraImpl) Near() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Fov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) FovDegrees() float64 {
	return c.Fov() * 180 / math.Pi
}

func (c *cameraImpl) Aspect() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width / c.height
}

func (c *cameraImpl) HalfExtent() (w, h float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h = math.Tan(c.fov/2) * c.depth
	return h * c.width / c.height, h
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.Vec3{0, 0, c.depth}
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Ray(ndcX, ndcY float64) common.Ray {
	c.mu.Lock()
	defer c.mu.Unlock()

	origin := common.Vec3{0, 0, c.depth}
	target := common.TransformPoint(&c.inverseViewProjectionMatrix, common.Vec3{ndcX, ndcY, 0.5})
	return common.Ray{
		Origin:    origin,
		Direction: target.Sub(origin).Normalize(),
	}
}

func (c *cameraImpl) Project(p common.Vec3) (ndcX, ndcY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := common.TransformPoint(&c.viewProjectionMatrix, p)
	return out[0], out[1]
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()

	return GPUCameraUniform{
		ViewProj: c.viewProjectionMatrix.Float32(),
		Position: [3]float32{0, 0, float32(c.depth)},
		Viewport: [2]float32{float32(c.width), float32(c.height)},
		Fov:      float32(c.fov),
		Depth:    float32(c.depth),
	}
}

// recompute derives fov and all matrices from the current size and depth.
// Caller must hold the lock.
func (c *cameraImpl) recompute() {
	c.fov = 2 * math.Atan((c.height/2)/c.depth)

	common.LookAt(&c.viewMatrix, common.Vec3{0, 0, c.depth}, common.Vec3{}, common.Vec3{0, 1, 0})
	common.Perspective(&c.projectionMatrix, c.fov, c.width/c.height, c.near, c.far)
	common.Mul4(&c.viewProjectionMatrix, &c.projectionMatrix, &c.viewMatrix)
	if !common.Invert4(&c.inverseViewProjectionMatrix, &c.viewProjectionMatrix) {
		common.Identity(&c.inverseViewProjectionMatrix)
	}
}
