package postprocess

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

// FrameTarget is the render backend surface the Compositor drives. The scene pass draws into an
// offscreen color target, the post pass samples that target and writes to the presentable surface.
type FrameTarget interface {
	// BeginScenePass acquires the frame and opens the offscreen scene pass.
	BeginScenePass() error

	// EndScenePass closes the offscreen scene pass.
	EndScenePass()

	// BeginPostPass opens the pass writing to the presentable surface.
	BeginPostPass() error

	// DrawPost uploads the post uniform block and draws the full-screen triangle.
	DrawPost(uniform []byte) error

	// EndFrame closes any open pass and submits the frame's commands.
	EndFrame()

	// Present shows the acquired surface image.
	Present()

	// ResizeTargets recreates the offscreen target and the post bind group.
	ResizeTargets(width, height int) error
}

// PlaneDrawer issues the draw calls of the scene pass.
type PlaneDrawer interface {
	DrawPlanes() error
}

type compositor struct {
	mu *sync.Mutex

	target FrameTarget
	planes PlaneDrawer
	stage  Stage
	frames uint64
}

// Compositor renders one frame as a scene pass followed by the full-screen distortion pass.
// It is the only component that issues draw calls.
type Compositor interface {
	// Stage returns the post-process parameters.
	Stage() Stage

	// SetFrameUniforms forwards the tick's time and scroll speed to the Stage.
	//
	// Parameters:
	//   - time: shared scene time
	//   - scrollSpeed: smoothed signed scroll speed
	SetFrameUniforms(time, scrollSpeed float64)

	// Resize recreates the offscreen target for a new output size.
	//
	// Parameters:
	//   - width, height: output size in pixels
	//
	// Returns:
	//   - error: an error if the backend fails to recreate its targets
	Resize(width, height int) error

	// Render draws the planes offscreen, then the distortion pass to the surface, then presents.
	//
	// Returns:
	//   - error: an error if a pass could not be opened or a draw call failed
	Render() error

	// Frames returns the number of frames presented.
	Frames() uint64
}

var _ Compositor = &compositor{}

// NewCompositor creates a Compositor.
//
// Parameters:
//   - target: the backend frame target
//   - planes: the scene pass drawer
//   - options: variadic list of CompositorBuilderOption functions
//
// Returns:
//   - Compositor: the configured compositor
func NewCompositor(target FrameTarget, planes PlaneDrawer, options ...CompositorBuilderOption) Compositor {
	if target == nil || planes == nil {
		panic("postprocess: compositor requires a frame target and a plane drawer")
	}
	c := &compositor{
		mu:     &sync.Mutex{},
		target: target,
		planes: planes,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.stage == nil {
		c.stage = NewStage()
	}
	return c
}

func (c *compositor) Stage() Stage {
	return c.stage
}

func (c *compositor) SetFrameUniforms(time, scrollSpeed float64) {
	c.stage.SetFrameUniforms(time, scrollSpeed)
}

func (c *compositor) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	width, height = max(width, 1), max(height, 1)
	if err := c.target.ResizeTargets(width, height); err != nil {
		return fmt.Errorf("postprocess: resize targets to %dx%d: %w", width, height, err)
	}
	c.stage.SetResolution(width, height)
	common.Logger().Debug("post targets resized", "width", width, "height", height)
	return nil
}

func (c *compositor) Render() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.target.BeginScenePass(); err != nil {
		return fmt.Errorf("postprocess: begin scene pass: %w", err)
	}

	drawErr := c.planes.DrawPlanes()
	c.target.EndScenePass()

	if err := c.target.BeginPostPass(); err != nil {
		c.target.EndFrame()
		c.target.Present()
		return errors.Join(drawErr, fmt.Errorf("postprocess: begin post pass: %w", err))
	}

	uniform := c.stage.Uniform()
	postErr := c.target.DrawPost(uniform.Marshal())

	c.target.EndFrame()
	c.target.Present()
	c.frames++

	if drawErr != nil || postErr != nil {
		return fmt.Errorf("postprocess: frame %d: %w", c.frames, errors.Join(drawErr, postErr))
	}
	return nil
}

func (c *compositor) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}
