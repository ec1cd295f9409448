package camera

type CameraBuilderOption func(*cameraImpl)

// WithDepth sets the fixed distance between the camera and the z = 0 plane the gallery planes live on.
// At this distance one world unit maps to one screen pixel.
//
// Parameters:
//   - depth: camera distance in world units
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera depth
func WithDepth(depth float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.depth = depth
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithViewport sets the initial container size. Equivalent to calling Configure after construction.
//
// Parameters:
//   - width, height: container size in pixels
//
// Returns:
//   - CameraBuilderOption: functional option to set the viewport
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.width = float64(width)
		c.height = float64(height)
	}
}
