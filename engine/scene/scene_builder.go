package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene name used in logs and GPU resource labels.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		if name != "" {
			s.name = name
		}
	}
}

// WithViewport sets the initial viewport size used by Build.
//
// Parameters:
//   - w, h: viewport size in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithViewport(w, h float64) SceneBuilderOption {
	return func(s *scene) {
		s.viewportW, s.viewportH = w, h
	}
}

// WithSegments sets the plane subdivision along each axis. Defaults to mesh.DefaultSegments.
//
// Parameters:
//   - n: segment count (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSegments(n int) SceneBuilderOption {
	return func(s *scene) {
		s.segments = max(n, 1)
	}
}

