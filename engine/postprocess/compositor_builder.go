package postprocess

// CompositorBuilderOption is a functional option for configuring a Compositor.
type CompositorBuilderOption func(c *compositor)

// WithStage sets the Stage the compositor reads its uniforms from.
//
// Parameters:
//   - s: the stage, nil keeps the default
//
// Returns:
//   - CompositorBuilderOption: option function to apply
func WithStage(s Stage) CompositorBuilderOption {
	return func(c *compositor) {
		if s != nil {
			c.stage = s
		}
	}
}
