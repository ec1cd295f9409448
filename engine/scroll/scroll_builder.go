package scroll

type ScrollBuilderOption func(*scrollImpl)

// WithEase sets the fraction of the remaining distance covered each tick, in (0, 1].
func WithEase(ease float64) ScrollBuilderOption {
	return func(s *scrollImpl) {
		if ease > 0 && ease <= 1 {
			s.ease = ease
		}
	}
}

// WithSpeedSmoothing sets the smoothing factor applied to the speed output, in (0, 1].
func WithSpeedSmoothing(factor float64) ScrollBuilderOption {
	return func(s *scrollImpl) {
		if factor > 0 && factor <= 1 {
			s.speedSmoothing = factor
		}
	}
}

// WithMaxDelta sets the per-tick movement in pixels that maps to a speed of 1.
func WithMaxDelta(px float64) ScrollBuilderOption {
	return func(s *scrollImpl) {
		if px > 0 {
			s.maxDelta = px
		}
	}
}

// WithWheelScale sets the multiplier applied to raw wheel deltas.
func WithWheelScale(scale float64) ScrollBuilderOption {
	return func(s *scrollImpl) {
		s.wheelScale = scale
	}
}

// WithLimit sets the initial maximum scroll offset.
func WithLimit(limit float64) ScrollBuilderOption {
	return func(s *scrollImpl) {
		s.limit = max(limit, 0)
	}
}
