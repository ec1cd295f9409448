package tween

type TweenerBuilderOption func(*tweenerImpl)

// WithDuration sets the duration in seconds of every tween started by the Tweener.
func WithDuration(seconds float64) TweenerBuilderOption {
	return func(t *tweenerImpl) {
		t.duration = seconds
	}
}

// WithEase sets the easing function. A nil ease keeps the default.
func WithEase(ease Ease) TweenerBuilderOption {
	return func(t *tweenerImpl) {
		if ease != nil {
			t.ease = ease
		}
	}
}

// WithInitialValue sets the starting value.
func WithInitialValue(v float64) TweenerBuilderOption {
	return func(t *tweenerImpl) {
		t.value = v
	}
}
