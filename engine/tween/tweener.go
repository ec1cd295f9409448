package tween

import "sync"

type tweenerImpl struct {
	mu *sync.Mutex

	value    float64
	now      float64
	duration float64
	ease     Ease
	active   *Tween
}

// Tweener owns one animated scalar and at most one active Tween driving it.
// Starting a new tween while one is running redirects from the current interpolated value,
// so the last caller wins and the value never jumps.
type Tweener interface {
	// Value returns the current animated value.
	Value() float64

	// Target returns the value the active tween is heading to, or the current value when idle.
	Target() float64

	// Active reports whether a tween is still running.
	Active() bool

	// To starts a tween from the current value to target using the configured duration and ease.
	//
	// Parameters:
	//   - target: destination value
	To(target float64)

	// Advance moves the tween clock forward by delta seconds and updates the value.
	//
	// Parameters:
	//   - delta: elapsed seconds since the previous call
	//
	// Returns:
	//   - float64: the updated value
	Advance(delta float64) float64

	// Clone returns an idle Tweener with the same value, duration and ease.
	Clone() Tweener
}

var _ Tweener = &tweenerImpl{}

// NewTweener creates a new Tweener. Defaults: value 0, duration 1s, Power1Out ease.
//
// Parameters:
//   - options: variadic list of TweenerBuilderOption functions
//
// Returns:
//   - Tweener: the configured tweener
func NewTweener(options ...TweenerBuilderOption) Tweener {
	t := &tweenerImpl{
		mu:       &sync.Mutex{},
		duration: 1.0,
		ease:     Power1Out,
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *tweenerImpl) Value() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

func (t *tweenerImpl) Target() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return t.value
	}
	return t.active.To
}

func (t *tweenerImpl) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != nil
}

func (t *tweenerImpl) To(target float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil && t.value == target {
		return
	}
	t.active = &Tween{
		From:     t.value,
		To:       target,
		Start:    t.now,
		Duration: t.duration,
		Ease:     t.ease,
	}
	if t.duration <= 0 {
		t.value = target
		t.active = nil
	}
}

func (t *tweenerImpl) Advance(delta float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if delta > 0 {
		t.now += delta
	}
	if t.active == nil {
		return t.value
	}

	t.value = t.active.Value(t.now)
	if t.active.Done(t.now) {
		t.active = nil
	}
	return t.value
}

func (t *tweenerImpl) Clone() Tweener {
	t.mu.Lock()
	defer t.mu.Unlock()

	return &tweenerImpl{
		mu:       &sync.Mutex{},
		value:    t.value,
		duration: t.duration,
		ease:     t.ease,
	}
}
