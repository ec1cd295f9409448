package scroll

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-gallery/common"
)

type scrollImpl struct {
	mu *sync.Mutex

	target   float64
	current  float64
	previous float64
	limit    float64

	speed       float64
	speedTarget float64

	ease           float64
	speedSmoothing float64
	maxDelta       float64
	wheelScale     float64
}

// Scroll is the smoothed, wheel-driven scroll provider.
// Wheel input moves a target offset; every Tick eases the rendered offset towards the target and derives
// a signed, normalized speed from the per-tick movement.
type Scroll interface {
	// AddWheel moves the target offset by a wheel delta, clamped to [0, limit].
	//
	// Parameters:
	//   - delta: wheel movement in pixels, positive scrolls down
	AddWheel(delta float64)

	// ScrollTo sets the target offset, clamped to [0, limit].
	//
	// Parameters:
	//   - offset: target offset in pixels
	ScrollTo(offset float64)

	// Jump sets both target and rendered offset, with no easing and zero speed.
	//
	// Parameters:
	//   - offset: offset in pixels
	Jump(offset float64)

	// SetLimit sets the maximum scroll offset (document height minus viewport height) and re-clamps.
	//
	// Parameters:
	//   - limit: maximum offset in pixels, negative values are treated as 0
	SetLimit(limit float64)

	// Limit returns the maximum scroll offset.
	Limit() float64

	// Tick advances the easing by one frame.
	Tick()

	// Target returns the offset the scroll is easing towards.
	Target() float64

	// Offset returns the current smoothed offset in pixels.
	Offset() float64

	// Speed returns the smoothed, signed scroll speed in [-1, 1], rounded to two decimals.
	Speed() float64
}

var _ Scroll = &scrollImpl{}

// NewScroll creates a new Scroll provider.
// Defaults: ease 0.1, speed smoothing 0.2, max per-tick delta 200px, wheel scale 1.
//
// Parameters:
//   - options: variadic list of ScrollBuilderOption functions
//
// Returns:
//   - Scroll: the configured scroll provider
func NewScroll(options ...ScrollBuilderOption) Scroll {
	s := &scrollImpl{
		mu:             &sync.Mutex{},
		ease:           0.1,
		speedSmoothing: 0.2,
		maxDelta:       200,
		wheelScale:     1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scrollImpl) AddWheel(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = common.Clamp(s.target+delta*s.wheelScale, 0, s.limit)
}

func (s *scrollImpl) ScrollTo(offset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = common.Clamp(offset, 0, s.limit)
}

func (s *scrollImpl) Jump(offset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target = common.Clamp(offset, 0, s.limit)
	s.current = s.target
	s.previous = s.target
	s.speed = 0
	s.speedTarget = 0
}

func (s *scrollImpl) SetLimit(limit float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.limit = math.Max(limit, 0)
	s.target = common.Clamp(s.target, 0, s.limit)
}

func (s *scrollImpl) Limit() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limit
}

func (s *scrollImpl) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.previous = s.current
	s.current += (s.target - s.current) * s.ease
	if math.Abs(s.target-s.current) < 0.01 {
		s.current = s.target
	}

	delta := s.current - s.previous
	s.speed = 0
	if s.maxDelta > 0 && delta != 0 {
		s.speed = math.Copysign(math.Min(math.Abs(delta), s.maxDelta)/s.maxDelta, delta)
	}

	s.speedTarget += (s.speed - s.speedTarget) * s.speedSmoothing
	// Two-decimal rounding has fixed points near the target; snap once within rounding reach.
	if math.Abs(s.speed-s.speedTarget) < 0.025 {
		s.speedTarget = s.speed
	}
	s.speedTarget = math.Round(s.speedTarget*100) / 100
}

func (s *scrollImpl) Target() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

func (s *scrollImpl) Offset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *scrollImpl) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speedTarget
}
