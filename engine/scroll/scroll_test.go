package scroll

import (
	"math"
	"testing"
)

func TestAddWheelClampsToLimit(t *testing.T) {
	s := NewScroll(WithLimit(500))

	s.AddWheel(-100)
	if s.Target() != 0 {
		t.Fatalf("Target() = %v after negative wheel, want 0", s.Target())
	}
	s.AddWheel(900)
	if s.Target() != 500 {
		t.Fatalf("Target() = %v, want 500", s.Target())
	}

	s.SetLimit(200)
	if s.Target() != 200 {
		t.Fatalf("Target() = %v after SetLimit, want 200", s.Target())
	}
}

func TestTickEasesTowardsTarget(t *testing.T) {
	s := NewScroll(WithLimit(1000))
	s.ScrollTo(300)

	s.Tick()
	if math.Abs(s.Offset()-30) > 1e-9 {
		t.Fatalf("Offset() after one tick = %v, want 30", s.Offset())
	}

	prev := s.Offset()
	for range 500 {
		s.Tick()
		if s.Offset() < prev {
			t.Fatalf("offset moved backwards: %v -> %v", prev, s.Offset())
		}
		prev = s.Offset()
	}
	if s.Offset() != 300 {
		t.Fatalf("Offset() settled at %v, want 300", s.Offset())
	}
}

func TestSpeedSignedAndRounded(t *testing.T) {
	s := NewScroll(WithLimit(10000))
	s.Jump(5000)

	s.ScrollTo(9000)
	s.Tick()
	// 400px moved, capped at 200 -> speed 1, smoothed 0.2.
	if s.Speed() != 0.2 {
		t.Fatalf("Speed() = %v, want 0.2", s.Speed())
	}

	s.Jump(5000)
	s.ScrollTo(0)
	s.Tick()
	if s.Speed() != -0.2 {
		t.Fatalf("Speed() = %v, want -0.2", s.Speed())
	}
}

func TestSpeedDecaysWhenIdle(t *testing.T) {
	s := NewScroll(WithLimit(1000))
	s.AddWheel(1000)
	for range 1000 {
		s.Tick()
	}
	if s.Speed() != 0 {
		t.Fatalf("Speed() = %v after settling, want 0", s.Speed())
	}
}
