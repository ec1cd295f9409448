package tween

import (
	"math"
	"testing"
)

func TestPower1Out(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0, 0},
		{0.5, 0.75},
		{1, 1},
	}
	for _, tt := range tests {
		if got := Power1Out(tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("Power1Out(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestTweenValueClamped(t *testing.T) {
	tw := Tween{From: 0, To: 1, Start: 2, Duration: 1, Ease: Linear}

	if v := tw.Value(1); v != 0 {
		t.Fatalf("Value before start = %v, want 0", v)
	}
	if v := tw.Value(2.5); math.Abs(v-0.5) > 1e-12 {
		t.Fatalf("Value at midpoint = %v, want 0.5", v)
	}
	if v := tw.Value(10); v != 1 || !tw.Done(10) {
		t.Fatalf("Value after end = %v, done = %v", v, tw.Done(10))
	}
}

func TestTweenerMonotoneEnterAndLeave(t *testing.T) {
	const (
		duration = 1.0
		step     = 1.0 / 64 // exact in binary, so 64 steps sum to the duration
	)
	tw := NewTweener(WithDuration(duration))

	// run advances until the tween settles and returns the settled value and the elapsed time.
	run := func(name string, rising bool) (float64, float64) {
		prev := tw.Value()
		elapsed := 0.0
		for frames := 0; tw.Active(); frames++ {
			if frames > 1000 {
				t.Fatalf("%s never settled", name)
			}
			v := tw.Advance(step)
			elapsed += step
			if (rising && v < prev) || (!rising && v > prev) {
				t.Fatalf("%s not monotone: %v -> %v", name, prev, v)
			}
			if v < 0 || v > 1 {
				t.Fatalf("%s out of range: %v", name, v)
			}
			prev = v
		}
		return prev, elapsed
	}

	tw.To(1)
	v, elapsed := run("hover in", true)
	if v != 1 {
		t.Fatalf("hover in settled at %v, want 1", v)
	}
	if elapsed > duration {
		t.Fatalf("hover in took %vs, want at most %vs", elapsed, duration)
	}

	tw.To(0)
	v, elapsed = run("hover out", false)
	if v != 0 {
		t.Fatalf("hover out settled at %v, want 0", v)
	}
	if elapsed > duration {
		t.Fatalf("hover out took %vs, want at most %vs", elapsed, duration)
	}
}

func TestTweenerRedirectFromCurrentValue(t *testing.T) {
	tw := NewTweener(WithEase(Linear), WithDuration(1))

	tw.To(1)
	tw.Advance(0.4)
	mid := tw.Value()
	if math.Abs(mid-0.4) > 1e-9 {
		t.Fatalf("value after 0.4s = %v, want 0.4", mid)
	}

	tw.To(0)
	if tw.Target() != 0 {
		t.Fatalf("Target() = %v after redirect, want 0", tw.Target())
	}
	if v := tw.Advance(0); math.Abs(v-mid) > 1e-9 {
		t.Fatalf("redirect jumped from %v to %v", mid, v)
	}
	if v := tw.Advance(0.5); math.Abs(v-0.2) > 1e-9 {
		t.Fatalf("value halfway through redirect = %v, want 0.2", v)
	}
}

func TestTweenerZeroDuration(t *testing.T) {
	tw := NewTweener(WithDuration(0))
	tw.To(1)
	if tw.Value() != 1 || tw.Active() {
		t.Fatalf("zero duration tween: value = %v, active = %v", tw.Value(), tw.Active())
	}
}

func TestTweenerCloneIsIndependent(t *testing.T) {
	a := NewTweener(WithInitialValue(0.25))
	b := a.Clone()

	a.To(1)
	a.Advance(2)
	if b.Value() != 0.25 || b.Active() {
		t.Fatalf("clone affected by original: value = %v, active = %v", b.Value(), b.Active())
	}
}
