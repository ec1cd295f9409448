package tween

import "github.com/Carmen-Shannon/oxy-gallery/common"

// Ease maps linear progress p in [0, 1] to eased progress.
type Ease func(p float64) float64

// Linear is the identity ease.
func Linear(p float64) float64 {
	return p
}

// Power1Out decelerates quadratically towards the end: 1 - (1 - p)^2.
func Power1Out(p float64) float64 {
	return 1 - (1-p)*(1-p)
}

// Tween is a single interpolation task from From to To, starting at Start on the tween clock and
// lasting Duration seconds.
type Tween struct {
	From     float64
	To       float64
	Start    float64
	Duration float64
	Ease     Ease
}

// Progress returns the linear progress of the tween at now, clamped to [0, 1].
// Zero or negative durations complete immediately.
//
// Parameters:
//   - now: the current tween clock time in seconds
//
// Returns:
//   - float64: progress in [0, 1]
func (t Tween) Progress(now float64) float64 {
	if t.Duration <= 0 {
		return 1
	}
	return common.Clamp((now-t.Start)/t.Duration, 0, 1)
}

// Value returns the interpolated value at now.
//
// Parameters:
//   - now: the current tween clock time in seconds
//
// Returns:
//   - float64: the eased value between From and To
func (t Tween) Value(now float64) float64 {
	p := t.Progress(now)
	if p >= 1 {
		return t.To
	}
	ease := t.Ease
	if ease == nil {
		ease = Linear
	}
	return common.Lerp(t.From, t.To, ease(p))
}

// Done reports whether the tween has reached its end at now.
func (t Tween) Done(now float64) bool {
	return t.Progress(now) >= 1
}
