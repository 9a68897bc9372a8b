// Package animation eases scalar values over time.
package animation

import (
	"sync"
	"time"
)

// DefaultDuration is the length of a wipe transition.
const DefaultDuration = 500 * time.Millisecond

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// EaseInOut blends an ease-in curve into an ease-out curve across x.
func EaseInOut(x float64) float64 {
	return Lerp(x*x, 1-(1-x)*(1-x), x)
}

// Animator moves a value toward a target. Retargeting mid-flight starts the
// new transition from wherever the value currently is, so there is never
// more than one transition in progress. It is safe for concurrent use.
type Animator struct {
	Duration time.Duration

	mu    sync.Mutex
	from  float64
	to    float64
	start time.Time
}

// NewAnimator creates an animator resting at value.
func NewAnimator(value float64, duration time.Duration) *Animator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Animator{Duration: duration, from: value, to: value}
}

// Retarget starts a transition from the value at now toward to.
func (a *Animator) Retarget(to float64, now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.from = a.valueLocked(now)
	a.to = to
	a.start = now
}

// Value returns the animated value at now.
func (a *Animator) Value(now time.Time) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.valueLocked(now)
}

// Done reports whether the transition has reached its target at now.
func (a *Animator) Done(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progressLocked(now) >= 1
}

// Target returns the value the animator is heading toward.
func (a *Animator) Target() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.to
}

func (a *Animator) progressLocked(now time.Time) float64 {
	if a.start.IsZero() || a.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(a.start)) / float64(a.Duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func (a *Animator) valueLocked(now time.Time) float64 {
	p := a.progressLocked(now)
	if p >= 1 {
		return a.to
	}
	return a.from + (a.to-a.from)*EaseInOut(p)
}
