package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEaseInOut(t *testing.T) {
	assert.InDelta(t, 0.0, EaseInOut(0), 1e-9)
	assert.InDelta(t, 0.5, EaseInOut(0.5), 1e-9)
	assert.InDelta(t, 1.0, EaseInOut(1), 1e-9)

	// Slow start, slow finish
	assert.Less(t, EaseInOut(0.1), 0.1)
	assert.Greater(t, EaseInOut(0.9), 0.9)
}

func TestEaseInOutMonotonic(t *testing.T) {
	prev := EaseInOut(0)
	for i := 1; i <= 100; i++ {
		v := EaseInOut(float64(i) / 100)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestLerp(t *testing.T) {
	assert.InDelta(t, 5.0, Lerp(0, 10, 0.5), 1e-9)
	assert.InDelta(t, 2.0, Lerp(2, 8, 0), 1e-9)
}

func TestAnimatorAtRest(t *testing.T) {
	a := NewAnimator(1, 0)
	now := time.Now()

	assert.Equal(t, DefaultDuration, a.Duration)
	assert.Equal(t, 1.0, a.Value(now))
	assert.True(t, a.Done(now))
}

func TestAnimatorTransition(t *testing.T) {
	start := time.Date(2026, 1, 1, 11, 11, 0, 0, time.UTC)
	a := NewAnimator(0, 500*time.Millisecond)

	a.Retarget(1, start)
	assert.Equal(t, 0.0, a.Value(start))
	assert.False(t, a.Done(start))

	assert.InDelta(t, 0.5, a.Value(start.Add(250*time.Millisecond)), 1e-9)
	assert.Equal(t, 1.0, a.Value(start.Add(500*time.Millisecond)))
	assert.True(t, a.Done(start.Add(time.Second)))
	assert.Equal(t, 1.0, a.Target())
}

func TestAnimatorRetargetMidFlight(t *testing.T) {
	start := time.Date(2026, 1, 1, 11, 11, 0, 0, time.UTC)
	a := NewAnimator(0, 500*time.Millisecond)

	a.Retarget(1, start)
	mid := start.Add(250 * time.Millisecond)
	a.Retarget(0, mid)

	// Redirects from the current value instead of jumping
	assert.InDelta(t, 0.5, a.Value(mid), 1e-9)
	assert.InDelta(t, 0.25, a.Value(mid.Add(250*time.Millisecond)), 1e-9)
	assert.Equal(t, 0.0, a.Value(mid.Add(500*time.Millisecond)))
	assert.Equal(t, 0.0, a.Target())
}
