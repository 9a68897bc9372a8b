package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/render"
)

type fakeSender struct {
	clock  *fakeClock
	fail   int
	times  []time.Time
	stopAt int
	cancel context.CancelFunc
}

func (s *fakeSender) Push(_ context.Context, frame *domain.Frame) error {
	s.times = append(s.times, s.clock.Now())
	if len(s.times) == s.stopAt {
		s.cancel()
	}
	if frame.Width != 64 || frame.Height != 64 {
		return errors.New("bad frame size")
	}
	if s.fail > 0 {
		s.fail--
		return errors.New("device offline")
	}
	return nil
}

func TestRunPixooSendsOnChange(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 11, 11, 10, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})

	ctx, cancel := context.WithCancel(context.Background())
	sender := &fakeSender{clock: clock, stopAt: 2, cancel: cancel}

	var contents []render.PixooContent
	err := a.RunPixoo(ctx, sender, func(c render.PixooContent, err error) {
		assert.NoError(t, err)
		contents = append(contents, c)
	})
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, sender.times, 2)
	assert.Equal(t, time.Date(2024, 11, 11, 11, 11, 10, 0, time.Local), sender.times[0])
	assert.Equal(t, time.Date(2024, 11, 11, 11, 12, 0, 0, time.Local), sender.times[1])
	assert.Equal(t, "11:11", contents[0].Clock)
	assert.Equal(t, "BRD", contents[0].Label)
	assert.Equal(t, "11:12", contents[1].Clock)
}

func TestRunPixooRetriesFailedPush(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 11, 11, 10, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})

	ctx, cancel := context.WithCancel(context.Background())
	sender := &fakeSender{clock: clock, fail: 1, stopAt: 2, cancel: cancel}

	var errs []error
	err := a.RunPixoo(ctx, sender, func(_ render.PixooContent, err error) {
		errs = append(errs, err)
	})
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, sender.times, 2)
	assert.Equal(t, time.Second, sender.times[1].Sub(sender.times[0]))
	require.Len(t, errs, 2)
	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
}

func TestRunPixooStopsOnClose(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 11, 11, 10, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	a.Close()

	sender := &fakeSender{clock: clock}
	err := a.RunPixoo(context.Background(), sender, nil)
	assert.NoError(t, err)
	assert.Len(t, sender.times, 1)
}
