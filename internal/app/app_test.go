package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/countdown-go/internal/display"
	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/options"
	"github.com/jwulff/countdown-go/internal/schedule"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After advances the clock by d and fires immediately.
func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}

type recordingNavigator struct {
	mu     sync.Mutex
	opened []string
	hashes []string
}

func (n *recordingNavigator) Open(url string, _ bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = append(n.opened, url)
}

func (n *recordingNavigator) SetHash(slug string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hashes = append(n.hashes, slug)
}

func newTestApp(t *testing.T, clock *fakeClock, nav schedule.Navigator) (*App, *[]string) {
	t.Helper()
	var titles []string
	a := New(Config{
		Options:   options.LoadSet(context.Background(), &options.MemoryBackend{}, nil, nil),
		Display:   display.AdapterOptions{DevicePixelRatio: 1, Mode: display.ModeTexture},
		Navigator: nav,
		OnTitle:   func(title string) { titles = append(titles, title) },
		Clock:     clock.Now,
		After:     clock.After,
	})
	t.Cleanup(a.Close)
	return a, &titles
}

// zoneCenter returns the logical pixel at the middle of a zone.
func zoneCenter(a *App, zone domain.ClickBox) (float64, float64) {
	cell := a.Adapter().Uniforms().Pitch / a.Adapter().RenderScale()
	box := zone.BoundingBox
	x := float64(box.Left) + float64(box.Width)/2
	y := float64(box.Top) + float64(box.Height)/2
	return x * cell, y * cell
}

func TestResizeLaysOutRows(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 11, 11, 10, 0, time.Local)}
	a, titles := newTestApp(t, clock, &recordingNavigator{})

	size := a.Resize(1280, 800)
	assert.Equal(t, 1280, size.Width)
	assert.Equal(t, 4.0, a.Adapter().Uniforms().Pitch/a.Adapter().RenderScale())

	// Header has two blocks, each entry row three.
	zones := a.Adapter().Zones()
	assert.Len(t, zones, 2+3*schedule.MaxRows)
	assert.Equal(t, "Next in: BRD", a.Title())
	assert.Equal(t, []string{"Next in: BRD"}, *titles)

	frame := a.Adapter().Frame()
	lit := 0
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			if frame.Lit(x, y) {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}

func TestCustomLayout(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 9, 0, 0, 0, time.Local)}
	a := New(Config{
		Options: options.LoadSet(context.Background(), nil, nil, nil),
		Display: display.AdapterOptions{RenderScale: 1, Mode: display.ModeTexture},
		Layout: func(w, h float64) (int, int, float64) {
			return 20, 2, 1
		},
		Clock: clock.Now,
	})
	defer a.Close()

	a.Resize(240, 80)
	assert.Equal(t, 1.0, a.Adapter().Uniforms().Pitch)
	assert.Len(t, a.Adapter().Zones(), 2+3*2)
	assert.Equal(t, 240, a.Adapter().Frame().Width)
	assert.Equal(t, 80, a.Adapter().Frame().Height)
}

func TestOptionChangeRegenerates(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 10, 0, 0, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	a.Resize(1280, 800)

	before := a.Adapter().Version()
	a.Toggle(options.KeyCondenseFish)
	assert.Greater(t, a.Adapter().Version(), before)
	assert.True(t, a.Options().CondenseFish.Get())

	// An unknown key changes nothing.
	before = a.Adapter().Version()
	a.Toggle("no-such-option")
	assert.Equal(t, before, a.Adapter().Version())
}

func TestConcurrentRegenerateKeepsLatestOptions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 14, 0, 0, 0, time.Local)}
	a := New(Config{
		Options: options.LoadSet(context.Background(), &options.MemoryBackend{}, nil, nil),
		Display: display.AdapterOptions{DevicePixelRatio: 1, Mode: display.ModeTexture},
		Clock:   clock.Now,
		After:   clock.After,
	})
	t.Cleanup(a.Close)
	a.Resize(1280, 800)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 200 {
			a.Regenerate()
		}
	}()
	for range 51 {
		a.Toggle(options.KeyTwelveHourTime)
	}
	wg.Wait()

	require.True(t, a.Options().TwelveHourTime.Get())
	shown := a.Adapter().Frame()
	a.Regenerate()
	assert.Equal(t, a.Adapter().Frame().Pixels, shown.Pixels)
}

func TestPressBindings(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 10, 0, 0, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	a.Resize(1280, 800)

	status, ok := a.Press('r')
	require.True(t, ok)
	assert.Equal(t, "uv - 2/5", status)
	for range 4 {
		a.Press('r')
	}
	assert.Equal(t, domain.RenderNormal, a.Options().RenderingMode.Get())

	status, _ = a.Press('m')
	assert.Equal(t, "condensed", status)
	status, _ = a.Press('t')
	assert.Equal(t, "12-hour", status)
	status, _ = a.Press('t')
	assert.Equal(t, "24-hour", status)
	status, _ = a.Press('v')
	assert.Equal(t, "same tab", status)

	status, ok = a.Press('=')
	require.True(t, ok)
	assert.Equal(t, "blur 2.5", status)
	status, _ = a.Press('-')
	assert.Equal(t, "blur 2.4", status)

	_, ok = a.Press('x')
	assert.False(t, ok)

	_, ok = a.Press('g')
	assert.False(t, ok, "no grid to switch when reading the texture")

	legend := a.Legend()
	assert.Len(t, legend, 9)
	assert.Equal(t, "p: pixels (hidden)", legend[0])
	assert.Equal(t, "r: render mode (normal - 1/5)", legend[1])
}

func TestClockClickTogglesTwelveHour(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 14, 0, 0, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	a.Resize(1280, 800)

	zones := a.Adapter().Zones()
	x, y := zoneCenter(a, zones[1])
	require.True(t, a.Adapter().PointerClick(x, y))
	assert.True(t, a.Options().TwelveHourTime.Get())

	// Padding before the clock has no handler.
	x, y = zoneCenter(a, zones[0])
	assert.False(t, a.Adapter().PointerClick(x, y))
}

func TestEntryClicksNavigate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 14, 0, 0, 0, time.Local)}
	nav := &recordingNavigator{}
	a, _ := newTestApp(t, clock, nav)
	a.Resize(1280, 800)

	zones := a.Adapter().Zones()
	x, y := zoneCenter(a, zones[2])
	require.True(t, a.Adapter().PointerClick(x, y))
	x, y = zoneCenter(a, zones[4])
	require.True(t, a.Adapter().PointerClick(x, y))

	assert.Equal(t, []string{"https://queercomputerclub.ca/projects/quecey-voip/"}, nav.opened)
	assert.Equal(t, []string{"dial-a-fish"}, nav.hashes)

	a.Toggle(options.KeyUseVantage)
	zones = a.Adapter().Zones()
	x, y = zoneCenter(a, zones[2])
	require.True(t, a.Adapter().PointerClick(x, y))
	assert.Equal(t, "/camera-mode?site=dial-a-fish", nav.opened[1])
}

func TestHoverShowsTimeOfDay(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 14, 0, 0, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	a.Resize(1280, 800)

	before := a.Adapter().Frame()
	x, y := zoneCenter(a, a.Adapter().Zones()[4])
	require.True(t, a.Adapter().PointerMove(x, y))
	assert.Equal(t, 4, a.Adapter().Active())
	assert.NotEqual(t, before.Pixels, a.Adapter().Frame().Pixels)

	// The hover survives the next tick.
	a.Regenerate()
	assert.Equal(t, 4, a.Adapter().Active())

	require.True(t, a.Adapter().PointerBlur())
	assert.Equal(t, before.Pixels, a.Adapter().Frame().Pixels)
}

func TestRunTickerAlignsToSeconds(t *testing.T) {
	start := time.Date(2024, 11, 11, 14, 0, 0, 250_000_000, time.Local)
	clock := &fakeClock{now: start}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	a.Resize(1280, 800)

	ctx, cancel := context.WithCancel(context.Background())
	var waits []time.Duration
	a.after = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		if len(waits) == 4 {
			cancel()
			return nil
		}
		return clock.After(d)
	}

	before := a.Adapter().Version()
	err := a.RunTicker(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []time.Duration{750 * time.Millisecond, time.Second, time.Second, time.Second}, waits)
	assert.Greater(t, a.Adapter().Version(), before)
}

func TestRunTickerStopsOnClose(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 14, 0, 0, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	a.after = func(time.Duration) <-chan time.Time { return nil }

	done := make(chan error, 1)
	go func() { done <- a.RunTicker(context.Background()) }()
	a.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}
}

func TestShowPixelsAnimatesWipe(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 11, 11, 14, 0, 0, 0, time.Local)}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	a.Resize(1280, 800)
	assert.Equal(t, 0.0, a.Adapter().Uniforms().WipePosition)

	status, _ := a.Press('p')
	assert.Equal(t, "shown", status)
	assert.Equal(t, 1.0, a.WipeTarget())

	require.Eventually(t, func() bool {
		return a.Adapter().Uniforms().WipePosition == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPixooContent(t *testing.T) {
	opts := options.LoadSet(context.Background(), nil, nil, nil)
	now := time.Date(2024, 11, 11, 11, 11, 10, 0, time.Local)

	content := PixooContent(schedule.Entries, opts, now)
	assert.Equal(t, "11:11", content.Clock)
	assert.Equal(t, "BRD", content.Label)
	assert.Equal(t, "Dial a Fish", content.Name)
	assert.True(t, content.Boarding)

	content = PixooContent(nil, opts, now)
	assert.Empty(t, content.Label)

	clock := &fakeClock{now: now}
	a, _ := newTestApp(t, clock, &recordingNavigator{})
	frame, content := a.PixooFrame(now)
	assert.Equal(t, domain.Pixoo64Size, frame.Width)
	assert.Equal(t, "BRD", content.Label)
}

func TestBrowserNavigator(t *testing.T) {
	var opened []string
	nav := NewBrowserNavigator("http://localhost:8080/", nil)
	nav.open = func(url string) error {
		opened = append(opened, url)
		return nil
	}

	nav.Open("https://makea.cat", true)
	nav.Open("/camera-mode?site=make-a-cat", false)
	assert.Equal(t, []string{"https://makea.cat", "http://localhost:8080/camera-mode?site=make-a-cat"}, opened)

	nav.Base = ""
	nav.Open("/camera-mode?site=make-a-cat", false)
	assert.Len(t, opened, 2)

	nav.open = func(string) error { return errors.New("no browser") }
	nav.Open("https://makea.cat", true)

	nav.SetHash("make-a-cat")
	assert.Equal(t, "make-a-cat", nav.Hash())
}
