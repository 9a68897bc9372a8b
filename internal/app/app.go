// Package app ties the option set, the schedule and the renderer adapter
// together behind a single regenerate entry point shared by every front end.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jwulff/countdown-go/internal/animation"
	"github.com/jwulff/countdown-go/internal/display"
	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/font"
	"github.com/jwulff/countdown-go/internal/logging"
	"github.com/jwulff/countdown-go/internal/options"
	"github.com/jwulff/countdown-go/internal/render"
	"github.com/jwulff/countdown-go/internal/schedule"
)

// FrameInterval paces the wipe animation.
const FrameInterval = time.Second / 60

// LayoutFunc picks the characters per row, the number of entry rows and
// the logical cell size for a container.
type LayoutFunc func(width, height float64) (chars, rows int, pitch float64)

// DefaultLayout sizes rows by the width breakpoints and shows every row.
func DefaultLayout(width, height float64) (int, int, float64) {
	chars, pitch := schedule.WidthToChars(width, height)
	return chars, schedule.MaxRows, pitch
}

// Config configures an App.
type Config struct {
	Options *options.Set
	Source  *font.Source
	Entries []schedule.Entry

	// Display configures the renderer adapter. Its Wipe is taken from the
	// show-pixels option.
	Display display.AdapterOptions
	Layout  LayoutFunc

	Navigator schedule.Navigator
	// OnTitle is called whenever the window title changes.
	OnTitle func(title string)

	Clock  func() time.Time
	After  func(time.Duration) <-chan time.Time
	Logger *slog.Logger
}

// App is the countdown display independent of any front end.
type App struct {
	opts    *options.Set
	src     *font.Source
	entries []schedule.Entry
	adapter *display.Adapter
	layout  LayoutFunc
	nav     schedule.Navigator
	onTitle func(string)
	clock   func() time.Time
	after   func(time.Duration) <-chan time.Time
	logger  *slog.Logger

	wipe      *animation.Animator
	animating atomic.Bool

	// regen orders whole regenerations, so rows built from older options
	// never replace newer ones.
	regen sync.Mutex

	mu            sync.Mutex
	width, height float64
	chars, rows   int
	title         string
	unsubscribe   func()
	closed        chan struct{}
	closeOnce     sync.Once
}

// New builds an App and subscribes it to every option. Call Resize before
// the first frame is shown.
func New(cfg Config) *App {
	a := &App{
		opts:    cfg.Options,
		src:     cfg.Source,
		entries: cfg.Entries,
		layout:  cfg.Layout,
		nav:     cfg.Navigator,
		onTitle: cfg.OnTitle,
		clock:   cfg.Clock,
		after:   cfg.After,
		logger:  cfg.Logger,
		closed:  make(chan struct{}),
	}
	if a.src == nil {
		a.src = font.Default()
	}
	if a.entries == nil {
		a.entries = schedule.Entries
	}
	if a.layout == nil {
		a.layout = DefaultLayout
	}
	if a.nav == nil {
		a.nav = NewBrowserNavigator("", a.logger)
	}
	if a.clock == nil {
		a.clock = time.Now
	}
	if a.after == nil {
		a.after = time.After
	}
	if a.logger == nil {
		a.logger = logging.Discard()
	}

	wipe := 0.0
	if a.opts.ShowPixels.Get() {
		wipe = 1
	}
	a.wipe = animation.NewAnimator(wipe, animation.DefaultDuration)

	dopts := cfg.Display
	dopts.Wipe = wipe
	if dopts.Logger == nil {
		dopts.Logger = a.logger
	}
	a.adapter = display.NewAdapter(dopts)

	cancelPixels := a.opts.ShowPixels.Subscribe(func(show bool) {
		target := 0.0
		if show {
			target = 1
		}
		a.wipe.Retarget(target, a.clock())
		a.startAnimation()
	})
	cancelAll := a.opts.OnChange(func(key string) {
		a.logger.Debug("option changed", "key", key)
		a.Regenerate()
	})
	a.unsubscribe = func() {
		cancelPixels()
		cancelAll()
	}
	return a
}

// Close stops the ticker and animations and drops the option subscriptions.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		close(a.closed)
		a.unsubscribe()
	})
}

func (a *App) isClosed() bool {
	select {
	case <-a.closed:
		return true
	default:
		return false
	}
}

// Adapter returns the renderer adapter, for pointer events and output.
func (a *App) Adapter() *display.Adapter { return a.adapter }

// Options returns the option set.
func (a *App) Options() *options.Set { return a.opts }

// Title returns the last generated window title.
func (a *App) Title() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title
}

// Resize lays the display out for a container of the given logical size.
func (a *App) Resize(width, height float64) display.Size {
	chars, rows, pitch := a.layout(width, height)

	a.mu.Lock()
	a.width, a.height = width, height
	a.chars, a.rows = chars, rows
	a.mu.Unlock()

	a.adapter.UpdatePitch(pitch)
	size := a.adapter.Resize(width, height)
	a.Regenerate()
	return size
}

// Regenerate rebuilds the rows for the current time and options and hands
// them to the adapter.
func (a *App) Regenerate() {
	title, changed := a.regenerate()
	if changed && a.onTitle != nil {
		a.onTitle(title)
	}
}

func (a *App) regenerate() (string, bool) {
	a.regen.Lock()
	defer a.regen.Unlock()

	a.mu.Lock()
	in := schedule.ListInput{
		Entries:    a.entries,
		Now:        a.clock(),
		Width:      a.width,
		Height:     a.height,
		Chars:      a.chars,
		Rows:       a.rows,
		Condense:   a.opts.CondenseFish.Get(),
		TwelveHour: a.opts.TwelveHourTime.Get(),
		UseVantage: a.opts.UseVantage.Get(),
		Navigator:  a.nav,
		OnClockClick: func() {
			a.Toggle(options.KeyTwelveHourTime)
		},
	}
	a.mu.Unlock()

	rows, title := schedule.GenerateList(in)
	mode := a.opts.RenderingMode.Get()
	src := a.src
	a.adapter.UpdateTexture(func(frame *domain.Frame, active int) []domain.ClickBox {
		return render.LayoutRows(frame, src, rows, mode, active)
	})

	a.mu.Lock()
	defer a.mu.Unlock()
	changed := title != a.title
	a.title = title
	return title, changed
}

// Toggle flips an option. The option subscription regenerates the display.
func (a *App) Toggle(key string) {
	if _, err := a.opts.Toggle(key); err != nil {
		a.logger.Warn("toggle failed", "key", key, "error", err)
	}
}

// RunTicker regenerates at every wall-clock second until ctx is done or the
// app is closed. The wait is recomputed from the clock each time so the
// display never drifts off the second boundary.
func (a *App) RunTicker(ctx context.Context) error {
	for {
		now := a.clock()
		wait := now.Truncate(time.Second).Add(time.Second).Sub(now)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.closed:
			return nil
		case <-a.after(wait):
			a.Regenerate()
		}
	}
}

// StepWipe applies the wipe position for now and reports whether the
// animation is still running.
func (a *App) StepWipe(now time.Time) bool {
	a.adapter.SetWipe(a.wipe.Value(now))
	return !a.wipe.Done(now)
}

// WipeTarget returns where the wipe is heading.
func (a *App) WipeTarget() float64 {
	return a.wipe.Target()
}

func (a *App) startAnimation() {
	if !a.animating.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer func() {
			a.animating.Store(false)
			// A retarget that lost the race with the last frame.
			if !a.isClosed() && !a.wipe.Done(a.clock()) {
				a.startAnimation()
			}
		}()
		for {
			if !a.StepWipe(a.clock()) {
				return
			}
			select {
			case <-a.closed:
				return
			case <-a.after(FrameInterval):
			}
		}
	}()
}
