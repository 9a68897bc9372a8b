package app

import (
	"time"

	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/options"
	"github.com/jwulff/countdown-go/internal/render"
	"github.com/jwulff/countdown-go/internal/schedule"
)

// PixooContent picks what the compact Pixoo frame shows at now: the clock,
// the soonest entry and its countdown.
func PixooContent(entries []schedule.Entry, opts *options.Set, now time.Time) render.PixooContent {
	content := render.PixooContent{
		Clock: schedule.TimeDisplay(schedule.At(now.Hour(), now.Minute()), opts.TwelveHourTime.Get()),
		Mode:  opts.RenderingMode.Get(),
	}
	upcoming := schedule.Upcoming(schedule.Filter(entries, opts.CondenseFish.Get()), now)
	if len(upcoming) == 0 {
		return content
	}
	next := upcoming[0]
	content.Label = schedule.TimeLabel(next.Minutes, now.Second())
	content.Name = next.Entry.Name
	content.Boarding = content.Label == schedule.Boarding
	return content
}

// PixooFrame renders the compact frame for now.
func (a *App) PixooFrame(now time.Time) (*domain.Frame, render.PixooContent) {
	content := PixooContent(a.entries, a.opts, now)
	return render.ComposePixooFrame(a.src, content), content
}
