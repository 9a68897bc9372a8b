package schedule

import (
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jwulff/countdown-go/internal/domain"
)

// MaxRows is the number of entries shown below the clock.
const MaxRows = 8

// VantagePath is the same-tab page that frames an entry.
const VantagePath = "/camera-mode"

// Navigator carries out the navigation a click asks for.
type Navigator interface {
	// Open visits url, in a new tab when newTab is set.
	Open(url string, newTab bool)
	// SetHash records the deep-link fragment for an entry.
	SetHash(slug string)
}

// Occurrence is an entry's soonest upcoming time.
type Occurrence struct {
	Entry   Entry
	Time    Time
	Minutes int
}

// Filter keeps the entries that apply to the condense setting. Condensing
// hides the individual fish sites, otherwise the combined one is hidden.
func Filter(entries []Entry, condense bool) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if condense && e.Condensible {
			continue
		}
		if !condense && e.Condensor {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Upcoming returns each entry at its soonest time, soonest first. Ties keep
// table order.
func Upcoming(entries []Entry, now time.Time) []Occurrence {
	out := make([]Occurrence, 0, len(entries))
	for _, e := range entries {
		if len(e.Times) == 0 {
			continue
		}
		best := Occurrence{Entry: e, Minutes: -1}
		for _, t := range e.Times {
			next := NextOccurrence(t, now)
			m := MinutesUntil(next, now)
			if best.Minutes < 0 || m < best.Minutes {
				best.Time, best.Minutes = next, m
			}
		}
		out = append(out, best)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minutes < out[j].Minutes
	})
	return out
}

// VantageURL returns the same-tab page that frames the entry.
func VantageURL(e Entry) string {
	return VantagePath + "?site=" + url.QueryEscape(e.Slug)
}

// VantageTarget resolves the vantage page for slug to the address it frames.
// An unknown slug resolves to the home page with found false.
func VantageTarget(entries []Entry, slug string) (target string, found bool) {
	e, err := FindBySlug(entries, slug)
	if err != nil {
		return "/", false
	}
	return e.FrameURL(), true
}

// ListInput is everything GenerateList depends on.
type ListInput struct {
	Entries []Entry
	Now     time.Time
	// Width and Height are the logical size of the display.
	Width, Height float64
	// Chars and Rows override the row width derived from the size and the
	// number of entries shown, when positive.
	Chars, Rows int

	Condense   bool
	TwelveHour bool
	UseVantage bool

	Navigator Navigator
	// OnClockClick runs when the clock in the header is clicked.
	OnClockClick func()
}

// GenerateList builds the display rows and the window title. The first row
// is the current time, right aligned. Each following row is an entry name
// and its countdown; hovering the countdown shows the time of day.
func GenerateList(in ListInput) ([]domain.TextRow, string) {
	chars := in.Chars
	if chars <= 0 {
		chars, _ = WidthToChars(in.Width, in.Height)
	}
	limit := MaxRows
	if in.Rows > 0 && in.Rows < MaxRows {
		limit = in.Rows
	}
	upcoming := Upcoming(Filter(in.Entries, in.Condense), in.Now)

	var (
		rows  []domain.TextRow
		title string
	)

	for i, occ := range upcoming {
		if i == limit {
			break
		}
		entry := occ.Entry

		remaining := PadStart(TimeLabel(occ.Minutes, in.Now.Second()), LabelWidth)
		timeLabel := PadStart(TimeDisplay(occ.Time, in.TwelveHour), LabelWidth)
		if i == 0 {
			title = "Next in: " + strings.TrimSpace(remaining)
		}

		padding := chars - utf8.RuneCountInString(entry.Name) - utf8.RuneCountInString(remaining)
		active := strings.HasSuffix(remaining, Boarding)

		rows = append(rows, domain.TextRow{
			{
				Content:   entry.Name,
				Hoverable: true,
				Active:    active,
				OnClick:   in.openEntry(entry),
			},
			{Content: Spaces(padding), Active: active},
			{
				Content:      remaining,
				Hoverable:    true,
				HoverContent: timeLabel,
				Active:       active,
				OnClick:      in.setHash(entry.Slug),
			},
		})
	}

	clock := TimeDisplay(At(in.Now.Hour(), in.Now.Minute()), in.TwelveHour)
	header := domain.TextRow{
		{Content: Spaces(chars - utf8.RuneCountInString(clock))},
		{Content: clock, OnClick: in.OnClockClick},
	}

	return append([]domain.TextRow{header}, rows...), title
}

func (in ListInput) openEntry(e Entry) func() {
	if in.Navigator == nil {
		return nil
	}
	nav := in.Navigator
	if in.UseVantage {
		target := VantageURL(e)
		return func() { nav.Open(target, false) }
	}
	return func() { nav.Open(e.URL, true) }
}

func (in ListInput) setHash(slug string) func() {
	if in.Navigator == nil {
		return nil
	}
	nav := in.Navigator
	return func() { nav.SetHash(slug) }
}
