package schedule

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jwulff/countdown-go/internal/render"
)

// Row sizing limits in characters.
const (
	MinChars   = 19
	MaxChars   = 24
	LabelWidth = 6
	// sideMargin is the logical width reserved around the text.
	sideMargin = 40
)

// Boarding is the label shown while an entry is happening.
const Boarding = "BRD"

// Arriving is the label shown in the last seconds before boarding.
const Arriving = "ARR"

// TimeLabel formats a countdown, e.g. "8 min", "2h 5m" or "11 hrs".
func TimeLabel(minutes, seconds int) string {
	switch {
	case minutes == 0:
		return Boarding
	case minutes == 1 && seconds >= 45:
		return Arriving
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	}

	hours := minutes / 60
	if hours > 9 {
		return fmt.Sprintf("%d hrs", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes-hours*60)
}

// HourToTwelveHour maps 0-23 to a 12-hour clock hour.
func HourToTwelveHour(hour int) int {
	switch {
	case hour == 0:
		return 12
	case hour < 13:
		return hour
	default:
		return hour%13 + 1
	}
}

// TimeDisplay formats a time of day as "14:05" or, on a 12-hour clock,
// "2:05p".
func TimeDisplay(t Time, twelveHour bool) string {
	if !twelveHour {
		return fmt.Sprintf("%02d:%02d", t.Hour, t.Min)
	}
	suffix := "a"
	if t.Hour >= 12 {
		suffix = "p"
	}
	return fmt.Sprintf("%d:%02d%s", HourToTwelveHour(t.Hour), t.Min, suffix)
}

type breakpoint struct {
	minWidth, minHeight float64
	pitch               float64
}

// breakpoints pick the cell size from the first entry the container does
// not reach in either dimension.
var breakpoints = []breakpoint{
	{0, 0, 1},
	{350, 280, 1.1},
	{460, 370, 1.5},
	{650, 530, 2.1},
	{850, 680, 3},
	{1050, 840, 4},
	{math.Inf(1), math.Inf(1), 5},
}

// WidthToChars picks a pitch for a container of the given logical size and
// returns how many characters a row should hold.
func WidthToChars(width, height float64) (chars int, pitch float64) {
	pitch = breakpoints[len(breakpoints)-1].pitch
	for _, bp := range breakpoints {
		if width < bp.minWidth || height < bp.minHeight {
			pitch = bp.pitch
			break
		}
	}

	perChar := pitch * render.LetterWidthWithGap
	fit := int(math.Floor((width - sideMargin) / perChar))
	return max(MinChars, min(fit, MaxChars)), pitch
}

// PadStart left-pads s with spaces to n characters.
func PadStart(s string, n int) string {
	if pad := n - utf8.RuneCountInString(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// Spaces returns n spaces, or nothing when n is not positive.
func Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
