package render

import (
	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/font"
)

// Pixoo layout constants, in top-down rows.
const (
	PixooClockY = 3
	PixooNameY  = 48
	PixooMargin = 1
)

// PixooContent is what the compact Pixoo frame shows.
type PixooContent struct {
	// Clock is the current time of day, e.g. "14:05".
	Clock string
	// Label is the countdown of the next entry, e.g. "8 min" or "BRD".
	Label string
	// Name is the next entry's display name.
	Name string
	// Boarding highlights the label.
	Boarding bool
	Mode     domain.RenderMode
}

// ComposePixooFrame renders a 64x64 top-down frame for the Pixoo. The label
// uses the grid font, the clock and name use the tiny font.
func ComposePixooFrame(src *font.Source, content PixooContent) *domain.Frame {
	grid := domain.NewFrame(domain.Pixoo64Size, domain.Pixoo64Size)
	rows := []domain.TextRow{{{Content: content.Label, Active: content.Boarding}}}
	LayoutRows(grid, src, rows, content.Mode, NoZone)

	// The grid texture is bottom-up
	frame := grid.FlipVertical()

	DrawTinyTextCentered(frame, content.Clock, frame.Width, PixooClockY, DimColor(ColorWhite, 0.7))

	name := FitTinyText(content.Name, frame.Width-2*PixooMargin)
	DrawTinyTextCentered(frame, name, frame.Width, PixooNameY, LerpColor(ColorNormal, ColorWhite, 0.5))

	return frame
}
