package render

import (
	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/font"
)

// Layout metrics in grid cells.
const (
	LetterWidthWithGap   = font.Width + 1
	LetterHeightWithGap  = font.Height + 1
	LetterHeightWithLine = LetterHeightWithGap + 2
)

// NoZone marks the absence of an active hit zone.
const NoZone = -1

// Measure returns the size in cells of the text block formed by rows.
func Measure(rows []domain.TextRow) (width, height int) {
	if len(rows) == 0 {
		return 0, 0
	}
	maxChars := 0
	for _, row := range rows {
		maxChars = max(maxChars, row.Len())
	}
	return maxChars * LetterWidthWithGap, len(rows)*LetterHeightWithLine - 2
}

// LayoutRows draws rows centered in frame and returns one hit zone per
// block in row-major order. active is the index of the hovered zone, or
// NoZone. Calling it twice with the same inputs on a cleared frame yields
// identical pixels and zones.
func LayoutRows(frame *domain.Frame, src *font.Source, rows []domain.TextRow, mode domain.RenderMode, active int) []domain.ClickBox {
	rowsWidth, rowsHeight := Measure(rows)
	xOrigin := floorDiv(frame.Width-rowsWidth, 2)
	yOrigin := floorDiv(frame.Height-rowsHeight, 2)
	textBox := domain.BoundingBox{Top: yOrigin, Left: xOrigin, Width: rowsWidth, Height: rowsHeight}

	var (
		zones     []domain.ClickBox
		postponed []func()
		index     int
	)

	for y, row := range rows {
		directive := DirectiveFor(mode, textBox, y)
		offset := 0

		for _, block := range row {
			hovering := index == active
			content := block.Content
			if hovering && block.HoverContent != "" {
				content = block.HoverContent
			}
			invert := (block.Active && !(block.Hoverable && hovering)) ||
				(!block.Active && block.Hoverable && hovering)

			style := LetterStyle{Directive: directive, Invert: invert}
			c := 0
			for _, r := range content {
				DrawLetter(frame, src, r, xOrigin+LetterWidthWithGap*(offset+c), yOrigin+LetterHeightWithLine*y, style)
				c++
			}

			box := domain.BoundingBox{
				Top:    yOrigin + LetterHeightWithLine*y - 1,
				Left:   xOrigin + offset*LetterWidthWithGap - 1,
				Width:  LetterWidthWithGap*runeCount(block.Content) + 1,
				Height: LetterHeightWithGap + 1,
			}
			zones = append(zones, domain.ClickBox{BoundingBox: box, OnClick: block.OnClick})

			if block.Active && block.Hoverable && hovering {
				inner := domain.BoundingBox{
					Top:    frame.Height - box.Top - box.Height,
					Left:   box.Left,
					Width:  box.Width - 1,
					Height: box.Height - 1,
				}
				postponed = append(postponed, func() {
					StrokeRect(frame, inner, SolidColor{Color: ColorBlack})
					StrokeRect(frame, inner.Grow(1), directive)
				})
			}

			offset += c
			index++
		}
	}

	for _, pass := range postponed {
		pass()
	}
	return zones
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
