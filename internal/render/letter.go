package render

import (
	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/font"
)

// LetterStyle controls how a single glyph is drawn.
type LetterStyle struct {
	Directive Directive
	// Invert draws the glyph's dark bits and outlines its cell.
	Invert bool
}

// DrawLetter blits the glyph for r with its top-left corner at (x, y),
// measured from the top of the frame. Frame rows are bottom-up, so glyph
// row ly lands on frame row H-(y+ly)-1. Runes without a glyph are skipped
// and pixels outside the frame are clipped.
func DrawLetter(frame *domain.Frame, src *font.Source, r rune, x, y int, style LetterStyle) {
	bitmap, err := src.Lookup(r)
	if err != nil {
		return
	}

	for ly := 0; ly < font.Height; ly++ {
		realY := frame.Height - (y + ly) - 1
		for lx := 0; lx < font.Width; lx++ {
			if bitmap.At(lx, ly) == style.Invert {
				continue
			}
			drawPixel(frame, x+lx, realY, style.Directive)
		}
	}

	if style.Invert {
		StrokeRect(frame, domain.BoundingBox{
			Top:    frame.Height - y - font.Height - 1,
			Left:   x - 1,
			Width:  font.Width + 1,
			Height: font.Height + 1,
		}, style.Directive)
	}
}

// StrokeRect outlines box in frame coordinates. The top and bottom edges
// span Width+1 pixels; the side edges cover rows Top through Top+Height-1.
func StrokeRect(frame *domain.Frame, box domain.BoundingBox, d Directive) {
	for x := box.Left; x <= box.Left+box.Width; x++ {
		drawPixel(frame, x, box.Top, d)
		drawPixel(frame, x, box.Top+box.Height, d)
	}
	for y := box.Top; y < box.Top+box.Height; y++ {
		drawPixel(frame, box.Left, y, d)
		drawPixel(frame, box.Left+box.Width, y, d)
	}
}

func drawPixel(frame *domain.Frame, x, y int, d Directive) {
	if !frame.InBounds(x, y) {
		return
	}
	frame.SetPixel(x, y, directiveColor(d, x, y))
}
