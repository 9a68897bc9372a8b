package render

import (
	"fmt"

	"github.com/jwulff/countdown-go/internal/domain"
)

// Directive is the per-pixel color rule applied by the letter rasterizer.
// The set of implementations is closed: Normal, UVGradient, SolidColor and
// PaletteByHash.
type Directive interface {
	directive()
}

// Normal paints every pixel in the default amber.
type Normal struct{}

// UVGradient shades pixels by their position inside Box.
type UVGradient struct {
	Box domain.BoundingBox
}

// SolidColor paints every pixel in Color.
type SolidColor struct {
	Color domain.RGB
}

// PaletteByHash picks one of Colors per pixel from a hash of its position.
type PaletteByHash struct {
	Colors []domain.RGB
}

func (Normal) directive()        {}
func (UVGradient) directive()    {}
func (SolidColor) directive()    {}
func (PaletteByHash) directive() {}

// directiveColor resolves the color of pixel (x, y) under d.
func directiveColor(d Directive, x, y int) domain.RGB {
	switch d := d.(type) {
	case nil, Normal:
		return ColorNormal
	case UVGradient:
		w, h := d.Box.Width, d.Box.Height
		if w == 0 {
			w = 1
		}
		if h == 0 {
			h = 1
		}
		u := float64(x-d.Box.Left) / float64(w)
		v := float64(y-d.Box.Top) / float64(h)
		return domain.NewRGB(channel(255-u*255), channel(255-v*255), channel(v*255))
	case SolidColor:
		return d.Color
	case PaletteByHash:
		if len(d.Colors) == 0 {
			return ColorNormal
		}
		return d.Colors[paletteIndex(x, y, len(d.Colors))]
	default:
		panic(fmt.Sprintf("render: unhandled directive %T", d))
	}
}

// xorshift scrambles n with 32-bit signed wraparound.
func xorshift(n int32) int32 {
	n ^= n << 13
	n ^= n >> 17
	return n
}

func paletteIndex(x, y, n int) int {
	h := xorshift(int32(x*419 + y))
	m := int(h % 255)
	if m < 0 {
		m = -m
	}
	i := int(float64(m) / 255 * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// channel clamps a float to a color channel, truncating like a clamped
// byte array would.
func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// DirectiveFor returns the color rule for row y of a layout under mode.
// box is the bounding box of the whole text block.
func DirectiveFor(mode domain.RenderMode, box domain.BoundingBox, y int) Directive {
	switch mode {
	case domain.RenderUV:
		return UVGradient{Box: box}
	case domain.RenderFestive:
		switch {
		case y == 0:
			return SolidColor{Color: ColorWhite}
		case y%2 == 0:
			return SolidColor{Color: ColorFestiveRed}
		default:
			return SolidColor{Color: ColorFestiveGreen}
		}
	case domain.RenderRainbow:
		if y >= 0 && y < len(CascadeColors) {
			return SolidColor{Color: CascadeColors[y]}
		}
		return SolidColor{Color: ColorWhite}
	case domain.RenderFire:
		return PaletteByHash{Colors: FireColors}
	default:
		return Normal{}
	}
}
