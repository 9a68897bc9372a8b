package render

import (
	"testing"

	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLerpColor(t *testing.T) {
	black := domain.NewRGB(0, 0, 0)
	white := domain.NewRGB(255, 255, 255)

	// At t=0, should return first color
	result := LerpColor(black, white, 0)
	assert.Equal(t, black, result)

	// At t=1, should return second color
	result = LerpColor(black, white, 1)
	assert.Equal(t, white, result)

	// At t=0.5, should return midpoint
	result = LerpColor(black, white, 0.5)
	assert.Equal(t, domain.NewRGB(127, 127, 127), result)
}

func TestLerpColorOutOfRange(t *testing.T) {
	red := domain.NewRGB(255, 0, 0)
	blue := domain.NewRGB(0, 0, 255)

	// t < 0 should clamp to first color
	result := LerpColor(red, blue, -0.5)
	assert.Equal(t, red, result)

	// t > 1 should clamp to second color
	result = LerpColor(red, blue, 1.5)
	assert.Equal(t, blue, result)
}

func TestDimColor(t *testing.T) {
	white := domain.NewRGB(200, 100, 50)

	// Full brightness
	result := DimColor(white, 1.0)
	assert.Equal(t, white, result)

	// Half brightness
	result = DimColor(white, 0.5)
	assert.Equal(t, domain.NewRGB(100, 50, 25), result)

	// Zero brightness
	result = DimColor(white, 0.0)
	assert.Equal(t, ColorBlack, result)
}

func TestDimColorOutOfRange(t *testing.T) {
	color := domain.NewRGB(100, 100, 100)

	// Factor > 1 should return original
	result := DimColor(color, 1.5)
	assert.Equal(t, color, result)

	// Factor < 0 should return black
	result = DimColor(color, -0.5)
	assert.Equal(t, ColorBlack, result)
}

func TestDirectiveForModes(t *testing.T) {
	box := domain.BoundingBox{Top: 1, Left: 2, Width: 30, Height: 16}

	assert.Equal(t, Normal{}, DirectiveFor(domain.RenderNormal, box, 0))
	assert.Equal(t, UVGradient{Box: box}, DirectiveFor(domain.RenderUV, box, 3))
	assert.Equal(t, PaletteByHash{Colors: FireColors}, DirectiveFor(domain.RenderFire, box, 0))
	assert.Equal(t, Normal{}, DirectiveFor(domain.RenderMode("sparkle"), box, 0))
}

func TestDirectiveForFestive(t *testing.T) {
	box := domain.BoundingBox{}

	assert.Equal(t, SolidColor{Color: ColorWhite}, DirectiveFor(domain.RenderFestive, box, 0))
	assert.Equal(t, SolidColor{Color: ColorFestiveGreen}, DirectiveFor(domain.RenderFestive, box, 1))
	assert.Equal(t, SolidColor{Color: ColorFestiveRed}, DirectiveFor(domain.RenderFestive, box, 2))
}

func TestDirectiveForRainbow(t *testing.T) {
	box := domain.BoundingBox{}

	for i, c := range CascadeColors {
		assert.Equal(t, SolidColor{Color: c}, DirectiveFor(domain.RenderRainbow, box, i))
	}
	assert.Equal(t, SolidColor{Color: ColorWhite}, DirectiveFor(domain.RenderRainbow, box, len(CascadeColors)))
}

func TestDirectiveColorNormal(t *testing.T) {
	assert.Equal(t, ColorNormal, directiveColor(Normal{}, 3, 4))
	assert.Equal(t, domain.NewRGB(252, 140, 42), directiveColor(nil, 0, 0))
}

func TestDirectiveColorUV(t *testing.T) {
	d := UVGradient{Box: domain.BoundingBox{Top: 10, Left: 20, Width: 100, Height: 50}}

	assert.Equal(t, domain.NewRGB(255, 255, 0), directiveColor(d, 20, 10))
	// Halfway across and down
	assert.Equal(t, domain.NewRGB(127, 127, 127), directiveColor(d, 70, 35))
	// Outside the box clamps instead of wrapping
	assert.Equal(t, domain.NewRGB(0, 0, 255), directiveColor(d, 500, 500))
}

func TestDirectiveColorUVEmptyBox(t *testing.T) {
	assert.NotPanics(t, func() {
		directiveColor(UVGradient{}, 5, 5)
	})
}

func TestPaletteByHashAlwaysInPalette(t *testing.T) {
	d := PaletteByHash{Colors: FireColors}

	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x += 7 {
			assert.Contains(t, FireColors, directiveColor(d, x, y))
		}
	}
}

func TestPaletteIndexHandlesNegativeHashes(t *testing.T) {
	for n := -2000; n < 2000; n += 13 {
		i := paletteIndex(n, n/3, 4)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 4)
	}
}

func TestXorshift(t *testing.T) {
	assert.Equal(t, int32(0), xorshift(0))
	// 1 ^ 1<<13 = 8193; 8193 >> 17 = 0
	assert.Equal(t, int32(8193), xorshift(1))
	// 1<<18 shifted by 13 overflows into the sign bit
	assert.Equal(t, int32(2147205122), xorshift(1<<18))
}

type bogusDirective struct{ Normal }

func TestDirectiveColorUnknownPanics(t *testing.T) {
	assert.Panics(t, func() {
		directiveColor(bogusDirective{}, 0, 0)
	})
}
