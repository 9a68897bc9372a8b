package render

import "github.com/jwulff/countdown-go/internal/domain"

// Common colors for the display.
var (
	// Background
	ColorBlack = domain.NewRGB(0, 0, 0)
	ColorBg    = ColorBlack

	// Text colors
	ColorWhite  = domain.NewRGB(255, 255, 255)
	ColorNormal = domain.NewRGB(252, 140, 42)

	// Festive mode alternates these below a white header
	ColorFestiveRed   = domain.NewRGB(255, 40, 40)
	ColorFestiveGreen = domain.NewRGB(40, 255, 40)
)

// CascadeColors colors rows top to bottom in rainbow mode.
var CascadeColors = []domain.RGB{
	domain.NewRGB(255, 80, 100),
	domain.NewRGB(255, 128, 60),
	domain.NewRGB(180, 153, 50),
	domain.NewRGB(121, 180, 90),
	domain.NewRGB(80, 180, 215),
	domain.NewRGB(80, 138, 247),
	domain.NewRGB(100, 108, 247),
	domain.NewRGB(160, 100, 253),
	domain.NewRGB(210, 90, 160),
}

// FireColors is the palette sampled per pixel in fire mode.
var FireColors = []domain.RGB{
	domain.NewRGB(255, 40, 0),
	domain.NewRGB(255, 80, 0),
	domain.NewRGB(255, 140, 0),
	domain.NewRGB(220, 220, 0),
}

// LerpColor linearly interpolates between two colors.
func LerpColor(a, b domain.RGB, t float64) domain.RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return domain.NewRGB(
		uint8(float64(a.R)+t*float64(int(b.R)-int(a.R))),
		uint8(float64(a.G)+t*float64(int(b.G)-int(a.G))),
		uint8(float64(a.B)+t*float64(int(b.B)-int(a.B))),
	)
}

// DimColor reduces the brightness of a color by a factor (0-1).
func DimColor(c domain.RGB, factor float64) domain.RGB {
	if factor <= 0 {
		return ColorBlack
	}
	if factor >= 1 {
		return c
	}
	return domain.NewRGB(
		uint8(float64(c.R)*factor),
		uint8(float64(c.G)*factor),
		uint8(float64(c.B)*factor),
	)
}
