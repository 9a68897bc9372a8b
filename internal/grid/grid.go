// Package grid expands a low resolution cell texture into the glowing
// LED-matrix look of the countdown display.
//
// Output coordinates follow the GL convention the effect was designed
// around: x grows to the right and y grows upward from the bottom edge.
// Texture row 0 is the bottom row of cells.
package grid

import (
	"image"
	"image/color"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/jwulff/countdown-go/internal/domain"
)

// Multiples of the pitch used to derive the glow uniforms.
const (
	RadiusFactor     = 0.4
	BlurFactor       = 1.0
	SecondBlurFactor = 2.4
	DefaultBrighten  = 1.5
)

// offCell is the faint base drawn in the dot of an unlit cell.
const offCell = 0.08

// Uniforms are the inputs of the post-processor. Distances are in output
// pixels.
type Uniforms struct {
	Pitch              float64
	Radius             float64
	BlurDistance       float64
	SecondBlurDistance float64
	Brighten           float64
	// WipePosition is the reveal progress in [0, 1].
	WipePosition float64
}

// UniformsForPitch derives the glow uniforms for a cell size of pitch
// output pixels.
func UniformsForPitch(pitch, wipe float64) Uniforms {
	return Uniforms{
		Pitch:              pitch,
		Radius:             pitch * RadiusFactor,
		BlurDistance:       pitch * BlurFactor,
		SecondBlurDistance: pitch * SecondBlurFactor,
		Brighten:           DefaultBrighten,
		WipePosition:       ClampUnit(wipe),
	}
}

// ClampUnit clamps v to [0, 1].
func ClampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// WithinWipe reports whether output coordinate (x, y) lies inside the wipe
// mask: a circle around the center whose radius is wipe times the half
// diagonal, with a sine ripple on its edge. The exact center is inside for
// any positive wipe and nothing is inside at wipe 0.
func WithinWipe(x, y, outW, outH, wipe float64) bool {
	if wipe <= 0 {
		return false
	}
	half := math.Hypot(outW, outH) / 2
	dx, dy := x-outW/2, y-outH/2

	angle := 0.0
	if dx != 0 || dy != 0 {
		angle = math.Atan(dx/dy) * 180 / math.Pi
	}
	wave := math.Sin(angle*10*math.Pi/180) - 1
	bump := wave * wipe * half * 0.1
	dist := math.Hypot(dx, dy)
	return dist+bump < wipe*half
}

// texel is a sampled cell color with channels in [0, 1].
type texel struct {
	r, g, b float64
	present bool
}

type sampler struct {
	tex *domain.Frame
	u   Uniforms
}

// at fetches the cell enclosing coordinate (x, y). Cells outside the
// texture read as empty.
func (s sampler) at(x, y float64) texel {
	cx := int(math.Floor(x / s.u.Pitch))
	cy := int(math.Floor(y / s.u.Pitch))
	if !s.tex.InBounds(cx, cy) {
		return texel{}
	}
	i := (cy*s.tex.Width + cx) * domain.BytesPerPixel
	p := s.tex.Pixels[i : i+3]
	return texel{
		r:       float64(p[0]) / 255,
		g:       float64(p[1]) / 255,
		b:       float64(p[2]) / 255,
		present: p[0] > 0 || p[1] > 0 || p[2] > 0,
	}
}

// glow sums the premultiplied second-blur contribution of the cell centered
// at (cx, cy) and its eight neighbors.
func (s sampler) glow(cx, cy, x, y float64) (r, g, b float64) {
	p := s.u.Pitch
	for oy := -1.0; oy <= 1; oy++ {
		for ox := -1.0; ox <= 1; ox++ {
			nx, ny := cx+ox*p, cy+oy*p
			t := s.at(nx, ny)
			if !t.present {
				continue
			}
			f := (s.u.SecondBlurDistance - (math.Hypot(x-nx, y-ny) - s.u.Radius)) / s.u.SecondBlurDistance
			f = math.Max(0, f)
			a := f * f * f * f * 0.4
			r += t.r * f * a
			g += t.g * f * a
			b += t.b * f * a
		}
	}
	return r, g, b
}

// pixel shades the output pixel whose center is at GL coordinate (x, y).
func (s sampler) pixel(x, y, outW, outH float64) color.RGBA {
	p := s.u.Pitch
	cx := math.Floor(x/p)*p + p/2
	cy := math.Floor(y/p)*p + p/2
	t := s.at(x, y)

	if WithinWipe(x, y, outW, outH, s.u.WipePosition) {
		return opaque(t.r, t.g, t.b)
	}

	var r, g, b float64
	if d := math.Hypot(x-cx, y-cy); d < s.u.Radius+0.0001 {
		if t.present {
			f := (s.u.BlurDistance - (d - s.u.Radius)) / s.u.BlurDistance
			f = ClampUnit(f)
			r, g, b = t.r*f, t.g*f, t.b*f
		} else {
			r, g, b = s.glow(cx, cy, x, y)
			r, g, b = r+offCell, g+offCell, b+offCell
		}
	} else {
		r, g, b = s.glow(cx, cy, x, y)
	}

	k := s.u.Brighten
	return opaque(r*k, g*k, b*k)
}

func opaque(r, g, b float64) color.RGBA {
	return color.RGBA{R: unit8(r), G: unit8(g), B: unit8(b), A: 0xff}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(ClampUnit(v) * 255))
}

// Shade runs the post-processor over an outW x outH output. The returned
// image is top-down like any image.Image. Rows are shaded in parallel bands.
func Shade(tex *domain.Frame, u Uniforms, outW, outH int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, max(outW, 0), max(outH, 0)))
	if outW <= 0 || outH <= 0 || u.Pitch <= 0 {
		return out
	}

	s := sampler{tex: tex, u: u}
	fw, fh := float64(outW), float64(outH)

	workers := runtime.GOMAXPROCS(0)
	band := (outH + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < outH; start += band {
		end := min(start+band, outH)
		g.Go(func() error {
			for row := start; row < end; row++ {
				y := fh - float64(row) - 0.5
				for col := 0; col < outW; col++ {
					out.SetRGBA(col, row, s.pixel(float64(col)+0.5, y, fw, fh))
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
