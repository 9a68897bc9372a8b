package grid

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/jwulff/countdown-go/internal/domain"
)

// Plain scales the texture to the output with hard cell edges and no glow.
// Cells are pitch pixels square and anchored to the bottom-left corner, as
// in Shade.
func Plain(tex *domain.Frame, pitch float64, outW, outH int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, max(outW, 0), max(outH, 0)))
	if tex.Width == 0 || tex.Height == 0 || pitch <= 0 {
		return out
	}

	w := int(math.Round(float64(tex.Width) * pitch))
	h := int(math.Round(float64(tex.Height) * pitch))
	dst := image.Rect(0, outH-h, w, outH)

	src := tex.FlipVertical().Image()
	draw.NearestNeighbor.Scale(out, dst, src, src.Bounds(), draw.Src, nil)
	return out
}
