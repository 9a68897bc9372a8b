// Package font provides the 9x15 bitmap font used by the countdown grid.
//
// Glyphs are stored as a compact table of base64 strings. Each string packs
// the glyph's 135 bits row-major, most significant bit first, padded with
// zero bits to a whole byte.
package font

import (
	"encoding/base64"
	"fmt"
)

// Glyph dimensions in pixels.
const (
	Width  = 9
	Height = 15
	bits   = Width * Height
)

// Bitmap is one glyph as a flat, row-major bit sequence. Row 0 is the top
// of the glyph.
type Bitmap [bits]bool

// At reports whether the pixel at column x, row y is lit.
func (b Bitmap) At(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return b[y*Width+x]
}

// Encode packs the bitmap into its base64 form.
func Encode(b Bitmap) string {
	packed := make([]byte, (bits+7)/8)
	for i, on := range b {
		if on {
			packed[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return base64.StdEncoding.EncodeToString(packed)
}

// Decode unpacks a base64 glyph back into a bitmap.
func Decode(encoded string) (Bitmap, error) {
	var b Bitmap
	packed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return b, fmt.Errorf("failed to decode glyph: %w", err)
	}
	if len(packed)*8 < bits {
		return b, fmt.Errorf("glyph data too short: %d bytes", len(packed))
	}
	for i := range b {
		b[i] = packed[i/8]>>(7-uint(i%8))&1 == 1
	}
	return b, nil
}

// ParseArt reads a glyph drawn as Height lines of Width characters, where
// '#' is lit and '.' is dark.
func ParseArt(lines []string) (Bitmap, error) {
	var b Bitmap
	if len(lines) != Height {
		return b, fmt.Errorf("glyph has %d rows, want %d", len(lines), Height)
	}
	for y, line := range lines {
		if len(line) != Width {
			return b, fmt.Errorf("glyph row %d has %d columns, want %d", y, len(line), Width)
		}
		for x := 0; x < Width; x++ {
			switch line[x] {
			case '#':
				b[y*Width+x] = true
			case '.':
			default:
				return b, fmt.Errorf("glyph row %d: unexpected %q", y, line[x])
			}
		}
	}
	return b, nil
}
