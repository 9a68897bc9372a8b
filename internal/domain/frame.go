// Package domain contains core domain types for the countdown display.
package domain

import (
	"fmt"
	"image"
)

// BytesPerPixel is the number of bytes per pixel (RGBA).
const BytesPerPixel = 4

// RGB represents an RGB color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// NewRGB creates a new RGB color.
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// Equals checks if two RGB colors are equal.
func (c RGB) Equals(other RGB) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// IsBlack reports whether every channel is zero. Black cells count as background.
func (c RGB) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// String returns a string representation of the RGB color.
func (c RGB) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

// Frame is a raw RGBA pixel buffer.
//
// When a frame is used as the grid texture its rows are stored bottom-up:
// row 0 is the bottom edge of the display. Use FlipVertical to get a
// top-down copy for devices and previews.
type Frame struct {
	Width  int
	Height int
	// Pixels is a flat array of RGBA values: [r0,g0,b0,a0, r1,g1,b1,a1, ...]
	Pixels []byte
}

// NewFrame creates a new frame with every byte zeroed (transparent black).
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*BytesPerPixel),
	}
}

// NewFrameWithColor creates a new frame filled with the specified color.
func NewFrameWithColor(width, height int, color RGB) *Frame {
	f := NewFrame(width, height)
	f.Fill(color)
	return f
}

// InBounds reports whether (x, y) addresses a pixel of the frame.
func (f *Frame) InBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// SetPixel writes an opaque pixel. Out of bounds coordinates are silently ignored.
func (f *Frame) SetPixel(x, y int, color RGB) {
	if !f.InBounds(x, y) {
		return
	}
	offset := (y*f.Width + x) * BytesPerPixel
	f.Pixels[offset] = color.R
	f.Pixels[offset+1] = color.G
	f.Pixels[offset+2] = color.B
	f.Pixels[offset+3] = 0xff
}

// GetPixel returns the color at the specified coordinates, or nil if out of bounds.
func (f *Frame) GetPixel(x, y int) *RGB {
	if !f.InBounds(x, y) {
		return nil
	}
	offset := (y*f.Width + x) * BytesPerPixel
	return &RGB{
		R: f.Pixels[offset],
		G: f.Pixels[offset+1],
		B: f.Pixels[offset+2],
	}
}

// Lit reports whether the pixel at (x, y) carries a non-background color.
func (f *Frame) Lit(x, y int) bool {
	p := f.GetPixel(x, y)
	return p != nil && !p.IsBlack()
}

// Fill fills the entire frame with the specified color.
func (f *Frame) Fill(color RGB) {
	for i := 0; i < f.Width*f.Height; i++ {
		offset := i * BytesPerPixel
		f.Pixels[offset] = color.R
		f.Pixels[offset+1] = color.G
		f.Pixels[offset+2] = color.B
		f.Pixels[offset+3] = 0xff
	}
}

// Clear zeroes every byte of the frame.
func (f *Frame) Clear() {
	clear(f.Pixels)
}

// Clone creates a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	clone := &Frame{
		Width:  f.Width,
		Height: f.Height,
		Pixels: make([]byte, len(f.Pixels)),
	}
	copy(clone.Pixels, f.Pixels)
	return clone
}

// FlipVertical returns a copy of the frame with its rows in reverse order.
func (f *Frame) FlipVertical() *Frame {
	out := NewFrame(f.Width, f.Height)
	stride := f.Width * BytesPerPixel
	for y := 0; y < f.Height; y++ {
		src := f.Pixels[y*stride : (y+1)*stride]
		dst := (f.Height - 1 - y) * stride
		copy(out.Pixels[dst:dst+stride], src)
	}
	return out
}

// RGBBytes returns the pixels packed as RGB triplets, dropping alpha.
func (f *Frame) RGBBytes() []byte {
	out := make([]byte, f.Width*f.Height*3)
	for i := 0; i < f.Width*f.Height; i++ {
		copy(out[i*3:i*3+3], f.Pixels[i*BytesPerPixel:i*BytesPerPixel+3])
	}
	return out
}

// Image wraps the frame's pixel memory in an *image.RGBA without copying.
// Rows keep the frame's storage order.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pixels,
		Stride: f.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
