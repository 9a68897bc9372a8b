package domain

// Pixoo64Size is the Pixoo64 display size (64x64).
const Pixoo64Size = 64

// DisplaySize represents display dimensions in grid cells.
type DisplaySize struct {
	Width  int
	Height int
}
