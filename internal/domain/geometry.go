package domain

// BoundingBox is a rectangle in grid-cell units.
type BoundingBox struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point lies inside the box. The right and
// bottom edges are exclusive.
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= float64(b.Left) &&
		x < float64(b.Left+b.Width) &&
		y >= float64(b.Top) &&
		y < float64(b.Top+b.Height)
}

// Grow returns the box expanded by n cells on every side.
func (b BoundingBox) Grow(n int) BoundingBox {
	return BoundingBox{
		Top:    b.Top - n,
		Left:   b.Left - n,
		Width:  b.Width + 2*n,
		Height: b.Height + 2*n,
	}
}

// ClickBox is a hit zone produced by a layout pass. Its position in the
// list returned by the layout is its identity.
type ClickBox struct {
	BoundingBox BoundingBox
	OnClick     func()
}

// Clickable reports whether the zone carries a click handler.
func (c ClickBox) Clickable() bool {
	return c.OnClick != nil
}
