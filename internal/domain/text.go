package domain

import "unicode/utf8"

// TextBlock is one styled run of characters in a row.
type TextBlock struct {
	Content string
	// Active renders the block inverted (highlighted).
	Active bool
	// Hoverable blocks flip their styling while their hit zone is active.
	Hoverable bool
	// HoverContent replaces Content while the block is hovered, if set.
	HoverContent string
	OnClick      func()
}

// TextRow is an ordered run of blocks rendered left to right.
type TextRow []TextBlock

// Len returns the number of characters across all blocks of the row.
func (r TextRow) Len() int {
	n := 0
	for _, block := range r {
		n += utf8.RuneCountInString(block.Content)
	}
	return n
}

// Text concatenates the content of every block.
func (r TextRow) Text() string {
	var s string
	for _, block := range r {
		s += block.Content
	}
	return s
}
