// Package display owns the cell texture, its sizing against the output
// surface and pointer interaction with the hit zones drawn into it.
package display

import (
	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/render"
)

// NoZone is the active zone value when the pointer is over no zone.
const NoZone = render.NoZone

// Resolve maps a pointer position in logical pixels to grid cells and
// returns the index of the first zone containing it. Negative coordinates
// are the out-of-frame sentinel and never hit.
func Resolve(px, py float64, zones []domain.ClickBox, pitch, renderScale float64) (int, bool) {
	if px < 0 || py < 0 || pitch <= 0 || renderScale <= 0 {
		return 0, false
	}
	cell := pitch / renderScale
	gx, gy := px/cell, py/cell

	for i, zone := range zones {
		if zone.BoundingBox.Contains(gx, gy) {
			return i, true
		}
	}
	return 0, false
}

// Tracker remembers which zone the pointer is over.
type Tracker struct {
	active int
	// OnCursor is told whether the pointer is over a clickable zone each
	// time the active zone changes.
	OnCursor func(pointer bool)
}

// NewTracker returns a tracker with no active zone.
func NewTracker() *Tracker {
	return &Tracker{active: NoZone}
}

// Active returns the active zone index, or NoZone.
func (t *Tracker) Active() int {
	return t.active
}

// Move resolves the pointer and reports whether the active zone changed.
// The caller rerenders exactly once when it did.
func (t *Tracker) Move(px, py float64, zones []domain.ClickBox, pitch, renderScale float64) bool {
	hit := NoZone
	if i, ok := Resolve(px, py, zones, pitch, renderScale); ok {
		hit = i
	}
	if hit == t.active {
		return false
	}

	t.active = hit
	if t.OnCursor != nil {
		t.OnCursor(hit != NoZone && zones[hit].Clickable())
	}
	return true
}

// Reset forgets the active zone without notifying.
func (t *Tracker) Reset() {
	t.active = NoZone
}
