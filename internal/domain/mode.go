package domain

import "fmt"

// RenderMode selects how glyph pixels are colored.
type RenderMode string

const (
	RenderNormal  RenderMode = "normal"
	RenderUV      RenderMode = "uv"
	RenderFestive RenderMode = "festive"
	RenderRainbow RenderMode = "rainbow"
	RenderFire    RenderMode = "fire"
)

// RenderModes lists every mode in cycling order.
var RenderModes = []RenderMode{
	RenderNormal,
	RenderUV,
	RenderFestive,
	RenderRainbow,
	RenderFire,
}

// Index returns the position of the mode in RenderModes, or -1.
func (m RenderMode) Index() int {
	for i, mode := range RenderModes {
		if mode == m {
			return i
		}
	}
	return -1
}

// Valid reports whether m is a known mode.
func (m RenderMode) Valid() bool {
	return m.Index() >= 0
}

// Next returns the following mode, wrapping at the end of the list.
// An unknown mode advances to the first one.
func (m RenderMode) Next() RenderMode {
	return RenderModes[(m.Index()+1)%len(RenderModes)]
}

// Status returns a legend such as "fire - 5/5".
func (m RenderMode) Status() string {
	return fmt.Sprintf("%s - %d/%d", m, m.Index()+1, len(RenderModes))
}

// MarshalText implements encoding.TextMarshaler.
func (m RenderMode) MarshalText() ([]byte, error) {
	return []byte(m), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown modes.
func (m *RenderMode) UnmarshalText(text []byte) error {
	mode := RenderMode(text)
	if !mode.Valid() {
		return fmt.Errorf("unknown render mode %q", string(text))
	}
	*m = mode
	return nil
}
