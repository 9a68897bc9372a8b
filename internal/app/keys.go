package app

import (
	"fmt"

	"github.com/jwulff/countdown-go/internal/display"
	"github.com/jwulff/countdown-go/internal/options"
)

// Binding is a single-key control with a status legend.
type Binding struct {
	Key    rune
	Name   string
	Status func() string
	press  func()
}

// Bindings returns the key bindings in legend order.
func (a *App) Bindings() []Binding {
	o := a.opts
	toggle := func(key rune, name, option, on, off string) Binding {
		store := o.Bools()[option]
		return Binding{
			Key:  key,
			Name: name,
			Status: func() string {
				if store.Get() {
					return on
				}
				return off
			},
			press: func() { a.Toggle(option) },
		}
	}
	return []Binding{
		toggle('p', "pixels", options.KeyShowPixels, "shown", "hidden"),
		{
			Key:    'r',
			Name:   "render mode",
			Status: func() string { return o.RenderingMode.Get().Status() },
			press:  func() { a.Toggle(options.KeyRenderingMode) },
		},
		toggle('m', "merge fish", options.KeyCondenseFish, "condensed", "uncondensed"),
		toggle('t', "time", options.KeyTwelveHourTime, "12-hour", "24-hour"),
		toggle('v', "vantage", options.KeyUseVantage, "same tab", "new tab"),
		toggle('c', "camera", options.KeyCameraOpen, "open", "closed"),
		toggle('s', "selfie", options.KeySelfieFlip, "flipped", "unflipped"),
		toggle('o', "cover", options.KeyCoverMode, "cover", "contain"),
	}
}

// Press handles a key. It returns the status legend for the key, e.g.
// "fire - 5/5", and false for keys without a binding.
func (a *App) Press(key rune) (string, bool) {
	switch key {
	case '=', '+':
		return a.blurStatus(a.adapter.AdjustBlur(1)), true
	case '-', '_':
		return a.blurStatus(a.adapter.AdjustBlur(-1)), true
	case 'g':
		return a.toggleGrid()
	}
	for _, b := range a.Bindings() {
		if b.Key == key {
			b.press()
			return b.Status(), true
		}
	}
	return "", false
}

func (a *App) blurStatus(cells float64) string {
	return fmt.Sprintf("blur %.1f", cells)
}

// toggleGrid switches image output between the glowing grid and plain
// cells. Front ends that read the texture directly have no grid to switch.
func (a *App) toggleGrid() (string, bool) {
	switch a.adapter.Mode() {
	case display.ModeShader:
		a.adapter.SetMode(display.ModePlain)
	case display.ModePlain:
		a.adapter.SetMode(display.ModeShader)
	default:
		return "", false
	}
	return a.adapter.Mode().String(), true
}

// Legend lists every binding as "key: name (status)".
func (a *App) Legend() []string {
	bindings := a.Bindings()
	out := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		out = append(out, fmt.Sprintf("%c: %s (%s)", b.Key, b.Name, b.Status()))
	}
	out = append(out, "=/-: blur")
	if mode := a.adapter.Mode(); mode != display.ModeTexture {
		out = append(out, fmt.Sprintf("g: grid (%s)", mode))
	}
	return out
}
