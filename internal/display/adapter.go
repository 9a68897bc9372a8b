package display

import (
	"image"
	"log/slog"
	"math"
	"sync"

	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/grid"
	"github.com/jwulff/countdown-go/internal/logging"
)

// DefaultPitch is the logical size of a cell before the first layout.
const DefaultPitch = 10.0

// Mode selects how the texture is turned into output pixels.
type Mode int

const (
	// ModeShader runs the glowing grid post-processor.
	ModeShader Mode = iota
	// ModePlain scales cells up with hard edges.
	ModePlain
	// ModeTexture produces no output image; callers read the texture.
	ModeTexture
)

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeTexture:
		return "texture"
	default:
		return "glow"
	}
}

// Updater draws into a cleared texture and returns its hit zones. active
// is the index of the hovered zone or NoZone.
type Updater func(frame *domain.Frame, active int) []domain.ClickBox

// Size is the result of a resize. Width and Height are logical pixels,
// the scaled dimensions are output pixels.
type Size struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	ScaledWidth  int `json:"scaledWidth"`
	ScaledHeight int `json:"scaledHeight"`
}

// AdapterOptions configures a new Adapter.
type AdapterOptions struct {
	DevicePixelRatio float64
	// RenderScale overrides the scale derived from DevicePixelRatio.
	RenderScale float64
	// Pitch is the initial logical cell size.
	Pitch float64
	Wipe  float64
	Mode  Mode
	// OnRender is called after every render, outside the adapter lock.
	OnRender func(version uint64)
	// OnCursor is called when the pointer moves on or off a clickable zone.
	OnCursor func(pointer bool)
	Logger   *slog.Logger
}

// RenderScaleFor returns the oversampling factor for a device pixel ratio.
func RenderScaleFor(dpr float64) float64 {
	return math.Max(2, math.Round(dpr))
}

// Adapter owns the texture and its hit zones. A texture update and the
// zone list it produces are swapped together under one lock, so a hit
// test never sees zones from a different layout than the one displayed.
type Adapter struct {
	mu sync.Mutex

	scale    float64
	uniforms grid.Uniforms
	mode     Mode

	frame      *domain.Frame
	size       Size
	containerW float64
	containerH float64

	zones   []domain.ClickBox
	tracker *Tracker
	updater Updater

	version uint64
	output  *image.RGBA
	stale   bool

	onRender func(uint64)
	logger   *slog.Logger
}

// NewAdapter creates an adapter with an empty texture.
func NewAdapter(opts AdapterOptions) *Adapter {
	scale := opts.RenderScale
	if scale <= 0 {
		scale = RenderScaleFor(opts.DevicePixelRatio)
	}
	pitch := opts.Pitch
	if pitch <= 0 {
		pitch = DefaultPitch
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	tracker := NewTracker()
	tracker.OnCursor = opts.OnCursor

	return &Adapter{
		scale:    scale,
		uniforms: grid.UniformsForPitch(pitch*scale, opts.Wipe),
		mode:     opts.Mode,
		frame:    domain.NewFrame(0, 0),
		tracker:  tracker,
		stale:    true,
		onRender: opts.OnRender,
		logger:   logger,
	}
}

// Resize fits the texture to a container of the given logical size. The
// scaled size is rounded up to whole cells so cell edges land on output
// pixel boundaries.
func (a *Adapter) Resize(containerW, containerH float64) Size {
	a.mu.Lock()
	size := a.resizeLocked(containerW, containerH)
	version := a.renderLocked()
	a.mu.Unlock()

	a.notify(version)
	return size
}

func (a *Adapter) resizeLocked(containerW, containerH float64) Size {
	a.containerW, a.containerH = containerW, containerH
	pitch := a.uniforms.Pitch

	scaledW := math.Floor(math.Ceil(containerW*a.scale/pitch) * pitch)
	scaledH := math.Floor(math.Ceil(containerH*a.scale/pitch) * pitch)
	width := math.Ceil(scaledW / a.scale)
	height := math.Ceil(scaledH / a.scale)
	texW := cells(width, pitch/a.scale)
	texH := cells(height, pitch/a.scale)

	a.size = Size{
		Width:        int(width),
		Height:       int(height),
		ScaledWidth:  int(scaledW),
		ScaledHeight: int(scaledH),
	}

	if texW != a.frame.Width || texH != a.frame.Height {
		a.logger.Debug("reallocating texture",
			"width", texW, "height", texH, "pitch", pitch, "scale", a.scale)
		a.frame = domain.NewFrame(texW, texH)
	}
	a.redrawLocked()
	return a.size
}

// cells returns how many whole cells of size cell fit in length. A tiny
// epsilon absorbs float error in products like 2.1*100.
func cells(length, cell float64) int {
	n := math.Floor(length/cell + 1e-9)
	if n < 0 {
		return 0
	}
	return int(n)
}

// UpdatePitch sets the logical cell size. It is a no-op when the scaled
// pitch is unchanged, otherwise the glow uniforms are recomputed and the
// texture is resized to the last container size.
func (a *Adapter) UpdatePitch(logical float64) bool {
	a.mu.Lock()
	pitch := logical * a.scale
	if pitch == a.uniforms.Pitch || pitch <= 0 {
		a.mu.Unlock()
		return false
	}
	a.uniforms = grid.UniformsForPitch(pitch, a.uniforms.WipePosition)
	a.resizeLocked(a.containerW, a.containerH)
	version := a.renderLocked()
	a.mu.Unlock()

	a.notify(version)
	return true
}

// UpdateTexture clears the texture, draws it with updater and renders.
// The updater is replayed on resize and hover changes.
func (a *Adapter) UpdateTexture(updater Updater) {
	a.mu.Lock()
	a.updater = updater
	a.redrawLocked()
	version := a.renderLocked()
	a.mu.Unlock()

	a.notify(version)
}

// SetWipe moves the wipe mask and renders without relayout.
func (a *Adapter) SetWipe(v float64) {
	a.mu.Lock()
	a.uniforms.WipePosition = grid.ClampUnit(v)
	version := a.renderLocked()
	a.mu.Unlock()

	a.notify(version)
}

// AdjustBlur widens or narrows the neighbor glow by a tenth of a cell per
// step. The glow never shrinks below the dot radius.
func (a *Adapter) AdjustBlur(steps int) float64 {
	a.mu.Lock()
	u := &a.uniforms
	u.SecondBlurDistance = math.Max(u.Radius, u.SecondBlurDistance+float64(steps)*u.Pitch*0.1)
	blur := u.SecondBlurDistance / u.Pitch
	version := a.renderLocked()
	a.mu.Unlock()

	a.notify(version)
	return blur
}

// PointerMove hit tests a pointer position in logical pixels. When the
// active zone changes the texture is redrawn exactly once.
func (a *Adapter) PointerMove(px, py float64) bool {
	a.mu.Lock()
	if !a.tracker.Move(px, py, a.zones, a.uniforms.Pitch, a.scale) {
		a.mu.Unlock()
		return false
	}
	a.redrawLocked()
	version := a.renderLocked()
	a.mu.Unlock()

	a.notify(version)
	return true
}

// PointerBlur clears the hover state, as when the pointer leaves the window.
func (a *Adapter) PointerBlur() bool {
	return a.PointerMove(-1, -1)
}

// PointerClick runs the click handler of the zone under the pointer. The
// handler runs outside the adapter lock so it may update the texture.
func (a *Adapter) PointerClick(px, py float64) bool {
	a.mu.Lock()
	var onClick func()
	if i, ok := Resolve(px, py, a.zones, a.uniforms.Pitch, a.scale); ok {
		onClick = a.zones[i].OnClick
	}
	a.mu.Unlock()

	if onClick == nil {
		return false
	}
	onClick()
	return true
}

func (a *Adapter) redrawLocked() {
	a.frame.Clear()
	if a.updater == nil {
		a.zones = nil
		return
	}
	a.zones = a.updater(a.frame, a.tracker.Active())
}

func (a *Adapter) renderLocked() uint64 {
	a.version++
	a.stale = true
	return a.version
}

func (a *Adapter) notify(version uint64) {
	if a.onRender != nil {
		a.onRender(version)
	}
}

// Output returns the rendered image for the current texture and uniforms,
// or nil in ModeTexture. Images are produced on demand and cached until
// the next render.
func (a *Adapter) Output() *image.RGBA {
	img, _ := a.OutputVersion()
	return img
}

// OutputVersion is Output together with the version the image was rendered
// at, read under one lock.
func (a *Adapter) OutputVersion() (*image.RGBA, uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mode == ModeTexture {
		return nil, a.version
	}
	if a.stale || a.output == nil {
		switch a.mode {
		case ModePlain:
			a.output = grid.Plain(a.frame, a.uniforms.Pitch, a.size.ScaledWidth, a.size.ScaledHeight)
		default:
			a.output = grid.Shade(a.frame, a.uniforms, a.size.ScaledWidth, a.size.ScaledHeight)
		}
		a.stale = false
	}
	return a.output, a.version
}

// SetMode switches between output modes.
func (a *Adapter) SetMode(mode Mode) {
	a.mu.Lock()
	a.mode = mode
	version := a.renderLocked()
	a.mu.Unlock()

	a.notify(version)
}

// Mode returns the current output mode.
func (a *Adapter) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Frame returns a copy of the texture. Rows are bottom-up.
func (a *Adapter) Frame() *domain.Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frame.Clone()
}

// Zones returns a copy of the current hit zones.
func (a *Adapter) Zones() []domain.ClickBox {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.ClickBox(nil), a.zones...)
}

// Active returns the hovered zone index, or NoZone.
func (a *Adapter) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracker.Active()
}

// Size returns the result of the last resize.
func (a *Adapter) Size() Size {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// Uniforms returns the current post-processor inputs.
func (a *Adapter) Uniforms() grid.Uniforms {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uniforms
}

// RenderScale returns the oversampling factor.
func (a *Adapter) RenderScale() float64 {
	return a.scale
}

// Version increases with every render.
func (a *Adapter) Version() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.version
}
