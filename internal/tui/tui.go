// Package tui shows the countdown in a terminal. Each character cell holds
// two texture pixels, drawn as an upper half block with the top pixel in
// the foreground and the bottom one in the background.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/jwulff/countdown-go/internal/app"
	"github.com/jwulff/countdown-go/internal/display"
	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/render"
	"github.com/jwulff/countdown-go/internal/schedule"
)

const (
	halfBlock = '▀'
	// margin is the number of texture pixels kept clear around the text.
	margin = 2
)

// Screen is the part of tcell.Screen the terminal front end draws with.
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
	Show()
	Clear()
	PostEvent(ev tcell.Event) error
	SetTitle(title string)
}

type redraw struct{}

type title string

// Layout fits the rows to a texture of width by height pixels at one pixel
// per cell.
func Layout(width, height float64) (chars, rows int, pitch float64) {
	chars = (int(width) - 2*margin) / render.LetterWidthWithGap
	chars = max(1, min(chars, schedule.MaxChars))
	rows = (int(height)-2*margin)/render.LetterHeightWithLine - 1
	rows = max(1, min(rows, schedule.MaxRows))
	return chars, rows, 1
}

// Terminal owns the screen state between events.
type Terminal struct {
	screen Screen
	app     *app.App
	status  string
	buttons tcell.ButtonMask
}

// Run shows the countdown on screen until ctx is done or the user quits.
// The screen must already be initialised; Run does not finalise it.
func Run(ctx context.Context, screen tcell.Screen, cfg app.Config) error {
	screen.EnableMouse()
	screen.EnableFocus()
	defer screen.DisableMouse()

	t, a := newTerminal(screen, cfg)
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		_ = a.RunTicker(ctx)
	}()
	go func() {
		<-ctx.Done()
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	t.resize(screen.Size())
	for {
		ev := screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if !t.handle(ev) {
			return nil
		}
	}
}

func newTerminal(screen Screen, cfg app.Config) (*Terminal, *app.App) {
	t := &Terminal{screen: screen}

	cfg.Layout = Layout
	cfg.Display.RenderScale = 1
	cfg.Display.Pitch = 1
	cfg.Display.Mode = display.ModeTexture
	cfg.Display.OnRender = func(uint64) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(redraw{}))
	}
	onTitle := cfg.OnTitle
	cfg.OnTitle = func(s string) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(title(s)))
		if onTitle != nil {
			onTitle(s)
		}
	}

	t.app = app.New(cfg)
	return t, t.app
}

// handle processes one event and returns false when the user quits.
func (t *Terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.resize(ev.Size())

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
			if status, ok := t.app.Press(ev.Rune()); ok {
				t.status = fmt.Sprintf("%c: %s", ev.Rune(), status)
				t.draw()
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := pointer(x, y)
		buttons := ev.Buttons()
		t.app.Adapter().PointerMove(px, py)
		// Motion with the button held repeats Button1; only the press clicks.
		if buttons&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0 {
			t.app.Adapter().PointerClick(px, py)
		}
		t.buttons = buttons

	case *tcell.EventFocus:
		if !ev.Focused {
			t.app.Adapter().PointerBlur()
		}

	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case redraw:
			t.draw()
		case title:
			t.screen.SetTitle(string(data))
		}
	}
	return true
}

// pointer maps a terminal cell to the logical pixel at its center. The
// bottom terminal row is the status line.
func pointer(x, y int) (float64, float64) {
	return float64(x) + 0.5, float64(y*2) + 1
}

func (t *Terminal) resize(cols, rows int) {
	t.app.Resize(float64(cols), float64(max(0, rows-1)*2))
}

func (t *Terminal) draw() {
	t.screen.Clear()
	frame := t.app.Adapter().Frame()
	drawFrame(t.screen, frame)

	cols, rows := t.screen.Size()
	line := t.status
	if line == "" {
		line = strings.Join(t.app.Legend(), "  ")
	}
	drawText(t.screen, 0, rows-1, cols, tcell.StyleDefault.Foreground(tcell.ColorGray), line)
	t.screen.Show()
}

// drawFrame paints a bottom-up texture, two pixel rows per terminal row.
func drawFrame(screen Screen, frame *domain.Frame) {
	for cy := 0; cy*2 < frame.Height; cy++ {
		top := frame.Height - 1 - cy*2
		bottom := top - 1
		for x := 0; x < frame.Width; x++ {
			style := tcell.StyleDefault.
				Foreground(cellColor(frame, x, top)).
				Background(cellColor(frame, x, bottom))
			screen.SetContent(x, cy, halfBlock, nil, style)
		}
	}
}

func cellColor(frame *domain.Frame, x, y int) tcell.Color {
	p := frame.GetPixel(x, y)
	if p == nil {
		p = &render.ColorBg
	}
	return tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))
}

func drawText(screen Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			return
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
}
