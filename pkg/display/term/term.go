// Package term draws the eyes on a terminal with tcell.
//
// Frames are rasterized into a canvas and sampled into half-block cells:
// the upper half of each cell is the foreground of '▀' and the lower half
// its background, giving two square-ish pixels per cell.
package term

import (
	"context"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/teslashibe/go-roboeyes/pkg/canvas"
	"github.com/teslashibe/go-roboeyes/pkg/controls"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

const halfBlock = '▀'

// Renderer paints a frame. driver.Loop.Render satisfies it.
type Renderer func(s eyes.Surface)

// Display owns a tcell screen and the canvas frames are drawn into.
type Display struct {
	screen tcell.Screen
	canvas *canvas.Canvas
}

// Open initializes the terminal for a w x h eye screen.
func Open(w, h int) (*Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return New(screen, w, h), nil
}

// New wraps an initialized screen.
func New(screen tcell.Screen, w, h int) *Display {
	screen.HideCursor()
	screen.Clear()
	return &Display{screen: screen, canvas: canvas.New(w, h)}
}

// Screen returns the underlying tcell screen.
func (d *Display) Screen() tcell.Screen { return d.screen }

// Canvas returns the canvas the last frame was drawn into.
func (d *Display) Canvas() *canvas.Canvas { return d.canvas }

// Resize changes the eye screen size.
func (d *Display) Resize(w, h int) { d.canvas.Resize(w, h) }

// Draw renders a frame into the display's canvas and presents it.
func (d *Display) Draw(render Renderer, bg color.RGBA) {
	render(d.canvas)
	d.Present(d.canvas, bg)
}

// Present copies c to the terminal, scaled to fit. Letterbox cells use bg.
// It is safe to use as a driver.FrameSink body.
func (d *Display) Present(c *canvas.Canvas, bg color.RGBA) {
	cols, rows := d.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	g := newGrid(c, cols, rows, bg)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top, bottom := g.cell(col, row)
			style := tcell.StyleDefault.Background(tcellColor(bottom))
			r := ' '
			if top != bottom {
				style = style.Foreground(tcellColor(top))
				r = halfBlock
			}
			d.screen.SetContent(col, row, r, nil, style)
		}
	}
	d.screen.Show()
}

// Close restores the terminal.
func (d *Display) Close() {
	d.screen.Fini()
}

// Keys polls terminal events until ctx is done or the screen is closed.
// Resize events redraw from scratch and are not forwarded.
func (d *Display) Keys(ctx context.Context) <-chan controls.Key {
	out := make(chan controls.Key, 32)
	go func() {
		defer close(out)
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				d.screen.Sync()
			case *tcell.EventKey:
				key, ok := TranslateKey(ev)
				if !ok {
					continue
				}
				select {
				case out <- key:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// TranslateKey decodes a tcell key event. Ctrl-C counts as escape.
func TranslateKey(ev *tcell.EventKey) (controls.Key, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return controls.Key{Escape: true}, true
	case tcell.KeyUp:
		return controls.Key{IsArrow: true, Arrow: controls.ArrowUp}, true
	case tcell.KeyDown:
		return controls.Key{IsArrow: true, Arrow: controls.ArrowDown}, true
	case tcell.KeyLeft:
		return controls.Key{IsArrow: true, Arrow: controls.ArrowLeft}, true
	case tcell.KeyRight:
		return controls.Key{IsArrow: true, Arrow: controls.ArrowRight}, true
	case tcell.KeyRune:
		return controls.Key{Rune: ev.Rune()}, true
	}
	return controls.Key{}, false
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
