package cvwindow

import (
	"gocv.io/x/gocv"

	"github.com/teslashibe/go-roboeyes/pkg/controls"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// HighGUI key codes after WaitKey's low-byte mask.
const (
	keyEscape = 27
	keyLeft   = 81
	keyUp     = 82
	keyRight  = 83
	keyDown   = 84
)

// Extended codes some GTK builds report for arrows.
const (
	keyLeftEx  = 65361
	keyUpEx    = 65362
	keyRightEx = 65363
	keyDownEx  = 65364
)

// Renderer paints a frame. driver.Loop.Render satisfies it.
type Renderer func(s eyes.Surface)

// Window is a HighGUI window showing one Surface.
type Window struct {
	win  *gocv.Window
	surf *Surface
}

// Open creates a window sized w x h. HighGUI calls must stay on the
// goroutine that opened the window.
func Open(title string, w, h int) *Window {
	win := gocv.NewWindow(title)
	win.ResizeWindow(w, h)
	return &Window{win: win, surf: NewSurface(w, h)}
}

// Surface returns the drawing surface shown by Present.
func (w *Window) Surface() *Surface { return w.surf }

// Draw renders into the surface and shows it.
func (w *Window) Draw(render Renderer) {
	render(w.surf)
	w.Present()
}

// Present shows the current surface contents.
func (w *Window) Present() {
	w.win.IMShow(w.surf.Mat())
}

// PollKey pumps window events for up to delayMs and returns the key pressed,
// if any.
func (w *Window) PollKey(delayMs int) (controls.Key, bool) {
	return TranslateKey(w.win.WaitKey(delayMs))
}

// IsOpen reports whether the window is still open.
func (w *Window) IsOpen() bool { return w.win.IsOpen() }

// Close destroys the window and its surface.
func (w *Window) Close() error {
	w.surf.Close()
	return w.win.Close()
}

// TranslateKey decodes a WaitKey result. Negative codes mean no key.
func TranslateKey(code int) (controls.Key, bool) {
	switch code {
	case -1:
		return controls.Key{}, false
	case keyEscape:
		return controls.Key{Escape: true}, true
	case keyLeft, keyLeftEx:
		return controls.Key{IsArrow: true, Arrow: controls.ArrowLeft}, true
	case keyUp, keyUpEx:
		return controls.Key{IsArrow: true, Arrow: controls.ArrowUp}, true
	case keyRight, keyRightEx:
		return controls.Key{IsArrow: true, Arrow: controls.ArrowRight}, true
	case keyDown, keyDownEx:
		return controls.Key{IsArrow: true, Arrow: controls.ArrowDown}, true
	}
	if code < 0 || code > 0x10FFFF {
		return controls.Key{}, false
	}
	return controls.Key{Rune: rune(code)}, true
}
