package term

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/teslashibe/go-roboeyes/pkg/canvas"
	"github.com/teslashibe/go-roboeyes/pkg/controls"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

var (
	black = color.RGBA{A: 0xff}
	cyan  = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
)

func simScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func TestGrid_SplitsHalfCells(t *testing.T) {
	// 4x4 canvas on a 4x2 terminal maps one pixel to each half-cell.
	c := canvas.New(4, 4)
	c.Clear(black)
	c.FillRect(eyes.Rect{X: 0, Y: 0, W: 4, H: 1}, cyan)

	g := newGrid(c, 4, 2, black)
	top, bottom := g.cell(1, 0)
	if top != cyan {
		t.Errorf("top = %v, want %v", top, cyan)
	}
	if bottom != black {
		t.Errorf("bottom = %v, want %v", bottom, black)
	}
	top, bottom = g.cell(1, 1)
	if top != black || bottom != black {
		t.Errorf("row 1 = %v/%v, want black", top, bottom)
	}
}

func TestGrid_Letterbox(t *testing.T) {
	// A wide canvas on a square grid leaves bands above and below.
	c := canvas.New(8, 4)
	c.Clear(cyan)
	bg := color.RGBA{R: 0x20, A: 0xff}

	g := newGrid(c, 8, 4, bg)
	if top, _ := g.cell(0, 0); top != bg {
		t.Errorf("band = %v, want %v", top, bg)
	}
	if top, bottom := g.cell(4, 2); top != cyan || bottom != cyan {
		t.Errorf("center = %v/%v, want %v", top, bottom, cyan)
	}
}

func TestDisplay_Draw(t *testing.T) {
	s := simScreen(t, 4, 2)
	d := New(s, 4, 4)

	d.Draw(func(surf eyes.Surface) {
		surf.FillRect(eyes.Rect{W: 4, H: 4}, black)
		surf.FillRect(eyes.Rect{W: 4, H: 1}, cyan)
	}, black)

	r, _, style, _ := s.GetContent(0, 0)
	if r != halfBlock {
		t.Fatalf("cell (0,0) = %q, want half block", r)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcellColor(cyan) || bg != tcellColor(black) {
		t.Errorf("style = %v/%v", fg, bg)
	}

	r, _, style, _ = s.GetContent(0, 1)
	if r != ' ' {
		t.Errorf("cell (0,1) = %q, want space", r)
	}
	if _, bg, _ := style.Decompose(); bg != tcellColor(black) {
		t.Errorf("cell (0,1) bg = %v", bg)
	}
}

func TestDisplay_RendersEyes(t *testing.T) {
	cfg := eyes.DefaultConfig()
	cfg.AutoBlink.Enabled = false
	cfg.Idle.Enabled = false
	e, err := eyes.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	w, h := e.ScreenSize()

	s := simScreen(t, 80, 20)
	d := New(s, w, h)
	d.Draw(e.Render, e.Palette().Background)

	left := e.Eye(eyes.Left)
	cx, cy := d.Canvas().Size()
	col := int((left.X.Current + left.Width.Current/2) / float64(cx) * 80)
	row := int((left.Y.Current + left.Height.Current/2) / float64(cy) * 20)
	_, _, style, _ := s.GetContent(col, row)
	if _, bg, _ := style.Decompose(); bg != tcellColor(e.Palette().Eye) {
		t.Errorf("eye cell bg = %v, want eye color", bg)
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want controls.Key
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), controls.Key{Escape: true}, true},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), controls.Key{Escape: true}, true},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), controls.Key{IsArrow: true, Arrow: controls.ArrowUp}, true},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), controls.Key{IsArrow: true, Arrow: controls.ArrowLeft}, true},
		{tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone), controls.Key{Rune: 'b'}, true},
		{tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), controls.Key{}, false},
	}
	for _, tt := range tests {
		got, ok := TranslateKey(tt.ev)
		if ok != tt.ok || got != tt.want {
			t.Errorf("TranslateKey(%v) = %+v, %v; want %+v, %v", tt.ev.Name(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestDisplay_Keys(t *testing.T) {
	s := simScreen(t, 10, 5)
	d := New(s, 10, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	keys := d.Keys(ctx)

	s.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	want := []controls.Key{{Rune: 'w'}, {Escape: true}}
	for _, w := range want {
		select {
		case got := <-keys:
			if got != w {
				t.Errorf("key = %+v, want %+v", got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %+v", w)
		}
	}
}
