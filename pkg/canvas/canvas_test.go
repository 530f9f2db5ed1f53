package canvas

import (
	"bytes"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

var (
	black = color.RGBA{A: 0xff}
	cyan  = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
)

func TestFillRect(t *testing.T) {
	c := New(20, 10)
	c.Clear(black)
	c.FillRect(eyes.Rect{X: 2, Y: 2, W: 6, H: 4}, cyan)

	if got := c.At(4, 3); got != cyan {
		t.Errorf("inside = %v, want %v", got, cyan)
	}
	if got := c.At(10, 3); got != black {
		t.Errorf("outside = %v, want %v", got, black)
	}
}

func TestFillRect_Empty(t *testing.T) {
	c := New(4, 4)
	c.Clear(black)
	c.FillRect(eyes.Rect{X: 0, Y: 0, W: 4, H: 0}, cyan)
	if got := c.At(1, 0); got != black {
		t.Errorf("empty rect painted %v", got)
	}
}

func TestFillEllipse(t *testing.T) {
	c := New(40, 40)
	c.Clear(black)
	c.FillEllipse(eyes.Rect{X: 0, Y: 0, W: 40, H: 40}, cyan)

	if got := c.At(20, 20); got != cyan {
		t.Errorf("center = %v, want %v", got, cyan)
	}
	if got := c.At(1, 1); got != black {
		t.Errorf("corner = %v, want %v", got, black)
	}
}

func TestFillRoundedRect(t *testing.T) {
	c := New(40, 20)
	c.Clear(black)
	c.FillRoundedRect(eyes.Rect{X: 0, Y: 0, W: 40, H: 20}, 10, cyan)

	if got := c.At(20, 10); got != cyan {
		t.Errorf("center = %v, want %v", got, cyan)
	}
	if got := c.At(20, 0); got != cyan {
		t.Errorf("top edge = %v, want %v", got, cyan)
	}
	if got := c.At(0, 0); got != black {
		t.Errorf("rounded corner = %v, want %v", got, black)
	}
}

func TestFillPolygon(t *testing.T) {
	c := New(20, 20)
	c.Clear(black)
	c.FillPolygon([]eyes.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}}, cyan)

	if got := c.At(17, 3); got != cyan {
		t.Errorf("inside triangle = %v, want %v", got, cyan)
	}
	if got := c.At(3, 17); got != black {
		t.Errorf("outside triangle = %v, want %v", got, black)
	}

	c.FillPolygon([]eyes.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, cyan)
}

func TestResize(t *testing.T) {
	c := New(10, 10)
	img := c.Image()
	c.Resize(10, 10)
	if c.Image() != img {
		t.Error("same-size Resize reallocated")
	}
	c.Resize(30, 12)
	if w, h := c.Size(); w != 30 || h != 12 {
		t.Errorf("Size() = %dx%d, want 30x12", w, h)
	}
}

func TestEncodeJPEG(t *testing.T) {
	c := New(64, 32)
	c.Clear(black)

	var buf bytes.Buffer
	if err := c.EncodeJPEG(&buf, 0); err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	img, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("decoded bounds = %v", b)
	}
}

func TestRenderEyes(t *testing.T) {
	cfg := eyes.DefaultConfig()
	cfg.AutoBlink.Enabled = false
	cfg.Idle.Enabled = false
	e, err := eyes.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	e.Tick(time.Now(), eyes.Input{})

	c := New(cfg.ScreenWidth, cfg.ScreenHeight)
	e.Render(c)

	// left eye spans x 279..315, y 142..178
	if got := c.At(297, 160); got != cfg.Palette.Eye {
		t.Errorf("eye center = %v, want %v", got, cfg.Palette.Eye)
	}
	if got := c.At(5, 5); got != cfg.Palette.Background {
		t.Errorf("background = %v, want %v", got, cfg.Palette.Background)
	}
}
