// Package canvas rasterizes eye frames into an in-memory RGBA image.
//
// Canvas implements eyes.Surface with anti-aliased paths from
// golang.org/x/image/vector, so frames can be produced headless and shipped
// as JPEG or sampled by terminal front ends.
package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498

// DefaultQuality is the JPEG quality used by EncodeJPEG when none is given.
const DefaultQuality = 80

// Canvas is a drawable RGBA frame.
type Canvas struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

// New allocates a w x h canvas.
func New(w, h int) *Canvas {
	return &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(w, h),
	}
}

// Image returns the backing image. It is overwritten by the next frame.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Size returns the canvas dimensions.
func (c *Canvas) Size() (w, h int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the canvas if the size changed.
func (c *Canvas) Resize(w, h int) {
	if cw, ch := c.Size(); cw == w && ch == h {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
	c.z = vector.NewRasterizer(w, h)
}

// At returns the pixel at (x, y).
func (c *Canvas) At(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// Clear fills the whole canvas with col. Frames paint their own background
// through eyes.Render, so Clear is for tests and tools that compose a canvas
// by hand.
func (c *Canvas) Clear(col color.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRect paints an axis-aligned rectangle.
func (c *Canvas) FillRect(r eyes.Rect, col color.RGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	c.begin()
	c.z.MoveTo(f32(r.X), f32(r.Y))
	c.z.LineTo(f32(r.X+r.W), f32(r.Y))
	c.z.LineTo(f32(r.X+r.W), f32(r.Y+r.H))
	c.z.LineTo(f32(r.X), f32(r.Y+r.H))
	c.z.ClosePath()
	c.fill(col)
}

// FillRoundedRect paints a rectangle with circular corners. The radius is
// capped at half the shorter side.
func (c *Canvas) FillRoundedRect(r eyes.Rect, radius float64, col color.RGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	radius = math.Max(0, math.Min(radius, math.Min(r.W, r.H)/2))
	if radius == 0 {
		c.FillRect(r, col)
		return
	}

	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	k := radius * (1 - kappa)

	c.begin()
	c.z.MoveTo(f32(x0+radius), f32(y0))
	c.z.LineTo(f32(x1-radius), f32(y0))
	c.z.CubeTo(f32(x1-k), f32(y0), f32(x1), f32(y0+k), f32(x1), f32(y0+radius))
	c.z.LineTo(f32(x1), f32(y1-radius))
	c.z.CubeTo(f32(x1), f32(y1-k), f32(x1-k), f32(y1), f32(x1-radius), f32(y1))
	c.z.LineTo(f32(x0+radius), f32(y1))
	c.z.CubeTo(f32(x0+k), f32(y1), f32(x0), f32(y1-k), f32(x0), f32(y1-radius))
	c.z.LineTo(f32(x0), f32(y0+radius))
	c.z.CubeTo(f32(x0), f32(y0+k), f32(x0+k), f32(y0), f32(x0+radius), f32(y0))
	c.z.ClosePath()
	c.fill(col)
}

// FillEllipse paints the ellipse inscribed in r.
func (c *Canvas) FillEllipse(r eyes.Rect, col color.RGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	rx, ry := r.W/2, r.H/2
	cx, cy := r.X+rx, r.Y+ry
	kx, ky := rx*kappa, ry*kappa

	c.begin()
	c.z.MoveTo(f32(cx+rx), f32(cy))
	c.z.CubeTo(f32(cx+rx), f32(cy+ky), f32(cx+kx), f32(cy+ry), f32(cx), f32(cy+ry))
	c.z.CubeTo(f32(cx-kx), f32(cy+ry), f32(cx-rx), f32(cy+ky), f32(cx-rx), f32(cy))
	c.z.CubeTo(f32(cx-rx), f32(cy-ky), f32(cx-kx), f32(cy-ry), f32(cx), f32(cy-ry))
	c.z.CubeTo(f32(cx+kx), f32(cy-ry), f32(cx+rx), f32(cy-ky), f32(cx+rx), f32(cy))
	c.z.ClosePath()
	c.fill(col)
}

// FillPolygon paints a closed polygon. Fewer than three points draw nothing.
func (c *Canvas) FillPolygon(pts []eyes.Point, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	c.begin()
	c.z.MoveTo(f32(pts[0].X), f32(pts[0].Y))
	for _, p := range pts[1:] {
		c.z.LineTo(f32(p.X), f32(p.Y))
	}
	c.z.ClosePath()
	c.fill(col)
}

// EncodeJPEG writes the canvas as JPEG. quality <= 0 uses DefaultQuality.
func (c *Canvas) EncodeJPEG(w io.Writer, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}
	return jpeg.Encode(w, c.img, &jpeg.Options{Quality: quality})
}

// JPEG returns the canvas encoded as JPEG.
func (c *Canvas) JPEG(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodeJPEG(&buf, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Canvas) begin() {
	w, h := c.Size()
	c.z.Reset(w, h)
}

func (c *Canvas) fill(col color.RGBA) {
	c.z.DrawOp = draw.Over
	c.z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func f32(v float64) float32 { return float32(v) }
