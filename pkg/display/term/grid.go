package term

import (
	"image/color"
	"math"

	"github.com/teslashibe/go-roboeyes/pkg/canvas"
)

// grid maps terminal half-cells onto canvas pixels, preserving the canvas
// aspect ratio and centering it.
type grid struct {
	c      *canvas.Canvas
	bg     color.RGBA
	cw, ch int

	// canvas pixels per half-cell
	scale float64
	// letterbox offset in half-cells
	offX, offY float64
}

func newGrid(c *canvas.Canvas, cols, rows int, bg color.RGBA) grid {
	cw, ch := c.Size()
	gw, gh := float64(cols), float64(rows*2)
	scale := math.Max(float64(cw)/gw, float64(ch)/gh)
	return grid{
		c:     c,
		bg:    bg,
		cw:    cw,
		ch:    ch,
		scale: scale,
		offX:  (gw - float64(cw)/scale) / 2,
		offY:  (gh - float64(ch)/scale) / 2,
	}
}

// cell returns the colors of the upper and lower half of a cell.
func (g grid) cell(col, row int) (top, bottom color.RGBA) {
	return g.sample(col, row*2), g.sample(col, row*2+1)
}

// sample averages the canvas box covered by half-cell (gx, gy).
func (g grid) sample(gx, gy int) color.RGBA {
	x0 := (float64(gx) - g.offX) * g.scale
	y0 := (float64(gy) - g.offY) * g.scale
	x1, y1 := x0+g.scale, y0+g.scale
	if x1 <= 0 || y1 <= 0 || x0 >= float64(g.cw) || y0 >= float64(g.ch) {
		return g.bg
	}

	ix0, iy0 := clamp(int(math.Floor(x0)), g.cw), clamp(int(math.Floor(y0)), g.ch)
	ix1, iy1 := clamp(int(math.Ceil(x1)), g.cw), clamp(int(math.Ceil(y1)), g.ch)
	if ix1 <= ix0 {
		ix1 = ix0 + 1
	}
	if iy1 <= iy0 {
		iy1 = iy0 + 1
	}

	var r, gr, b, n int
	for y := iy0; y < iy1 && y < g.ch; y++ {
		for x := ix0; x < ix1 && x < g.cw; x++ {
			p := g.c.At(x, y)
			r += int(p.R)
			gr += int(p.G)
			b += int(p.B)
			n++
		}
	}
	if n == 0 {
		return g.bg
	}
	return color.RGBA{R: uint8(r / n), G: uint8(gr / n), B: uint8(b / n), A: 0xff}
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
