package eyes

import (
	"image/color"
	"math"
)

// Point is a surface coordinate.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box given by its top-left corner and size.
type Rect struct {
	X, Y, W, H float64
}

// Surface is the drawing backend. Every call paints a filled shape.
type Surface interface {
	FillRect(r Rect, c color.RGBA)
	FillRoundedRect(r Rect, radius float64, c color.RGBA)
	FillEllipse(r Rect, c color.RGBA)
	FillPolygon(pts []Point, c color.RGBA)
}

// Render paints the current frame: background, eye silhouettes, then eyelids
// in the background color. Manual drive offsets are added here.
func (e *Eyes) Render(s Surface) {
	bg, fg := e.palette.Background, e.palette.Eye
	s.FillRect(Rect{W: float64(e.geo.screenW), H: float64(e.geo.screenH)}, bg)

	sides := []Side{Left, Right}
	if e.geo.cyclops {
		sides = sides[:1]
	}
	for _, side := range sides {
		eye := e.geo.eye(side)
		r := Rect{
			X: eye.X.Current + e.manual.OffsetX,
			Y: eye.Y.Current + e.manual.OffsetY,
			W: eye.Width.Current,
			H: eye.Height.Current,
		}
		drawShape(s, e.shape, r, fg)
		e.drawLids(s, side, eye, r, bg)
	}
}

func drawShape(s Surface, shape Shape, r Rect, c color.RGBA) {
	switch shape {
	case ShapeRound:
		rad := math.Min(r.W, r.H) / 2
		cx, cy := r.X+r.W/2, r.Y+r.H/2
		s.FillEllipse(Rect{X: cx - rad, Y: cy - rad, W: 2 * rad, H: 2 * rad}, c)
	case ShapeSquare:
		s.FillRoundedRect(r, math.Min(r.W, r.H)/3, c)
	case ShapeOval:
		s.FillEllipse(Rect{X: r.X, Y: r.Y + r.H/4, W: r.W, H: r.H / 2}, c)
	case ShapePill:
		s.FillRoundedRect(r, r.H/2, c)
	case ShapeTeardrop:
		s.FillEllipse(r, c)
		rx, ry := r.W/2, r.H/2
		cx, cy := r.X+rx, r.Y+ry
		s.FillPolygon([]Point{
			{X: cx - rx/2, Y: cy + ry/2},
			{X: cx + rx/2, Y: cy + ry/2},
			{X: cx, Y: cy + 2*ry},
		}, c)
	}
}

func (e *Eyes) drawLids(s Surface, side Side, eye *Eye, r Rect, bg color.RGBA) {
	if closed := eye.Lids.Closed.Current; closed > 0 {
		s.FillRect(Rect{X: r.X, Y: r.Y, W: r.W, H: closed}, bg)
		s.FillRect(Rect{X: r.X, Y: r.Y + r.H - closed, W: r.W, H: closed}, bg)
	}

	if tired := eye.Lids.Tired.Current; e.mood == MoodTired && tired > 0 {
		s.FillRect(Rect{X: r.X, Y: r.Y, W: r.W, H: tired}, bg)
	}

	if angry := eye.Lids.Angry.Current; e.mood == MoodAngry && angry > 0 {
		// slant down toward the nose
		inner := Point{X: r.X + r.W, Y: r.Y + angry}
		if side == Right {
			inner = Point{X: r.X, Y: r.Y + angry}
		}
		s.FillPolygon([]Point{{X: r.X, Y: r.Y}, {X: r.X + r.W, Y: r.Y}, inner}, bg)
	}
}
