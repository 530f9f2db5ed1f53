// Package cvwindow shows the eyes in an OpenCV HighGUI window.
//
// Surface draws straight into a BGR gocv.Mat, so the window path never goes
// through the software rasterizer.
package cvwindow

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// Surface implements eyes.Surface on a gocv.Mat.
type Surface struct {
	mat gocv.Mat
}

// NewSurface allocates a w x h 8-bit BGR surface. Call Close when done.
func NewSurface(w, h int) *Surface {
	return &Surface{mat: gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)}
}

// Mat returns the backing matrix. It stays owned by the surface.
func (s *Surface) Mat() gocv.Mat { return s.mat }

// Size returns the surface dimensions.
func (s *Surface) Size() (w, h int) { return s.mat.Cols(), s.mat.Rows() }

// Resize reallocates the matrix when the size changes.
func (s *Surface) Resize(w, h int) {
	if cw, ch := s.Size(); cw == w && ch == h {
		return
	}
	s.mat.Close()
	s.mat = gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
}

// At returns the pixel at (x, y) as RGBA.
func (s *Surface) At(x, y int) color.RGBA {
	v := s.mat.GetVecbAt(y, x)
	return color.RGBA{R: v[2], G: v[1], B: v[0], A: 0xff}
}

// Close releases the matrix.
func (s *Surface) Close() error {
	return s.mat.Close()
}

// FillRect paints an axis-aligned rectangle.
func (s *Surface) FillRect(r eyes.Rect, c color.RGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	gocv.Rectangle(&s.mat, rect(r), c, -1)
}

// FillRoundedRect paints a rectangle with circular corners, capping the
// radius at half the shorter side.
func (s *Surface) FillRoundedRect(r eyes.Rect, radius float64, c color.RGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	rad := int(math.Round(math.Max(0, math.Min(radius, math.Min(r.W, r.H)/2))))
	if rad == 0 {
		s.FillRect(r, c)
		return
	}

	b := rect(r)
	x0, y0, x1, y1 := b.Min.X, b.Min.Y, b.Max.X-1, b.Max.Y-1
	gocv.Rectangle(&s.mat, image.Rect(x0+rad, y0, x1-rad+1, y1+1), c, -1)
	gocv.Rectangle(&s.mat, image.Rect(x0, y0+rad, x1+1, y1-rad+1), c, -1)
	for _, p := range []image.Point{
		{x0 + rad, y0 + rad},
		{x1 - rad, y0 + rad},
		{x0 + rad, y1 - rad},
		{x1 - rad, y1 - rad},
	} {
		gocv.Circle(&s.mat, p, rad, c, -1)
	}
}

// FillEllipse paints the ellipse inscribed in r.
func (s *Surface) FillEllipse(r eyes.Rect, c color.RGBA) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	center := image.Pt(int(math.Round(r.X+r.W/2)), int(math.Round(r.Y+r.H/2)))
	axes := image.Pt(int(math.Round(r.W/2)), int(math.Round(r.H/2)))
	gocv.Ellipse(&s.mat, center, axes, 0, 0, 360, c, -1)
}

// FillPolygon paints a closed polygon. Fewer than three points draw nothing.
func (s *Surface) FillPolygon(pts []eyes.Point, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	poly := make([]image.Point, len(pts))
	for i, p := range pts {
		poly[i] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{poly})
	defer pv.Close()
	gocv.FillPoly(&s.mat, pv, c)
}

func rect(r eyes.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)), int(math.Round(r.Y+r.H)),
	)
}
