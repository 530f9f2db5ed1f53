package eyes

import (
	"fmt"
	"math"
)

// SetPosition points both eyes in direction d. With curiosity on, looking
// east enlarges the right eye and looking west the left one.
func (e *Eyes) SetPosition(d Direction) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	e.look(d)
	e.emit(EventPosition, d.String())
	return nil
}

// SetCuriosity toggles the sideways enlargement. Either way the current
// direction is applied again at once.
func (e *Eyes) SetCuriosity(on bool) {
	e.curiosity = on
	if !on {
		e.geo.left.Height.Next = e.geo.left.baseHeight
		e.geo.right.Height.Next = e.geo.right.baseHeight
		return
	}
	e.look(e.direction)
}

func (e *Eyes) look(d Direction) {
	e.direction = d
	e.aim()
	if !e.curiosity {
		return
	}

	l, r := &e.geo.left, &e.geo.right
	l.Height.Next, r.Height.Next = l.baseHeight, r.baseHeight
	switch d {
	case East:
		r.Height.Next = math.Trunc(r.Height.Default * 1.2)
	case West:
		l.Height.Next = math.Trunc(l.Height.Default * 1.2)
	}
}

// aim writes the gaze and position targets for the current direction.
func (e *Eyes) aim() {
	l, r := &e.geo.left, &e.geo.right
	lx, ly, rx, ry := e.geo.layout()

	ox := math.Trunc(0.1 * l.Width.Next)
	oy := math.Trunc(0.1 * l.Height.Next)
	ux, uy := e.direction.unit()

	l.gazeX, l.gazeY = lx+ux*ox, ly+uy*oy
	r.gazeX, r.gazeY = rx+ux*ox, ry+uy*oy
	l.X.Next, l.Y.Next = l.gazeX, l.gazeY
	r.X.Next, r.Y.Next = r.gazeX, r.gazeY
}
