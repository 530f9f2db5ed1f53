package eyes

import (
	"fmt"
	"math"
)

// SetMood switches the expression. Setting the same mood twice yields the
// same geometry. Gaze and running animations are left alone.
func (e *Eyes) SetMood(m Mood) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMood, int(m))
	}
	e.mood = m
	switch m {
	case MoodHappy, MoodExcited:
		e.shape = ShapePill
	default:
		e.shape = ShapeSquare
	}
	e.applyMood()
	e.emit(EventMood, m.String())
	return nil
}

// applyMood writes the size and eyelid targets of the current mood.
func (e *Eyes) applyMood() {
	l, r := &e.geo.left, &e.geo.right
	for _, eye := range []*Eye{l, r} {
		eye.Lids.Tired.Next = 0
		eye.Lids.Angry.Next = 0
	}

	switch e.mood {
	case MoodTired:
		for _, eye := range []*Eye{l, r} {
			eye.Lids.Tired.Next = math.Round(0.3 * eye.Height.Next)
		}
	case MoodAngry:
		e.resize(l.Width.Default, l.Height.Default, r.Width.Default, r.Height.Default)
		for _, eye := range []*Eye{l, r} {
			eye.Lids.Angry.Next = math.Round(0.5 * eye.Height.Next)
		}
	case MoodHappy, MoodExcited:
		e.resize(
			math.Trunc(l.Width.Default*1.3), math.Trunc(l.Height.Default*0.8),
			math.Trunc(r.Width.Default*1.3), math.Trunc(r.Height.Default*0.8),
		)
	default:
		e.resize(l.Width.Default, l.Height.Default, r.Width.Default, r.Height.Default)
	}
}

// resize sets the target sizes and re-centers the current gaze on them.
func (e *Eyes) resize(lw, lh, rw, rh float64) {
	e.geo.resize(lw, lh, rw, rh)
	e.aim()
}
