package eyes

import (
	"fmt"
	"math"
	"time"
)

// Ramp is a time-bounded animation.
type Ramp struct {
	Active   bool          `json:"active"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
}

// Progress returns the elapsed fraction of the ramp. It is not clamped at 1.
func (r Ramp) Progress(now time.Time) float64 {
	if r.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(r.Start)) / float64(r.Duration)
	if p < 0 {
		return 0
	}
	return p
}

// start activates the ramp unless it is already running.
func (r *Ramp) start(now time.Time) bool {
	if r.Active {
		return false
	}
	r.Active = true
	r.Start = now
	return true
}

// AutoTimer fires after Interval plus a random share of Variation. The
// random share is drawn again on every check.
type AutoTimer struct {
	Enabled   bool          `json:"enabled"`
	Last      time.Time     `json:"last"`
	Interval  time.Duration `json:"interval"`
	Variation time.Duration `json:"variation"`
}

func (t *AutoTimer) due(now time.Time, rnd Rand) bool {
	if !t.Enabled {
		return false
	}
	threshold := t.Interval + time.Duration(rnd.Float64()*float64(t.Variation))
	if now.Sub(t.Last) > threshold {
		t.Last = now
		return true
	}
	return false
}

func (t *AutoTimer) configure(enabled bool, interval, variation time.Duration, now time.Time) error {
	if enabled {
		if err := (TimerConfig{Enabled: true, Interval: interval, Variation: variation}).validate("timer"); err != nil {
			return err
		}
	}
	t.Enabled = enabled
	t.Interval = interval
	t.Variation = variation
	t.Last = now
	return nil
}

// MaxFlickerAmplitude bounds flicker jitter in pixels.
const MaxFlickerAmplitude = 100

// Flicker jitters one axis of both eyes every frame.
type Flicker struct {
	Enabled   bool `json:"enabled"`
	Amplitude int  `json:"amplitude"`
}

func (f Flicker) offset(rnd Rand) float64 {
	if !f.Enabled || f.Amplitude == 0 {
		return 0
	}
	return float64(rnd.Intn(2*f.Amplitude+1) - f.Amplitude)
}

func (f *Flicker) configure(enabled bool, amplitude int) error {
	if amplitude < 0 || amplitude > MaxFlickerAmplitude {
		return fmt.Errorf("%w: %d", ErrInvalidAmplitude, amplitude)
	}
	f.Enabled = enabled
	f.Amplitude = amplitude
	return nil
}

// shake is the laugh/confused oscillation at progress p.
func shake(p float64) float64 {
	return math.Round(math.Sin(p*10) * 5)
}

// closedLevel is the eyelid coverage of an eye of height h at blink progress p.
func closedLevel(h, p float64) float64 {
	if p < 0.5 {
		return math.Trunc(h * (p * 2))
	}
	return math.Trunc(h * (1 - (p-0.5)*2))
}

// ============================================================================
// Triggers
// ============================================================================

// Blink closes and reopens both eyes. It does nothing while a blink or wink
// is already running.
func (e *Eyes) Blink() {
	e.startBlink(e.clock.Now())
}

func (e *Eyes) startBlink(now time.Time) {
	if !e.blink.start(now) {
		return
	}
	e.winking = false
	e.emit(EventBlink, "")
}

// Wink blinks a single eye. In cyclops mode the visible eye is used.
func (e *Eyes) Wink(left bool) {
	if !e.blink.start(e.clock.Now()) {
		return
	}
	e.winking = true
	e.winkSide = Right
	if left || e.geo.cyclops {
		e.winkSide = Left
	}
	e.emit(EventWink, e.winkSide.String())
}

// Close shuts the selected eyelids without animating. They stay shut through
// blinks and winks until Open. In cyclops mode only the visible eye counts.
func (e *Eyes) Close(left, right bool) {
	e.setShut(left, right, true)
}

// Open releases eyelids shut by Close.
func (e *Eyes) Open(left, right bool) {
	e.setShut(left, right, false)
}

func (e *Eyes) setShut(left, right, shut bool) {
	if left {
		e.geo.left.shut = shut
	}
	if right && !e.geo.cyclops {
		e.geo.right.shut = shut
	}
	e.holdLids()
}

// holdLids covers every shut eye with its full height.
func (e *Eyes) holdLids() {
	for _, eye := range []*Eye{&e.geo.left, &e.geo.right} {
		if eye.shut {
			eye.Lids.Closed.Next = eye.Height.Next
		} else if !e.blink.Active {
			eye.Lids.Closed.Next = 0
		}
	}
}

// IsClosed reports whether an eye was shut with Close.
func (e *Eyes) IsClosed(s Side) bool { return e.geo.eye(s).shut }

// AnimLaugh shakes both eyes vertically.
func (e *Eyes) AnimLaugh() {
	if e.laugh.start(e.clock.Now()) {
		e.emit(EventLaugh, "")
	}
}

// AnimConfused shakes both eyes horizontally.
func (e *Eyes) AnimConfused() {
	if e.confused.start(e.clock.Now()) {
		e.emit(EventConfused, "")
	}
}

// AnimExcited switches to the excited mood and turns on a small flicker on
// both axes.
func (e *Eyes) AnimExcited() {
	_ = e.SetMood(MoodExcited)
	_ = e.SetHFlicker(true, 3)
	_ = e.SetVFlicker(true, 3)
}

// SetAutoBlinker configures the automatic blink timer and restarts its clock.
func (e *Eyes) SetAutoBlinker(enabled bool, interval, variation time.Duration) error {
	return e.autoBlink.configure(enabled, interval, variation, e.clock.Now())
}

// SetIdleMode configures idle wandering and restarts its clock.
func (e *Eyes) SetIdleMode(enabled bool, interval, variation time.Duration) error {
	return e.idle.configure(enabled, interval, variation, e.clock.Now())
}

// SetHFlicker jitters the eyes horizontally by up to amplitude pixels.
func (e *Eyes) SetHFlicker(enabled bool, amplitude int) error {
	return e.hFlicker.configure(enabled, amplitude)
}

// SetVFlicker jitters the eyes vertically by up to amplitude pixels.
func (e *Eyes) SetVFlicker(enabled bool, amplitude int) error {
	return e.vFlicker.configure(enabled, amplitude)
}

// ============================================================================
// Per-frame updates
// ============================================================================

func (e *Eyes) updateTimers(now time.Time) {
	if !e.blink.Active && e.autoBlink.due(now, e.rnd) {
		e.startBlink(now)
	}
	if e.idle.due(now, e.rnd) {
		d := Directions[e.rnd.Intn(len(Directions))]
		e.look(d)
		e.emit(EventIdleMove, d.String())
	}
}

func (e *Eyes) updateBlink(now time.Time) {
	if e.blink.Active && e.blink.Progress(now) >= 1 {
		e.blink.Active = false
		e.winking = false
	}
	if !e.blink.Active {
		e.holdLids()
		return
	}

	p := e.blink.Progress(now)
	for _, side := range []Side{Left, Right} {
		eye := e.geo.eye(side)
		if eye.shut {
			eye.Lids.Closed.Next = eye.Height.Next
			continue
		}
		if e.winking && side != e.winkSide {
			eye.Lids.Closed.Next = 0
			continue
		}
		eye.Lids.Closed.Next = closedLevel(eye.Height.Next, p)
	}
}

// updateShakes advances laugh and confused and returns the offsets to apply.
func (e *Eyes) updateShakes(now time.Time) (dx, dy float64) {
	if e.laugh.Active {
		if p := e.laugh.Progress(now); p >= 1 {
			e.laugh.Active = false
		} else {
			dy = shake(p)
		}
	}
	if e.confused.Active {
		if p := e.confused.Progress(now); p >= 1 {
			e.confused.Active = false
		} else {
			dx = shake(p)
		}
	}
	return dx, dy
}

// updatePosition rebuilds the position targets from the gaze, shakes and
// flicker. Flicker is shared by both eyes.
func (e *Eyes) updatePosition(dx, dy float64) {
	dx += e.hFlicker.offset(e.rnd)
	dy += e.vFlicker.offset(e.rnd)
	for _, eye := range []*Eye{&e.geo.left, &e.geo.right} {
		eye.X.Next = eye.gazeX + dx
		eye.Y.Next = eye.gazeY + dy
	}
}
