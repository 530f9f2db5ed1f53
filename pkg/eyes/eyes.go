package eyes

import (
	"fmt"
	"math/rand"
	"time"
)

// Clock supplies the time used to start animations and timers.
type Clock interface {
	Now() time.Time
}

// Rand is the random source behind auto-timer jitter, idle directions and
// flicker. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option customizes New.
type Option func(*Eyes)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(e *Eyes) { e.clock = c }
}

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(e *Eyes) { e.rnd = r }
}

// WithListener registers an event listener.
func WithListener(l Listener) Option {
	return func(e *Eyes) { e.AddListener(l) }
}

// Eyes is the complete animation state of a pair of eyes.
type Eyes struct {
	geo       geometry
	palette   Palette
	mood      Mood
	shape     Shape
	direction Direction
	curiosity bool

	blink    Ramp
	winking  bool
	winkSide Side
	laugh    Ramp
	confused Ramp

	autoBlink AutoTimer
	idle      AutoTimer
	hFlicker  Flicker
	vFlicker  Flicker
	manual    ManualDrive

	frames uint64

	clock     Clock
	rnd       Rand
	listeners []Listener
}

// New builds eyes from cfg. The configured mood is applied without
// emitting an event.
func New(cfg Config, opts ...Option) (*Eyes, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("eyes config: %w", err)
	}

	e := &Eyes{
		palette:   cfg.Palette,
		shape:     cfg.Shape,
		curiosity: cfg.Curiosity,
		clock:     systemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(e.clock.Now().UnixNano()))
	}

	e.geo.init(cfg)
	e.blink.Duration = cfg.BlinkDuration
	e.laugh.Duration = cfg.LaughDuration
	e.confused.Duration = cfg.ConfusedDuration

	now := e.clock.Now()
	e.autoBlink = AutoTimer{Enabled: cfg.AutoBlink.Enabled, Last: now, Interval: cfg.AutoBlink.Interval, Variation: cfg.AutoBlink.Variation}
	e.idle = AutoTimer{Enabled: cfg.Idle.Enabled, Last: now, Interval: cfg.Idle.Interval, Variation: cfg.Idle.Variation}

	if cfg.Mood != MoodDefault {
		e.mood = cfg.Mood
		e.applyMood()
	}
	return e, nil
}

// Tick advances one frame: auto-timers, ramps and flicker, manual drive,
// then smoothing. Callers must serialize Tick with every other method.
func (e *Eyes) Tick(now time.Time, in Input) {
	e.updateTimers(now)
	e.updateBlink(now)
	dx, dy := e.updateShakes(now)
	e.updatePosition(dx, dy)
	e.manual.Update(in)
	e.geo.applySmoothing()
	e.frames++
}

// ============================================================================
// Geometry setters
// ============================================================================

// SetWidth changes the default width of each eye.
func (e *Eyes) SetWidth(left, right int) error {
	if left <= 0 || right <= 0 {
		return fmt.Errorf("%w: width %d/%d", ErrInvalidSize, left, right)
	}
	e.geo.left.Width.Default, e.geo.left.Width.Next = float64(left), float64(left)
	e.geo.right.Width.Default, e.geo.right.Width.Next = float64(right), float64(right)
	e.relayout()
	return nil
}

// SetHeight changes the default height of each eye.
func (e *Eyes) SetHeight(left, right int) error {
	if left <= 0 || right <= 0 {
		return fmt.Errorf("%w: height %d/%d", ErrInvalidSize, left, right)
	}
	for _, p := range []struct {
		eye *Eye
		h   float64
	}{{&e.geo.left, float64(left)}, {&e.geo.right, float64(right)}} {
		p.eye.Height.Default, p.eye.Height.Next = p.h, p.h
		p.eye.baseHeight = p.h
	}
	e.relayout()
	return nil
}

// SetBorderRadius changes the corner radius of each eye. Zero is allowed.
func (e *Eyes) SetBorderRadius(left, right int) error {
	if left < 0 || right < 0 {
		return fmt.Errorf("%w: radius %d/%d", ErrInvalidSize, left, right)
	}
	e.geo.left.Radius.Default, e.geo.left.Radius.Next = float64(left), float64(left)
	e.geo.right.Radius.Default, e.geo.right.Radius.Next = float64(right), float64(right)
	return nil
}

// SetSpaceBetween changes the gap between the eyes.
func (e *Eyes) SetSpaceBetween(px int) error {
	if px < 0 {
		return fmt.Errorf("%w: space between %d", ErrInvalidSize, px)
	}
	e.geo.space = px
	e.relayout()
	return nil
}

// SetScreenSize changes the surface the eyes are centered on.
func (e *Eyes) SetScreenSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidSize, width, height)
	}
	e.geo.screenW, e.geo.screenH = width, height
	e.relayout()
	return nil
}

// SetCyclops draws a single centered eye instead of two.
func (e *Eyes) SetCyclops(on bool) {
	e.geo.cyclops = on
	e.relayout()
}

// SetEyeShape sets the shape by name. Unknown names leave the shape unchanged.
func (e *Eyes) SetEyeShape(name string) error {
	s, err := ParseShape(name)
	if err != nil {
		return err
	}
	return e.SetShape(s)
}

// SetShape sets the eye shape.
func (e *Eyes) SetShape(s Shape) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}
	e.shape = s
	e.emit(EventShape, s.String())
	return nil
}

// SetManualControl toggles keyboard drive. Disabling zeroes the offset.
func (e *Eyes) SetManualControl(on bool) {
	e.manual.SetEnabled(on)
}

// relayout refreshes default positions and re-applies the mood sizes.
func (e *Eyes) relayout() {
	e.geo.resetDefaults()
	e.applyMood()
	e.aim()
}

// ============================================================================
// Accessors
// ============================================================================

// Mood returns the current mood.
func (e *Eyes) Mood() Mood { return e.mood }

// Position returns the current gaze direction.
func (e *Eyes) Position() Direction { return e.direction }

// Shape returns the current eye shape.
func (e *Eyes) Shape() Shape { return e.shape }

// Curiosity reports whether sideways enlargement is on.
func (e *Eyes) Curiosity() bool { return e.curiosity }

// Cyclops reports whether a single eye is drawn.
func (e *Eyes) Cyclops() bool { return e.geo.cyclops }

// IsBlinking reports whether a blink or wink is running.
func (e *Eyes) IsBlinking() bool { return e.blink.Active }

// IsWinking reports whether the running blink is a wink.
func (e *Eyes) IsWinking() bool { return e.blink.Active && e.winking }

// IsLaughing reports whether the laugh shake is running.
func (e *Eyes) IsLaughing() bool { return e.laugh.Active }

// IsConfused reports whether the confused shake is running.
func (e *Eyes) IsConfused() bool { return e.confused.Active }

// Manual returns the manual drive state.
func (e *Eyes) Manual() ManualDrive { return e.manual }

// Eye returns a copy of one eye's geometry.
func (e *Eyes) Eye(s Side) Eye { return *e.geo.eye(s) }

// Palette returns the drawing colors.
func (e *Eyes) Palette() Palette { return e.palette }

// SetPalette replaces the drawing colors.
func (e *Eyes) SetPalette(p Palette) { e.palette = p }

// ScreenSize returns the surface size the eyes are laid out on.
func (e *Eyes) ScreenSize() (width, height int) { return e.geo.screenW, e.geo.screenH }

// Now reads the clock the eyes were built with.
func (e *Eyes) Now() time.Time { return e.clock.Now() }
