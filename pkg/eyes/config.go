package eyes

import (
	"fmt"
	"image/color"
	"time"
)

// Palette holds the two colors used to paint a frame. Eyelids are drawn in
// the background color.
type Palette struct {
	Background color.RGBA
	Eye        color.RGBA
}

// DefaultPalette is cyan eyes on black.
func DefaultPalette() Palette {
	return Palette{
		Background: color.RGBA{A: 0xff},
		Eye:        color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff},
	}
}

// TimerConfig configures a jittered auto-timer.
type TimerConfig struct {
	Enabled   bool
	Interval  time.Duration
	Variation time.Duration
}

func (t TimerConfig) validate(name string) error {
	if !t.Enabled {
		return nil
	}
	if t.Interval <= 0 {
		return fmt.Errorf("%w: %s interval %v", ErrInvalidDuration, name, t.Interval)
	}
	if t.Variation < 0 {
		return fmt.Errorf("%w: %s variation %v", ErrInvalidDuration, name, t.Variation)
	}
	return nil
}

// Config holds the initial geometry, behavior and timing of an Eyes value.
type Config struct {
	// Drawing surface size in pixels.
	ScreenWidth  int
	ScreenHeight int

	// Default size of each eye, applied to both.
	Width  int
	Height int

	// Corner radius (square eyes use min(w,h)/3 when drawn; this value is
	// tracked and smoothed for State).
	Radius int

	// Horizontal gap between the eyes.
	SpaceBetween int

	Shape     Shape
	Mood      Mood
	Cyclops   bool
	Curiosity bool

	Palette Palette

	BlinkDuration    time.Duration
	LaughDuration    time.Duration
	ConfusedDuration time.Duration

	AutoBlink TimerConfig
	Idle      TimerConfig
}

// DefaultConfig returns the stock eyes: 36x36 cyan round eyes with a 10px gap
// on a 640x320 surface, auto-blink every 3-5s and idle wander every 2-4s.
func DefaultConfig() Config {
	return Config{
		ScreenWidth:      640,
		ScreenHeight:     320,
		Width:            36,
		Height:           36,
		Radius:           8,
		SpaceBetween:     10,
		Shape:            ShapeRound,
		Mood:             MoodDefault,
		Palette:          DefaultPalette(),
		BlinkDuration:    300 * time.Millisecond,
		LaughDuration:    time.Second,
		ConfusedDuration: time.Second,
		AutoBlink: TimerConfig{
			Enabled:   true,
			Interval:  3 * time.Second,
			Variation: 2 * time.Second,
		},
		Idle: TimerConfig{
			Enabled:   true,
			Interval:  2 * time.Second,
			Variation: 2 * time.Second,
		},
	}
}

// DemoConfig returns the larger eyes used by the interactive front ends:
// 80x80 eyes, radius 20, 40px gap, curiosity on, idle wander every 4-6s.
func DemoConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 80
	cfg.Height = 80
	cfg.Radius = 20
	cfg.SpaceBetween = 40
	cfg.Curiosity = true
	cfg.Idle.Interval = 4 * time.Second
	return cfg
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidSize, c.ScreenWidth, c.ScreenHeight)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: eye %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if c.Radius < 0 {
		return fmt.Errorf("%w: radius %d", ErrInvalidSize, c.Radius)
	}
	if c.SpaceBetween < 0 {
		return fmt.Errorf("%w: space between %d", ErrInvalidSize, c.SpaceBetween)
	}
	if !c.Shape.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownShape, int(c.Shape))
	}
	if !c.Mood.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMood, int(c.Mood))
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"blink", c.BlinkDuration},
		{"laugh", c.LaughDuration},
		{"confused", c.ConfusedDuration},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%w: %s duration %v", ErrInvalidDuration, d.name, d.d)
		}
	}
	if err := c.AutoBlink.validate("auto-blink"); err != nil {
		return err
	}
	return c.Idle.validate("idle")
}
