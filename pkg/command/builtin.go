package command

import (
	"fmt"
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// Default timer settings used when a command omits them.
const (
	DefaultBlinkInterval  = 3 * time.Second
	DefaultBlinkVariation = 2 * time.Second
	DefaultIdleInterval   = 2 * time.Second
	DefaultIdleVariation  = 2 * time.Second
	DefaultFlicker        = 2
)

// DefaultKey is the argument a bare word binds to for each built-in command.
var DefaultKey = map[string]string{
	"wink":      "side",
	"open":      "side",
	"close":     "side",
	"mood":      "mood",
	"look":      "direction",
	"shape":     "shape",
	"curiosity": "on",
	"cyclops":   "on",
	"autoblink": "on",
	"idle":      "on",
	"hflicker":  "amplitude",
	"vflicker":  "amplitude",
	"manual":    "on",
	"radius":    "radius",
	"space":     "px",
}

// NewBuiltinRegistry returns a registry holding every built-in command.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// RegisterBuiltins adds the built-in commands to r.
func RegisterBuiltins(r *Registry) {
	for _, cmd := range builtins {
		r.Register(cmd)
	}
}

var builtins = []Command{
	{
		Name:        "blink",
		Description: "Close and reopen both eyes",
		Run: func(e *eyes.Eyes, _ Args) error {
			e.Blink()
			return nil
		},
	},
	{
		Name:        "wink",
		Description: "Blink one eye",
		Usage:       "side=left|right",
		Run: func(e *eyes.Eyes, args Args) error {
			side, err := args.String("side", "left")
			if err != nil {
				return err
			}
			switch side {
			case "left", "l":
				e.Wink(true)
			case "right", "r":
				e.Wink(false)
			default:
				return fmt.Errorf("%w: side=%q", ErrInvalidArgs, side)
			}
			return nil
		},
	},
	{
		Name:        "close",
		Description: "Shut the eyelids until opened",
		Usage:       "side=both|left|right",
		Run: func(e *eyes.Eyes, args Args) error {
			left, right, err := sideArgs(args)
			if err != nil {
				return err
			}
			e.Close(left, right)
			return nil
		},
	},
	{
		Name:        "open",
		Description: "Open eyelids shut by close",
		Usage:       "side=both|left|right",
		Run: func(e *eyes.Eyes, args Args) error {
			left, right, err := sideArgs(args)
			if err != nil {
				return err
			}
			e.Open(left, right)
			return nil
		},
	},
	{
		Name:        "laugh",
		Description: "Shake the eyes up and down",
		Run: func(e *eyes.Eyes, _ Args) error {
			e.AnimLaugh()
			return nil
		},
	},
	{
		Name:        "confused",
		Description: "Shake the eyes side to side",
		Run: func(e *eyes.Eyes, _ Args) error {
			e.AnimConfused()
			return nil
		},
	},
	{
		Name:        "excited",
		Description: "Excited mood with flicker on both axes",
		Run: func(e *eyes.Eyes, _ Args) error {
			e.AnimExcited()
			return nil
		},
	},
	{
		Name:        "mood",
		Description: "Set the mood",
		Usage:       "mood=default|tired|angry|happy|excited",
		Run: func(e *eyes.Eyes, args Args) error {
			name, err := args.Require("mood")
			if err != nil {
				return err
			}
			m, err := eyes.ParseMood(name)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
			}
			return e.SetMood(m)
		},
	},
	{
		Name:        "look",
		Description: "Point the eyes in a compass direction",
		Usage:       "direction=center|n|ne|e|se|s|sw|w|nw",
		Run: func(e *eyes.Eyes, args Args) error {
			name, err := args.String("direction", "center")
			if err != nil {
				return err
			}
			d, err := eyes.ParseDirection(name)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
			}
			return e.SetPosition(d)
		},
	},
	{
		Name:        "shape",
		Description: "Set the eye shape",
		Usage:       "shape=round|square|oval|teardrop|pill",
		Run: func(e *eyes.Eyes, args Args) error {
			name, err := args.Require("shape")
			if err != nil {
				return err
			}
			if err := e.SetEyeShape(name); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
			}
			return nil
		},
	},
	{
		Name:        "curiosity",
		Description: "Enlarge the outer eye when looking sideways (toggles without on=)",
		Usage:       "on=true|false",
		Run: func(e *eyes.Eyes, args Args) error {
			on, err := args.Bool("on", !e.Curiosity())
			if err != nil {
				return err
			}
			e.SetCuriosity(on)
			return nil
		},
	},
	{
		Name:        "cyclops",
		Description: "Draw a single centered eye (toggles without on=)",
		Usage:       "on=true|false",
		Run: func(e *eyes.Eyes, args Args) error {
			on, err := args.Bool("on", !e.Cyclops())
			if err != nil {
				return err
			}
			e.SetCyclops(on)
			return nil
		},
	},
	{
		Name:        "autoblink",
		Description: "Configure automatic blinking",
		Usage:       "on=true|false interval=3s variation=2s",
		Run: func(e *eyes.Eyes, args Args) error {
			on, interval, variation, err := timerArgs(args, DefaultBlinkInterval, DefaultBlinkVariation)
			if err != nil {
				return err
			}
			return e.SetAutoBlinker(on, interval, variation)
		},
	},
	{
		Name:        "idle",
		Description: "Configure idle wandering",
		Usage:       "on=true|false interval=2s variation=2s",
		Run: func(e *eyes.Eyes, args Args) error {
			on, interval, variation, err := timerArgs(args, DefaultIdleInterval, DefaultIdleVariation)
			if err != nil {
				return err
			}
			return e.SetIdleMode(on, interval, variation)
		},
	},
	{
		Name:        "hflicker",
		Description: "Jitter the eyes horizontally (amplitude 0 turns it off)",
		Usage:       "amplitude=2 on=true|false",
		Run: func(e *eyes.Eyes, args Args) error {
			on, amp, err := flickerArgs(args)
			if err != nil {
				return err
			}
			return e.SetHFlicker(on, amp)
		},
	},
	{
		Name:        "vflicker",
		Description: "Jitter the eyes vertically (amplitude 0 turns it off)",
		Usage:       "amplitude=2 on=true|false",
		Run: func(e *eyes.Eyes, args Args) error {
			on, amp, err := flickerArgs(args)
			if err != nil {
				return err
			}
			return e.SetVFlicker(on, amp)
		},
	},
	{
		Name:        "manual",
		Description: "Drive the eyes with the arrow keys (toggles without on=)",
		Usage:       "on=true|false",
		Run: func(e *eyes.Eyes, args Args) error {
			on, err := args.Bool("on", !e.Manual().Enabled)
			if err != nil {
				return err
			}
			e.SetManualControl(on)
			return nil
		},
	},
	{
		Name:        "size",
		Description: "Set the default eye size",
		Usage:       "width=80 height=80 (or left_width/right_width/left_height/right_height)",
		Run: func(e *eyes.Eyes, args Args) error {
			l, r := e.Eye(eyes.Left), e.Eye(eyes.Right)
			lw, rw, err := pairArgs(args, "width", int(l.Width.Default), int(r.Width.Default))
			if err != nil {
				return err
			}
			lh, rh, err := pairArgs(args, "height", int(l.Height.Default), int(r.Height.Default))
			if err != nil {
				return err
			}
			if lh <= 0 || rh <= 0 {
				return fmt.Errorf("%w: height %d/%d", eyes.ErrInvalidSize, lh, rh)
			}
			if err := e.SetWidth(lw, rw); err != nil {
				return err
			}
			return e.SetHeight(lh, rh)
		},
	},
	{
		Name:        "radius",
		Description: "Set the corner radius of both eyes",
		Usage:       "radius=8",
		Run: func(e *eyes.Eyes, args Args) error {
			if !args.Has("radius") {
				return fmt.Errorf("%w: missing radius", ErrInvalidArgs)
			}
			radius, err := args.Int("radius", 0)
			if err != nil {
				return err
			}
			return e.SetBorderRadius(radius, radius)
		},
	},
	{
		Name:        "space",
		Description: "Set the gap between the eyes",
		Usage:       "px=10",
		Run: func(e *eyes.Eyes, args Args) error {
			if !args.Has("px") {
				return fmt.Errorf("%w: missing px", ErrInvalidArgs)
			}
			px, err := args.Int("px", 0)
			if err != nil {
				return err
			}
			return e.SetSpaceBetween(px)
		},
	},
	{
		Name:        "reset",
		Description: "Default mood, two eyes, centered, no flicker or manual drive",
		Run: func(e *eyes.Eyes, _ Args) error {
			Reset(e)
			return nil
		},
	},
}

// Reset returns the eyes to a neutral pose.
func Reset(e *eyes.Eyes) {
	_ = e.SetMood(eyes.MoodDefault)
	e.SetCyclops(false)
	e.Open(true, true)
	_ = e.SetPosition(eyes.Center)
	_ = e.SetHFlicker(false, 0)
	_ = e.SetVFlicker(false, 0)
	e.SetManualControl(false)
}

// sideArgs reads which eyes a lid command applies to.
func sideArgs(args Args) (left, right bool, err error) {
	side, err := args.String("side", "both")
	if err != nil {
		return false, false, err
	}
	switch side {
	case "both", "":
		return true, true, nil
	case "left", "l":
		return true, false, nil
	case "right", "r":
		return false, true, nil
	}
	return false, false, fmt.Errorf("%w: side=%q", ErrInvalidArgs, side)
}

func timerArgs(args Args, defInterval, defVariation time.Duration) (bool, time.Duration, time.Duration, error) {
	on, err := args.Bool("on", true)
	if err != nil {
		return false, 0, 0, err
	}
	interval, err := args.Duration("interval", defInterval)
	if err != nil {
		return false, 0, 0, err
	}
	variation, err := args.Duration("variation", defVariation)
	if err != nil {
		return false, 0, 0, err
	}
	return on, interval, variation, nil
}

func flickerArgs(args Args) (bool, int, error) {
	amp, err := args.Int("amplitude", DefaultFlicker)
	if err != nil {
		return false, 0, err
	}
	on, err := args.Bool("on", amp > 0)
	if err != nil {
		return false, 0, err
	}
	return on, amp, nil
}

// pairArgs reads key for both eyes, with left_key and right_key overriding it.
func pairArgs(args Args, key string, defLeft, defRight int) (int, int, error) {
	both, err := args.Int(key, 0)
	if err != nil {
		return 0, 0, err
	}
	if args.Has(key) {
		defLeft, defRight = both, both
	}
	left, err := args.Int("left_"+key, defLeft)
	if err != nil {
		return 0, 0, err
	}
	right, err := args.Int("right_"+key, defRight)
	if err != nil {
		return 0, 0, err
	}
	return left, right, nil
}
