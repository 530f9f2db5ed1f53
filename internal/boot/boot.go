// Package boot builds the pieces every roboeyes command shares: settings,
// the eyes, the frame loop and the routine registry.
package boot

import (
	"fmt"
	"io"

	"github.com/teslashibe/go-roboeyes/internal/config"
	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/driver"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
	"github.com/teslashibe/go-roboeyes/pkg/routine"
)

// Env is a ready-to-run set of components.
type Env struct {
	Config   *config.File
	Eyes     *eyes.Eyes
	Loop     *driver.Loop
	Routines *routine.Registry
}

// Options tune Build.
type Options struct {
	// ConfigPath is an explicit settings file. Empty searches the defaults.
	ConfigPath string

	// Base supplies defaults for settings the file leaves out.
	Base eyes.Config

	// LogLevel overrides log.level when non-empty.
	LogLevel string

	// LogWriter sends logs somewhere other than stdout.
	LogWriter io.Writer
}

// Build loads settings, initializes logging and wires the loop and routines.
func Build(opts Options) (*Env, error) {
	if opts.Base.ScreenWidth == 0 {
		opts.Base = eyes.DefaultConfig()
	}

	f, err := config.Load(opts.ConfigPath, opts.Base)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		f.Log.Level = opts.LogLevel
	}
	if opts.LogWriter != nil {
		log.InitWriter(opts.LogWriter, f.Log.Level)
	} else {
		log.Init(f.Log.Level)
	}

	ecfg, err := f.EyesConfig()
	if err != nil {
		return nil, err
	}
	e, err := eyes.New(ecfg)
	if err != nil {
		return nil, err
	}
	loop := driver.New(e, nil, f.DriverConfig())

	routines := routine.NewRegistry(loop)
	if err := routines.LoadBuiltIn(); err != nil {
		return nil, err
	}
	if f.Routines.Dir != "" {
		if err := routines.LoadCustomDir(f.Routines.Dir); err != nil {
			return nil, err
		}
	}
	if err := routines.Validate(loop.Registry()); err != nil {
		return nil, err
	}
	if name := f.Routines.Autoplay; name != "" {
		if _, err := routines.Get(name); err != nil {
			return nil, fmt.Errorf("routines.autoplay: %w", err)
		}
	}

	log.Debug("eyes ready",
		"screen", fmt.Sprintf("%dx%d", ecfg.ScreenWidth, ecfg.ScreenHeight),
		"fps", f.Loop.FPS,
		"routines", routines.Count())

	return &Env{Config: f, Eyes: e, Loop: loop, Routines: routines}, nil
}

// PrintMoods logs every mood change to stdout, the way the demo reports the
// automatic mood cycle.
func (env *Env) PrintMoods(printf func(format string, args ...any)) {
	_ = env.Loop.Do(func(e *eyes.Eyes) error {
		e.AddListener(func(ev eyes.Event) {
			if ev.Type == eyes.EventMood {
				printf("Mood: %s\n", ev.Detail)
			}
		})
		return nil
	})
}
