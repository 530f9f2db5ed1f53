// roboeyes-term: Animated robot eyes in the terminal
// Same keys as the window demo, drawn with half-block cells, optional chirps
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-roboeyes/internal/boot"
	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/canvas"
	"github.com/teslashibe/go-roboeyes/pkg/chirp"
	"github.com/teslashibe/go-roboeyes/pkg/controls"
	"github.com/teslashibe/go-roboeyes/pkg/debug"
	"github.com/teslashibe/go-roboeyes/pkg/display/term"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

var (
	configPath = flag.String("config", "", "Path to roboeyes.yaml")
	logPath    = flag.String("log", "", "Write logs to this file (default: discard)")
	sound      = flag.Bool("chirp", false, "Play chirps on blinks, winks and mood changes")
	noCycle    = flag.Bool("no-cycle", false, "Disable the automatic mood cycle")
	debugMode  = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	debug.Enabled = *debugMode

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}

	level := ""
	if *debugMode {
		level = "debug"
	}
	env, err := boot.Build(boot.Options{
		ConfigPath: *configPath,
		Base:       eyes.DemoConfig(),
		LogLevel:   level,
		LogWriter:  logOut,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if err := run(env); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Println("👋 Goodbye!")
}

func run(env *boot.Env) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	w, h := env.Eyes.ScreenSize()
	disp, err := term.Open(w, h)
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer disp.Close()

	hold := controls.NewHold()
	env.Loop.SetInput(hold)
	bg := env.Eyes.Palette().Background
	env.Loop.AddSink(func(_ eyes.State, c *canvas.Canvas) { disp.Present(c, bg) })

	if *sound || env.Config.Chirp.Enabled {
		player := chirp.New(env.Config.ChirpConfig())
		if err := player.Open(); err != nil {
			log.Warn("chirps disabled", "error", err)
		} else {
			defer player.Close()
			_ = env.Loop.Do(func(e *eyes.Eyes) error {
				e.AddListener(player.Listener())
				return nil
			})
			go player.Run(ctx)
		}
	}

	autoplay := env.Config.Routines.Autoplay
	if autoplay == "" && !*noCycle {
		autoplay = "mood-cycle"
	}
	if autoplay != "" {
		if err := env.Routines.Play(ctx, autoplay); err != nil {
			log.Warn("autoplay failed", "routine", autoplay, "error", err)
		}
	}

	loopDone := make(chan error, 1)
	go func() { loopDone <- env.Loop.Run(ctx) }()

	keys := controls.DefaultKeymap()
	input := disp.Keys(ctx)
	for {
		select {
		case <-ctx.Done():
			return waitLoop(loopDone)
		case err := <-loopDone:
			return err
		case key, ok := <-input:
			if !ok || key.Escape {
				cancel()
				return waitLoop(loopDone)
			}
			b, handled, err := controls.Dispatch(key, keys, hold, env.Loop.Exec)
			if err != nil {
				log.Warn("key failed", "key", string(key.Rune), "error", err)
			} else if handled && b.Help != "" {
				log.Info(b.Help)
			}
		}
	}
}

func waitLoop(done <-chan error) error {
	err := <-done
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
