// roboeyes: Animated robot eyes in an OpenCV window
// Keys pick moods and trigger animations, arrows drive the eyes in manual mode
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-roboeyes/internal/boot"
	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/controls"
	"github.com/teslashibe/go-roboeyes/pkg/debug"
	"github.com/teslashibe/go-roboeyes/pkg/display/cvwindow"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
	"github.com/teslashibe/go-roboeyes/pkg/web"
)

var (
	configPath  = flag.String("config", "", "Path to roboeyes.yaml")
	noCycle     = flag.Bool("no-cycle", false, "Disable the automatic mood cycle")
	serve       = flag.Bool("web", false, "Also serve the dashboard and control API")
	debugMode   = flag.Bool("debug", false, "Enable debug logging")
	debugFrames = flag.Bool("debug-frames", false, "Log every frame (very verbose)")
)

func main() {
	flag.Parse()
	debug.Enabled = *debugMode
	debug.Frames = *debugFrames

	level := ""
	if *debugMode {
		level = "debug"
	}
	env, err := boot.Build(boot.Options{ConfigPath: *configPath, Base: eyes.DemoConfig(), LogLevel: level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hold := controls.NewHold()
	env.Loop.SetInput(hold)
	keys := controls.DefaultKeymap()
	env.PrintMoods(func(format string, args ...any) { fmt.Printf(format, args...) })

	autoplay := env.Config.Routines.Autoplay
	if autoplay == "" && !*noCycle {
		autoplay = "mood-cycle"
	}
	if autoplay != "" {
		if err := env.Routines.Play(ctx, autoplay); err != nil {
			log.Warn("autoplay failed", "routine", autoplay, "error", err)
		}
	}

	if *serve {
		srv := web.NewServer(env.Loop, env.Config.WebConfig())
		srv.SetRoutines(env.Routines)
		srv.StartAsync(ctx)
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	w, h := env.Eyes.ScreenSize()
	win := cvwindow.Open("RoboEyes", w, h)
	defer win.Close()

	fmt.Println()
	fmt.Println("👀 RoboEyes")
	fmt.Println("--------------------")
	fmt.Println("Press ESC or close the window to exit")
	fmt.Println("Arrows move the eyes in manual mode")
	fmt.Println(keys.Help())

	// HighGUI must be driven from this goroutine, so the loop is stepped
	// here instead of through Loop.Run.
	ticker := time.NewTicker(time.Second / time.Duration(env.Loop.Stats().FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n👋 Goodbye!")
			return
		case now := <-ticker.C:
			env.Loop.Step(now)
			win.Draw(env.Loop.Render)

			key, ok := win.PollKey(1)
			if ok {
				if key.Escape {
					fmt.Println("👋 Goodbye!")
					return
				}
				if b, handled, err := controls.Dispatch(key, keys, hold, env.Loop.Exec); err != nil {
					log.Warn("key failed", "key", string(key.Rune), "error", err)
				} else if handled && b.Help != "" {
					fmt.Println(b.Help)
				}
			}
			if !win.IsOpen() {
				return
			}
		}
	}
}
