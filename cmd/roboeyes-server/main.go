// roboeyes-server: Headless robot eyes with a web dashboard
// Serves state, JPEG frames and events over websockets and accepts commands
// over REST and remote controller sessions
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
	"github.com/teslashibe/go-roboeyes/internal/config"
	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/debug"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
	"github.com/teslashibe/go-roboeyes/pkg/web"
)

var (
	configPath = flag.String("config", "", "Path to roboeyes.yaml")
	port       = flag.String("port", "", "HTTP server port (overrides config)")
	autoplay   = flag.String("routine", "", "Routine to start with the loop")
	demo       = flag.Bool("demo", false, "Use the large demo eyes as defaults")
	debugMode  = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()
	debug.Enabled = *debugMode

	base := eyes.DefaultConfig()
	if *demo {
		base = eyes.DemoConfig()
	}
	level := ""
	if *debugMode {
		level = "debug"
	}
	env, err := boot.Build(boot.Options{ConfigPath: *configPath, Base: base, LogLevel: level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	wcfg := env.Config.WebConfig()
	wcfg.Port = config.ServerPort(wcfg.Port)
	if *port != "" {
		wcfg.Port = *port
	}
	wcfg.Debug = wcfg.Debug || *debugMode

	fmt.Println()
	fmt.Println("👀 RoboEyes server v" + web.Version)
	w, h := env.Eyes.ScreenSize()
	fmt.Printf("   %dx%d @ %dHz, %d routines\n", w, h, env.Loop.Stats().FPS, env.Routines.Count())
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := web.NewServer(env.Loop, wcfg)
	srv.SetRoutines(env.Routines)

	go func() {
		if err := env.Loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("eye loop failed", "error", err)
		}
	}()

	name := *autoplay
	if name == "" {
		name = env.Config.Routines.Autoplay
	}
	if name != "" {
		if err := env.Routines.Play(ctx, name); err != nil {
			log.Warn("autoplay failed", "routine", name, "error", err)
		}
	}

	go func() {
		if err := srv.Start(ctx); err != nil {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	fmt.Println("\n👋 Shutting down...")
	env.Routines.Stop()
	cancel()

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn("shutdown error", "error", err)
	}

	fmt.Println("✅ Goodbye!")
}
