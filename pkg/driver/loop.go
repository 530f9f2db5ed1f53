// Package driver runs the per-frame loop around an eyes.Eyes value.
//
// Loop owns the ticker, serializes every mutation behind one mutex, reads the
// held keys from an InputSource and renders frames for registered sinks.
package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/canvas"
	"github.com/teslashibe/go-roboeyes/pkg/command"
	"github.com/teslashibe/go-roboeyes/pkg/debug"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// InputSource reports the direction keys held for the next frame.
type InputSource interface {
	Input() eyes.Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func() eyes.Input

// Input calls f.
func (f InputFunc) Input() eyes.Input { return f() }

// FrameSink receives every rendered frame. The canvas is reused for the
// next frame, so sinks must copy or encode it before returning.
type FrameSink func(st eyes.State, c *canvas.Canvas)

// Config configures the loop.
type Config struct {
	// FPS is the tick rate.
	FPS int

	// FrameEvery renders sinks every N ticks (1 = every tick).
	FrameEvery int
}

// DefaultConfig ticks at 60Hz and renders every frame.
func DefaultConfig() Config {
	return Config{FPS: 60, FrameEvery: 1}
}

// Stats are loop diagnostics.
type Stats struct {
	Running bool   `json:"running"`
	FPS     int    `json:"fps"`
	Ticks   uint64 `json:"ticks"`
	Frames  uint64 `json:"frames"`
	Errors  uint64 `json:"errors"`
}

// Loop drives one Eyes value.
type Loop struct {
	mu       sync.Mutex
	eyes     *eyes.Eyes
	registry *command.Registry
	input    InputSource

	sinkMu sync.RWMutex
	sinks  []FrameSink
	canvas *canvas.Canvas

	fps        int
	rate       time.Duration
	frameEvery uint64

	stop     chan struct{}
	stopOnce sync.Once
	running  bool

	// Diagnostics
	tickCount  uint64
	frameCount uint64
	errorCount uint64
}

// New creates a loop around e. A nil registry uses the built-in commands.
func New(e *eyes.Eyes, reg *command.Registry, cfg Config) *Loop {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultConfig().FPS
	}
	if cfg.FrameEvery <= 0 {
		cfg.FrameEvery = 1
	}
	if reg == nil {
		reg = command.NewBuiltinRegistry()
	}
	w, h := e.ScreenSize()
	return &Loop{
		eyes:       e,
		registry:   reg,
		input:      InputFunc(func() eyes.Input { return eyes.Input{} }),
		canvas:     canvas.New(w, h),
		fps:        cfg.FPS,
		rate:       time.Second / time.Duration(cfg.FPS),
		frameEvery: uint64(cfg.FrameEvery),
		stop:       make(chan struct{}),
	}
}

// SetInput replaces the input source.
func (l *Loop) SetInput(src InputSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if src != nil {
		l.input = src
	}
}

// AddSink registers a frame sink.
func (l *Loop) AddSink(s FrameSink) {
	l.sinkMu.Lock()
	defer l.sinkMu.Unlock()
	l.sinks = append(l.sinks, s)
}

// Registry returns the command registry used by Exec.
func (l *Loop) Registry() *command.Registry { return l.registry }

// Do runs fn with exclusive access to the eyes.
func (l *Loop) Do(fn func(*eyes.Eyes) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := fn(l.eyes); err != nil {
		l.errorCount++
		return err
	}
	return nil
}

// Exec runs a registered command under the loop lock.
func (l *Loop) Exec(name string, args command.Args) error {
	err := l.Do(func(e *eyes.Eyes) error {
		return l.registry.Execute(e, name, args)
	})
	if err != nil {
		log.Debug("command failed", "command", name, "error", err)
	}
	return err
}

// Snapshot returns the current state.
func (l *Loop) Snapshot() eyes.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eyes.State()
}

// Render paints the current frame onto s under the loop lock.
func (l *Loop) Render(s eyes.Surface) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.eyes.Render(s)
}

// Step advances one tick at now and feeds the sinks when a frame is due.
// Step must not be called concurrently with itself.
func (l *Loop) Step(now time.Time) {
	l.mu.Lock()
	in := l.input.Input()
	l.eyes.Tick(now, in)
	l.tickCount++
	ticks := l.tickCount

	render := ticks%l.frameEvery == 0 && l.hasSinks()
	var st eyes.State
	if render {
		w, h := l.eyes.ScreenSize()
		l.canvas.Resize(w, h)
		l.eyes.Render(l.canvas)
		st = l.eyes.State()
		l.frameCount++
	}
	frames, errs := l.frameCount, l.errorCount
	l.mu.Unlock()

	if render {
		start := time.Now()
		l.sinkMu.RLock()
		for _, sink := range l.sinks {
			sink(st, l.canvas)
		}
		l.sinkMu.RUnlock()
		debug.FrameLog("🖼️  frame %d sinks took %v\n", ticks, time.Since(start))
	}

	if debug.Enabled && ticks%uint64(l.fps*10) == 0 {
		fmt.Printf("💓 Loop: %d ticks, %d frames, %d errors\n", ticks, frames, errs)
	}
}

func (l *Loop) hasSinks() bool {
	l.sinkMu.RLock()
	defer l.sinkMu.RUnlock()
	return len(l.sinks) > 0
}

// Run ticks until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.rate)
	defer ticker.Stop()

	l.mu.Lock()
	l.running = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
	}()

	log.Info("eye loop started", "fps", l.fps)

	for {
		select {
		case <-ctx.Done():
			log.Info("eye loop stopped")
			return ctx.Err()
		case <-l.stop:
			log.Info("eye loop stopped")
			return nil
		case now := <-ticker.C:
			l.Step(now)
		}
	}
}

// Stop halts Run. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Stats returns loop diagnostics.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		Running: l.running,
		FPS:     l.fps,
		Ticks:   l.tickCount,
		Frames:  l.frameCount,
		Errors:  l.errorCount,
	}
}
