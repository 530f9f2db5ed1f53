package driver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/canvas"
	"github.com/teslashibe/go-roboeyes/pkg/command"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

func newLoop(t *testing.T, cfg Config) *Loop {
	t.Helper()
	ecfg := eyes.DefaultConfig()
	ecfg.AutoBlink.Enabled = false
	ecfg.Idle.Enabled = false
	e, err := eyes.New(ecfg)
	if err != nil {
		t.Fatal(err)
	}
	return New(e, nil, cfg)
}

func TestNew_Defaults(t *testing.T) {
	l := newLoop(t, Config{})
	if st := l.Stats(); st.FPS != 60 {
		t.Errorf("FPS = %d, want 60", st.FPS)
	}
	if l.Registry().Count() == 0 {
		t.Error("nil registry should fall back to built-ins")
	}
}

func TestStep_FeedsSinksEveryN(t *testing.T) {
	l := newLoop(t, Config{FPS: 60, FrameEvery: 3})

	var frames []uint64
	l.AddSink(func(st eyes.State, c *canvas.Canvas) {
		frames = append(frames, st.Frames)
		if w, h := c.Size(); w != 640 || h != 320 {
			t.Errorf("canvas = %dx%d", w, h)
		}
	})

	now := time.Now()
	for i := 0; i < 9; i++ {
		l.Step(now.Add(time.Duration(i) * 16 * time.Millisecond))
	}

	if len(frames) != 3 {
		t.Fatalf("sink called %d times, want 3", len(frames))
	}
	if frames[0] != 3 || frames[2] != 9 {
		t.Errorf("frame counters = %v, want [3 6 9]", frames)
	}
	st := l.Stats()
	if st.Ticks != 9 || st.Frames != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestStep_PassesInput(t *testing.T) {
	l := newLoop(t, DefaultConfig())
	_ = l.Exec("manual", command.Args{"on": true})
	l.SetInput(InputFunc(func() eyes.Input { return eyes.Input{Right: true} }))

	l.Step(time.Now())
	if got := l.Snapshot().Manual.VelocityX; got != eyes.Acceleration {
		t.Errorf("velocity = %v, want %v", got, eyes.Acceleration)
	}
}

func TestExec_CountsErrors(t *testing.T) {
	l := newLoop(t, DefaultConfig())

	if err := l.Exec("mood", command.Args{"mood": "happy"}); err != nil {
		t.Fatalf("Exec(mood): %v", err)
	}
	if l.Snapshot().Mood != eyes.MoodHappy {
		t.Error("mood command not applied")
	}

	err := l.Exec("dance", nil)
	if !errors.Is(err, command.ErrNotFound) {
		t.Errorf("Exec(dance) = %v, want ErrNotFound", err)
	}
	if st := l.Stats(); st.Errors != 1 {
		t.Errorf("errors = %d, want 1", st.Errors)
	}
}

func TestRun_StopsOnContext(t *testing.T) {
	l := newLoop(t, Config{FPS: 200})
	var ticks atomic.Int64
	l.AddSink(func(eyes.State, *canvas.Canvas) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if !l.Stats().Running {
		t.Error("Stats().Running = false during Run")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if ticks.Load() == 0 {
		t.Error("no frames rendered while running")
	}
	if l.Stats().Running {
		t.Error("Stats().Running = true after Run returned")
	}
}

func TestStop_Idempotent(t *testing.T) {
	l := newLoop(t, DefaultConfig())
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	l.Stop()
	l.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v after Stop", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
