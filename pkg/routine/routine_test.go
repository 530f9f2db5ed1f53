package routine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/command"
	"github.com/teslashibe/go-roboeyes/pkg/driver"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// recorder is an Executor that remembers every command it ran.
type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (r *recorder) Exec(name string, _ command.Args) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	if r.fail[name] {
		return command.ErrInvalidArgs
	}
	return nil
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func mustParse(t *testing.T, name, data string) *Routine {
	t.Helper()
	r, err := Parse(name, []byte(data))
	if err != nil {
		t.Fatalf("Parse(%s): %v", name, err)
	}
	return r
}

func TestEmbedded_ParseAndValidate(t *testing.T) {
	names, err := ListEmbedded()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) < 4 {
		t.Fatalf("embedded routines = %v", names)
	}

	cmds := command.NewBuiltinRegistry()
	for _, name := range names {
		r, err := LoadEmbedded(name)
		if err != nil {
			t.Errorf("LoadEmbedded(%s): %v", name, err)
			continue
		}
		if r.Description == "" {
			t.Errorf("%s has no description", name)
		}
		if err := Validate(r, cmds); err != nil {
			t.Errorf("Validate(%s): %v", name, err)
		}
	}

	mc, err := LoadEmbedded("mood-cycle")
	if err != nil {
		t.Fatal(err)
	}
	if !mc.Loop || mc.Duration != 20*time.Second || len(mc.Steps) != 4 {
		t.Errorf("mood-cycle = loop %v, %v, %d steps", mc.Loop, mc.Duration, len(mc.Steps))
	}
}

func TestLoadEmbedded_NotFound(t *testing.T) {
	if _, err := LoadEmbedded("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestParse(t *testing.T) {
	r := mustParse(t, "x", `{"steps":[{"at":1,"command":"b"},{"at":0.5,"command":"a"},{"at":1,"command":"c"}]}`)
	got := []string{r.Steps[0].Command, r.Steps[1].Command, r.Steps[2].Command}
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("order = %v, want [a b c]", got)
	}
	if r.Duration != time.Second {
		t.Errorf("duration = %v, want last step offset", r.Duration)
	}

	bad := map[string]string{
		"json":      `{`,
		"empty":     `{"steps":[]}`,
		"command":   `{"steps":[{"at":0}]}`,
		"negative":  `{"steps":[{"at":-1,"command":"blink"}]}`,
		"short":     `{"duration":1,"steps":[{"at":2,"command":"blink"}]}`,
		"zero loop": `{"loop":true,"steps":[{"at":0,"command":"blink"}]}`,
	}
	for name, data := range bad {
		if _, err := Parse(name, []byte(data)); !errors.Is(err, ErrInvalidRoutine) {
			t.Errorf("%s: err = %v, want ErrInvalidRoutine", name, err)
		}
	}
}

func TestValidate_UnknownCommand(t *testing.T) {
	r := mustParse(t, "x", `{"steps":[{"at":0,"command":"fly"}]}`)
	err := Validate(r, command.NewBuiltinRegistry())
	if !errors.Is(err, ErrInvalidRoutine) || !errors.Is(err, command.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestPlayer_RunsStepsInOrder(t *testing.T) {
	r := mustParse(t, "seq", `{"steps":[
		{"at":0,"command":"a"},
		{"at":0.02,"command":"b"},
		{"at":0.04,"command":"c"}]}`)
	rec := &recorder{}
	p := NewPlayer()

	if err := p.Play(context.Background(), r, rec); err != nil {
		t.Fatal(err)
	}
	got := rec.Calls()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("calls = %v", got)
	}
	if p.State() != StateStopped || p.Current() != nil {
		t.Errorf("after play: %v, %v", p.State(), p.Current())
	}
}

func TestPlayer_SpeedScalesTime(t *testing.T) {
	r := mustParse(t, "slow", `{"steps":[{"at":0,"command":"a"},{"at":2,"command":"b"}]}`)
	rec := &recorder{}
	start := time.Now()
	if err := NewPlayer().PlayWithOptions(context.Background(), r, rec, Options{Speed: 50}); err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d > time.Second {
		t.Errorf("2s routine at 50x took %v", d)
	}
	if len(rec.Calls()) != 2 {
		t.Errorf("calls = %v", rec.Calls())
	}
}

func TestPlayer_FailingStepContinues(t *testing.T) {
	r := mustParse(t, "f", `{"steps":[{"at":0,"command":"bad"},{"at":0.01,"command":"good"}]}`)
	rec := &recorder{fail: map[string]bool{"bad": true}}
	p := NewPlayer()
	if err := p.Play(context.Background(), r, rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.Calls()) != 2 {
		t.Errorf("calls = %v", rec.Calls())
	}
	if p.Failures() != 1 {
		t.Errorf("failures = %d, want 1", p.Failures())
	}
}

func TestPlayer_LoopUntilStopped(t *testing.T) {
	r := mustParse(t, "loop", `{"loop":true,"duration":0.02,"steps":[{"at":0,"command":"tick"}]}`)
	rec := &recorder{}
	p := NewPlayer()

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background(), r, rec) }()

	waitFor(t, "three passes", func() bool { return len(rec.Calls()) >= 3 })
	p.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Play = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Play did not return after Stop")
	}
	if p.State() != StateStopped {
		t.Errorf("state = %v", p.State())
	}
}

func TestPlayer_PauseResume(t *testing.T) {
	r := mustParse(t, "p", `{"steps":[{"at":0,"command":"a"},{"at":0.3,"command":"b"}]}`)
	rec := &recorder{}
	p := NewPlayer()

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background(), r, rec) }()
	waitFor(t, "first step", func() bool { return len(rec.Calls()) == 1 })

	p.Pause()
	if p.State() != StatePaused {
		t.Fatalf("state = %v, want paused", p.State())
	}
	time.Sleep(100 * time.Millisecond)
	if n := len(rec.Calls()); n != 1 {
		t.Fatalf("paused player ran %d steps", n)
	}

	p.Resume()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if n := len(rec.Calls()); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestPlayer_ContextCancel(t *testing.T) {
	r := mustParse(t, "long", `{"steps":[{"at":0,"command":"a"},{"at":60,"command":"b"}]}`)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := NewPlayer().Play(ctx, r, &recorder{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestPlayer_Errors(t *testing.T) {
	r := mustParse(t, "long", `{"steps":[{"at":0,"command":"a"},{"at":60,"command":"b"}]}`)
	p := NewPlayer()
	if err := p.Play(context.Background(), r, nil); !errors.Is(err, ErrNoExecutor) {
		t.Errorf("nil executor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	go func() { _ = p.Play(ctx, r, rec) }()
	waitFor(t, "playing", func() bool { return p.State() == StatePlaying })

	if err := p.Play(ctx, r, rec); !errors.Is(err, ErrAlreadyPlaying) {
		t.Errorf("second play: %v", err)
	}
	p.Stop()
}

func TestRegistry(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(rec)
	if err := reg.LoadBuiltIn(); err != nil {
		t.Fatal(err)
	}
	if err := reg.Validate(command.NewBuiltinRegistry()); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Get("greet"); err != nil {
		t.Error(err)
	}
	if _, err := reg.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) = %v", err)
	}
	if got := reg.Search("BLINK"); len(got) != 1 || got[0] != "sleepy" {
		t.Errorf("Search = %v", got)
	}
	if d := reg.Describe(); d["mood-cycle"] == "" {
		t.Error("mood-cycle missing description")
	}

	dir := t.TempDir()
	custom := `{"description":"custom greeting","steps":[{"at":0,"command":"blink"}]}`
	if err := os.WriteFile(filepath.Join(dir, "greet.json"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}
	before := reg.Count()
	if err := reg.LoadCustomDir(dir); err != nil {
		t.Fatal(err)
	}
	if reg.Count() != before {
		t.Errorf("override changed count %d -> %d", before, reg.Count())
	}
	if g, _ := reg.Get("greet"); g.Description != "custom greeting" {
		t.Errorf("greet = %q", g.Description)
	}
}

func TestRegistry_PlayReplaces(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(rec)
	reg.Register(mustParse(t, "a", `{"loop":true,"duration":0.05,"steps":[{"at":0,"command":"a"}]}`))
	reg.Register(mustParse(t, "b", `{"loop":true,"duration":0.05,"steps":[{"at":0,"command":"b"}]}`))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reg.Play(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if reg.Current() != "a" || !reg.IsPlaying() {
		t.Errorf("current = %q", reg.Current())
	}
	if err := reg.Play(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	if reg.Current() != "b" {
		t.Errorf("current = %q, want b", reg.Current())
	}
	reg.Stop()
	if reg.State() != StateStopped {
		t.Errorf("state = %v", reg.State())
	}
	if err := reg.Play(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Play(missing) = %v", err)
	}
}

func TestRegistry_DrivesLoop(t *testing.T) {
	cfg := eyes.DefaultConfig()
	cfg.AutoBlink.Enabled = false
	cfg.Idle.Enabled = false
	e, err := eyes.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	loop := driver.New(e, nil, driver.Config{})

	var moods []string
	_ = loop.Do(func(e *eyes.Eyes) error {
		e.AddListener(func(ev eyes.Event) {
			if ev.Type == eyes.EventMood {
				moods = append(moods, ev.Detail)
			}
		})
		return nil
	})

	reg := NewRegistry(loop)
	if err := reg.LoadBuiltIn(); err != nil {
		t.Fatal(err)
	}
	rt, _ := reg.Get("surprise")
	if err := NewPlayer().PlayWithOptions(context.Background(), rt, loop, Options{Speed: 100}); err != nil {
		t.Fatal(err)
	}

	if st := loop.Snapshot(); st.Mood != eyes.MoodDefault {
		t.Errorf("mood after surprise = %v", st.Mood)
	}
	if len(moods) != 2 || moods[0] != "excited" || moods[1] != "default" {
		t.Errorf("mood events = %v", moods)
	}
}
