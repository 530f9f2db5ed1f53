package routine

import (
	"context"
	"sync"
	"time"

	"github.com/teslashibe/go-roboeyes/internal/log"
)

// Player runs one routine at a time.
type Player struct {
	mu      sync.RWMutex
	state   PlaybackState
	routine *Routine
	opts    Options
	startAt time.Time
	// elapsed playback time banked before the last pause
	banked time.Duration
	stopCh chan struct{}

	// failures counts step commands that returned an error
	failures int
}

// NewPlayer creates a stopped player.
func NewPlayer() *Player {
	return &Player{
		state:  StateStopped,
		opts:   DefaultOptions(),
		stopCh: make(chan struct{}),
	}
}

// Play runs r with default options. It blocks until the routine ends, is
// stopped, or ctx is cancelled.
func (p *Player) Play(ctx context.Context, r *Routine, exec Executor) error {
	return p.PlayWithOptions(ctx, r, exec, DefaultOptions())
}

// PlayWithOptions runs r with custom options. A failing step is logged and
// playback continues.
func (p *Player) PlayWithOptions(ctx context.Context, r *Routine, exec Executor, opts Options) error {
	return p.playNotify(ctx, r, exec, opts, nil)
}

// playNotify plays r and reports on started, if non-nil, once playback has
// begun or failed to begin.
func (p *Player) playNotify(ctx context.Context, r *Routine, exec Executor, opts Options, started chan<- error) error {
	if exec == nil {
		notify(started, ErrNoExecutor)
		return ErrNoExecutor
	}
	def := DefaultOptions()
	if opts.Speed <= 0 {
		opts.Speed = def.Speed
	}
	if opts.Resolution <= 0 {
		opts.Resolution = def.Resolution
	}
	loop := r.Loop || opts.Loop

	p.mu.Lock()
	if p.state != StateStopped {
		p.mu.Unlock()
		notify(started, ErrAlreadyPlaying)
		return ErrAlreadyPlaying
	}
	p.routine = r
	p.opts = opts
	p.state = StatePlaying
	p.startAt = time.Now()
	p.banked = 0
	p.failures = 0
	p.stopCh = make(chan struct{})
	stopCh := p.stopCh
	p.mu.Unlock()
	notify(started, nil)

	defer func() {
		p.mu.Lock()
		if p.stopCh == stopCh {
			p.state = StateStopped
			p.routine = nil
		}
		p.mu.Unlock()
	}()

	next := p.fire(r, exec, 0, 0)
	if !loop && next == len(r.Steps) && r.Duration == 0 {
		return nil
	}

	ticker := time.NewTicker(opts.Resolution)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-stopCh:
			return nil

		case <-ticker.C:
			elapsed, paused := p.elapsed()
			if paused {
				continue
			}
			next = p.fire(r, exec, next, elapsed)
			if next < len(r.Steps) || elapsed < r.Duration {
				continue
			}
			if !loop {
				return nil
			}

			p.mu.Lock()
			p.startAt = time.Now()
			p.banked = 0
			p.mu.Unlock()
			next = p.fire(r, exec, 0, 0)
		}
	}
}

func notify(ch chan<- error, err error) {
	if ch != nil {
		ch <- err
	}
}

// fire runs every step from index next whose offset is due and returns the
// index of the first step still pending.
func (p *Player) fire(r *Routine, exec Executor, next int, elapsed time.Duration) int {
	for next < len(r.Steps) && r.Steps[next].Offset() <= elapsed {
		s := r.Steps[next]
		if err := exec.Exec(s.Command, s.Args); err != nil {
			log.Warn("routine step failed", "routine", r.Name, "step", next, "command", s.Command, "error", err)
			p.mu.Lock()
			p.failures++
			p.mu.Unlock()
		}
		next++
	}
	return next
}

// elapsed returns scaled playback time and whether the player is paused.
func (p *Player) elapsed() (time.Duration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state == StatePaused {
		return 0, true
	}
	raw := p.banked + time.Since(p.startAt)
	return time.Duration(float64(raw) * p.opts.Speed), false
}

// Stop ends playback. Steps already run are not undone.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePlaying || p.state == StatePaused {
		close(p.stopCh)
		p.state = StateStopped
	}
}

// Pause holds playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePlaying {
		p.banked += time.Since(p.startAt)
		p.state = StatePaused
	}
}

// Resume continues paused playback.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePaused {
		p.startAt = time.Now()
		p.state = StatePlaying
	}
}

// State returns the playback state.
func (p *Player) State() PlaybackState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Current returns the routine being played, or nil.
func (p *Player) Current() *Routine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.routine
}

// Failures returns how many steps failed during the current or last run.
func (p *Player) Failures() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failures
}
