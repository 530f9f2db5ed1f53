// Package chirp plays short synthesized tones for eye events.
package chirp

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// Config controls the player.
type Config struct {
	SampleRate int
	// Volume is linear gain in (0, 1]. Zero mutes.
	Volume float64
	// Queue is how many pending events are kept before new ones are dropped.
	Queue int
}

// DefaultConfig returns 44.1kHz at half volume.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, Volume: 0.5, Queue: 16}
}

// Player turns eye events into tones on the default speaker.
type Player struct {
	cfg    Config
	rate   beep.SampleRate
	events chan eyes.Event
	play   func(beep.Streamer)

	played  atomic.Int64
	dropped atomic.Int64
}

// New creates a player. Call Open before Run to start the speaker.
func New(cfg Config) *Player {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.Queue <= 0 {
		cfg.Queue = def.Queue
	}
	return &Player{
		cfg:    cfg,
		rate:   beep.SampleRate(cfg.SampleRate),
		events: make(chan eyes.Event, cfg.Queue),
		play:   func(s beep.Streamer) { speaker.Play(s) },
	}
}

// Open initializes the speaker with a 100ms buffer.
func (p *Player) Open() error {
	return speaker.Init(p.rate, p.rate.N(100*time.Millisecond))
}

// Close stops the speaker.
func (p *Player) Close() {
	speaker.Close()
}

// Listener returns an eyes.Listener that queues events without blocking.
func (p *Player) Listener() eyes.Listener {
	return func(ev eyes.Event) {
		if _, ok := TonesFor(ev); !ok {
			return
		}
		select {
		case p.events <- ev:
		default:
			p.dropped.Add(1)
		}
	}
}

// Run plays queued events until ctx is cancelled. A chirp is left to finish
// before the next one starts.
func (p *Player) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.events:
			tones, ok := TonesFor(ev)
			if !ok {
				continue
			}
			done := make(chan struct{})
			s, err := p.Streamer(tones)
			if err != nil {
				log.Warn("chirp failed", "event", ev.Type, "error", err)
				continue
			}
			p.play(beep.Seq(s, beep.Callback(func() { close(done) })))
			p.played.Add(1)

			select {
			case <-done:
			case <-ctx.Done():
				return
			case <-time.After(Length(tones) + time.Second):
				log.Debug("chirp did not finish", "event", ev.Type)
			}
		}
	}
}

// Played returns how many chirps were handed to the speaker.
func (p *Player) Played() int64 { return p.played.Load() }

// Dropped returns how many events were discarded on a full queue.
func (p *Player) Dropped() int64 { return p.dropped.Load() }

// Streamer builds the signal for tones: sine notes with a short fade in and
// out, scaled to the configured volume.
func (p *Player) Streamer(tones []Tone) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		sine, err := generators.SineTone(p.rate, t.Freq)
		if err != nil {
			return nil, err
		}
		n := p.rate.N(t.Duration)
		notes = append(notes, &fade{s: beep.Take(n, sine), total: n, ramp: p.rate.N(5 * time.Millisecond)})
	}
	return volume(beep.Seq(notes...), p.cfg.Volume), nil
}

func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(v, 1))}
}

// fade ramps a note in and out linearly to avoid clicks.
type fade struct {
	s     beep.Streamer
	pos   int
	total int
	ramp  int
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1.0
		if f.ramp > 0 {
			if f.pos < f.ramp {
				g = float64(f.pos) / float64(f.ramp)
			} else if rem := f.total - f.pos; rem < f.ramp {
				g = float64(rem) / float64(f.ramp)
			}
		}
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.s.Err() }
