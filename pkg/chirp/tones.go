package chirp

import (
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// Tone is one note of a chirp.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

var moodTones = map[string][]Tone{
	eyes.MoodDefault.String(): {{Freq: 523.25, Duration: 60 * time.Millisecond}},
	eyes.MoodHappy.String(): {
		{Freq: 783.99, Duration: 50 * time.Millisecond},
		{Freq: 1046.5, Duration: 80 * time.Millisecond},
	},
	eyes.MoodTired.String(): {
		{Freq: 392, Duration: 90 * time.Millisecond},
		{Freq: 293.66, Duration: 160 * time.Millisecond},
	},
	eyes.MoodAngry.String(): {{Freq: 196, Duration: 140 * time.Millisecond}},
	eyes.MoodExcited.String(): {
		{Freq: 1046.5, Duration: 40 * time.Millisecond},
		{Freq: 1318.5, Duration: 40 * time.Millisecond},
		{Freq: 1568, Duration: 70 * time.Millisecond},
	},
}

// TonesFor returns the chirp for an event. Position, shape and idle moves
// are silent.
func TonesFor(ev eyes.Event) ([]Tone, bool) {
	switch ev.Type {
	case eyes.EventBlink:
		return []Tone{{Freq: 880, Duration: 35 * time.Millisecond}}, true
	case eyes.EventWink:
		return []Tone{
			{Freq: 880, Duration: 35 * time.Millisecond},
			{Freq: 1318.5, Duration: 50 * time.Millisecond},
		}, true
	case eyes.EventLaugh:
		return []Tone{
			{Freq: 659.25, Duration: 60 * time.Millisecond},
			{Freq: 880, Duration: 60 * time.Millisecond},
			{Freq: 659.25, Duration: 60 * time.Millisecond},
			{Freq: 880, Duration: 60 * time.Millisecond},
		}, true
	case eyes.EventConfused:
		return []Tone{
			{Freq: 440, Duration: 90 * time.Millisecond},
			{Freq: 349.23, Duration: 90 * time.Millisecond},
			{Freq: 440, Duration: 120 * time.Millisecond},
		}, true
	case eyes.EventMood:
		t, ok := moodTones[ev.Detail]
		return t, ok
	}
	return nil, false
}

// Length is the total duration of tones.
func Length(tones []Tone) time.Duration {
	var d time.Duration
	for _, t := range tones {
		d += t.Duration
	}
	return d
}
