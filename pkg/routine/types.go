// Package routine plays scripted sequences of eye commands.
//
// A routine is a list of timed steps, each naming a command from
// pkg/command with its arguments. Routines are loaded from JSON files,
// either the ones embedded in the binary or a custom directory, and played
// against anything that can execute commands, normally a driver.Loop.
package routine

import (
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/command"
)

// Step runs one command at an offset from the start of the routine.
type Step struct {
	// At is the offset in seconds.
	At float64 `json:"at"`

	Command string       `json:"command"`
	Args    command.Args `json:"args,omitempty"`
}

// Offset returns At as a duration.
func (s Step) Offset() time.Duration {
	return time.Duration(s.At * float64(time.Second))
}

// Data is the JSON layout of a routine file.
type Data struct {
	Description string `json:"description"`

	// Duration is the length of one pass in seconds. When zero the pass
	// ends at the last step.
	Duration float64 `json:"duration,omitempty"`

	// Loop repeats the routine until stopped.
	Loop bool `json:"loop,omitempty"`

	Steps []Step `json:"steps"`
}

// Routine is a loaded, playable routine. Steps are sorted by offset.
type Routine struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Duration    time.Duration `json:"duration"`
	Loop        bool          `json:"loop"`
	Steps       []Step        `json:"steps"`
}

// Executor runs a named command. driver.Loop satisfies it.
type Executor interface {
	Exec(name string, args command.Args) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(name string, args command.Args) error

// Exec calls f.
func (f ExecutorFunc) Exec(name string, args command.Args) error { return f(name, args) }

// PlaybackState is the state of the player.
type PlaybackState int

const (
	// StateStopped means no routine is playing.
	StateStopped PlaybackState = iota

	// StatePlaying means a routine is running.
	StatePlaying

	// StatePaused means playback is held and will resume where it left off.
	StatePaused
)

// String returns the state name.
func (s PlaybackState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state name.
func (s PlaybackState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Options configures playback.
type Options struct {
	// Speed multiplies the playback rate (default 1).
	Speed float64

	// Loop forces looping even when the routine does not ask for it.
	Loop bool

	// Resolution is how often the player checks for due steps
	// (default 10ms).
	Resolution time.Duration
}

// DefaultOptions returns normal speed at 10ms resolution.
func DefaultOptions() Options {
	return Options{Speed: 1, Resolution: 10 * time.Millisecond}
}
