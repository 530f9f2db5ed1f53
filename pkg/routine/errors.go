package routine

import "errors"

var (
	// ErrNotFound is returned when a routine is not registered.
	ErrNotFound = errors.New("routine not found")

	// ErrAlreadyPlaying is returned when starting a routine while another plays.
	ErrAlreadyPlaying = errors.New("routine already playing")

	// ErrInvalidRoutine is returned when a routine file is malformed.
	ErrInvalidRoutine = errors.New("invalid routine data")

	// ErrNoExecutor is returned when playing without a command executor.
	ErrNoExecutor = errors.New("no command executor")
)
