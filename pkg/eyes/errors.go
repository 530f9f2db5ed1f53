package eyes

import "errors"

var (
	// ErrUnknownMood is returned for a mood outside the declared set.
	ErrUnknownMood = errors.New("unknown mood")

	// ErrUnknownDirection is returned for a gaze direction outside the declared set.
	ErrUnknownDirection = errors.New("unknown direction")

	// ErrUnknownShape is returned when an eye shape name is not recognized.
	ErrUnknownShape = errors.New("unknown eye shape")

	// ErrInvalidSize is returned for non-positive eye or screen dimensions
	// and negative radii or gaps.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidDuration is returned for non-positive animation durations
	// and timer intervals, or negative timer variations.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidAmplitude is returned for a negative flicker amplitude.
	ErrInvalidAmplitude = errors.New("invalid flicker amplitude")
)
