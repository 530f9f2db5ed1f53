// Package eyes implements the animation and expression state machine for a pair
// of stylized robot eyes.
//
// An Eyes value tracks the geometry of both eyes (size, corner radius, position
// and eyelid coverage) as current/next pairs. Moods, gaze direction, blinking,
// winking, laugh and confusion shakes, idle wandering and flicker all write
// "next" targets; Tick smooths every "current" value toward its target once per
// frame. Render paints the smoothed result onto any Surface.
//
// Eyes is not safe for concurrent use. Callers driving it from several
// goroutines must serialize access (see pkg/driver).
package eyes

import (
	"fmt"
	"strings"
)

// Mood selects the expression applied to both eyes.
type Mood int

const (
	// MoodDefault is the neutral expression.
	MoodDefault Mood = iota

	// MoodTired lowers a static upper eyelid over both eyes.
	MoodTired

	// MoodAngry slants the upper eyelids toward the nose.
	MoodAngry

	// MoodHappy widens and flattens the eyes into pills.
	MoodHappy

	// MoodExcited uses the same geometry as MoodHappy.
	MoodExcited
)

// Moods lists every mood in declaration order.
var Moods = []Mood{MoodDefault, MoodTired, MoodAngry, MoodHappy, MoodExcited}

// String returns the lowercase mood name.
func (m Mood) String() string {
	switch m {
	case MoodDefault:
		return "default"
	case MoodTired:
		return "tired"
	case MoodAngry:
		return "angry"
	case MoodHappy:
		return "happy"
	case MoodExcited:
		return "excited"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the declared moods.
func (m Mood) Valid() bool {
	return m >= MoodDefault && m <= MoodExcited
}

// MarshalText implements encoding.TextMarshaler.
func (m Mood) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMood, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mood) UnmarshalText(text []byte) error {
	parsed, err := ParseMood(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMood returns the mood with the given name (case-insensitive).
func ParseMood(name string) (Mood, error) {
	for _, m := range Moods {
		if strings.EqualFold(name, m.String()) {
			return m, nil
		}
	}
	return MoodDefault, fmt.Errorf("%w: %q", ErrUnknownMood, name)
}

// Direction is one of nine gaze positions: center plus the eight compass points.
type Direction int

const (
	Center Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Directions lists every gaze direction, Center first.
var Directions = []Direction{Center, North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

var directionNames = [...]string{"center", "n", "ne", "e", "se", "s", "sw", "w", "nw"}

// String returns the short compass name ("center", "n", "ne", ...).
func (d Direction) String() string {
	if !d.Valid() {
		return "unknown"
	}
	return directionNames[d]
}

// Valid reports whether d is one of the nine declared directions.
func (d Direction) Valid() bool {
	return d >= Center && d <= NorthWest
}

// unit returns the axis signs for the direction (screen coordinates, y down).
func (d Direction) unit() (dx, dy float64) {
	switch d {
	case North:
		return 0, -1
	case NorthEast:
		return 1, -1
	case East:
		return 1, 0
	case SouthEast:
		return 1, 1
	case South:
		return 0, 1
	case SouthWest:
		return -1, 1
	case West:
		return -1, 0
	case NorthWest:
		return -1, -1
	default:
		return 0, 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts the short compass names plus a few long forms
// ("north", "east", "default", ...).
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "center", "centre", "default", "c":
		return Center, nil
	case "n", "north", "up":
		return North, nil
	case "ne", "northeast", "north-east":
		return NorthEast, nil
	case "e", "east", "right":
		return East, nil
	case "se", "southeast", "south-east":
		return SouthEast, nil
	case "s", "south", "down":
		return South, nil
	case "sw", "southwest", "south-west":
		return SouthWest, nil
	case "w", "west", "left":
		return West, nil
	case "nw", "northwest", "north-west":
		return NorthWest, nil
	}
	return Center, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}

// Shape is the silhouette drawn for each eye.
type Shape int

const (
	ShapeRound Shape = iota
	ShapeSquare
	ShapeOval
	ShapeTeardrop
	ShapePill
)

// Shapes lists every eye shape.
var Shapes = []Shape{ShapeRound, ShapeSquare, ShapeOval, ShapeTeardrop, ShapePill}

// String returns the shape name used by SetEyeShape.
func (s Shape) String() string {
	switch s {
	case ShapeRound:
		return "round"
	case ShapeSquare:
		return "square"
	case ShapeOval:
		return "oval"
	case ShapeTeardrop:
		return "teardrop"
	case ShapePill:
		return "pill"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the declared shapes.
func (s Shape) Valid() bool {
	return s >= ShapeRound && s <= ShapePill
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseShape returns the shape with the given name. Names are matched exactly.
func ParseShape(name string) (Shape, error) {
	for _, s := range Shapes {
		if name == s.String() {
			return s, nil
		}
	}
	return ShapeRound, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Side identifies one of the two eyes.
type Side int

const (
	Left Side = iota
	Right
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Input is the set of direction keys held during a frame. It only affects
// manual drive.
type Input struct {
	Up, Down, Left, Right bool
}

// Any reports whether at least one key is held.
func (in Input) Any() bool {
	return in.Up || in.Down || in.Left || in.Right
}
