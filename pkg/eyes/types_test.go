package eyes

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseMood(t *testing.T) {
	for _, m := range Moods {
		got, err := ParseMood(strings.ToUpper(m.String()))
		if err != nil || got != m {
			t.Errorf("ParseMood(%q) = %v, %v", strings.ToUpper(m.String()), got, err)
		}
	}
	if _, err := ParseMood("sleepy"); !errors.Is(err, ErrUnknownMood) {
		t.Errorf("ParseMood(sleepy) error = %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"center":     Center,
		"default":    Center,
		"N":          North,
		"north-east": NorthEast,
		"right":      East,
		"se":         SouthEast,
		"south":      South,
		"SW":         SouthWest,
		"west":       West,
		" nw ":       NorthWest,
	}
	for in, want := range tests {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDirection("up-ish"); !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("ParseDirection(up-ish) error = %v", err)
	}
}

func TestDirection_RoundTrip(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%v.String()) = %v, %v", d, got, err)
		}
	}
}

func TestParseShape_Exact(t *testing.T) {
	if s, err := ParseShape("teardrop"); err != nil || s != ShapeTeardrop {
		t.Errorf("ParseShape(teardrop) = %v, %v", s, err)
	}
	if _, err := ParseShape("Round"); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("ParseShape(Round) error = %v, want ErrUnknownShape", err)
	}
}

func TestMarshalText_Invalid(t *testing.T) {
	if _, err := Mood(7).MarshalText(); !errors.Is(err, ErrUnknownMood) {
		t.Errorf("Mood(7).MarshalText() error = %v", err)
	}
	if _, err := Direction(-1).MarshalText(); !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("Direction(-1).MarshalText() error = %v", err)
	}
	if _, err := Shape(9).MarshalText(); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("Shape(9).MarshalText() error = %v", err)
	}
}

func TestState_JSON(t *testing.T) {
	e, _, _ := newTestEyes(t, nil)
	_ = e.SetMood(MoodTired)
	_ = e.SetPosition(SouthWest)

	data, err := json.Marshal(e.State())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		Mood     Mood      `json:"mood"`
		Position Direction `json:"position"`
		Shape    Shape     `json:"shape"`
		Left     struct {
			Lids struct {
				Tired Scalar `json:"tired"`
			} `json:"lids"`
		} `json:"left"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Mood != MoodTired || decoded.Position != SouthWest || decoded.Shape != ShapeSquare {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Left.Lids.Tired.Next != 11 {
		t.Errorf("tired.next = %v, want 11", decoded.Left.Lids.Tired.Next)
	}
	if !strings.Contains(string(data), `"mood":"tired"`) {
		t.Errorf("mood not encoded as text: %s", data)
	}
}
