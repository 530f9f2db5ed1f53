package eyes

import (
	"errors"
	"testing"
)

func TestSetPosition_Offsets(t *testing.T) {
	// base (279,142)/(325,142), offsets trunc(3.6) = 3
	tests := []struct {
		dir    Direction
		lx, ly float64
	}{
		{Center, 279, 142},
		{North, 279, 139},
		{NorthEast, 282, 139},
		{East, 282, 142},
		{SouthEast, 282, 145},
		{South, 279, 145},
		{SouthWest, 276, 145},
		{West, 276, 142},
		{NorthWest, 276, 139},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			e, _, _ := newTestEyes(t, nil)
			if err := e.SetPosition(tt.dir); err != nil {
				t.Fatal(err)
			}
			l, r := e.Eye(Left), e.Eye(Right)
			if l.X.Next != tt.lx || l.Y.Next != tt.ly {
				t.Errorf("left = (%v,%v), want (%v,%v)", l.X.Next, l.Y.Next, tt.lx, tt.ly)
			}
			if r.X.Next != tt.lx+46 || r.Y.Next != tt.ly {
				t.Errorf("right = (%v,%v), want (%v,%v)", r.X.Next, r.Y.Next, tt.lx+46, tt.ly)
			}
			if e.Position() != tt.dir {
				t.Errorf("Position() = %v", e.Position())
			}
		})
	}
}

func TestSetPosition_Unknown(t *testing.T) {
	e, _, _ := newTestEyes(t, nil)
	_ = e.SetPosition(East)

	if err := e.SetPosition(Direction(12)); !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("error = %v, want ErrUnknownDirection", err)
	}
	if e.Position() != East {
		t.Errorf("position = %v, want e", e.Position())
	}
}

func TestCuriosity(t *testing.T) {
	e, _, _ := newTestEyes(t, func(c *Config) { c.Curiosity = true })

	// trunc(1.2 * 36) = 43
	_ = e.SetPosition(East)
	if got := e.Eye(Right).Height.Next; got != 43 {
		t.Errorf("east: right height.next = %v, want 43", got)
	}
	if got := e.Eye(Left).Height.Next; got != 36 {
		t.Errorf("east: left height.next = %v, want 36", got)
	}

	_ = e.SetPosition(West)
	if got := e.Eye(Left).Height.Next; got != 43 {
		t.Errorf("west: left height.next = %v, want 43", got)
	}
	if got := e.Eye(Right).Height.Next; got != 36 {
		t.Errorf("west: right height.next = %v, want 36", got)
	}

	_ = e.SetPosition(NorthEast)
	if l, r := e.Eye(Left).Height.Next, e.Eye(Right).Height.Next; l != 36 || r != 36 {
		t.Errorf("ne: heights = %v/%v, want 36/36", l, r)
	}
}

func TestCuriosity_RestoresMoodHeight(t *testing.T) {
	e, _, _ := newTestEyes(t, func(c *Config) { c.Curiosity = true })
	_ = e.SetMood(MoodHappy)

	_ = e.SetPosition(West)
	if got := e.Eye(Left).Height.Next; got != 43 {
		t.Errorf("west: left height.next = %v, want 43", got)
	}

	_ = e.SetPosition(South)
	if got := e.Eye(Left).Height.Next; got != 28 {
		t.Errorf("south: left height.next = %v, want happy height 28", got)
	}
}

func TestCuriosity_Off(t *testing.T) {
	e, _, _ := newTestEyes(t, nil)
	_ = e.SetPosition(East)
	if got := e.Eye(Right).Height.Next; got != 36 {
		t.Errorf("curiosity off: right height.next = %v, want 36", got)
	}

	e.SetCuriosity(true)
	_ = e.SetPosition(East)
	e.SetCuriosity(false)
	if got := e.Eye(Right).Height.Next; got != 36 {
		t.Errorf("after SetCuriosity(false): right height.next = %v, want 36", got)
	}
	if e.Curiosity() {
		t.Error("Curiosity() = true")
	}
}

func TestCuriosity_OnWhileLookingSideways(t *testing.T) {
	e, _, _ := newTestEyes(t, nil)
	_ = e.SetPosition(East)

	e.SetCuriosity(true)
	if got := e.Eye(Right).Height.Next; got != 43 {
		t.Errorf("right height.next = %v, want 43 right after enabling", got)
	}
	if got := e.Eye(Left).Height.Next; got != 36 {
		t.Errorf("left height.next = %v, want 36", got)
	}
}
