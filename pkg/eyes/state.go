package eyes

// State is a read-only snapshot of an Eyes value, shaped for JSON.
type State struct {
	Mood      Mood      `json:"mood"`
	Position  Direction `json:"position"`
	Shape     Shape     `json:"shape"`
	Curiosity bool      `json:"curiosity"`
	Cyclops   bool      `json:"cyclops"`

	Blinking bool   `json:"blinking"`
	Winking  bool   `json:"winking"`
	WinkSide string `json:"wink_side,omitempty"`
	Laughing bool   `json:"laughing"`
	Confused bool   `json:"confused"`

	// eyelids held shut by Close
	LeftShut  bool `json:"left_shut"`
	RightShut bool `json:"right_shut"`

	AutoBlink AutoTimer   `json:"auto_blink"`
	Idle      AutoTimer   `json:"idle"`
	HFlicker  Flicker     `json:"h_flicker"`
	VFlicker  Flicker     `json:"v_flicker"`
	Manual    ManualDrive `json:"manual"`

	ScreenWidth  int `json:"screen_width"`
	ScreenHeight int `json:"screen_height"`
	SpaceBetween int `json:"space_between"`

	Left  Eye `json:"left"`
	Right Eye `json:"right"`

	Frames uint64 `json:"frames"`
}

// State returns a snapshot of the current state.
func (e *Eyes) State() State {
	st := State{
		Mood:         e.mood,
		Position:     e.direction,
		Shape:        e.shape,
		Curiosity:    e.curiosity,
		Cyclops:      e.geo.cyclops,
		Blinking:     e.blink.Active,
		Winking:      e.IsWinking(),
		Laughing:     e.laugh.Active,
		Confused:     e.confused.Active,
		LeftShut:     e.geo.left.shut,
		RightShut:    e.geo.right.shut,
		AutoBlink:    e.autoBlink,
		Idle:         e.idle,
		HFlicker:     e.hFlicker,
		VFlicker:     e.vFlicker,
		Manual:       e.manual,
		ScreenWidth:  e.geo.screenW,
		ScreenHeight: e.geo.screenH,
		SpaceBetween: e.geo.space,
		Left:         e.geo.left,
		Right:        e.geo.right,
		Frames:       e.frames,
	}
	if st.Winking {
		st.WinkSide = e.winkSide.String()
	}
	return st
}
