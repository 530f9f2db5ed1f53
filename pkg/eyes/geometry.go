package eyes

// Scalar is one smoothed quantity. Current is what gets drawn, Next is the
// target it converges toward and Default is the baseline restored by resets.
type Scalar struct {
	Current float64 `json:"current"`
	Next    float64 `json:"next"`
	Default float64 `json:"default"`
}

func (s *Scalar) smooth() {
	s.Current = (s.Current + s.Next) / 2
}

// set assigns all three values.
func (s *Scalar) set(v float64) {
	s.Current, s.Next, s.Default = v, v, v
}

// Lids tracks the eyelid coverage of one eye in pixels. Default is unused.
type Lids struct {
	Closed Scalar `json:"closed"`
	Tired  Scalar `json:"tired"`
	Angry  Scalar `json:"angry"`
}

// Eye is the geometry of a single eye.
type Eye struct {
	Width  Scalar `json:"width"`
	Height Scalar `json:"height"`
	Radius Scalar `json:"radius"`
	X      Scalar `json:"x"`
	Y      Scalar `json:"y"`
	Lids   Lids   `json:"lids"`

	// gaze target before shakes and flicker
	gazeX, gazeY float64

	// height set by the current mood, restored when curiosity lets go
	baseHeight float64

	// held closed by Close
	shut bool
}

func (e *Eye) smooth() {
	e.Width.smooth()
	e.Height.smooth()
	e.Radius.smooth()
	e.X.smooth()
	e.Y.smooth()
	e.Lids.Closed.smooth()
	e.Lids.Tired.smooth()
	e.Lids.Angry.smooth()
}

// geometry owns both eyes and the surface they are laid out on.
type geometry struct {
	left, right Eye

	screenW, screenH int
	space            int
	cyclops          bool
}

func (g *geometry) eye(s Side) *Eye {
	if s == Right {
		return &g.right
	}
	return &g.left
}

// applySmoothing moves every current value halfway toward its target.
func (g *geometry) applySmoothing() {
	g.left.smooth()
	g.right.smooth()
}

// place returns the centered top-left corners for the given sizes.
// Division truncates like the integer layout it mirrors.
func (g *geometry) place(lw, lh, rw, rh float64) (lx, ly, rx, ry float64) {
	if g.cyclops {
		lx = float64((g.screenW - int(lw)) / 2)
		ly = float64((g.screenH - int(lh)) / 2)
		return lx, ly, lx, ly
	}
	total := int(lw) + int(rw) + g.space
	lx = float64((g.screenW - total) / 2)
	ly = float64((g.screenH - int(lh)) / 2)
	rx = lx + float64(int(lw)+g.space)
	ry = float64((g.screenH - int(rh)) / 2)
	return lx, ly, rx, ry
}

// layout places the eyes using their target sizes.
func (g *geometry) layout() (lx, ly, rx, ry float64) {
	return g.place(g.left.Width.Next, g.left.Height.Next, g.right.Width.Next, g.right.Height.Next)
}

// resize sets the target sizes of both eyes and makes the heights the new
// mood baseline.
func (g *geometry) resize(lw, lh, rw, rh float64) {
	g.left.Width.Next, g.left.Height.Next = lw, lh
	g.right.Width.Next, g.right.Height.Next = rw, rh
	g.left.baseHeight, g.right.baseHeight = lh, rh
}

// resetDefaults recomputes default positions from default sizes.
func (g *geometry) resetDefaults() {
	lx, ly, rx, ry := g.place(g.left.Width.Default, g.left.Height.Default, g.right.Width.Default, g.right.Height.Default)
	g.left.X.Default, g.left.Y.Default = lx, ly
	g.right.X.Default, g.right.Y.Default = rx, ry
}

func (g *geometry) init(cfg Config) {
	g.screenW, g.screenH = cfg.ScreenWidth, cfg.ScreenHeight
	g.space = cfg.SpaceBetween
	g.cyclops = cfg.Cyclops
	for _, e := range []*Eye{&g.left, &g.right} {
		e.Width.set(float64(cfg.Width))
		e.Height.set(float64(cfg.Height))
		e.Radius.set(float64(cfg.Radius))
		e.baseHeight = float64(cfg.Height)
	}
	g.resetDefaults()
	for _, e := range []*Eye{&g.left, &g.right} {
		e.X.set(e.X.Default)
		e.Y.set(e.Y.Default)
		e.gazeX, e.gazeY = e.X.Default, e.Y.Default
	}
}
