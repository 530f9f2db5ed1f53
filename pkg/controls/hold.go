package controls

import (
	"sync"
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

// Arrow is a direction key.
type Arrow int

const (
	ArrowUp Arrow = iota
	ArrowDown
	ArrowLeft
	ArrowRight
)

// String returns the arrow name.
func (a Arrow) String() string {
	switch a {
	case ArrowUp:
		return "up"
	case ArrowDown:
		return "down"
	case ArrowLeft:
		return "left"
	case ArrowRight:
		return "right"
	default:
		return "unknown"
	}
}

// Hold timing defaults. Front ends only see key repeats, so the first press
// has to outlast the OS repeat delay and later ones only the repeat rate.
const (
	DefaultInitialHold = 550 * time.Millisecond
	DefaultRepeatHold  = 150 * time.Millisecond
)

// Hold turns arrow key presses into held-key input. A key counts as held
// until its last press expires.
type Hold struct {
	mu       sync.Mutex
	initial  time.Duration
	repeat   time.Duration
	now      func() time.Time
	deadline [4]time.Time
}

// NewHold returns a tracker with the default timings.
func NewHold() *Hold {
	return NewHoldWithTimings(DefaultInitialHold, DefaultRepeatHold, time.Now)
}

// NewHoldWithTimings returns a tracker with custom timings and clock.
func NewHoldWithTimings(initial, repeat time.Duration, now func() time.Time) *Hold {
	if now == nil {
		now = time.Now
	}
	return &Hold{initial: initial, repeat: repeat, now: now}
}

// Press records a press or repeat of a.
func (h *Hold) Press(a Arrow) {
	if a < ArrowUp || a > ArrowRight {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if now.Before(h.deadline[a]) {
		h.deadline[a] = now.Add(h.repeat)
	} else {
		h.deadline[a] = now.Add(h.initial)
	}
}

// Release clears a immediately, for front ends that report key-up.
func (h *Hold) Release(a Arrow) {
	if a < ArrowUp || a > ArrowRight {
		return
	}
	h.mu.Lock()
	h.deadline[a] = time.Time{}
	h.mu.Unlock()
}

// Reset releases every key.
func (h *Hold) Reset() {
	h.mu.Lock()
	h.deadline = [4]time.Time{}
	h.mu.Unlock()
}

// Input returns the keys currently held. It satisfies driver.InputSource.
func (h *Hold) Input() eyes.Input {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	held := func(a Arrow) bool { return now.Before(h.deadline[a]) }
	return eyes.Input{
		Up:    held(ArrowUp),
		Down:  held(ArrowDown),
		Left:  held(ArrowLeft),
		Right: held(ArrowRight),
	}
}
