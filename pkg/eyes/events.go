package eyes

import "time"

// EventType names something that happened to the eyes.
type EventType string

const (
	EventMood     EventType = "mood"
	EventPosition EventType = "position"
	EventShape    EventType = "shape"
	EventBlink    EventType = "blink"
	EventWink     EventType = "wink"
	EventLaugh    EventType = "laugh"
	EventConfused EventType = "confused"
	EventIdleMove EventType = "idle-move"
)

// Event is emitted synchronously from the operation that caused it.
type Event struct {
	Type   EventType `json:"type"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Listener receives events. It runs on the caller's goroutine and must not
// call back into the Eyes value.
type Listener func(Event)

// AddListener registers l for every subsequent event.
func (e *Eyes) AddListener(l Listener) {
	if l != nil {
		e.listeners = append(e.listeners, l)
	}
}

func (e *Eyes) emit(t EventType, detail string) {
	if len(e.listeners) == 0 {
		return
	}
	ev := Event{Type: t, Detail: detail, At: e.clock.Now()}
	for _, l := range e.listeners {
		l(ev)
	}
}
