// Package controls maps keyboard input from the window and terminal front
// ends onto registry commands and manual-drive input.
package controls

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teslashibe/go-roboeyes/pkg/command"
)

// Exec runs a named command. driver.Loop.Exec satisfies it.
type Exec func(name string, args command.Args) error

// Binding ties a key to a command.
type Binding struct {
	Key     rune
	Command string
	Args    command.Args
	Help    string
}

// Keymap holds bindings by key.
type Keymap struct {
	bindings map[rune]Binding
}

// NewKeymap returns an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[rune]Binding)}
}

// DefaultKeymap mirrors the desktop demo: number keys pick moods, letters
// trigger animations and toggles, space resets.
func DefaultKeymap() *Keymap {
	k := NewKeymap()
	for _, b := range []Binding{
		{Key: '1', Command: "mood", Args: command.Args{"mood": "default"}, Help: "Mood: DEFAULT"},
		{Key: '2', Command: "mood", Args: command.Args{"mood": "tired"}, Help: "Mood: TIRED"},
		{Key: '3', Command: "mood", Args: command.Args{"mood": "angry"}, Help: "Mood: ANGRY"},
		{Key: '4', Command: "mood", Args: command.Args{"mood": "happy"}, Help: "Mood: HAPPY"},
		{Key: '5', Command: "mood", Args: command.Args{"mood": "excited"}, Help: "Mood: EXCITED"},
		{Key: 'b', Command: "blink", Help: "Blinking"},
		{Key: 'w', Command: "wink", Args: command.Args{"side": "left"}, Help: "Winking left"},
		{Key: 'W', Command: "wink", Args: command.Args{"side": "right"}, Help: "Winking right"},
		{Key: 'l', Command: "laugh", Help: "Laughing"},
		{Key: 'f', Command: "confused", Help: "Confused"},
		{Key: 'e', Command: "excited", Help: "Excited"},
		{Key: 'c', Command: "cyclops", Help: "Cyclops toggled"},
		{Key: 'i', Command: "curiosity", Help: "Curiosity toggled"},
		{Key: 'm', Command: "manual", Help: "Manual control toggled (arrows move)"},
		{Key: ' ', Command: "reset", Help: "Reset to default"},
	} {
		k.Bind(b)
	}
	return k
}

// Bind adds or replaces the binding for b.Key.
func (k *Keymap) Bind(b Binding) {
	k.bindings[b.Key] = b
}

// Lookup returns the binding for r.
func (k *Keymap) Lookup(r rune) (Binding, bool) {
	b, ok := k.bindings[r]
	return b, ok
}

// Bindings returns every binding ordered by key.
func (k *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(k.bindings))
	for _, b := range k.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Handle runs the command bound to r. It reports false when r is unbound.
func (k *Keymap) Handle(r rune, exec Exec) (Binding, bool, error) {
	b, ok := k.bindings[r]
	if !ok {
		return Binding{}, false, nil
	}
	// Copy so a handler cannot mutate the binding
	var args command.Args
	if len(b.Args) > 0 {
		args = make(command.Args, len(b.Args))
		for key, v := range b.Args {
			args[key] = v
		}
	}
	return b, true, exec(b.Command, args)
}

// Help renders one line per binding.
func (k *Keymap) Help() string {
	var sb strings.Builder
	for _, b := range k.Bindings() {
		fmt.Fprintf(&sb, "  %-6s %s\n", keyName(b.Key), describe(b))
	}
	return sb.String()
}

func keyName(r rune) string {
	if r == ' ' {
		return "SPACE"
	}
	return string(r)
}

func describe(b Binding) string {
	if len(b.Args) == 0 {
		return b.Command
	}
	keys := make([]string, 0, len(b.Args))
	for key := range b.Args {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, b.Args[key]))
	}
	return b.Command + " " + strings.Join(parts, " ")
}

// Key is one decoded key press from a front end.
type Key struct {
	Rune    rune
	Arrow   Arrow
	IsArrow bool
	Escape  bool
}

// Dispatch feeds arrows to hold and runs the binding for anything else.
// Escape is left to the caller.
func Dispatch(key Key, k *Keymap, hold *Hold, exec Exec) (Binding, bool, error) {
	switch {
	case key.Escape:
		return Binding{}, false, nil
	case key.IsArrow:
		if hold != nil {
			hold.Press(key.Arrow)
		}
		return Binding{}, true, nil
	default:
		return k.Handle(key.Rune, exec)
	}
}
