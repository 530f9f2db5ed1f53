// Package command maps named operations onto an eyes.Eyes value.
//
// Keyboard front ends, the REST API and remote controller sessions all
// drive the eyes through one Registry, so every surface supports the same
// verbs with the same arguments.
package command

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

var (
	// ErrNotFound is returned when a command is not registered.
	ErrNotFound = errors.New("command not found")

	// ErrInvalidArgs is returned when arguments are missing or malformed.
	ErrInvalidArgs = errors.New("invalid command arguments")
)

// Handler applies a command to the eyes.
type Handler func(e *eyes.Eyes, args Args) error

// Command is a named, documented handler.
type Command struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Usage       string  `json:"usage,omitempty"`
	Run         Handler `json:"-"`
}

// Registry holds commands by name.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds or replaces a command.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.Name] = cmd
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return cmd, nil
}

// List returns all command names, sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns every command sorted by name.
func (r *Registry) Commands() []Command {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(names))
	for _, name := range names {
		out = append(out, r.commands[name])
	}
	return out
}

// Describe returns command descriptions keyed by name.
func (r *Registry) Describe() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.commands))
	for name, cmd := range r.commands {
		result[name] = cmd.Description
	}
	return result
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Execute runs the named command against e. The caller must hold whatever
// lock serializes access to e.
func (r *Registry) Execute(e *eyes.Eyes, name string, args Args) error {
	cmd, err := r.Get(name)
	if err != nil {
		return err
	}
	if args == nil {
		args = Args{}
	}
	if err := cmd.Run(e, args); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// IsInvalid reports whether err was caused by bad arguments rather than a
// missing command or an internal failure.
func IsInvalid(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidArgs),
		errors.Is(err, eyes.ErrUnknownMood),
		errors.Is(err, eyes.ErrUnknownDirection),
		errors.Is(err, eyes.ErrUnknownShape),
		errors.Is(err, eyes.ErrInvalidSize),
		errors.Is(err, eyes.ErrInvalidDuration),
		errors.Is(err, eyes.ErrInvalidAmplitude):
		return true
	}
	return false
}
