package routine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/teslashibe/go-roboeyes/internal/log"
	"github.com/teslashibe/go-roboeyes/pkg/command"
)

// Registry holds routines by name and plays them on one Player.
type Registry struct {
	mu       sync.RWMutex
	routines map[string]*Routine
	player   *Player
	exec     Executor
}

// NewRegistry creates an empty registry that plays through exec.
func NewRegistry(exec Executor) *Registry {
	return &Registry{
		routines: make(map[string]*Routine),
		player:   NewPlayer(),
		exec:     exec,
	}
}

// LoadBuiltIn registers every embedded routine.
func (r *Registry) LoadBuiltIn() error {
	names, err := ListEmbedded()
	if err != nil {
		return err
	}
	for _, name := range names {
		rt, err := LoadEmbedded(name)
		if err != nil {
			return fmt.Errorf("failed to load routine %q: %w", name, err)
		}
		r.Register(rt)
	}
	return nil
}

// LoadCustomDir registers every routine in dir, replacing built-ins with the
// same name.
func (r *Registry) LoadCustomDir(dir string) error {
	routines, err := LoadFromDirectory(dir)
	if err != nil {
		return err
	}
	for _, rt := range routines {
		r.Register(rt)
	}
	return nil
}

// Validate checks every registered routine against cmds.
func (r *Registry) Validate(cmds *command.Registry) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.names() {
		if err := Validate(r.routines[name], cmds); err != nil {
			return err
		}
	}
	return nil
}

// Register adds or replaces a routine.
func (r *Registry) Register(rt *Routine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routines[rt.Name] = rt
}

// Get returns a routine by name.
func (r *Registry) Get(name string) (*Routine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.routines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return rt, nil
}

// List returns routine names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.routines))
	for name := range r.routines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe maps routine names to descriptions.
func (r *Registry) Describe() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.routines))
	for name, rt := range r.routines {
		out[name] = rt.Description
	}
	return out
}

// Count returns the number of routines.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routines)
}

// Search returns routines whose name or description contains query,
// ignoring case.
func (r *Registry) Search(query string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var matches []string
	for name, rt := range r.routines {
		if strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(rt.Description), q) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// Play starts a routine in the background. Any routine already playing is
// stopped first.
func (r *Registry) Play(ctx context.Context, name string) error {
	return r.PlayWithOptions(ctx, name, DefaultOptions())
}

// PlayWithOptions is Play with custom options.
func (r *Registry) PlayWithOptions(ctx context.Context, name string, opts Options) error {
	rt, err := r.Get(name)
	if err != nil {
		return err
	}
	if r.exec == nil {
		return ErrNoExecutor
	}

	r.player.Stop()
	started := make(chan error, 1)
	go func() {
		err := r.player.playNotify(ctx, rt, r.exec, opts, started)
		if err != nil && err != context.Canceled {
			log.Warn("routine ended with error", "routine", name, "error", err)
		}
	}()
	return <-started
}

// PlaySync plays a routine and blocks until it ends.
func (r *Registry) PlaySync(ctx context.Context, name string) error {
	rt, err := r.Get(name)
	if err != nil {
		return err
	}
	return r.player.Play(ctx, rt, r.exec)
}

// Stop ends the playing routine.
func (r *Registry) Stop() { r.player.Stop() }

// Pause holds the playing routine.
func (r *Registry) Pause() { r.player.Pause() }

// Resume continues a paused routine.
func (r *Registry) Resume() { r.player.Resume() }

// State returns the playback state.
func (r *Registry) State() PlaybackState { return r.player.State() }

// IsPlaying reports whether a routine is running.
func (r *Registry) IsPlaying() bool { return r.player.State() == StatePlaying }

// Current returns the name of the playing routine, or "".
func (r *Registry) Current() string {
	if rt := r.player.Current(); rt != nil {
		return rt.Name
	}
	return ""
}
