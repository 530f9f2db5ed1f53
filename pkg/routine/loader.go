package routine

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/command"
)

//go:embed data/*.json
var embedded embed.FS

// LoadEmbedded loads a routine shipped with the binary.
func LoadEmbedded(name string) (*Routine, error) {
	data, err := embedded.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Parse(name, data)
}

// ListEmbedded returns the names of the routines shipped with the binary.
func ListEmbedded() ([]string, error) {
	entries, err := embedded.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded routines: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	return names, nil
}

// LoadFromFile loads a routine from disk, named after the file.
func LoadFromFile(path string) (*Routine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routine file: %w", err)
	}
	return Parse(strings.TrimSuffix(filepath.Base(path), ".json"), data)
}

// LoadFromDirectory loads every *.json routine in dir.
func LoadFromDirectory(dir string) ([]*Routine, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list routine files: %w", err)
	}

	var routines []*Routine
	for _, file := range files {
		r, err := LoadFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
		routines = append(routines, r)
	}
	return routines, nil
}

// Parse decodes and checks a routine file.
func Parse(name string, data []byte) (*Routine, error) {
	var raw Data
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRoutine, name, err)
	}
	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s has no steps", ErrInvalidRoutine, name)
	}

	steps := make([]Step, len(raw.Steps))
	copy(steps, raw.Steps)
	for i, s := range steps {
		if s.Command == "" {
			return nil, fmt.Errorf("%w: %s step %d has no command", ErrInvalidRoutine, name, i)
		}
		if s.At < 0 {
			return nil, fmt.Errorf("%w: %s step %d starts before zero", ErrInvalidRoutine, name, i)
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })

	last := steps[len(steps)-1].Offset()
	duration := time.Duration(raw.Duration * float64(time.Second))
	if duration == 0 {
		duration = last
	}
	if duration < last {
		return nil, fmt.Errorf("%w: %s is shorter than its last step", ErrInvalidRoutine, name)
	}
	if raw.Loop && duration <= 0 {
		return nil, fmt.Errorf("%w: %s loops with zero duration", ErrInvalidRoutine, name)
	}

	return &Routine{
		Name:        name,
		Description: raw.Description,
		Duration:    duration,
		Loop:        raw.Loop,
		Steps:       steps,
	}, nil
}

// Validate checks that every step names a command in cmds.
func Validate(r *Routine, cmds *command.Registry) error {
	for i, s := range r.Steps {
		if _, err := cmds.Get(s.Command); err != nil {
			return fmt.Errorf("%w: %s step %d: %w", ErrInvalidRoutine, r.Name, i, err)
		}
	}
	return nil
}
