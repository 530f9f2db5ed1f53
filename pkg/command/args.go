package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Args are command arguments as decoded from JSON or key=value pairs.
type Args map[string]any

// ParseArgs turns "key=value" pairs into Args. A bare word becomes the
// value of defaultKey, so "mood happy" and "mood mood=happy" are equivalent.
func ParseArgs(defaultKey string, pairs []string) (Args, error) {
	args := Args{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			if defaultKey == "" {
				return nil, fmt.Errorf("%w: %q is not key=value", ErrInvalidArgs, p)
			}
			key, value = defaultKey, p
		}
		args[key] = value
	}
	return args, nil
}

// Has reports whether key is present.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// String returns a string argument, or def when absent.
func (a Args) String(key, def string) (string, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgs, key, v)
	}
}

// Require returns a string argument that must be present.
func (a Args) Require(key string) (string, error) {
	if !a.Has(key) {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidArgs, key)
	}
	return a.String(key, "")
}

// Bool returns a boolean argument. Strings such as "on", "off", "true" and
// "0" are accepted.
func (a Args) Bool(key string, def bool) (bool, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case int:
		return t != 0, nil
	case string:
		switch strings.ToLower(t) {
		case "on", "yes", "enable", "enabled":
			return true, nil
		case "off", "no", "disable", "disabled":
			return false, nil
		}
		b, err := strconv.ParseBool(t)
		if err != nil {
			return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidArgs, key, t)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidArgs, key, v)
	}
}

// Int returns an integer argument. JSON numbers must be whole.
func (a Args) Int(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("%w: %s=%v is not an integer", ErrInvalidArgs, key, t)
		}
		return int(t), nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidArgs, key, t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidArgs, key, v)
	}
}

// Duration returns a duration argument. Numbers are seconds; strings use
// time.ParseDuration syntax or plain seconds.
func (a Args) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := a[key]
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case time.Duration:
		return t, nil
	case float64:
		return time.Duration(t * float64(time.Second)), nil
	case int:
		return time.Duration(t) * time.Second, nil
	case string:
		if d, err := time.ParseDuration(t); err == nil {
			return d, nil
		}
		secs, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidArgs, key, t)
		}
		return time.Duration(secs * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a duration, got %T", ErrInvalidArgs, key, v)
	}
}
