// Package config loads settings for go-roboeyes commands.
//
// Settings come from an optional YAML file and ROBOEYES_* environment
// variables, see Load. The helpers in this file read the few variables the
// CLI client needs without a config file.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Default server settings.
const (
	DefaultPort = "8080"
	DefaultHost = "localhost"
)

// ServerPort returns the dashboard port from ROBOEYES_PORT or PORT.
// Falls back to the provided default if neither is set.
func ServerPort(defaultPort string) string {
	for _, key := range []string{"ROBOEYES_PORT", "PORT"} {
		if p := os.Getenv(key); p != "" {
			return p
		}
	}
	return defaultPort
}

// ServerURL returns the dashboard base URL from ROBOEYES_URL, or builds one
// from ROBOEYES_HOST and ServerPort.
func ServerURL() string {
	if u := os.Getenv("ROBOEYES_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	host := os.Getenv("ROBOEYES_HOST")
	if host == "" {
		host = DefaultHost
	}
	return fmt.Sprintf("http://%s:%s", host, ServerPort(DefaultPort))
}

// WebsocketURL turns an http(s) base URL into a ws(s) URL for path.
func WebsocketURL(base, path string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return strings.TrimRight(base, "/") + path
}
