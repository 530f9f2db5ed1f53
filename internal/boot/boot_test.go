package boot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teslashibe/go-roboeyes/pkg/eyes"
)

func TestBuild_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var buf bytes.Buffer
	env, err := Build(Options{
		ConfigPath: writeConfig(t, "log:\n  level: debug\n"),
		Base:       eyes.DemoConfig(),
		LogWriter:  &buf,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if w, _ := env.Eyes.ScreenSize(); w != 640 {
		t.Errorf("screen width = %d", w)
	}
	if env.Routines.Count() == 0 {
		t.Error("no routines loaded")
	}
	if !strings.Contains(buf.String(), "eyes ready") {
		t.Errorf("debug log missing: %q", buf.String())
	}
}

func TestBuild_CustomRoutines(t *testing.T) {
	dir := t.TempDir()
	body := `{"description":"wave","steps":[{"at":0,"command":"look","args":{"direction":"e"}}]}`
	if err := os.WriteFile(filepath.Join(dir, "wave.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, "routines:\n  dir: "+dir+"\n  autoplay: wave\n")

	env, err := Build(Options{ConfigPath: path, LogWriter: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := env.Routines.Get("wave"); err != nil {
		t.Error(err)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := map[string]string{
		"bad mood":         "eyes:\n  mood: grumpy\n",
		"unknown autoplay": "routines:\n  autoplay: nope\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Build(Options{ConfigPath: writeConfig(t, body), LogWriter: &bytes.Buffer{}}); err == nil {
				t.Error("expected error")
			}
		})
	}

	dir := t.TempDir()
	bad := `{"steps":[{"at":0,"command":"fly"}]}`
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Build(Options{ConfigPath: writeConfig(t, "routines:\n  dir: "+dir+"\n"), LogWriter: &bytes.Buffer{}}); err == nil {
		t.Error("expected error for routine with unknown command")
	}
}

func TestPrintMoods(t *testing.T) {
	env, err := Build(Options{ConfigPath: writeConfig(t, ""), LogWriter: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	var lines []string
	env.PrintMoods(func(format string, args ...any) {
		lines = append(lines, strings.TrimSpace(strings.ReplaceAll(format, "%s", args[0].(string))))
	})
	if err := env.Loop.Exec("mood", map[string]any{"mood": "angry"}); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "Mood: angry" {
		t.Errorf("lines = %v", lines)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roboeyes.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
