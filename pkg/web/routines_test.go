package web

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/teslashibe/go-roboeyes/pkg/routine"
)

func TestRoutines_Disabled(t *testing.T) {
	s, _ := newServer(t)
	if code, _ := do(t, s, "GET", "/api/routines", ""); code != 404 {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestRoutines_ListPlayStop(t *testing.T) {
	s, loop := newServer(t)
	reg := routine.NewRegistry(loop)
	if err := reg.LoadBuiltIn(); err != nil {
		t.Fatal(err)
	}
	s.SetRoutines(reg)

	code, body := do(t, s, "GET", "/api/routines", "")
	if code != 200 {
		t.Fatalf("list status = %d", code)
	}
	var list RoutineList
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if list.Routines["mood-cycle"] == "" || list.Current != "" {
		t.Errorf("list = %+v", list)
	}

	if code, _ := do(t, s, "POST", "/api/routines/nope", ""); code != 404 {
		t.Errorf("unknown routine status = %d", code)
	}
	if code, _ := do(t, s, "POST", "/api/routines/greet", "{bad"); code != 400 {
		t.Errorf("bad body status = %d", code)
	}

	if code, body := do(t, s, "POST", "/api/routines/mood-cycle", `{"speed":2}`); code != 200 {
		t.Fatalf("play status = %d: %s", code, body)
	}
	if reg.Current() != "mood-cycle" {
		t.Errorf("current = %q", reg.Current())
	}

	if code, _ := do(t, s, "DELETE", "/api/routines", ""); code != 200 {
		t.Errorf("stop status = %d", code)
	}
	deadline := time.Now().Add(time.Second)
	for reg.State() != routine.StateStopped && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if reg.State() != routine.StateStopped {
		t.Errorf("state = %v after stop", reg.State())
	}
}
