package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-roboeyes/pkg/driver"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
	"github.com/teslashibe/go-roboeyes/pkg/protocol"
)

func newServer(t *testing.T) (*Server, *driver.Loop) {
	t.Helper()
	cfg := eyes.DefaultConfig()
	cfg.AutoBlink.Enabled = false
	cfg.Idle.Enabled = false
	e, err := eyes.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	loop := driver.New(e, nil, driver.DefaultConfig())
	return NewServer(loop, DefaultConfig()), loop
}

func do(t *testing.T, s *Server, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func TestHandleState(t *testing.T) {
	s, _ := newServer(t)

	code, body := do(t, s, "GET", "/api/state", "")
	if code != 200 {
		t.Fatalf("status = %d", code)
	}
	var st eyes.State
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Mood != eyes.MoodDefault || st.ScreenWidth != 640 {
		t.Errorf("state = %+v", st)
	}
}

func TestHandleListCommands(t *testing.T) {
	s, _ := newServer(t)

	code, body := do(t, s, "GET", "/api/commands", "")
	if code != 200 {
		t.Fatalf("status = %d", code)
	}
	var cmds []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &cmds); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range cmds {
		if c.Name == "blink" && c.Description != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("blink missing from %s", body)
	}
}

func TestHandleRunCommand(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{"mood", "/api/commands/mood", `{"args":{"mood":"happy"}}`, 200},
		{"no body", "/api/commands/blink", "", 200},
		{"bad mood", "/api/commands/mood", `{"args":{"mood":"sleepy"}}`, 400},
		{"missing args", "/api/commands/radius", `{}`, 400},
		{"unknown", "/api/commands/dance", "", 404},
		{"bad body", "/api/commands/mood", `{"args":`, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, loop := newServer(t)
			code, body := do(t, s, "POST", tt.path, tt.body)
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", code, tt.wantCode, body)
			}
			if tt.name == "mood" && loop.Snapshot().Mood != eyes.MoodHappy {
				t.Error("mood command did not reach the loop")
			}
		})
	}
}

func TestHandleRunCommand_ReturnsState(t *testing.T) {
	s, _ := newServer(t)
	_, body := do(t, s, "POST", "/api/commands/look", `{"args":{"direction":"ne"}}`)

	var resp struct {
		Command string     `json:"command"`
		State   eyes.State `json:"state"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Command != "look" || resp.State.Position != eyes.NorthEast {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandleFrame(t *testing.T) {
	s, _ := newServer(t)

	req := httptest.NewRequest("GET", "/api/frame.jpg", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 320 {
		t.Errorf("frame = %v", b)
	}
}

func TestHealthMetricsAndDashboard(t *testing.T) {
	s, loop := newServer(t)
	loop.Step(time.Now())

	if code, body := do(t, s, "GET", "/health", ""); code != 200 || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("/health = %d %s", code, body)
	}
	if code, body := do(t, s, "GET", "/metrics", ""); code != 200 || !strings.Contains(string(body), "roboeyes_ticks 1") {
		t.Errorf("/metrics = %d %s", code, body)
	}
	if code, body := do(t, s, "GET", "/api/stats", ""); code != 200 || !strings.Contains(string(body), `"viewers"`) {
		t.Errorf("/api/stats = %d %s", code, body)
	}
	if code, body := do(t, s, "GET", "/", ""); code != 200 || !strings.Contains(string(body), "/ws/frames") {
		t.Errorf("/ = %d", code)
	}
	if code, _ := do(t, s, "GET", "/ws/state", ""); code != 426 {
		t.Errorf("/ws/state without upgrade = %d, want 426", code)
	}
}

func TestWebSocketStreams(t *testing.T) {
	s, loop := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Run(ctx)

	addr := fmt.Sprintf("127.0.0.1:%d", 18190)
	go s.App().Listen(addr)
	defer s.App().Shutdown()
	time.Sleep(100 * time.Millisecond)

	state, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/state", nil)
	if err != nil {
		t.Fatalf("dial /ws/state: %v", err)
	}
	defer state.Close()

	state.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := state.ReadMessage()
	if err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	msg, err := protocol.ParseMessage(raw)
	if err != nil || msg.Type != protocol.TypeState {
		t.Fatalf("welcome = %s (%v)", raw, err)
	}

	events, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/events", nil)
	if err != nil {
		t.Fatalf("dial /ws/events: %v", err)
	}
	defer events.Close()
	time.Sleep(50 * time.Millisecond)

	if err := loop.Exec("blink", nil); err != nil {
		t.Fatal(err)
	}

	events.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err = events.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	msg, _ = protocol.ParseMessage(raw)
	ev, err := msg.GetEventData()
	if err != nil || ev.Type != eyes.EventBlink {
		t.Errorf("event = %s (%v)", raw, err)
	}
}
