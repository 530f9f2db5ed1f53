package httpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPostJSON_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		var in map[string]string
		if err := json.Unmarshal(body, &in); err != nil {
			t.Errorf("request body %q: %v", body, err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["mood"]})
	}))
	defer srv.Close()

	var out map[string]string
	if err := PostJSON(srv.URL, map[string]string{"mood": "happy"}, &out); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if out["echo"] != "happy" {
		t.Errorf("response = %v", out)
	}
}

func TestGetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	err := GetJSON(srv.URL, nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.Code != http.StatusNotFound || se.Body != "nope" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestDeleteJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"state": "stopped"})
	}))
	defer srv.Close()

	var out map[string]string
	if err := DeleteJSON(srv.URL, &out); err != nil {
		t.Fatal(err)
	}
	if out["state"] != "stopped" {
		t.Errorf("response = %v", out)
	}
}
