// ABOUTME: Tests for the caller store
// ABOUTME: Covers current-call lifecycle, voice fallback membership, and script CRUD
package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"salespad/api"
	"salespad/models"
)

func newCallerStore(t *testing.T, handler http.HandlerFunc, opts Options) *CallerStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCallerStore(api.NewClient(server.URL, "", nil), opts)
}

func TestStartCallBecomesCurrent(t *testing.T) {
	store := newCallerStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"call-1","phone":"+15551234567","status":"dialing"}}`))
	}, Options{})

	started, err := store.StartCall(context.Background(), models.AICall{Phone: "+15551234567", VoiceID: "v1"})
	if err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}
	if started.ID != "call-1" {
		t.Errorf("expected server call id, got %q", started.ID)
	}

	current := store.CurrentCall()
	if current == nil || current.ID != "call-1" {
		t.Errorf("started call should become current, got %+v", current)
	}

	calls := store.Calls()
	if len(calls) != 1 || calls[0].ID != "call-1" {
		t.Errorf("started call should join the log, got %+v", calls)
	}
}

func TestEndCallClearsCurrent(t *testing.T) {
	var endPath string
	store := newCallerStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sales/conversational-ai/calls" {
			w.Write([]byte(`{"data":{"id":"call-1","phone":"+15551234567","status":"in_progress"}}`))
			return
		}
		endPath = r.URL.Path
		w.Write([]byte(`{"data":{"id":"call-1","phone":"+15551234567","status":"completed","duration_sec":93}}`))
	}, Options{})

	ctx := context.Background()
	if _, err := store.StartCall(ctx, models.AICall{Phone: "+15551234567"}); err != nil {
		t.Fatalf("StartCall failed: %v", err)
	}

	ended, err := store.EndCall(ctx, "call-1")
	if err != nil {
		t.Fatalf("EndCall failed: %v", err)
	}
	if endPath != "/sales/conversational-ai/calls/call-1/end" {
		t.Errorf("wrong end path: %s", endPath)
	}
	if ended.Status != models.CallStatusCompleted || ended.DurationSec != 93 {
		t.Errorf("ended call not replaced from server: %+v", ended)
	}

	if store.CurrentCall() != nil {
		t.Error("ending the current call should clear the current reference")
	}
	if calls := store.Calls(); calls[0].Status != models.CallStatusCompleted {
		t.Errorf("call log entry should reflect completion, got %+v", calls[0])
	}
}

func TestFetchVoicesFallbackMembership(t *testing.T) {
	store := newCallerStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, Options{DemoFallback: true})

	if err := store.FetchVoices(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	status := store.VoicesStatus()
	if status.Loading || status.Error == "" {
		t.Errorf("expected recorded error with loading cleared, got %+v", status)
	}

	voices := store.Voices()
	if len(voices) != 3 {
		t.Fatalf("demo voice fallback has fixed membership of 3, got %d", len(voices))
	}
	for i, want := range []string{"demo-voice-1", "demo-voice-2", "demo-voice-3"} {
		if voices[i].ID != want {
			t.Errorf("fallback voice %d: expected %s, got %s", i, want, voices[i].ID)
		}
	}
}

func TestScriptCRUD(t *testing.T) {
	store := newCallerStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"data":[{"id":"s1","name":"Cold intro"}]}`))
		case http.MethodPost:
			w.Write([]byte(`{"data":{"id":"s2","name":"Renewal"}}`))
		case http.MethodPut:
			w.Write([]byte(`{"data":{"id":"s1","name":"Warm intro"}}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}, Options{})

	ctx := context.Background()
	if err := store.FetchScripts(ctx); err != nil {
		t.Fatalf("FetchScripts failed: %v", err)
	}

	if _, err := store.CreateScript(ctx, models.CallScript{Name: "Renewal"}); err != nil {
		t.Fatalf("CreateScript failed: %v", err)
	}
	scripts := store.Scripts()
	if len(scripts) != 2 || scripts[1].ID != "s2" {
		t.Errorf("new script should be appended, got %+v", scripts)
	}

	if _, err := store.UpdateScript(ctx, "s1", models.CallScript{Name: "Warm intro"}); err != nil {
		t.Fatalf("UpdateScript failed: %v", err)
	}
	if scripts := store.Scripts(); scripts[0].Name != "Warm intro" {
		t.Errorf("script not replaced in place, got %+v", scripts[0])
	}

	if err := store.DeleteScript(ctx, "s2"); err != nil {
		t.Fatalf("DeleteScript failed: %v", err)
	}
	if scripts := store.Scripts(); len(scripts) != 1 || scripts[0].ID != "s1" {
		t.Errorf("expected only s1 to remain, got %+v", scripts)
	}
}
