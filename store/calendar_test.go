// ABOUTME: Tests for the calendar store
// ABOUTME: Covers event CRUD ordering and calendar-sync state tracking
package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"salespad/api"
	"salespad/models"
	"salespad/realtime"
)

func newCalendarStore(t *testing.T, handler http.HandlerFunc) *CalendarStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCalendarStore(api.NewClient(server.URL, "", nil), Options{})
}

func TestCalendarEventCRUD(t *testing.T) {
	store := newCalendarStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"data":{"data":[{"id":"e1","title":"Demo call"}]}}`))
		case http.MethodPost:
			w.Write([]byte(`{"data":{"id":"e2","title":"Site visit"}}`))
		case http.MethodPut:
			w.Write([]byte(`{"data":{"id":"e1","title":"Demo call (moved)"}}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()
	if err := store.FetchEvents(ctx); err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}

	if _, err := store.CreateEvent(ctx, models.CalendarEvent{Title: "Site visit"}); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	events := store.Events()
	if len(events) != 2 || events[1].ID != "e2" {
		t.Errorf("new event should be appended, got %+v", events)
	}

	if _, err := store.UpdateEvent(ctx, "e1", models.CalendarEvent{Title: "Demo call (moved)"}); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	if events := store.Events(); events[0].Title != "Demo call (moved)" {
		t.Errorf("event not replaced in place: %+v", events[0])
	}

	if err := store.DeleteEvent(ctx, "e2"); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if events := store.Events(); len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("expected only e1 to remain, got %+v", events)
	}
}

func TestCalendarSyncStatus(t *testing.T) {
	var gotPath string
	store := newCalendarStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"data":{"provider":"google","status":"syncing"}}`))
			return
		}
		w.Write([]byte(`{"data":{"provider":"google","status":"idle"}}`))
	})

	ctx := context.Background()
	if store.SyncState() != nil {
		t.Error("sync state should be nil before the first poll")
	}

	state, err := store.FetchSyncStatus(ctx)
	if err != nil {
		t.Fatalf("FetchSyncStatus failed: %v", err)
	}
	if gotPath != "/calendar-sync/status" {
		t.Errorf("wrong status path: %s", gotPath)
	}
	if state.Status != models.SyncStatusIdle {
		t.Errorf("expected idle state, got %+v", state)
	}

	state, err = store.TriggerSync(ctx)
	if err != nil {
		t.Fatalf("TriggerSync failed: %v", err)
	}
	if gotPath != "/calendar-sync/sync" {
		t.Errorf("wrong sync path: %s", gotPath)
	}
	if state.Status != models.SyncStatusSyncing {
		t.Errorf("expected syncing state, got %+v", state)
	}
	if cached := store.SyncState(); cached == nil || cached.Status != models.SyncStatusSyncing {
		t.Errorf("sync state should be cached, got %+v", cached)
	}
}

func TestCalendarRealtimeEvents(t *testing.T) {
	store := newCalendarStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"e1","title":"Demo call"}]`))
	})
	if err := store.FetchEvents(context.Background()); err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}

	evt := realtime.Event{
		Entity: realtime.EntityCalendarEvent,
		Action: realtime.ActionCreated,
		Data:   json.RawMessage(`{"id":"e2","title":"Site visit"}`),
	}
	store.HandleRealtimeEvent(evt)
	store.HandleRealtimeEvent(evt) // duplicate delivery replaces, not duplicates

	events := store.Events()
	if len(events) != 2 || events[1].ID != "e2" {
		t.Errorf("created event should be appended once, got %+v", events)
	}

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityCalendarEvent,
		Action: realtime.ActionUpdated,
		Data:   json.RawMessage(`{"id":"e1","title":"Demo call (moved)"}`),
	})
	if events := store.Events(); events[0].Title != "Demo call (moved)" {
		t.Errorf("event not replaced in place: %+v", events[0])
	}

	// Updates for events we never fetched are dropped, not inserted
	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityCalendarEvent,
		Action: realtime.ActionUpdated,
		Data:   json.RawMessage(`{"id":"e9","title":"Phantom"}`),
	})
	if len(store.Events()) != 2 {
		t.Errorf("updated event for unknown ID should be skipped, got %+v", store.Events())
	}

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityCalendarEvent,
		Action: realtime.ActionDeleted,
		Data:   json.RawMessage(`{"id":"e2"}`),
	})
	if events := store.Events(); len(events) != 1 || events[0].ID != "e1" {
		t.Errorf("expected only e1 after delete event, got %+v", events)
	}

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityLead,
		Action: realtime.ActionDeleted,
		Data:   json.RawMessage(`{"id":"e1"}`),
	})
	if len(store.Events()) != 1 {
		t.Error("non-calendar entities must leave the collection untouched")
	}
}
