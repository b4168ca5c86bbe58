// ABOUTME: Tests for the CRM store
// ABOUTME: Covers envelope shapes, ordering, selection invariants, fallback, and realtime events
package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"salespad/api"
	"salespad/cache"
	"salespad/models"
	"salespad/realtime"
)

func newCRMServer(t *testing.T, handler http.HandlerFunc) (*CRMStore, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL, "test-token", nil)
	return NewCRMStore(client, Options{}), server
}

func TestFetchLeadsEnvelopeShapes(t *testing.T) {
	leads := `[{"id":"l1","name":"Ada","status":"new"},{"id":"l2","name":"Grace","status":"qualified"}]`
	bodies := map[string]string{
		"raw array":   leads,
		"single data": `{"data":` + leads + `}`,
		"double data": `{"data":{"data":` + leads + `}}`,
	}

	for name, body := range bodies {
		store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		if err := store.FetchLeads(context.Background()); err != nil {
			t.Fatalf("%s: FetchLeads failed: %v", name, err)
		}

		got := store.Leads()
		if len(got) != 2 {
			t.Fatalf("%s: expected 2 leads, got %d", name, len(got))
		}
		if got[0].ID != "l1" || got[1].ID != "l2" {
			t.Errorf("%s: wrong lead order: %q, %q", name, got[0].ID, got[1].ID)
		}
		if status := store.LeadsStatus(); status.Loading || status.Error != "" {
			t.Errorf("%s: expected clean status, got %+v", name, status)
		}
	}
}

func TestFetchReplacesWholesale(t *testing.T) {
	first := true
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if first {
			first = false
			w.Write([]byte(`[{"id":"l1","name":"Ada"},{"id":"l2","name":"Grace"}]`))
			return
		}
		w.Write([]byte(`[{"id":"l3","name":"Katherine"}]`))
	})

	ctx := context.Background()
	if err := store.FetchLeads(ctx); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if err := store.FetchLeads(ctx); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	got := store.Leads()
	if len(got) != 1 || got[0].ID != "l3" {
		t.Errorf("expected wholesale replacement with l3, got %+v", got)
	}
}

func TestCreateLeadPrepends(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"l1","name":"Ada"}]`))
			return
		}
		w.Write([]byte(`{"data":{"id":"l2","name":"Grace","status":"new"}}`))
	})

	ctx := context.Background()
	if err := store.FetchLeads(ctx); err != nil {
		t.Fatalf("FetchLeads failed: %v", err)
	}

	created, err := store.CreateLead(ctx, models.Lead{Name: "Grace"})
	if err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}
	if created.ID != "l2" {
		t.Errorf("expected server-assigned id l2, got %q", created.ID)
	}

	got := store.Leads()
	if len(got) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(got))
	}
	if got[0].ID != "l2" {
		t.Errorf("new lead should be prepended, got order %q, %q", got[0].ID, got[1].ID)
	}
	if store.SelectedLead() != nil {
		t.Error("creating a lead must not select it")
	}
}

func TestCreateContactAppends(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"data":[{"id":"c1","name":"Dana"}]}`))
			return
		}
		w.Write([]byte(`{"data":{"id":"c2","name":"Miguel"}}`))
	})

	ctx := context.Background()
	if err := store.FetchContacts(ctx); err != nil {
		t.Fatalf("FetchContacts failed: %v", err)
	}
	if _, err := store.CreateContact(ctx, models.Contact{Name: "Miguel"}); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	got := store.Contacts()
	if len(got) != 2 || got[1].ID != "c2" {
		t.Errorf("new contact should be appended, got %+v", got)
	}
}

func TestUpdateLeadRefreshesSelected(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"l1","name":"Ada","status":"new"}]`))
			return
		}
		w.Write([]byte(`{"data":{"id":"l1","name":"Ada Lovelace","status":"contacted"}}`))
	})

	ctx := context.Background()
	if err := store.FetchLeads(ctx); err != nil {
		t.Fatalf("FetchLeads failed: %v", err)
	}
	if !store.SelectLead("l1") {
		t.Fatal("SelectLead should succeed for a known id")
	}

	if _, err := store.UpdateLead(ctx, "l1", models.Lead{Name: "Ada Lovelace"}); err != nil {
		t.Fatalf("UpdateLead failed: %v", err)
	}

	selected := store.SelectedLead()
	if selected == nil {
		t.Fatal("selected lead should survive an update")
	}
	if selected.Name != "Ada Lovelace" || selected.Status != "contacted" {
		t.Errorf("selected lead not refreshed: %+v", selected)
	}
}

func TestDeleteLeadClearsSelected(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"l1","name":"Ada"},{"id":"l2","name":"Grace"}]`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()
	if err := store.FetchLeads(ctx); err != nil {
		t.Fatalf("FetchLeads failed: %v", err)
	}
	store.SelectLead("l1")

	if err := store.DeleteLead(ctx, "l1"); err != nil {
		t.Fatalf("DeleteLead failed: %v", err)
	}

	got := store.Leads()
	if len(got) != 1 || got[0].ID != "l2" {
		t.Errorf("expected only l2 to remain, got %+v", got)
	}
	if store.SelectedLead() != nil {
		t.Error("selected reference should be nil after deleting the selected lead")
	}
}

func TestSelectLeadUnknownID(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"l1","name":"Ada"}]`))
	})
	if err := store.FetchLeads(context.Background()); err != nil {
		t.Fatalf("FetchLeads failed: %v", err)
	}

	if store.SelectLead("nope") {
		t.Error("selecting an unknown id should fail")
	}
	if store.SelectedLead() != nil {
		t.Error("failed select must not set the reference")
	}
}

func TestFetchLeadsFailureDemoFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "", nil)
	store := NewCRMStore(client, Options{DemoFallback: true})

	if err := store.FetchLeads(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	status := store.LeadsStatus()
	if status.Loading {
		t.Error("loading flag must clear on failure")
	}
	if status.Error == "" {
		t.Error("error message must be recorded")
	}

	got := store.Leads()
	if len(got) != 3 {
		t.Fatalf("demo lead fallback has fixed membership of 3, got %d", len(got))
	}
	wantIDs := []string{"demo-lead-1", "demo-lead-2", "demo-lead-3"}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("fallback member %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestFetchLeadsFailureNoFallbackKeepsCollection(t *testing.T) {
	healthy := true
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if healthy {
			w.Write([]byte(`[{"id":"l1","name":"Ada"}]`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	})

	ctx := context.Background()
	if err := store.FetchLeads(ctx); err != nil {
		t.Fatalf("FetchLeads failed: %v", err)
	}

	healthy = false
	if err := store.FetchLeads(ctx); err == nil {
		t.Fatal("expected fetch error")
	}

	got := store.Leads()
	if len(got) != 1 || got[0].ID != "l1" {
		t.Errorf("existing collection should be kept without fallback, got %+v", got)
	}
}

func TestFetchLeadsFailurePrefersSnapshot(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache open failed: %v", err)
	}
	defer c.Close()

	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy {
			w.Write([]byte(`[{"id":"l9","name":"Cached Lead"}]`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := api.NewClient(server.URL, "", nil)
	store := NewCRMStore(client, Options{Cache: c, DemoFallback: true})

	ctx := context.Background()
	if err := store.FetchLeads(ctx); err != nil {
		t.Fatalf("warm fetch failed: %v", err)
	}

	// A fresh store with the same cache should recover the snapshot, not the
	// demo dataset.
	healthy = false
	cold := NewCRMStore(client, Options{Cache: c, DemoFallback: true})
	if err := cold.FetchLeads(ctx); err == nil {
		t.Fatal("expected fetch error")
	}

	got := cold.Leads()
	if len(got) != 1 || got[0].ID != "l9" {
		t.Errorf("expected snapshot recovery, got %+v", got)
	}
}

func TestMoveDealStage(t *testing.T) {
	var movePath string
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"d1","title":"Rollout","stage":"proposal"}]`))
			return
		}
		movePath = r.URL.Path
		w.Write([]byte(`{"data":{"id":"d1","title":"Rollout","stage":"negotiation"}}`))
	})

	ctx := context.Background()
	if err := store.FetchDeals(ctx); err != nil {
		t.Fatalf("FetchDeals failed: %v", err)
	}

	moved, err := store.MoveDealStage(ctx, "d1", models.StageNegotiation)
	if err != nil {
		t.Fatalf("MoveDealStage failed: %v", err)
	}
	if movePath != "/crm/deals/d1/move-stage" {
		t.Errorf("wrong move-stage path: %s", movePath)
	}
	if moved.Stage != models.StageNegotiation {
		t.Errorf("expected negotiation stage, got %s", moved.Stage)
	}

	deals := store.Deals()
	if deals[0].Stage != models.StageNegotiation {
		t.Errorf("local deal not replaced: %+v", deals[0])
	}
}

func TestRealtimeEventsMutateOnlyMatchingID(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"l1","name":"Ada","status":"new"},{"id":"l2","name":"Grace","status":"new"}]`))
	})
	if err := store.FetchLeads(context.Background()); err != nil {
		t.Fatalf("FetchLeads failed: %v", err)
	}

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityLead,
		Action: realtime.ActionUpdated,
		Data:   json.RawMessage(`{"id":"l2","name":"Grace Hopper","status":"qualified"}`),
	})

	got := store.Leads()
	if got[0].Name != "Ada" {
		t.Errorf("unrelated lead mutated: %+v", got[0])
	}
	if got[1].Name != "Grace Hopper" || got[1].Status != "qualified" {
		t.Errorf("matching lead not replaced: %+v", got[1])
	}

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityLead,
		Action: realtime.ActionDeleted,
		Data:   json.RawMessage(`{"id":"l1"}`),
	})

	got = store.Leads()
	if len(got) != 1 || got[0].ID != "l2" {
		t.Errorf("expected only l2 after delete event, got %+v", got)
	}
}

func TestRealtimeCreatedInsertsOnce(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"l1","name":"Ada"}]`))
	})
	if err := store.FetchLeads(context.Background()); err != nil {
		t.Fatalf("FetchLeads failed: %v", err)
	}

	evt := realtime.Event{
		Entity: realtime.EntityLead,
		Action: realtime.ActionCreated,
		Data:   json.RawMessage(`{"id":"l3","name":"Katherine"}`),
	}
	store.HandleRealtimeEvent(evt)
	store.HandleRealtimeEvent(evt) // duplicate delivery replaces, not duplicates

	got := store.Leads()
	if len(got) != 2 {
		t.Fatalf("expected 2 leads after duplicate created events, got %d", len(got))
	}
	if got[0].ID != "l3" {
		t.Errorf("created lead should be prepended, got %+v", got)
	}
}

func TestRealtimeDeletedClearsSelected(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"d1","title":"Rollout","stage":"proposal"}]`))
	})
	if err := store.FetchDeals(context.Background()); err != nil {
		t.Fatalf("FetchDeals failed: %v", err)
	}
	store.SelectDeal("d1")

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityDeal,
		Action: realtime.ActionDeleted,
		Data:   json.RawMessage(`{"id":"d1"}`),
	})

	if len(store.Deals()) != 0 {
		t.Error("deal should be removed by the delete event")
	}
	if store.SelectedDeal() != nil {
		t.Error("selected deal should clear when the delete event matches")
	}
}

func TestRealtimeUnknownEntityIgnored(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"l1","name":"Ada"}]`))
	})
	if err := store.FetchLeads(context.Background()); err != nil {
		t.Fatalf("FetchLeads failed: %v", err)
	}

	store.HandleRealtimeEvent(realtime.Event{
		Entity: "widget",
		Action: realtime.ActionCreated,
		Data:   json.RawMessage(`{"id":"w1"}`),
	})
	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityLead,
		Action: "archived",
		Data:   json.RawMessage(`{"id":"l1"}`),
	})

	if len(store.Leads()) != 1 {
		t.Error("unknown entities and actions must leave collections untouched")
	}
}

func TestLogCommunicationPrepends(t *testing.T) {
	store, _ := newCRMServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"m1","channel":"email"}]`))
			return
		}
		w.Write([]byte(`{"data":{"id":"m2","channel":"call","lead_id":"l1"}}`))
	})

	ctx := context.Background()
	if err := store.FetchCommunications(ctx); err != nil {
		t.Fatalf("FetchCommunications failed: %v", err)
	}
	if _, err := store.LogCommunication(ctx, models.Communication{Channel: "call", LeadID: "l1"}); err != nil {
		t.Fatalf("LogCommunication failed: %v", err)
	}

	got := store.Communications()
	if len(got) != 2 || got[0].ID != "m2" {
		t.Errorf("new communication should be prepended, got %+v", got)
	}
}
