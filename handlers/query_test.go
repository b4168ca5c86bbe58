// ABOUTME: Tests for the universal query tool handler
// ABOUTME: Covers entity dispatch, filters, and offline fallback behavior
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"salespad/api"
	"salespad/store"
)

func newQueryHandlers(t *testing.T, handler http.HandlerFunc, opts store.Options) *QueryHandlers {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	crm := store.NewCRMStore(api.NewClient(server.URL, "", nil), opts)
	return NewQueryHandlers(crm)
}

func TestQueryCRMRejectsUnknownEntity(t *testing.T) {
	h := newQueryHandlers(t, func(w http.ResponseWriter, r *http.Request) {}, store.Options{})

	_, _, err := h.QueryCRM(context.Background(), nil, QueryCRMInput{EntityType: "invoice"})
	if err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestQueryCRMLeadsByStatus(t *testing.T) {
	h := newQueryHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":"l1","name":"Jordan Rivera","status":"new"},
			{"id":"l2","name":"Sam Okafor","status":"qualified"}]}`))
	}, store.Options{})

	_, out, err := h.QueryCRM(context.Background(), nil, QueryCRMInput{
		EntityType: "lead",
		Filters:    map[string]interface{}{"status": "qualified"},
	})
	if err != nil {
		t.Fatalf("QueryCRM failed: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("expected 1 result, got %d", out.Count)
	}
	lead, ok := out.Results[0].(LeadOutput)
	if !ok || lead.ID != "l2" {
		t.Errorf("expected l2, got %+v", out.Results[0])
	}
}

func TestQueryCRMDealsByAmountRange(t *testing.T) {
	h := newQueryHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":"d1","title":"Small","amount":100000,"currency":"USD","stage":"proposal"},
			{"id":"d2","title":"Medium","amount":2500000,"currency":"USD","stage":"proposal"},
			{"id":"d3","title":"Large","amount":90000000,"currency":"USD","stage":"proposal"}]}`))
	}, store.Options{})

	_, out, err := h.QueryCRM(context.Background(), nil, QueryCRMInput{
		EntityType: "deal",
		Filters: map[string]interface{}{
			"min_amount": float64(1000000),
			"max_amount": float64(10000000),
		},
	})
	if err != nil {
		t.Fatalf("QueryCRM failed: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("expected 1 result, got %d", out.Count)
	}
	deal, ok := out.Results[0].(DealOutput)
	if !ok || deal.ID != "d2" {
		t.Errorf("expected d2, got %+v", out.Results[0])
	}
}

func TestQueryCRMCommunicationsByLead(t *testing.T) {
	h := newQueryHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"c1","lead_id":"l1","channel":"call"},
			{"id":"c2","lead_id":"l2","channel":"email"},
			{"id":"c3","lead_id":"l1","channel":"email"}]`))
	}, store.Options{})

	_, out, err := h.QueryCRM(context.Background(), nil, QueryCRMInput{
		EntityType: "communication",
		Filters:    map[string]interface{}{"lead_id": "l1", "channel": "email"},
	})
	if err != nil {
		t.Fatalf("QueryCRM failed: %v", err)
	}
	if out.Count != 1 {
		t.Fatalf("expected 1 result, got %d", out.Count)
	}
	comm, ok := out.Results[0].(CommunicationOutput)
	if !ok || comm.ID != "c3" {
		t.Errorf("expected c3, got %+v", out.Results[0])
	}
}

func TestQueryCRMServesFallbackWhenOffline(t *testing.T) {
	h := newQueryHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, store.Options{DemoFallback: true})

	_, out, err := h.QueryCRM(context.Background(), nil, QueryCRMInput{EntityType: "lead"})
	if err != nil {
		t.Fatalf("QueryCRM should serve fallback data offline: %v", err)
	}
	if out.Count == 0 {
		t.Error("expected demo fallback leads in the results")
	}
}

func TestQueryCRMErrorsWhenOfflineWithNothingCached(t *testing.T) {
	h := newQueryHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, store.Options{})

	_, _, err := h.QueryCRM(context.Background(), nil, QueryCRMInput{EntityType: "lead"})
	if err == nil {
		t.Fatal("expected error when fetch fails and nothing is cached")
	}
}
