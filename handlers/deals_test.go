// ABOUTME: Tests for deal MCP tool handlers
// ABOUTME: Covers stage validation, defaults, and the move-stage endpoint
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"salespad/api"
	"salespad/store"
)

func newDealHandlers(t *testing.T, handler http.HandlerFunc) *DealHandlers {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	crm := store.NewCRMStore(api.NewClient(server.URL, "", nil), store.Options{})
	return NewDealHandlers(crm)
}

func TestCreateDealRequiresTitle(t *testing.T) {
	h := newDealHandlers(t, func(w http.ResponseWriter, r *http.Request) {})

	_, _, err := h.CreateDeal(context.Background(), nil, CreateDealInput{})
	if err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestCreateDealDefaults(t *testing.T) {
	var posted map[string]interface{}
	h := newDealHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&posted)
		w.Write([]byte(`{"data":{"id":"d1","title":"Acme rollout","currency":"USD","stage":"prospecting"}}`))
	})

	_, out, err := h.CreateDeal(context.Background(), nil, CreateDealInput{Title: "Acme rollout"})
	if err != nil {
		t.Fatalf("CreateDeal failed: %v", err)
	}
	if posted["currency"] != "USD" {
		t.Errorf("expected USD default, got %v", posted["currency"])
	}
	if posted["stage"] != "prospecting" {
		t.Errorf("expected prospecting default, got %v", posted["stage"])
	}
	if out.ID != "d1" {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestCreateDealRejectsInvalidStage(t *testing.T) {
	h := newDealHandlers(t, func(w http.ResponseWriter, r *http.Request) {})

	_, _, err := h.CreateDeal(context.Background(), nil, CreateDealInput{Title: "Acme rollout", Stage: "bogus"})
	if err == nil {
		t.Fatal("expected error for invalid stage")
	}
}

func TestCreateDealRejectsBadCloseDate(t *testing.T) {
	h := newDealHandlers(t, func(w http.ResponseWriter, r *http.Request) {})

	_, _, err := h.CreateDeal(context.Background(), nil, CreateDealInput{
		Title:             "Acme rollout",
		ExpectedCloseDate: "next tuesday",
	})
	if err == nil {
		t.Fatal("expected error for unparseable close date")
	}
}

func TestMoveDealStage(t *testing.T) {
	var gotPath string
	h := newDealHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":{"id":"d1","title":"Acme rollout","currency":"USD","stage":"proposal"}}`))
	})

	_, out, err := h.MoveDealStage(context.Background(), nil, MoveDealStageInput{ID: "d1", Stage: "proposal"})
	if err != nil {
		t.Fatalf("MoveDealStage failed: %v", err)
	}
	if gotPath != "/crm/deals/d1/move-stage" {
		t.Errorf("wrong path: %s", gotPath)
	}
	if out.Stage != "proposal" {
		t.Errorf("expected proposal stage back, got %+v", out)
	}
}

func TestMoveDealStageValidates(t *testing.T) {
	h := newDealHandlers(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, _, err := h.MoveDealStage(context.Background(), nil, MoveDealStageInput{Stage: "proposal"}); err == nil {
		t.Error("expected error for missing id")
	}
	if _, _, err := h.MoveDealStage(context.Background(), nil, MoveDealStageInput{ID: "d1"}); err == nil {
		t.Error("expected error for missing stage")
	}
	if _, _, err := h.MoveDealStage(context.Background(), nil, MoveDealStageInput{ID: "d1", Stage: "bogus"}); err == nil {
		t.Error("expected error for invalid stage")
	}
}
