// ABOUTME: Tests for lead MCP tool handlers
// ABOUTME: Covers validation, search filtering, and store wiring
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"salespad/api"
	"salespad/store"
)

func newLeadHandlers(t *testing.T, handler http.HandlerFunc) *LeadHandlers {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	crm := store.NewCRMStore(api.NewClient(server.URL, "", nil), store.Options{})
	return NewLeadHandlers(crm)
}

func TestAddLeadRequiresName(t *testing.T) {
	h := newLeadHandlers(t, func(w http.ResponseWriter, r *http.Request) {})

	_, _, err := h.AddLead(context.Background(), nil, AddLeadInput{})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestAddLeadRejectsInvalidStatus(t *testing.T) {
	h := newLeadHandlers(t, func(w http.ResponseWriter, r *http.Request) {})

	_, _, err := h.AddLead(context.Background(), nil, AddLeadInput{Name: "Jordan", Status: "bogus"})
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestAddLeadDefaultsStatusNew(t *testing.T) {
	h := newLeadHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"l1","name":"Jordan Rivera","status":"new"}}`))
	})

	_, out, err := h.AddLead(context.Background(), nil, AddLeadInput{Name: "Jordan Rivera"})
	if err != nil {
		t.Fatalf("AddLead failed: %v", err)
	}
	if out.ID != "l1" || out.Status != "new" {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestFindLeadsFiltersByQueryAndStatus(t *testing.T) {
	h := newLeadHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":"l1","name":"Jordan Rivera","company":"Acme","status":"new"},
			{"id":"l2","name":"Sam Okafor","company":"Initech","status":"qualified"},
			{"id":"l3","name":"Priya Nair","company":"Acme","status":"qualified"}]}`))
	})

	_, out, err := h.FindLeads(context.Background(), nil, FindLeadsInput{Query: "acme", Status: "qualified"})
	if err != nil {
		t.Fatalf("FindLeads failed: %v", err)
	}
	if out.Count != 1 || out.Leads[0].ID != "l3" {
		t.Errorf("expected only l3, got %+v", out)
	}
}

func TestFindLeadsHonorsLimit(t *testing.T) {
	h := newLeadHandlers(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"l1","name":"A","status":"new"},{"id":"l2","name":"B","status":"new"},{"id":"l3","name":"C","status":"new"}]`))
	})

	_, out, err := h.FindLeads(context.Background(), nil, FindLeadsInput{Limit: 2})
	if err != nil {
		t.Fatalf("FindLeads failed: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("expected 2 results, got %d", out.Count)
	}
}

func TestDeleteLeadRequiresID(t *testing.T) {
	h := newLeadHandlers(t, func(w http.ResponseWriter, r *http.Request) {})

	_, _, err := h.DeleteLead(context.Background(), nil, DeleteLeadInput{})
	if err == nil {
		t.Fatal("expected error for missing id")
	}
}
