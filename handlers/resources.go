// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Provides read-only access to leads, contacts, and deals via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/store"
)

type ResourceHandlers struct {
	crm *store.CRMStore
}

func NewResourceHandlers(crm *store.CRMStore) *ResourceHandlers {
	return &ResourceHandlers{crm: crm}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	// Parse the URI
	if !strings.HasPrefix(uri, "crm://") {
		return nil, fmt.Errorf("invalid URI scheme: expected crm://")
	}

	path := strings.TrimPrefix(uri, "crm://")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "leads":
		if len(parts) == 1 {
			return h.readAllLeads(ctx)
		}
		return h.readLead(ctx, parts[1])

	case "contacts":
		if len(parts) == 1 {
			return h.readAllContacts(ctx)
		}
		return h.readContact(ctx, parts[1])

	case "deals":
		return h.readAllDeals(ctx)

	case "pipeline":
		return h.readPipeline(ctx)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readAllLeads(ctx context.Context) (*mcp.ReadResourceResult, error) {
	if err := refreshLeads(ctx, h.crm); err != nil {
		return nil, err
	}

	return jsonResource("crm://leads", h.crm.Leads())
}

func (h *ResourceHandlers) readLead(ctx context.Context, id string) (*mcp.ReadResourceResult, error) {
	if err := refreshLeads(ctx, h.crm); err != nil {
		return nil, err
	}

	for _, lead := range h.crm.Leads() {
		if lead.ID == id {
			return jsonResource("crm://leads/"+id, lead)
		}
	}
	return nil, fmt.Errorf("lead not found: %s", id)
}

func (h *ResourceHandlers) readAllContacts(ctx context.Context) (*mcp.ReadResourceResult, error) {
	if err := refreshContacts(ctx, h.crm); err != nil {
		return nil, err
	}

	return jsonResource("crm://contacts", h.crm.Contacts())
}

func (h *ResourceHandlers) readContact(ctx context.Context, id string) (*mcp.ReadResourceResult, error) {
	if err := refreshContacts(ctx, h.crm); err != nil {
		return nil, err
	}

	for _, contact := range h.crm.Contacts() {
		if contact.ID == id {
			return jsonResource("crm://contacts/"+id, contact)
		}
	}
	return nil, fmt.Errorf("contact not found: %s", id)
}

func (h *ResourceHandlers) readAllDeals(ctx context.Context) (*mcp.ReadResourceResult, error) {
	if err := refreshDeals(ctx, h.crm); err != nil {
		return nil, err
	}

	return jsonResource("crm://deals", h.crm.Deals())
}

func (h *ResourceHandlers) readPipeline(ctx context.Context) (*mcp.ReadResourceResult, error) {
	if err := refreshDeals(ctx, h.crm); err != nil {
		return nil, err
	}

	// Group by stage and calculate totals
	pipeline := make(map[string]struct {
		Count  int   `json:"count"`
		Amount int64 `json:"total_amount"`
	})

	for _, deal := range h.crm.Deals() {
		stage := deal.Stage
		if stage == "" {
			stage = "unknown"
		}
		p := pipeline[stage]
		p.Count++
		p.Amount += deal.Amount
		pipeline[stage] = p
	}

	return jsonResource("crm://pipeline", pipeline)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
