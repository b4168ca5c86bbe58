// ABOUTME: Universal query tool handler
// ABOUTME: Implements flexible filtering across all CRM entity types
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/store"
)

type QueryHandlers struct {
	crm *store.CRMStore
}

func NewQueryHandlers(crm *store.CRMStore) *QueryHandlers {
	return &QueryHandlers{crm: crm}
}

type QueryCRMInput struct {
	EntityType string                 `json:"entity_type" jsonschema:"Type of entity to query (lead, contact, deal, communication)"`
	Query      string                 `json:"query,omitempty" jsonschema:"Search query (for name/email/company)"`
	Filters    map[string]interface{} `json:"filters,omitempty" jsonschema:"Additional filters as key-value pairs"`
	Limit      int                    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type QueryCRMOutput struct {
	EntityType string        `json:"entity_type"`
	Results    []interface{} `json:"results"`
	Count      int           `json:"count"`
}

func (h *QueryHandlers) QueryCRM(ctx context.Context, req *mcp.CallToolRequest, input QueryCRMInput) (*mcp.CallToolResult, QueryCRMOutput, error) {
	// Set default limit
	if input.Limit == 0 {
		input.Limit = 10
	}

	switch input.EntityType {
	case "lead":
		return h.queryLeads(ctx, input)
	case "contact":
		return h.queryContacts(ctx, input)
	case "deal":
		return h.queryDeals(ctx, input)
	case "communication":
		return h.queryCommunications(ctx, input)
	default:
		return nil, QueryCRMOutput{}, fmt.Errorf("invalid entity_type: %s (valid: lead, contact, deal, communication)", input.EntityType)
	}
}

func (h *QueryHandlers) queryLeads(ctx context.Context, input QueryCRMInput) (*mcp.CallToolResult, QueryCRMOutput, error) {
	var status string
	if input.Filters != nil {
		if s, ok := input.Filters["status"].(string); ok {
			status = s
		}
	}

	if err := refreshLeads(ctx, h.crm); err != nil {
		return nil, QueryCRMOutput{}, err
	}

	var results []interface{}
	for _, lead := range h.crm.Leads() {
		if status != "" && lead.Status != status {
			continue
		}
		if input.Query != "" && !matchesLead(lead, input.Query) {
			continue
		}
		results = append(results, leadToOutput(lead))
		if len(results) >= input.Limit {
			break
		}
	}

	return &mcp.CallToolResult{}, QueryCRMOutput{
		EntityType: "lead",
		Results:    results,
		Count:      len(results),
	}, nil
}

func (h *QueryHandlers) queryContacts(ctx context.Context, input QueryCRMInput) (*mcp.CallToolResult, QueryCRMOutput, error) {
	if err := refreshContacts(ctx, h.crm); err != nil {
		return nil, QueryCRMOutput{}, err
	}

	var results []interface{}
	for _, contact := range h.crm.Contacts() {
		if input.Query != "" && !matchesContact(contact, input.Query) {
			continue
		}
		results = append(results, contactToOutput(contact))
		if len(results) >= input.Limit {
			break
		}
	}

	return &mcp.CallToolResult{}, QueryCRMOutput{
		EntityType: "contact",
		Results:    results,
		Count:      len(results),
	}, nil
}

func (h *QueryHandlers) queryDeals(ctx context.Context, input QueryCRMInput) (*mcp.CallToolResult, QueryCRMOutput, error) {
	// Extract filters
	var stage string
	var minAmount, maxAmount *int64

	if input.Filters != nil {
		if s, ok := input.Filters["stage"].(string); ok {
			stage = s
		}
		if minAmountRaw, ok := input.Filters["min_amount"]; ok {
			if minAmountFloat, ok := minAmountRaw.(float64); ok {
				amt := int64(minAmountFloat)
				minAmount = &amt
			}
		}
		if maxAmountRaw, ok := input.Filters["max_amount"]; ok {
			if maxAmountFloat, ok := maxAmountRaw.(float64); ok {
				amt := int64(maxAmountFloat)
				maxAmount = &amt
			}
		}
	}

	if err := refreshDeals(ctx, h.crm); err != nil {
		return nil, QueryCRMOutput{}, err
	}

	var results []interface{}
	for _, deal := range h.crm.Deals() {
		if stage != "" && deal.Stage != stage {
			continue
		}
		if minAmount != nil && deal.Amount < *minAmount {
			continue
		}
		if maxAmount != nil && deal.Amount > *maxAmount {
			continue
		}
		results = append(results, dealToOutput(deal))
		if len(results) >= input.Limit {
			break
		}
	}

	return &mcp.CallToolResult{}, QueryCRMOutput{
		EntityType: "deal",
		Results:    results,
		Count:      len(results),
	}, nil
}

func (h *QueryHandlers) queryCommunications(ctx context.Context, input QueryCRMInput) (*mcp.CallToolResult, QueryCRMOutput, error) {
	// Extract filters
	var leadID, contactID, channel string
	if input.Filters != nil {
		if id, ok := input.Filters["lead_id"].(string); ok {
			leadID = id
		}
		if id, ok := input.Filters["contact_id"].(string); ok {
			contactID = id
		}
		if c, ok := input.Filters["channel"].(string); ok {
			channel = c
		}
	}

	if err := refreshCommunications(ctx, h.crm); err != nil {
		return nil, QueryCRMOutput{}, err
	}

	var results []interface{}
	for _, comm := range h.crm.Communications() {
		if leadID != "" && comm.LeadID != leadID {
			continue
		}
		if contactID != "" && comm.ContactID != contactID {
			continue
		}
		if channel != "" && comm.Channel != channel {
			continue
		}
		results = append(results, communicationToOutput(comm))
		if len(results) >= input.Limit {
			break
		}
	}

	return &mcp.CallToolResult{}, QueryCRMOutput{
		EntityType: "communication",
		Results:    results,
		Count:      len(results),
	}, nil
}
