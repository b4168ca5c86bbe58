// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements add_lead, find_leads, update_lead, and delete_lead tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/models"
	"salespad/store"
)

type LeadHandlers struct {
	crm *store.CRMStore
}

func NewLeadHandlers(crm *store.CRMStore) *LeadHandlers {
	return &LeadHandlers{crm: crm}
}

type AddLeadInput struct {
	Name    string `json:"name" jsonschema:"Lead name (required)"`
	Email   string `json:"email,omitempty" jsonschema:"Email address"`
	Phone   string `json:"phone,omitempty" jsonschema:"Phone number"`
	Company string `json:"company,omitempty" jsonschema:"Company name"`
	Source  string `json:"source,omitempty" jsonschema:"Where the lead came from"`
	Status  string `json:"status,omitempty" jsonschema:"Lead status: new, contacted, qualified, unqualified, converted (default new)"`
	Notes   string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

type LeadOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Source    string `json:"source,omitempty"`
	Status    string `json:"status"`
	Score     int    `json:"score,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *LeadHandlers) AddLead(ctx context.Context, request *mcp.CallToolRequest, input AddLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.Name == "" {
		return nil, LeadOutput{}, fmt.Errorf("name is required")
	}

	status := input.Status
	if status == "" {
		status = models.LeadStatusNew
	}
	if !isValidLeadStatus(status) {
		return nil, LeadOutput{}, fmt.Errorf("invalid status: %s (valid: new, contacted, qualified, unqualified, converted)", status)
	}

	lead, err := h.crm.CreateLead(ctx, models.Lead{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
		Source:  input.Source,
		Status:  status,
		Notes:   input.Notes,
	})
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to create lead: %w", err)
	}

	return nil, leadToOutput(lead), nil
}

type FindLeadsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search query matched against name, email, and company"`
	Status string `json:"status,omitempty" jsonschema:"Filter by lead status"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type FindLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
	Count int          `json:"count"`
}

func (h *LeadHandlers) FindLeads(ctx context.Context, request *mcp.CallToolRequest, input FindLeadsInput) (*mcp.CallToolResult, FindLeadsOutput, error) {
	if input.Limit == 0 {
		input.Limit = 10
	}

	if err := refreshLeads(ctx, h.crm); err != nil {
		return nil, FindLeadsOutput{}, err
	}

	var results []LeadOutput
	for _, lead := range h.crm.Leads() {
		if input.Status != "" && lead.Status != input.Status {
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

	return nil, FindLeadsOutput{Leads: results, Count: len(results)}, nil
}

type UpdateLeadInput struct {
	ID     string `json:"id" jsonschema:"Lead ID (required)"`
	Name   string `json:"name,omitempty" jsonschema:"Updated name"`
	Email  string `json:"email,omitempty" jsonschema:"Updated email"`
	Phone  string `json:"phone,omitempty" jsonschema:"Updated phone"`
	Status string `json:"status,omitempty" jsonschema:"Updated status"`
	Notes  string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *LeadHandlers) UpdateLead(ctx context.Context, request *mcp.CallToolRequest, input UpdateLeadInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.ID == "" {
		return nil, LeadOutput{}, fmt.Errorf("id is required")
	}
	if input.Status != "" && !isValidLeadStatus(input.Status) {
		return nil, LeadOutput{}, fmt.Errorf("invalid status: %s (valid: new, contacted, qualified, unqualified, converted)", input.Status)
	}

	updated, err := h.crm.UpdateLead(ctx, input.ID, models.Lead{
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Status: input.Status,
		Notes:  input.Notes,
	})
	if err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to update lead: %w", err)
	}

	return nil, leadToOutput(updated), nil
}

type DeleteLeadInput struct {
	ID string `json:"id" jsonschema:"Lead ID (required)"`
}

type DeleteLeadOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *LeadHandlers) DeleteLead(ctx context.Context, request *mcp.CallToolRequest, input DeleteLeadInput) (*mcp.CallToolResult, DeleteLeadOutput, error) {
	if input.ID == "" {
		return nil, DeleteLeadOutput{}, fmt.Errorf("id is required")
	}

	if err := h.crm.DeleteLead(ctx, input.ID); err != nil {
		return nil, DeleteLeadOutput{}, fmt.Errorf("failed to delete lead: %w", err)
	}

	return nil, DeleteLeadOutput{
		Success: true,
		Message: fmt.Sprintf("Lead %s deleted successfully", input.ID),
	}, nil
}

func matchesLead(lead models.Lead, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(lead.Name), q) ||
		strings.Contains(strings.ToLower(lead.Email), q) ||
		strings.Contains(strings.ToLower(lead.Company), q)
}

func isValidLeadStatus(status string) bool {
	switch status {
	case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusQualified,
		models.LeadStatusUnqualified, models.LeadStatusConverted:
		return true
	}
	return false
}

func leadToOutput(lead models.Lead) LeadOutput {
	return LeadOutput{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		Source:    lead.Source,
		Status:    lead.Status,
		Score:     lead.Score,
		Notes:     lead.Notes,
		CreatedAt: lead.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: lead.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
