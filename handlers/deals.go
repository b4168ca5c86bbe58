// ABOUTME: Deal MCP tool handlers
// ABOUTME: Implements create_deal, update_deal, move_deal_stage, and delete_deal tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/models"
	"salespad/store"
)

type DealHandlers struct {
	crm *store.CRMStore
}

func NewDealHandlers(crm *store.CRMStore) *DealHandlers {
	return &DealHandlers{crm: crm}
}

type CreateDealInput struct {
	Title             string `json:"title" jsonschema:"Deal title (required)"`
	Amount            int64  `json:"amount,omitempty" jsonschema:"Deal amount in cents"`
	Currency          string `json:"currency,omitempty" jsonschema:"Currency code (default USD)"`
	Stage             string `json:"stage,omitempty" jsonschema:"Deal stage: prospecting, qualification, proposal, negotiation, closed_won, closed_lost"`
	Company           string `json:"company,omitempty" jsonschema:"Company name"`
	LeadID            string `json:"lead_id,omitempty" jsonschema:"Lead the deal originated from"`
	ContactID         string `json:"contact_id,omitempty" jsonschema:"Primary contact for the deal"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty" jsonschema:"Expected close date in ISO 8601 format"`
}

type DealOutput struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Amount            int64  `json:"amount,omitempty"`
	Currency          string `json:"currency"`
	Stage             string `json:"stage"`
	Company           string `json:"company,omitempty"`
	LeadID            string `json:"lead_id,omitempty"`
	ContactID         string `json:"contact_id,omitempty"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

func (h *DealHandlers) CreateDeal(ctx context.Context, request *mcp.CallToolRequest, input CreateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.Title == "" {
		return nil, DealOutput{}, fmt.Errorf("title is required")
	}

	// Set defaults
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	stage := input.Stage
	if stage == "" {
		stage = models.StageProspecting
	}
	if !isValidStage(stage) {
		return nil, DealOutput{}, fmt.Errorf("invalid stage: %s (valid: prospecting, qualification, proposal, negotiation, closed_won, closed_lost)", stage)
	}

	deal := models.Deal{
		Title:     input.Title,
		Amount:    input.Amount,
		Currency:  currency,
		Stage:     stage,
		Company:   input.Company,
		LeadID:    input.LeadID,
		ContactID: input.ContactID,
	}

	if input.ExpectedCloseDate != "" {
		parsedTime, err := time.Parse(time.RFC3339, input.ExpectedCloseDate)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid expected_close_date format (use ISO 8601/RFC3339): %w", err)
		}
		deal.ExpectedCloseDate = &parsedTime
	}

	created, err := h.crm.CreateDeal(ctx, deal)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to create deal: %w", err)
	}

	return nil, dealToOutput(created), nil
}

type UpdateDealInput struct {
	ID                string `json:"id" jsonschema:"Deal ID (required)"`
	Title             string `json:"title,omitempty" jsonschema:"Updated deal title"`
	Amount            *int64 `json:"amount,omitempty" jsonschema:"Updated deal amount in cents"`
	Currency          string `json:"currency,omitempty" jsonschema:"Updated currency code"`
	ExpectedCloseDate string `json:"expected_close_date,omitempty" jsonschema:"Updated expected close date in ISO 8601 format"`
}

func (h *DealHandlers) UpdateDeal(ctx context.Context, request *mcp.CallToolRequest, input UpdateDealInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ID == "" {
		return nil, DealOutput{}, fmt.Errorf("id is required")
	}

	patch := models.Deal{
		Title:    input.Title,
		Currency: input.Currency,
	}
	if input.Amount != nil {
		patch.Amount = *input.Amount
	}
	if input.ExpectedCloseDate != "" {
		parsedTime, err := time.Parse(time.RFC3339, input.ExpectedCloseDate)
		if err != nil {
			return nil, DealOutput{}, fmt.Errorf("invalid expected_close_date format (use ISO 8601/RFC3339): %w", err)
		}
		patch.ExpectedCloseDate = &parsedTime
	}

	updated, err := h.crm.UpdateDeal(ctx, input.ID, patch)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to update deal: %w", err)
	}

	return nil, dealToOutput(updated), nil
}

type MoveDealStageInput struct {
	ID    string `json:"id" jsonschema:"Deal ID (required)"`
	Stage string `json:"stage" jsonschema:"Target stage: prospecting, qualification, proposal, negotiation, closed_won, closed_lost (required)"`
}

func (h *DealHandlers) MoveDealStage(ctx context.Context, request *mcp.CallToolRequest, input MoveDealStageInput) (*mcp.CallToolResult, DealOutput, error) {
	if input.ID == "" {
		return nil, DealOutput{}, fmt.Errorf("id is required")
	}
	if input.Stage == "" {
		return nil, DealOutput{}, fmt.Errorf("stage is required")
	}
	if !isValidStage(input.Stage) {
		return nil, DealOutput{}, fmt.Errorf("invalid stage: %s (valid: prospecting, qualification, proposal, negotiation, closed_won, closed_lost)", input.Stage)
	}

	moved, err := h.crm.MoveDealStage(ctx, input.ID, input.Stage)
	if err != nil {
		return nil, DealOutput{}, fmt.Errorf("failed to move deal stage: %w", err)
	}

	return nil, dealToOutput(moved), nil
}

type DeleteDealInput struct {
	ID string `json:"id" jsonschema:"Deal ID (required)"`
}

type DeleteDealOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *DealHandlers) DeleteDeal(ctx context.Context, request *mcp.CallToolRequest, input DeleteDealInput) (*mcp.CallToolResult, DeleteDealOutput, error) {
	if input.ID == "" {
		return nil, DeleteDealOutput{}, fmt.Errorf("id is required")
	}

	if err := h.crm.DeleteDeal(ctx, input.ID); err != nil {
		return nil, DeleteDealOutput{}, fmt.Errorf("failed to delete deal: %w", err)
	}

	return nil, DeleteDealOutput{
		Success: true,
		Message: fmt.Sprintf("Deal %s deleted successfully", input.ID),
	}, nil
}

func isValidStage(stage string) bool {
	for _, valid := range models.PipelineStages {
		if stage == valid {
			return true
		}
	}
	return false
}

func dealToOutput(deal models.Deal) DealOutput {
	output := DealOutput{
		ID:        deal.ID,
		Title:     deal.Title,
		Amount:    deal.Amount,
		Currency:  deal.Currency,
		Stage:     deal.Stage,
		Company:   deal.Company,
		LeadID:    deal.LeadID,
		ContactID: deal.ContactID,
		CreatedAt: deal.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: deal.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if deal.ExpectedCloseDate != nil {
		output.ExpectedCloseDate = deal.ExpectedCloseDate.Format("2006-01-02T15:04:05Z07:00")
	}

	return output
}
