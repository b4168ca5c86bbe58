// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides standardized prompts for common CRM operations
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/models"
	"salespad/store"
)

type PromptHandlers struct {
	crm *store.CRMStore
}

func NewPromptHandlers(crm *store.CRMStore) *PromptHandlers {
	return &PromptHandlers{crm: crm}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "lead-summary":
		return h.getLeadSummaryPrompt(ctx, arguments)
	case "pipeline-analysis":
		return h.getPipelineAnalysisPrompt(ctx)
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt(ctx, arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getLeadSummaryPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	leadID, ok := args["lead_id"]
	if !ok {
		return nil, fmt.Errorf("lead_id is required")
	}

	if err := refreshLeads(ctx, h.crm); err != nil {
		return nil, err
	}

	var lead *models.Lead
	for _, l := range h.crm.Leads() {
		if l.ID == leadID {
			lead = &l
			break
		}
	}
	if lead == nil {
		return nil, fmt.Errorf("lead not found: %s", leadID)
	}

	// Pull the lead's touchpoints for context
	if err := refreshCommunications(ctx, h.crm); err != nil {
		return nil, err
	}
	var touchpoints []models.Communication
	for _, comm := range h.crm.Communications() {
		if comm.LeadID == leadID {
			touchpoints = append(touchpoints, comm)
		}
	}

	// Build the prompt
	var promptText strings.Builder
	promptText.WriteString("Please provide a comprehensive summary of this lead:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", lead.Name))
	if lead.Email != "" {
		promptText.WriteString(fmt.Sprintf("Email: %s\n", lead.Email))
	}
	if lead.Phone != "" {
		promptText.WriteString(fmt.Sprintf("Phone: %s\n", lead.Phone))
	}
	if lead.Company != "" {
		promptText.WriteString(fmt.Sprintf("Company: %s\n", lead.Company))
	}
	promptText.WriteString(fmt.Sprintf("Status: %s\n", lead.Status))
	if lead.Score > 0 {
		promptText.WriteString(fmt.Sprintf("Score: %d\n", lead.Score))
	}
	if lead.LastContact != nil {
		promptText.WriteString(fmt.Sprintf("Last Contacted: %s\n", lead.LastContact.Format("2006-01-02")))
	}
	if len(touchpoints) > 0 {
		promptText.WriteString(fmt.Sprintf("\nTouchpoints: %d logged\n", len(touchpoints)))
		for _, comm := range touchpoints {
			promptText.WriteString(fmt.Sprintf("  - [%s] %s\n", comm.Channel, comm.Subject))
		}
	}
	if lead.Notes != "" {
		promptText.WriteString(fmt.Sprintf("\nNotes: %s\n", lead.Notes))
	}

	promptText.WriteString("\nPlease analyze this lead and provide:")
	promptText.WriteString("\n1. A brief summary of their situation and fit")
	promptText.WriteString("\n2. Recommendations for next steps or follow-up actions")
	promptText.WriteString("\n3. Any patterns or insights from their touchpoint history")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Summary for lead: %s", lead.Name),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getPipelineAnalysisPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	if err := refreshDeals(ctx, h.crm); err != nil {
		return nil, err
	}
	deals := h.crm.Deals()

	// Calculate pipeline metrics
	stageCount := make(map[string]int)
	stageValue := make(map[string]int64)
	totalValue := int64(0)

	for _, deal := range deals {
		stage := deal.Stage
		if stage == "" {
			stage = "unknown"
		}
		stageCount[stage]++
		stageValue[stage] += deal.Amount
		totalValue += deal.Amount
	}

	// Build the prompt
	var promptText strings.Builder
	promptText.WriteString("Please analyze the current deal pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Total Deals: %d\n", len(deals)))
	promptText.WriteString(fmt.Sprintf("Total Value: $%d\n\n", totalValue/100))
	promptText.WriteString("Pipeline by Stage:\n")
	for _, stage := range models.PipelineStages {
		if stageCount[stage] == 0 {
			continue
		}
		promptText.WriteString(fmt.Sprintf("  - %s: %d deals, $%d\n", stage, stageCount[stage], stageValue[stage]/100))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of pipeline health and distribution")
	promptText.WriteString("\n2. Recommendations for deals that may need attention")
	promptText.WriteString("\n3. Suggestions for improving conversion rates")

	return &mcp.GetPromptResult{
		Description: "Deal pipeline analysis",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	if err := refreshLeads(ctx, h.crm); err != nil {
		return nil, err
	}

	// Default to 30 days
	daysSince := "30"
	if d, ok := args["days_since_contact"]; ok {
		daysSince = d
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Leads that may need follow-up (no contact in %s+ days):\n\n", daysSince))

	count := 0
	for _, lead := range h.crm.Leads() {
		if lead.Status == models.LeadStatusConverted || lead.Status == models.LeadStatusUnqualified {
			continue
		}
		if lead.LastContact == nil {
			promptText.WriteString(fmt.Sprintf("- %s (never contacted)\n", lead.Name))
			count++
		}
	}

	if count == 0 {
		promptText.WriteString("All active leads have been contacted recently.\n")
	}

	promptText.WriteString("\nPlease:")
	promptText.WriteString("\n1. Prioritize which leads to reach out to first")
	promptText.WriteString("\n2. Suggest personalized outreach approaches for each")
	promptText.WriteString("\n3. Identify any patterns in follow-up gaps")

	return &mcp.GetPromptResult{
		Description: "Follow-up suggestions for leads",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}
