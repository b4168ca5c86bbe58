// ABOUTME: MCP server subcommand
// ABOUTME: Exposes the CRM stores as tools, prompts, and resources over stdio
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"salespad/handlers"
)

// MCPCommand starts the MCP server on stdio.
func MCPCommand(app *App) error {
	log.Println("Starting salespad MCP server...")

	leadHandlers := handlers.NewLeadHandlers(app.CRM)
	contactHandlers := handlers.NewContactHandlers(app.CRM)
	dealHandlers := handlers.NewDealHandlers(app.CRM)
	callHandlers := handlers.NewCallHandlers(app.Caller)
	queryHandlers := handlers.NewQueryHandlers(app.CRM)
	vizHandlers := handlers.NewVizHandlers(app.CRM)
	promptHandlers := handlers.NewPromptHandlers(app.CRM)
	resourceHandlers := handlers.NewResourceHandlers(app.CRM)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "salespad",
		Version: Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_lead",
		Description: "Add a new lead to the CRM",
	}, leadHandlers.AddLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_leads",
		Description: "Search for leads by name, email, or company, optionally filtered by status",
	}, leadHandlers.FindLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_lead",
		Description: "Update an existing lead's information",
	}, leadHandlers.UpdateLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_lead",
		Description: "Delete a lead from the CRM",
	}, leadHandlers.DeleteLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact to the CRM",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name, email, or company",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update an existing contact's information",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_communication",
		Description: "Log a touchpoint (call, email, sms, meeting) with a lead or contact",
	}, contactHandlers.LogCommunication)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_deal",
		Description: "Create a new deal with optional lead and contact references",
	}, dealHandlers.CreateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_deal",
		Description: "Update an existing deal's information including amount and close date",
	}, dealHandlers.UpdateDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_deal_stage",
		Description: "Move a deal to a new pipeline stage",
	}, dealHandlers.MoveDealStage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_deal",
		Description: "Delete a deal from the CRM",
	}, dealHandlers.DeleteDeal)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_call",
		Description: "Start a conversational-AI phone call",
	}, callHandlers.StartCall)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "end_call",
		Description: "End an in-progress AI call",
	}, callHandlers.EndCall)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_voices",
		Description: "List the available synthesized voices",
	}, callHandlers.ListVoices)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_crm",
		Description: "Universal query tool for flexible filtering across CRM entity types (lead, contact, deal, communication)",
	}, queryHandlers.QueryCRM)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz DOT graph of the pipeline or the lead/contact network",
	}, vizHandlers.GenerateGraph)

	server.AddPrompt(&mcp.Prompt{
		Name:        "lead-summary",
		Description: "Summarize a lead and its touchpoint history",
		Arguments: []*mcp.PromptArgument{
			{Name: "lead_id", Description: "Lead ID to summarize", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "pipeline-analysis",
		Description: "Analyze the current deal pipeline",
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "follow-up-suggestions",
		Description: "Suggest leads that need follow-up",
		Arguments: []*mcp.PromptArgument{
			{Name: "days_since_contact", Description: "Staleness threshold in days (default 30)"},
		},
	}, promptHandlers.GetPrompt)

	server.AddResource(&mcp.Resource{
		URI:         "crm://leads",
		Name:        "leads",
		Description: "All leads as JSON",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "crm://contacts",
		Name:        "contacts",
		Description: "All contacts as JSON",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "crm://deals",
		Name:        "deals",
		Description: "All deals as JSON",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "crm://pipeline",
		Name:        "pipeline",
		Description: "Deal pipeline grouped by stage with counts and totals",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://leads/{id}",
		Name:        "lead",
		Description: "A single lead as JSON",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "crm://contacts/{id}",
		Name:        "contact",
		Description: "A single contact as JSON",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
