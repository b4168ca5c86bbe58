// ABOUTME: Visualization CLI commands
// ABOUTME: Pipeline and network graph generation plus the ASCII dashboard
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"salespad/viz"
)

// VizGraphPipelineCommand generates the deal pipeline funnel graph.
func VizGraphPipelineCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz graph pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := fetchForGraph(app, false); err != nil {
		return err
	}

	generator := viz.NewGraphGenerator(app.CRM)
	dot, err := generator.GeneratePipelineGraph()
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}
	fmt.Println(dot)
	return nil
}

// VizGraphNetworkCommand generates the lead/contact/deal network graph.
func VizGraphNetworkCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("viz graph network", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := fetchForGraph(app, true); err != nil {
		return err
	}

	generator := viz.NewGraphGenerator(app.CRM)
	dot, err := generator.GenerateNetworkGraph()
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}
	fmt.Println(dot)
	return nil
}

// VizDashboardCommand renders the ASCII dashboard.
func VizDashboardCommand(app *App, args []string) error {
	ctx := context.Background()
	if err := app.CRM.FetchLeads(ctx); err != nil && len(app.CRM.Leads()) == 0 {
		return fmt.Errorf("failed to fetch leads: %w", err)
	}
	if err := app.CRM.FetchContacts(ctx); err != nil && len(app.CRM.Contacts()) == 0 {
		return fmt.Errorf("failed to fetch contacts: %w", err)
	}
	if err := app.CRM.FetchDeals(ctx); err != nil && len(app.CRM.Deals()) == 0 {
		return fmt.Errorf("failed to fetch deals: %w", err)
	}
	// Calls are optional on the dashboard; ignore a failed fetch.
	_ = app.Caller.FetchCalls(ctx)

	stats := viz.GenerateDashboardStats(app.CRM, app.Caller)
	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

func fetchForGraph(app *App, withNetwork bool) error {
	ctx := context.Background()
	if err := app.CRM.FetchDeals(ctx); err != nil && len(app.CRM.Deals()) == 0 {
		return fmt.Errorf("failed to fetch deals: %w", err)
	}
	if !withNetwork {
		return nil
	}
	if err := app.CRM.FetchLeads(ctx); err != nil && len(app.CRM.Leads()) == 0 {
		return fmt.Errorf("failed to fetch leads: %w", err)
	}
	if err := app.CRM.FetchContacts(ctx); err != nil && len(app.CRM.Contacts()) == 0 {
		return fmt.Errorf("failed to fetch contacts: %w", err)
	}
	if err := app.CRM.FetchCommunications(ctx); err != nil && len(app.CRM.Communications()) == 0 {
		return fmt.Errorf("failed to fetch communications: %w", err)
	}
	return nil
}
