// ABOUTME: Web dashboard CLI command
// ABOUTME: Fetches the collections then serves the read-only dashboard
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"salespad/web"
)

// WebCommand starts the read-only web dashboard.
func WebCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	_ = fs.Parse(args)

	ctx := context.Background()
	if err := app.CRM.FetchLeads(ctx); err != nil && len(app.CRM.Leads()) == 0 {
		return fmt.Errorf("failed to fetch leads: %w", err)
	}
	if err := app.CRM.FetchContacts(ctx); err != nil && len(app.CRM.Contacts()) == 0 {
		fmt.Fprintf(os.Stderr, "warning: serving without contacts: %v\n", err)
	}
	if err := app.CRM.FetchDeals(ctx); err != nil && len(app.CRM.Deals()) == 0 {
		fmt.Fprintf(os.Stderr, "warning: serving without deals: %v\n", err)
	}
	_ = app.Caller.FetchCalls(ctx)

	server, err := web.NewServer(app.CRM, app.Caller)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}
	return server.Start(*port)
}
