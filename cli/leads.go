// ABOUTME: Lead CLI commands
// ABOUTME: Human-friendly commands for managing leads
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"salespad/models"
)

// AddLeadCommand adds a new lead.
func AddLeadCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-lead", flag.ExitOnError)
	name := fs.String("name", "", "Lead name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	source := fs.String("source", "", "Where the lead came from")
	status := fs.String("status", models.LeadStatusNew, "Status (new, contacted, qualified, unqualified, converted)")
	notes := fs.String("notes", "", "Initial notes")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	lead, err := app.CRM.CreateLead(context.Background(), models.Lead{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Source:  *source,
		Status:  *status,
		Notes:   *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	fmt.Printf("✓ Lead created: %s (ID: %s)\n", lead.Name, lead.ID)
	if lead.Company != "" {
		fmt.Printf("  Company: %s\n", lead.Company)
	}
	fmt.Printf("  Status: %s\n", lead.Status)
	return nil
}

// ListLeadsCommand lists leads, optionally filtered.
func ListLeadsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-leads", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status")
	query := fs.String("query", "", "Match name, email, or company")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := app.CRM.FetchLeads(context.Background()); err != nil {
		if len(app.CRM.Leads()) == 0 {
			return fmt.Errorf("failed to fetch leads: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached leads: %v\n", err)
	}

	var leads []models.Lead
	for _, lead := range app.CRM.Leads() {
		if *status != "" && lead.Status != *status {
			continue
		}
		if *query != "" && !leadMatches(lead, *query) {
			continue
		}
		leads = append(leads, lead)
		if len(leads) >= *limit {
			break
		}
	}

	if len(leads) == 0 {
		fmt.Println("No leads found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCOMPANY\tEMAIL\tSTATUS\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t-----\t------\t--")
	for _, lead := range leads {
		company := lead.Company
		if company == "" {
			company = "-"
		}
		email := lead.Email
		if email == "" {
			email = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", lead.Name, company, email, lead.Status, lead.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d lead(s)\n", len(leads))
	return nil
}

// UpdateLeadCommand updates fields on an existing lead.
func UpdateLeadCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("update-lead", flag.ExitOnError)
	name := fs.String("name", "", "New name")
	email := fs.String("email", "", "New email")
	phone := fs.String("phone", "", "New phone")
	company := fs.String("company", "", "New company")
	status := fs.String("status", "", "New status")
	notes := fs.String("notes", "", "New notes")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: update-lead [flags] <id>")
	}

	patch := models.Lead{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Status:  *status,
		Notes:   *notes,
	}
	lead, err := app.CRM.UpdateLead(context.Background(), fs.Arg(0), patch)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	fmt.Printf("✓ Lead updated: %s (ID: %s)\n", lead.Name, lead.ID)
	return nil
}

// DeleteLeadCommand deletes a lead.
func DeleteLeadCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-lead", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: delete-lead <id>")
	}

	if err := app.CRM.DeleteLead(context.Background(), fs.Arg(0)); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	fmt.Printf("✓ Deleted lead: %s\n", fs.Arg(0))
	return nil
}

func leadMatches(lead models.Lead, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(lead.Name), q) ||
		strings.Contains(strings.ToLower(lead.Email), q) ||
		strings.Contains(strings.ToLower(lead.Company), q)
}
