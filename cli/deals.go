// ABOUTME: Deal CLI commands
// ABOUTME: Deal CRUD plus pipeline stage moves
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"salespad/models"
)

// AddDealCommand adds a new deal.
func AddDealCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-deal", flag.ExitOnError)
	title := fs.String("title", "", "Deal title (required)")
	amount := fs.Int64("amount", 0, "Deal amount in cents")
	currency := fs.String("currency", "USD", "Currency code")
	stage := fs.String("stage", models.StageProspecting, "Stage (prospecting, qualification, proposal, negotiation, closed_won, closed_lost)")
	company := fs.String("company", "", "Company name")
	leadID := fs.String("lead", "", "Lead ID the deal came from")
	contactID := fs.String("contact", "", "Primary contact ID")
	closeDate := fs.String("close-date", "", "Expected close date (YYYY-MM-DD)")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}

	deal := models.Deal{
		Title:     *title,
		Amount:    *amount,
		Currency:  *currency,
		Stage:     *stage,
		Company:   *company,
		LeadID:    *leadID,
		ContactID: *contactID,
	}
	if *closeDate != "" {
		parsed, err := time.Parse("2006-01-02", *closeDate)
		if err != nil {
			return fmt.Errorf("invalid close date %q: %w", *closeDate, err)
		}
		deal.ExpectedCloseDate = &parsed
	}

	created, err := app.CRM.CreateDeal(context.Background(), deal)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	fmt.Printf("✓ Deal created: %s (ID: %s)\n", created.Title, created.ID)
	fmt.Printf("  Amount: $%.2f %s\n", float64(created.Amount)/100.0, created.Currency)
	fmt.Printf("  Stage: %s\n", created.Stage)
	return nil
}

// ListDealsCommand lists deals, optionally filtered by stage.
func ListDealsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	stage := fs.String("stage", "", "Filter by stage")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := app.CRM.FetchDeals(context.Background()); err != nil {
		if len(app.CRM.Deals()) == 0 {
			return fmt.Errorf("failed to fetch deals: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached deals: %v\n", err)
	}

	var deals []models.Deal
	for _, deal := range app.CRM.Deals() {
		if *stage != "" && deal.Stage != *stage {
			continue
		}
		deals = append(deals, deal)
		if len(deals) >= *limit {
			break
		}
	}

	if len(deals) == 0 {
		fmt.Println("No deals found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tCOMPANY\tAMOUNT\tSTAGE\tID")
	_, _ = fmt.Fprintln(w, "-----\t-------\t------\t-----\t--")

	var total int64
	for _, deal := range deals {
		company := deal.Company
		if company == "" {
			company = "-"
		}
		amountStr := fmt.Sprintf("$%.2f", float64(deal.Amount)/100.0)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", deal.Title, company, amountStr, deal.Stage, deal.ID)
		total += deal.Amount
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d deal(s) - $%.2f\n", len(deals), float64(total)/100.0)
	return nil
}

// UpdateDealCommand updates fields on an existing deal.
func UpdateDealCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("update-deal", flag.ExitOnError)
	title := fs.String("title", "", "New title")
	amount := fs.Int64("amount", 0, "New amount in cents")
	stage := fs.String("stage", "", "New stage")
	closeDate := fs.String("close-date", "", "New expected close date (YYYY-MM-DD)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: update-deal [flags] <id>")
	}

	patch := models.Deal{
		Title:  *title,
		Amount: *amount,
		Stage:  *stage,
	}
	if *closeDate != "" {
		parsed, err := time.Parse("2006-01-02", *closeDate)
		if err != nil {
			return fmt.Errorf("invalid close date %q: %w", *closeDate, err)
		}
		patch.ExpectedCloseDate = &parsed
	}

	deal, err := app.CRM.UpdateDeal(context.Background(), fs.Arg(0), patch)
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}

	fmt.Printf("✓ Deal updated: %s (ID: %s)\n", deal.Title, deal.ID)
	return nil
}

// MoveDealCommand moves a deal to a new pipeline stage.
func MoveDealCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("move-deal", flag.ExitOnError)
	stage := fs.String("stage", "", "Target stage (required)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: move-deal --stage <stage> <id>")
	}
	if *stage == "" {
		return fmt.Errorf("--stage is required")
	}

	deal, err := app.CRM.MoveDealStage(context.Background(), fs.Arg(0), *stage)
	if err != nil {
		return fmt.Errorf("failed to move deal: %w", err)
	}

	fmt.Printf("✓ Deal moved to %s: %s\n", deal.Stage, deal.Title)
	return nil
}

// DeleteDealCommand deletes a deal.
func DeleteDealCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-deal", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: delete-deal <id>")
	}

	if err := app.CRM.DeleteDeal(context.Background(), fs.Arg(0)); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	fmt.Printf("✓ Deleted deal: %s\n", fs.Arg(0))
	return nil
}
