// ABOUTME: Contact CLI commands
// ABOUTME: Contact management plus communication logging
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

// AddContactCommand adds a new contact.
func AddContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company name")
	title := fs.String("title", "", "Job title")
	notes := fs.String("notes", "", "Initial notes")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	contact, err := app.CRM.CreateContact(context.Background(), models.Contact{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Title:   *title,
		Notes:   *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %s)\n", contact.Name, contact.ID)
	return nil
}

// ListContactsCommand lists contacts, optionally filtered by a query.
func ListContactsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Match name, email, or company")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := app.CRM.FetchContacts(context.Background()); err != nil {
		if len(app.CRM.Contacts()) == 0 {
			return fmt.Errorf("failed to fetch contacts: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached contacts: %v\n", err)
	}

	var contacts []models.Contact
	for _, contact := range app.CRM.Contacts() {
		if *query != "" && !contactMatches(contact, *query) {
			continue
		}
		contacts = append(contacts, contact)
		if len(contacts) >= *limit {
			break
		}
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tCOMPANY\tTITLE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-------\t-----\t--")
	for _, contact := range contacts {
		email := contact.Email
		if email == "" {
			email = "-"
		}
		company := contact.Company
		if company == "" {
			company = "-"
		}
		title := contact.Title
		if title == "" {
			title = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", contact.Name, email, company, title, contact.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// UpdateContactCommand updates fields on an existing contact.
func UpdateContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "New name")
	email := fs.String("email", "", "New email")
	phone := fs.String("phone", "", "New phone")
	company := fs.String("company", "", "New company")
	title := fs.String("title", "", "New job title")
	notes := fs.String("notes", "", "New notes")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: update-contact [flags] <id>")
	}

	patch := models.Contact{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Company: *company,
		Title:   *title,
		Notes:   *notes,
	}
	contact, err := app.CRM.UpdateContact(context.Background(), fs.Arg(0), patch)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Contact updated: %s (ID: %s)\n", contact.Name, contact.ID)
	return nil
}

// DeleteContactCommand deletes a contact.
func DeleteContactCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: delete-contact <id>")
	}

	if err := app.CRM.DeleteContact(context.Background(), fs.Arg(0)); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	fmt.Printf("✓ Deleted contact: %s\n", fs.Arg(0))
	return nil
}

// LogCommunicationCommand records a touchpoint with a lead or contact.
func LogCommunicationCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("log-communication", flag.ExitOnError)
	leadID := fs.String("lead", "", "Lead ID")
	contactID := fs.String("contact", "", "Contact ID")
	channel := fs.String("channel", "", "Channel (call, email, sms, meeting)")
	direction := fs.String("direction", "outbound", "Direction (inbound, outbound)")
	subject := fs.String("subject", "", "Short subject line")
	body := fs.String("body", "", "Details")
	_ = fs.Parse(args)

	if *leadID == "" && *contactID == "" {
		return fmt.Errorf("--lead or --contact is required")
	}
	if *channel == "" {
		return fmt.Errorf("--channel is required")
	}

	comm, err := app.CRM.LogCommunication(context.Background(), models.Communication{
		LeadID:    *leadID,
		ContactID: *contactID,
		Channel:   *channel,
		Direction: *direction,
		Subject:   *subject,
		Body:      *body,
	})
	if err != nil {
		return fmt.Errorf("failed to log communication: %w", err)
	}

	fmt.Printf("✓ Communication logged: %s (ID: %s)\n", comm.Channel, comm.ID)
	return nil
}

// ListCommunicationsCommand lists logged touchpoints, newest first.
func ListCommunicationsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list-communications", flag.ExitOnError)
	leadID := fs.String("lead", "", "Filter by lead ID")
	contactID := fs.String("contact", "", "Filter by contact ID")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := app.CRM.FetchCommunications(context.Background()); err != nil {
		if len(app.CRM.Communications()) == 0 {
			return fmt.Errorf("failed to fetch communications: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached communications: %v\n", err)
	}

	var comms []models.Communication
	for _, comm := range app.CRM.Communications() {
		if *leadID != "" && comm.LeadID != *leadID {
			continue
		}
		if *contactID != "" && comm.ContactID != *contactID {
			continue
		}
		comms = append(comms, comm)
		if len(comms) >= *limit {
			break
		}
	}

	if len(comms) == 0 {
		fmt.Println("No communications found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tCHANNEL\tDIRECTION\tSUBJECT\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t---------\t-------\t--")
	for _, comm := range comms {
		subject := comm.Subject
		if subject == "" {
			subject = "-"
		}
		direction := comm.Direction
		if direction == "" {
			direction = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			comm.CreatedAt.Format("2006-01-02"), comm.Channel, direction, subject, comm.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d communication(s)\n", len(comms))
	return nil
}

func contactMatches(contact models.Contact, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(contact.Name), q) ||
		strings.Contains(strings.ToLower(contact.Email), q) ||
		strings.Contains(strings.ToLower(contact.Company), q)
}
