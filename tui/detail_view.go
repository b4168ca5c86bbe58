package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"salespad/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DETAIL VIEW"))
	s.WriteString("\n\n")

	switch m.entityType {
	case EntityLeads:
		s.WriteString(m.renderLeadDetail())
	case EntityContacts:
		s.WriteString(m.renderContactDetail())
	case EntityDeals:
		s.WriteString(m.renderDealDetail())
	case EntityCalls:
		s.WriteString(m.renderCallDetail())
	}

	s.WriteString("\n\n")
	s.WriteString(m.renderDetailHelp())
	return s.String()
}

func (m Model) renderLeadDetail() string {
	lead := m.findLead(m.selectedID)
	if lead == nil {
		return "Lead not found"
	}

	var s strings.Builder
	s.WriteString(m.renderField("Name", lead.Name))
	s.WriteString(m.renderField("Email", lead.Email))
	s.WriteString(m.renderField("Phone", lead.Phone))
	s.WriteString(m.renderField("Company", lead.Company))
	s.WriteString(m.renderField("Source", lead.Source))
	s.WriteString(m.renderField("Status", lead.Status))
	if lead.Score > 0 {
		s.WriteString(m.renderField("Score", fmt.Sprintf("%d", lead.Score)))
	}
	if lead.LastContact != nil {
		s.WriteString(m.renderField("Last Contact", lead.LastContact.Format("2006-01-02")))
	}
	s.WriteString(m.renderField("Notes", lead.Notes))

	// Touchpoints logged against this lead
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("TOUCHPOINTS"))
	s.WriteString("\n")
	for _, comm := range m.crm.Communications() {
		if comm.LeadID != lead.ID {
			continue
		}
		subject := comm.Subject
		if subject == "" {
			subject = comm.Body
		}
		s.WriteString(fmt.Sprintf("  • [%s] %s\n", comm.Channel, subject))
	}

	return s.String()
}

func (m Model) renderContactDetail() string {
	contact := m.findContact(m.selectedID)
	if contact == nil {
		return "Contact not found"
	}

	var s strings.Builder
	s.WriteString(m.renderField("Name", contact.Name))
	s.WriteString(m.renderField("Email", contact.Email))
	s.WriteString(m.renderField("Phone", contact.Phone))
	s.WriteString(m.renderField("Company", contact.Company))
	s.WriteString(m.renderField("Title", contact.Title))
	s.WriteString(m.renderField("Notes", contact.Notes))
	return s.String()
}

func (m Model) renderDealDetail() string {
	deal := m.findDeal(m.selectedID)
	if deal == nil {
		return "Deal not found"
	}

	var s strings.Builder
	s.WriteString(m.renderField("Title", deal.Title))
	s.WriteString(m.renderField("Company", deal.Company))
	s.WriteString(m.renderField("Stage", deal.Stage))
	s.WriteString(m.renderField("Amount", fmt.Sprintf("$%.2f %s", float64(deal.Amount)/100.0, deal.Currency)))
	if deal.ExpectedCloseDate != nil {
		s.WriteString(m.renderField("Expected Close", deal.ExpectedCloseDate.Format("2006-01-02")))
	}
	if deal.LeadID != "" {
		if lead := m.findLead(deal.LeadID); lead != nil {
			s.WriteString(m.renderField("Lead", lead.Name))
		}
	}
	if deal.ContactID != "" {
		if contact := m.findContact(deal.ContactID); contact != nil {
			s.WriteString(m.renderField("Contact", contact.Name))
		}
	}
	return s.String()
}

func (m Model) renderCallDetail() string {
	var call *models.AICall
	for _, c := range m.caller.Calls() {
		if c.ID == m.selectedID {
			call = &c
			break
		}
	}
	if call == nil {
		return "Call not found"
	}

	var s strings.Builder
	s.WriteString(m.renderField("Phone", call.Phone))
	s.WriteString(m.renderField("Status", call.Status))
	if call.DurationSec > 0 {
		s.WriteString(m.renderField("Duration", fmt.Sprintf("%ds", call.DurationSec)))
	}
	if call.StartedAt != nil {
		s.WriteString(m.renderField("Started", call.StartedAt.Format("2006-01-02 15:04")))
	}
	if call.Transcript != "" {
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().Bold(true).Render("TRANSCRIPT"))
		s.WriteString("\n")
		s.WriteString(call.Transcript)
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"d: Delete",
		"g: View graph",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "d":
		if m.entityType != EntityCalls {
			m.viewMode = ViewConfirmDelete
		}
	case "g":
		if err := m.generateGraph(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewGraph
	}

	return m, nil
}

func (m Model) findLead(id string) *models.Lead {
	for _, lead := range m.crm.Leads() {
		if lead.ID == id {
			return &lead
		}
	}
	return nil
}

func (m Model) findContact(id string) *models.Contact {
	for _, contact := range m.crm.Contacts() {
		if contact.ID == id {
			return &contact
		}
	}
	return nil
}

func (m Model) findDeal(id string) *models.Deal {
	for _, deal := range m.crm.Deals() {
		if deal.ID == id {
			return &deal
		}
	}
	return nil
}
