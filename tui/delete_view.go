// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Handles deletion of leads, contacts, and deals with confirmation dialog
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	var entityName string
	var entityType string

	switch m.entityType {
	case EntityLeads:
		lead := m.findLead(m.selectedID)
		if lead == nil {
			return "Lead not found"
		}
		entityName = lead.Name
		entityType = "lead"
	case EntityContacts:
		contact := m.findContact(m.selectedID)
		if contact == nil {
			return "Contact not found"
		}
		entityName = contact.Name
		entityType = "contact"
	case EntityDeals:
		deal := m.findDeal(m.selectedID)
		if deal == nil {
			return "Deal not found"
		}
		entityName = deal.Title
		entityType = "deal"
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", entityType)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(entityType), entityName)
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	dialog := lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)

	return dialog
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		err := m.performDelete()
		if err != nil {
			m.err = err
			m.deleteMessage = "Error: " + err.Error()
			m.viewMode = ViewList
		} else {
			m.deleteMessage = "Successfully deleted"
			m.viewMode = ViewList
			m.selectedID = ""
			m.selectedRow = 0
		}
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}

func (m Model) performDelete() error {
	ctx := context.Background()
	switch m.entityType {
	case EntityLeads:
		return m.crm.DeleteLead(ctx, m.selectedID)
	case EntityContacts:
		return m.crm.DeleteContact(ctx, m.selectedID)
	case EntityDeals:
		return m.crm.DeleteDeal(ctx, m.selectedID)
	default:
		return fmt.Errorf("unknown entity type")
	}
}
