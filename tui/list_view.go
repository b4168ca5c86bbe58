package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"salespad/models"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("SALESPAD"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.loading {
		s.WriteString("Loading...\n")
	} else {
		s.WriteString(m.renderTable())
	}
	s.WriteString("\n\n")

	if m.searching {
		s.WriteString(fmt.Sprintf("Search: %s█\n", m.searchQuery))
	} else if m.searchQuery != "" {
		s.WriteString(fmt.Sprintf("Filter: %s (press / to edit, esc to clear)\n", m.searchQuery))
	}

	if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n")
	}
	if m.deleteMessage != "" {
		s.WriteString(m.deleteMessage)
		s.WriteString("\n")
	}

	s.WriteString(m.renderListHelp())
	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"Leads", "Contacts", "Deals", "Calls"}
	var rendered []string

	for i, tab := range tabs {
		if EntityType(i) == m.entityType {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	switch m.entityType {
	case EntityLeads:
		return m.renderLeadsTable()
	case EntityContacts:
		return m.renderContactsTable()
	case EntityDeals:
		return m.renderDealsTable()
	case EntityCalls:
		return m.renderCallsTable()
	}
	return ""
}

func (m Model) renderLeadsTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "Company", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Score", Width: 6},
	}

	var rows []table.Row
	for _, lead := range m.filteredLeads() {
		rows = append(rows, table.Row{
			lead.Name,
			lead.Company,
			lead.Status,
			fmt.Sprintf("%d", lead.Score),
		})
	}

	return m.buildTable(columns, rows)
}

func (m Model) renderContactsTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "Email", Width: 28},
		{Title: "Company", Width: 20},
	}

	var rows []table.Row
	for _, contact := range m.filteredContacts() {
		rows = append(rows, table.Row{
			contact.Name,
			contact.Email,
			contact.Company,
		})
	}

	return m.buildTable(columns, rows)
}

func (m Model) renderDealsTable() string {
	columns := []table.Column{
		{Title: "Title", Width: 28},
		{Title: "Company", Width: 20},
		{Title: "Stage", Width: 14},
		{Title: "Amount", Width: 10},
	}

	var rows []table.Row
	for _, deal := range m.filteredDeals() {
		rows = append(rows, table.Row{
			deal.Title,
			deal.Company,
			deal.Stage,
			fmt.Sprintf("$%.0f", float64(deal.Amount)/100.0),
		})
	}

	return m.buildTable(columns, rows)
}

func (m Model) renderCallsTable() string {
	columns := []table.Column{
		{Title: "Phone", Width: 18},
		{Title: "Status", Width: 12},
		{Title: "Duration", Width: 10},
		{Title: "Started", Width: 16},
	}

	var rows []table.Row
	for _, call := range m.caller.Calls() {
		duration := "-"
		if call.DurationSec > 0 {
			duration = fmt.Sprintf("%ds", call.DurationSec)
		}
		started := "-"
		if call.StartedAt != nil {
			started = call.StartedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{call.Phone, call.Status, duration, started})
	}

	return m.buildTable(columns, rows)
}

func (m Model) buildTable(columns []table.Column, rows []table.Row) string {
	height := m.height - 10
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"/: Search",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEsc:
			m.searching = false
			m.searchQuery = ""
		case tea.KeyEnter:
			m.searching = false
		case tea.KeyBackspace:
			if len(m.searchQuery) > 0 {
				m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
			}
		case tea.KeyRunes:
			m.searchQuery += string(msg.Runes)
		}
		m.selectedRow = 0
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "tab":
		m.entityType = (m.entityType + 1) % entityTabCount
		m.selectedRow = 0
		m.deleteMessage = ""
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.viewMode = ViewDetail
			m.selectedID = id
		}
	case "/":
		m.searching = true
		m.searchQuery = ""
	case "esc":
		m.searchQuery = ""
	case "r":
		m.loading = true
		return m, m.loadData
	}

	return m, nil
}

func (m Model) rowCount() int {
	switch m.entityType {
	case EntityLeads:
		return len(m.filteredLeads())
	case EntityContacts:
		return len(m.filteredContacts())
	case EntityDeals:
		return len(m.filteredDeals())
	case EntityCalls:
		return len(m.caller.Calls())
	}
	return 0
}

func (m Model) getSelectedID() string {
	switch m.entityType {
	case EntityLeads:
		leads := m.filteredLeads()
		if m.selectedRow < len(leads) {
			return leads[m.selectedRow].ID
		}
	case EntityContacts:
		contacts := m.filteredContacts()
		if m.selectedRow < len(contacts) {
			return contacts[m.selectedRow].ID
		}
	case EntityDeals:
		deals := m.filteredDeals()
		if m.selectedRow < len(deals) {
			return deals[m.selectedRow].ID
		}
	case EntityCalls:
		calls := m.caller.Calls()
		if m.selectedRow < len(calls) {
			return calls[m.selectedRow].ID
		}
	}
	return ""
}

func (m Model) filteredLeads() []models.Lead {
	leads := m.crm.Leads()
	if m.searchQuery == "" {
		return leads
	}
	q := strings.ToLower(m.searchQuery)
	var out []models.Lead
	for _, lead := range leads {
		if strings.Contains(strings.ToLower(lead.Name), q) ||
			strings.Contains(strings.ToLower(lead.Company), q) ||
			strings.Contains(strings.ToLower(lead.Email), q) {
			out = append(out, lead)
		}
	}
	return out
}

func (m Model) filteredContacts() []models.Contact {
	contacts := m.crm.Contacts()
	if m.searchQuery == "" {
		return contacts
	}
	q := strings.ToLower(m.searchQuery)
	var out []models.Contact
	for _, contact := range contacts {
		if strings.Contains(strings.ToLower(contact.Name), q) ||
			strings.Contains(strings.ToLower(contact.Company), q) ||
			strings.Contains(strings.ToLower(contact.Email), q) {
			out = append(out, contact)
		}
	}
	return out
}

func (m Model) filteredDeals() []models.Deal {
	deals := m.crm.Deals()
	if m.searchQuery == "" {
		return deals
	}
	q := strings.ToLower(m.searchQuery)
	var out []models.Deal
	for _, deal := range deals {
		if strings.Contains(strings.ToLower(deal.Title), q) ||
			strings.Contains(strings.ToLower(deal.Company), q) {
			out = append(out, deal)
		}
	}
	return out
}
