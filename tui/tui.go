// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive full-screen browser over the CRM stores
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"salespad/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewGraph
	ViewConfirmDelete
)

// EntityType represents the type of entity being viewed
type EntityType int

const (
	EntityLeads EntityType = iota
	EntityContacts
	EntityDeals
	EntityCalls
)

const entityTabCount = 4

// Model is the main bubbletea model
type Model struct {
	crm    *store.CRMStore
	caller *store.CallerStore

	viewMode   ViewMode
	entityType EntityType

	// List view state
	selectedRow int
	searching   bool
	searchQuery string

	// Detail view state
	selectedID string

	// Graph view state
	graphDOT string

	// Delete confirmation state
	deleteMessage string

	// UI state
	width   int
	height  int
	loading bool
	err     error
}

// dataLoadedMsg reports a background fetch of the store collections.
type dataLoadedMsg struct {
	err error
}

// NewModel creates a new TUI model
func NewModel(crm *store.CRMStore, caller *store.CallerStore) Model {
	return Model{
		crm:        crm,
		caller:     caller,
		viewMode:   ViewList,
		entityType: EntityLeads,
		width:      80,
		height:     24,
		loading:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadData
}

// loadData refreshes every collection the tabs display. Fetch failures are
// tolerated when the store already holds cached or fallback data.
func (m Model) loadData() tea.Msg {
	ctx := context.Background()
	if err := m.crm.FetchLeads(ctx); err != nil && len(m.crm.Leads()) == 0 {
		return dataLoadedMsg{err: err}
	}
	if err := m.crm.FetchContacts(ctx); err != nil && len(m.crm.Contacts()) == 0 {
		return dataLoadedMsg{err: err}
	}
	if err := m.crm.FetchDeals(ctx); err != nil && len(m.crm.Deals()) == 0 {
		return dataLoadedMsg{err: err}
	}
	_ = m.caller.FetchCalls(ctx)
	return dataLoadedMsg{}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case dataLoadedMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.searching {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
