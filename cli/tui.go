// ABOUTME: TUI launcher subcommand
// ABOUTME: Runs the full-screen bubbletea interface over the stores
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"salespad/tui"
)

// TUICommand launches the interactive terminal interface.
func TUICommand(app *App, args []string) error {
	model := tui.NewModel(app.CRM, app.Caller)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI failed: %w", err)
	}
	return nil
}
