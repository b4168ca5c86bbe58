// ABOUTME: Local import-state persistence for the Google Calendar importer
// ABOUTME: Tracks the incremental sync token and last run time in an XDG file
package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// ImportState records where the last Google Calendar import left off.
type ImportState struct {
	SyncToken    string     `json:"sync_token,omitempty"`
	LastSyncTime *time.Time `json:"last_sync_time,omitempty"`
}

// StatePath returns XDG-compliant path for the importer state file.
func StatePath() string {
	return filepath.Join(xdg.DataHome, "salespad", "calendar-import.json")
}

// LoadImportState reads the saved state. A missing file yields an empty
// state, not an error.
func LoadImportState() (*ImportState, error) {
	data, err := os.ReadFile(StatePath())
	if os.IsNotExist(err) {
		return &ImportState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read import state: %w", err)
	}

	var state ImportState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode import state: %w", err)
	}
	return &state, nil
}

// Save persists the state.
func (s *ImportState) Save() error {
	path := StatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode import state: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write import state: %w", err)
	}
	return nil
}
