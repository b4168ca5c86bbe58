// ABOUTME: Calendar CLI commands
// ABOUTME: Event CRUD plus backend calendar-sync status and trigger
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

// AddEventCommand creates a calendar event.
func AddEventCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("calendar add", flag.ExitOnError)
	title := fs.String("title", "", "Event title (required)")
	start := fs.String("start", "", "Start time (RFC3339 or YYYY-MM-DDTHH:MM, required)")
	end := fs.String("end", "", "End time (defaults to one hour after start)")
	location := fs.String("location", "", "Location")
	description := fs.String("description", "", "Description")
	leadID := fs.String("lead", "", "Related lead ID")
	allDay := fs.Bool("all-day", false, "All-day event")
	_ = fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("--title is required")
	}
	if *start == "" {
		return fmt.Errorf("--start is required")
	}

	startTime, err := parseEventTime(*start)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", *start, err)
	}
	endTime := startTime.Add(time.Hour)
	if *end != "" {
		endTime, err = parseEventTime(*end)
		if err != nil {
			return fmt.Errorf("invalid end time %q: %w", *end, err)
		}
	}

	event, err := app.Calendar.CreateEvent(context.Background(), models.CalendarEvent{
		Title:       *title,
		Description: *description,
		Location:    *location,
		StartTime:   startTime,
		EndTime:     endTime,
		AllDay:      *allDay,
		LeadID:      *leadID,
	})
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	fmt.Printf("✓ Event created: %s (ID: %s)\n", event.Title, event.ID)
	fmt.Printf("  When: %s\n", event.StartTime.Format("2006-01-02 15:04"))
	return nil
}

// ListEventsCommand lists calendar events.
func ListEventsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("calendar list", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := app.Calendar.FetchEvents(context.Background()); err != nil {
		if len(app.Calendar.Events()) == 0 {
			return fmt.Errorf("failed to fetch events: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached events: %v\n", err)
	}

	events := app.Calendar.Events()
	if len(events) > *limit {
		events = events[:*limit]
	}
	if len(events) == 0 {
		fmt.Println("No events found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "START\tTITLE\tLOCATION\tSOURCE\tID")
	_, _ = fmt.Fprintln(w, "-----\t-----\t--------\t------\t--")
	for _, event := range events {
		start := event.StartTime.Format("2006-01-02 15:04")
		if event.AllDay {
			start = event.StartTime.Format("2006-01-02") + " (all day)"
		}
		location := event.Location
		if location == "" {
			location = "-"
		}
		source := event.Source
		if source == "" {
			source = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", start, event.Title, location, source, event.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d event(s)\n", len(events))
	return nil
}

// UpdateEventCommand updates a calendar event.
func UpdateEventCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("calendar update", flag.ExitOnError)
	title := fs.String("title", "", "New title")
	location := fs.String("location", "", "New location")
	description := fs.String("description", "", "New description")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: calendar update [flags] <id>")
	}

	event, err := app.Calendar.UpdateEvent(context.Background(), fs.Arg(0), models.CalendarEvent{
		Title:       *title,
		Location:    *location,
		Description: *description,
	})
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	fmt.Printf("✓ Event updated: %s (ID: %s)\n", event.Title, event.ID)
	return nil
}

// DeleteEventCommand deletes a calendar event.
func DeleteEventCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("calendar delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: calendar delete <id>")
	}

	if err := app.Calendar.DeleteEvent(context.Background(), fs.Arg(0)); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	fmt.Printf("✓ Deleted event: %s\n", fs.Arg(0))
	return nil
}

// CalendarSyncStatusCommand shows the backend calendar-sync service state.
func CalendarSyncStatusCommand(app *App, args []string) error {
	state, err := app.Calendar.FetchSyncStatus(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch sync status: %w", err)
	}

	printSyncState(state)
	return nil
}

// CalendarSyncNowCommand asks the backend to run a provider sync now.
func CalendarSyncNowCommand(app *App, args []string) error {
	state, err := app.Calendar.TriggerSync(context.Background())
	if err != nil {
		return fmt.Errorf("failed to trigger sync: %w", err)
	}

	fmt.Println("✓ Sync triggered")
	printSyncState(state)
	return nil
}

func printSyncState(state models.SyncState) {
	fmt.Printf("Provider: %s\n", state.Provider)
	fmt.Printf("Status: %s\n", state.Status)
	if state.LastSyncTime != nil {
		fmt.Printf("Last sync: %s\n", state.LastSyncTime.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last sync: never")
	}
	if state.ErrorMessage != "" {
		fmt.Printf("Error: %s\n", state.ErrorMessage)
	}
}

func parseEventTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}
