// ABOUTME: Calendar event importer from Google Calendar API
// ABOUTME: Handles pagination, sync tokens, and pushes events through the calendar store
package sync

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"salespad/models"
	"salespad/store"
)

const maxResults = 250 // Google Calendar API max per page

const sourceGoogle = "google"

// CalendarImporter pulls events from Google Calendar and creates them
// through the calendar store, so imported events flow to the backend and
// the local collection the same way manual ones do.
type CalendarImporter struct {
	service  *calendar.Service
	calendar *store.CalendarStore
}

func NewCalendarImporter(service *calendar.Service, cal *store.CalendarStore) *CalendarImporter {
	return &CalendarImporter{service: service, calendar: cal}
}

// shouldSkipEvent determines if an event should be skipped during import.
// Returns (true, reason) if the event should be skipped, (false, "")
// otherwise.
func shouldSkipEvent(event *calendar.Event) (bool, string) {
	if event == nil {
		return true, "nil event"
	}
	if event.Start == nil {
		return true, "missing start time"
	}
	if event.Status == "cancelled" {
		return true, "cancelled"
	}
	for _, attendee := range event.Attendees {
		if attendee.Self && attendee.ResponseStatus == "declined" {
			return true, "declined"
		}
	}
	return false, ""
}

// eventFromGoogle converts an API event to the local model. The Google
// event ID is kept as SourceID for dedupe on re-import.
func eventFromGoogle(event *calendar.Event) (models.CalendarEvent, error) {
	out := models.CalendarEvent{
		Title:       event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Source:      sourceGoogle,
		SourceID:    event.Id,
	}

	var err error
	if event.Start.Date != "" {
		out.AllDay = true
		out.StartTime, err = time.ParseInLocation("2006-01-02", event.Start.Date, time.Local)
		if err != nil {
			return models.CalendarEvent{}, fmt.Errorf("bad all-day start %q: %w", event.Start.Date, err)
		}
		out.EndTime = out.StartTime.AddDate(0, 0, 1)
		if event.End != nil && event.End.Date != "" {
			if end, endErr := time.ParseInLocation("2006-01-02", event.End.Date, time.Local); endErr == nil {
				out.EndTime = end
			}
		}
		return out, nil
	}

	out.StartTime, err = time.Parse(time.RFC3339, event.Start.DateTime)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("bad start %q: %w", event.Start.DateTime, err)
	}
	out.EndTime = out.StartTime.Add(time.Hour)
	if event.End != nil && event.End.DateTime != "" {
		if end, endErr := time.Parse(time.RFC3339, event.End.DateTime); endErr == nil {
			out.EndTime = end
		}
	}
	return out, nil
}

// pluralize returns "s" if count != 1, otherwise "".
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

// Import fetches calendar events and creates the new ones locally. An
// initial import fetches the last 6 months; later runs are incremental via
// the saved sync token.
func (imp *CalendarImporter) Import(ctx context.Context, initial bool) error {
	fmt.Println("Syncing Google Calendar...")

	state, err := LoadImportState()
	if err != nil {
		return err
	}

	// Known source IDs for dedupe on re-import
	known := make(map[string]bool)
	for _, event := range imp.calendar.Events() {
		if event.Source == sourceGoogle && event.SourceID != "" {
			known[event.SourceID] = true
		}
	}

	call := imp.service.Events.List("primary").
		MaxResults(maxResults).
		SingleEvents(true)

	if initial || state.SyncToken == "" {
		sixMonthsAgo := time.Now().AddDate(0, -6, 0)
		call = call.TimeMin(sixMonthsAgo.Format(time.RFC3339)).OrderBy("startTime")
		fmt.Println("  → Initial sync (last 6 months)...")
	} else {
		call = call.SyncToken(state.SyncToken)
		fmt.Println("  → Incremental sync...")
	}

	totalFetched := 0
	imported := 0
	pageToken := ""
	skipCounts := make(map[string]int)

	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Context(ctx).Do()
		if err != nil {
			// 410 Gone means the sync token expired; fall back to a
			// time-based window.
			apiErr, ok := err.(*googleapi.Error)
			if !ok || apiErr.Code != 410 {
				return fmt.Errorf("failed to fetch calendar events: %w", err)
			}

			fmt.Println("  → Sync token invalid, falling back to time-based sync...")
			fallbackTime := time.Now().AddDate(0, -6, 0)
			if state.LastSyncTime != nil {
				fallbackTime = *state.LastSyncTime
			}

			call = imp.service.Events.List("primary").
				MaxResults(maxResults).
				SingleEvents(true).
				OrderBy("startTime").
				TimeMin(fallbackTime.Format(time.RFC3339))
			totalFetched = 0

			events, err = call.Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("failed to fetch calendar events after fallback: %w", err)
			}
		}

		fetched := len(events.Items)
		totalFetched += fetched
		if fetched > 0 {
			pageNum := (totalFetched-fetched)/maxResults + 1
			fmt.Printf("  → Fetched %d events (page %d)\n", fetched, pageNum)
		}

		for _, event := range events.Items {
			if skip, reason := shouldSkipEvent(event); skip {
				skipCounts[reason]++
				continue
			}
			if known[event.Id] {
				skipCounts["already imported"]++
				continue
			}

			local, err := eventFromGoogle(event)
			if err != nil {
				skipCounts["unparseable"]++
				continue
			}
			if _, err := imp.calendar.CreateEvent(ctx, local); err != nil {
				return fmt.Errorf("failed to import event %q: %w", local.Title, err)
			}
			known[event.Id] = true
			imported++
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			if events.NextSyncToken != "" {
				state.SyncToken = events.NextSyncToken
			}
			break
		}
	}

	now := time.Now()
	state.LastSyncTime = &now
	if err := state.Save(); err != nil {
		return err
	}

	fmt.Printf("\n✓ Fetched %d event%s, imported %d\n", totalFetched, pluralize(totalFetched), imported)
	for reason, count := range skipCounts {
		fmt.Printf("  ✓ Skipped %d %s event%s\n", count, reason, pluralize(count))
	}
	fmt.Println("Sync token saved. Next sync will be incremental.")

	return nil
}
