// ABOUTME: Calendar store for events and backend calendar-sync state
// ABOUTME: Events CRUD plus sync status polling and manual sync trigger
package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"salespad/activity"
	"salespad/api"
	"salespad/models"
	"salespad/realtime"
)

const snapshotEvents = "calendar_events"

// CalendarStore caches calendar events and the calendar-sync service state.
type CalendarStore struct {
	mu   sync.RWMutex
	api  *api.Client
	opts Options

	events       []models.CalendarEvent
	syncState    *models.SyncState
	eventsStatus Status
}

func NewCalendarStore(client *api.Client, opts Options) *CalendarStore {
	return &CalendarStore{api: client, opts: opts}
}

func (s *CalendarStore) FetchEvents(ctx context.Context) error {
	s.mu.Lock()
	s.eventsStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/calendar/events")
	var events []models.CalendarEvent
	if err == nil {
		events, err = api.DecodeList[models.CalendarEvent](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.eventsStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.CalendarEvent](s.opts, snapshotEvents, nil); ok {
			s.events = recovered
		}
		return err
	}

	s.events = events
	s.eventsStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotEvents, events)
	return nil
}

func (s *CalendarStore) Events() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CalendarEvent(nil), s.events...)
}

func (s *CalendarStore) EventsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventsStatus
}

// CreateEvent posts a new event and appends the server-returned record.
func (s *CalendarStore) CreateEvent(ctx context.Context, event models.CalendarEvent) (models.CalendarEvent, error) {
	raw, err := s.api.Post(ctx, "/calendar/events", event)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	created, err := api.DecodeItem[models.CalendarEvent](raw)
	if err != nil {
		return models.CalendarEvent{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.events, created.ID, eventID); i >= 0 {
		s.events[i] = created
	} else {
		s.events = append(s.events, created)
	}
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbCreated, "calendar_event", created.ID, created.Title)
	return created, nil
}

func (s *CalendarStore) UpdateEvent(ctx context.Context, id string, patch models.CalendarEvent) (models.CalendarEvent, error) {
	raw, err := s.api.Put(ctx, "/calendar/events/"+id, patch)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	updated, err := api.DecodeItem[models.CalendarEvent](raw)
	if err != nil {
		return models.CalendarEvent{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.events, id, eventID); i >= 0 {
		s.events[i] = updated
	}
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbUpdated, "calendar_event", updated.ID, updated.Title)
	return updated, nil
}

func (s *CalendarStore) DeleteEvent(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/calendar/events/"+id); err != nil {
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.events, id, eventID); i >= 0 {
		s.events = removeAt(s.events, i)
	}
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbDeleted, "calendar_event", id, "")
	return nil
}

// FetchSyncStatus polls the backend calendar-sync service state.
func (s *CalendarStore) FetchSyncStatus(ctx context.Context) (models.SyncState, error) {
	raw, err := s.api.Get(ctx, "/calendar-sync/status")
	if err != nil {
		return models.SyncState{}, err
	}
	state, err := api.DecodeItem[models.SyncState](raw)
	if err != nil {
		return models.SyncState{}, err
	}

	s.mu.Lock()
	s.syncState = &state
	s.mu.Unlock()
	return state, nil
}

// TriggerSync asks the backend to run a provider sync now.
func (s *CalendarStore) TriggerSync(ctx context.Context) (models.SyncState, error) {
	raw, err := s.api.Post(ctx, "/calendar-sync/sync", nil)
	if err != nil {
		return models.SyncState{}, err
	}
	state, err := api.DecodeItem[models.SyncState](raw)
	if err != nil {
		return models.SyncState{}, err
	}

	s.mu.Lock()
	s.syncState = &state
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbSynced, "calendar", state.Provider, state.Status)
	return state, nil
}

// SyncState returns the last known sync state, or nil before the first poll.
func (s *CalendarStore) SyncState() *models.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.syncState == nil {
		return nil
	}
	state := *s.syncState
	return &state
}

// HandleRealtimeEvent applies a server calendar event to the collection.
// Unknown entities and actions are skipped; last write wins against
// in-flight fetches.
func (s *CalendarStore) HandleRealtimeEvent(evt realtime.Event) {
	if evt.Entity != realtime.EntityCalendarEvent {
		return
	}

	switch evt.Action {
	case realtime.ActionCreated, realtime.ActionUpdated:
		var event models.CalendarEvent
		if err := json.Unmarshal(evt.Data, &event); err != nil {
			log.Printf("warning: skipping malformed calendar_event %s event: %v", evt.Action, err)
			return
		}
		if event.ID == "" {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if i := indexOf(s.events, event.ID, eventID); i >= 0 {
			s.events[i] = event
			return
		}
		if evt.Action == realtime.ActionCreated {
			s.events = append(s.events, event)
		}

	case realtime.ActionDeleted:
		var ref struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(evt.Data, &ref); err != nil || ref.ID == "" {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if i := indexOf(s.events, ref.ID, eventID); i >= 0 {
			s.events = removeAt(s.events, i)
		}
	}
}

func eventID(e models.CalendarEvent) string { return e.ID }
