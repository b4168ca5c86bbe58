// ABOUTME: Tests for the SSE subscriber
// ABOUTME: Covers frame parsing, malformed payload skipping, and handler fan-out
package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salespad/api"
)

type recordingHandler struct {
	events chan Event
}

func (h *recordingHandler) HandleRealtimeEvent(evt Event) {
	h.events <- evt
}

func TestListenParsesDataFrames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("missing event-stream accept header, got %q", r.Header.Get("Accept"))
		}
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")

		w.Write([]byte("data: {\"entity\":\"lead\",\"action\":\"created\",\"data\":{\"id\":\"l1\"}}\n\n"))
		flusher.Flush()
		w.Write([]byte(": keepalive comment\n"))
		w.Write([]byte("data: not json\n\n"))
		flusher.Flush()
		w.Write([]byte("data:{\"entity\":\"deal\",\"action\":\"deleted\",\"data\":{\"id\":\"d1\"}}\n\n"))
		flusher.Flush()

		<-r.Context().Done()
	}))
	defer server.Close()

	handler := &recordingHandler{events: make(chan Event, 8)}
	sub := NewSubscriber(api.NewClient(server.URL, "", nil), handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		sub.Listen(ctx)
		close(done)
	}()

	first := waitForEvent(t, handler.events)
	if first.Entity != EntityLead || first.Action != ActionCreated {
		t.Errorf("unexpected first event: %+v", first)
	}

	// The malformed frame is skipped, so the next delivered event is the deal.
	second := waitForEvent(t, handler.events)
	if second.Entity != EntityDeal || second.Action != ActionDeleted {
		t.Errorf("unexpected second event: %+v", second)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not stop after cancellation")
	}
}

func TestDispatchFansOutToAllHandlers(t *testing.T) {
	a := &recordingHandler{events: make(chan Event, 1)}
	b := &recordingHandler{events: make(chan Event, 1)}
	sub := NewSubscriber(nil, a, b)

	sub.Dispatch(Event{Entity: EntityContact, Action: ActionUpdated})

	for _, h := range []*recordingHandler{a, b} {
		evt := waitForEvent(t, h.events)
		if evt.Entity != EntityContact || evt.Action != ActionUpdated {
			t.Errorf("handler received wrong event: %+v", evt)
		}
	}
}

func waitForEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case evt := <-ch:
		return evt
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}
