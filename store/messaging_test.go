// ABOUTME: Tests for the messaging store
// ABOUTME: Covers current conversation selection and optimistic send reconciliation
package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salespad/api"
	"salespad/models"
	"salespad/realtime"
)

func newMessagingStore(t *testing.T, handler http.HandlerFunc) *MessagingStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewMessagingStore(api.NewClient(server.URL, "", nil), Options{})
}

func TestCreateConversationBecomesCurrent(t *testing.T) {
	store := newMessagingStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"data":[{"id":"conv-1","subject":"Pricing"}]}`))
			return
		}
		w.Write([]byte(`{"data":{"id":"conv-2","subject":"Onboarding"}}`))
	})

	ctx := context.Background()
	if err := store.FetchConversations(ctx); err != nil {
		t.Fatalf("FetchConversations failed: %v", err)
	}

	created, err := store.CreateConversation(ctx, models.Conversation{Subject: "Onboarding"})
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}

	current := store.CurrentConversation()
	if current == nil || current.ID != created.ID {
		t.Errorf("new conversation should become current, got %+v", current)
	}

	convs := store.Conversations()
	if len(convs) != 2 || convs[0].ID != "conv-2" {
		t.Errorf("new conversation should be prepended, got %+v", convs)
	}
}

func TestSelectConversation(t *testing.T) {
	store := newMessagingStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"conv-1","subject":"Pricing"}]`))
	})
	if err := store.FetchConversations(context.Background()); err != nil {
		t.Fatalf("FetchConversations failed: %v", err)
	}

	if store.SelectConversation("missing") {
		t.Error("selecting an unknown conversation should fail")
	}
	if !store.SelectConversation("conv-1") {
		t.Error("selecting a known conversation should succeed")
	}
	if current := store.CurrentConversation(); current == nil || current.ID != "conv-1" {
		t.Errorf("expected conv-1 current, got %+v", current)
	}
}

func TestSendMessageReconcilesOptimistic(t *testing.T) {
	store := newMessagingStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id":"m1","conversation_id":"conv-1","sender":"them","body":"hi"}]`))
			return
		}
		w.Write([]byte(`{"data":{"id":"m2","conversation_id":"conv-1","sender":"me","body":"hello","status":"sent","created_at":"2026-08-25T10:00:00Z"}}`))
	})

	ctx := context.Background()
	if err := store.FetchMessages(ctx, "conv-1"); err != nil {
		t.Fatalf("FetchMessages failed: %v", err)
	}

	sent, err := store.SendMessage(ctx, "conv-1", "hello")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if sent.ID != "m2" || sent.Status != models.MessageStatusSent {
		t.Errorf("expected server message back, got %+v", sent)
	}

	msgs := store.Messages("conv-1")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != "m2" {
		t.Errorf("server message should replace the optimistic one at the head, got %+v", msgs[0])
	}
	for _, m := range msgs {
		if strings.HasPrefix(m.ID, "pending-") {
			t.Errorf("optimistic placeholder leaked into the thread: %+v", m)
		}
	}
}

func TestSendMessageFailureMarksFailed(t *testing.T) {
	store := newMessagingStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"send failed"}`))
	})

	ctx := context.Background()
	if err := store.FetchMessages(ctx, "conv-1"); err != nil {
		t.Fatalf("FetchMessages failed: %v", err)
	}

	if _, err := store.SendMessage(ctx, "conv-1", "hello"); err == nil {
		t.Fatal("expected send error")
	}

	msgs := store.Messages("conv-1")
	if len(msgs) != 1 {
		t.Fatalf("optimistic message should be kept, got %d messages", len(msgs))
	}
	if msgs[0].Status != models.MessageStatusFailed {
		t.Errorf("optimistic message should be marked failed, got %q", msgs[0].Status)
	}
	if msgs[0].Body != "hello" {
		t.Errorf("failed message should keep its body, got %q", msgs[0].Body)
	}
}

func TestMessagingRealtimeConversationEvents(t *testing.T) {
	store := newMessagingStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"conv-1","subject":"Pricing"}]`))
	})
	if err := store.FetchConversations(context.Background()); err != nil {
		t.Fatalf("FetchConversations failed: %v", err)
	}
	store.SelectConversation("conv-1")

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityConversation,
		Action: realtime.ActionCreated,
		Data:   json.RawMessage(`{"id":"conv-2","subject":"Onboarding"}`),
	})

	convs := store.Conversations()
	if len(convs) != 2 || convs[0].ID != "conv-2" {
		t.Errorf("created conversation should be prepended, got %+v", convs)
	}

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityConversation,
		Action: realtime.ActionDeleted,
		Data:   json.RawMessage(`{"id":"conv-1"}`),
	})

	convs = store.Conversations()
	if len(convs) != 1 || convs[0].ID != "conv-2" {
		t.Errorf("expected only conv-2 after delete event, got %+v", convs)
	}
	if store.CurrentConversation() != nil {
		t.Error("current conversation should clear when the delete event matches")
	}
}

func TestMessagingRealtimeMessageEvents(t *testing.T) {
	store := newMessagingStore(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/messages") {
			w.Write([]byte(`[{"id":"m1","conversation_id":"conv-1","body":"hi","created_at":"2026-08-25T09:00:00Z"}]`))
			return
		}
		w.Write([]byte(`[{"id":"conv-1","subject":"Pricing"}]`))
	})

	ctx := context.Background()
	if err := store.FetchConversations(ctx); err != nil {
		t.Fatalf("FetchConversations failed: %v", err)
	}
	if err := store.FetchMessages(ctx, "conv-1"); err != nil {
		t.Fatalf("FetchMessages failed: %v", err)
	}

	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityMessage,
		Action: realtime.ActionCreated,
		Data:   json.RawMessage(`{"id":"m2","conversation_id":"conv-1","body":"hello","created_at":"2026-08-25T10:00:00Z"}`),
	})

	msgs := store.Messages("conv-1")
	if len(msgs) != 2 || msgs[0].ID != "m2" {
		t.Errorf("incoming message should land newest-first, got %+v", msgs)
	}
	convs := store.Conversations()
	want := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	if convs[0].LastMessageAt == nil || !convs[0].LastMessageAt.Equal(want) {
		t.Errorf("conversation LastMessageAt not bumped: %+v", convs[0])
	}

	// Updates for messages we never fetched are dropped, not inserted
	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityMessage,
		Action: realtime.ActionUpdated,
		Data:   json.RawMessage(`{"id":"m9","conversation_id":"conv-1","body":"phantom"}`),
	})
	if len(store.Messages("conv-1")) != 2 {
		t.Errorf("updated message for unknown ID should be skipped, got %+v", store.Messages("conv-1"))
	}

	// Delete without a conversation_id falls back to scanning threads
	store.HandleRealtimeEvent(realtime.Event{
		Entity: realtime.EntityMessage,
		Action: realtime.ActionDeleted,
		Data:   json.RawMessage(`{"id":"m1"}`),
	})
	msgs = store.Messages("conv-1")
	if len(msgs) != 1 || msgs[0].ID != "m2" {
		t.Errorf("expected only m2 after delete event, got %+v", msgs)
	}
}
