// ABOUTME: Messaging store for conversations and per-conversation messages
// ABOUTME: Sends are optimistic: a pending message is reconciled against the server response
package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"salespad/activity"
	"salespad/api"
	"salespad/models"
	"salespad/realtime"
)

const snapshotConversations = "conversations"

// MessagingStore caches conversations and their message threads. Messages
// are held newest-first per conversation.
type MessagingStore struct {
	mu   sync.RWMutex
	api  *api.Client
	opts Options

	conversations []models.Conversation
	messages      map[string][]models.Message

	currentConversationID string

	convStatus Status
	msgStatus  Status
}

func NewMessagingStore(client *api.Client, opts Options) *MessagingStore {
	return &MessagingStore{
		api:      client,
		opts:     opts,
		messages: make(map[string][]models.Message),
	}
}

// --- Conversations ---

func (s *MessagingStore) FetchConversations(ctx context.Context) error {
	s.mu.Lock()
	s.convStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/messaging/conversations")
	var conversations []models.Conversation
	if err == nil {
		conversations, err = api.DecodeList[models.Conversation](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.convStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.Conversation](s.opts, snapshotConversations, nil); ok {
			s.conversations = recovered
		}
		return err
	}

	s.conversations = conversations
	s.convStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotConversations, conversations)
	return nil
}

func (s *MessagingStore) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Conversation(nil), s.conversations...)
}

func (s *MessagingStore) ConversationsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.convStatus
}

// CreateConversation opens a new thread; it is prepended and becomes the
// current conversation.
func (s *MessagingStore) CreateConversation(ctx context.Context, conv models.Conversation) (models.Conversation, error) {
	raw, err := s.api.Post(ctx, "/messaging/conversations", conv)
	if err != nil {
		return models.Conversation{}, err
	}
	created, err := api.DecodeItem[models.Conversation](raw)
	if err != nil {
		return models.Conversation{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.conversations, created.ID, convID); i >= 0 {
		s.conversations[i] = created
	} else {
		s.conversations = append([]models.Conversation{created}, s.conversations...)
	}
	s.currentConversationID = created.ID
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbCreated, "conversation", created.ID, created.Subject)
	return created, nil
}

// SelectConversation marks the thread as current. Returns false when the
// identifier is not in the collection.
func (s *MessagingStore) SelectConversation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.currentConversationID = ""
		return true
	}
	if indexOf(s.conversations, id, convID) < 0 {
		return false
	}
	s.currentConversationID = id
	return true
}

// CurrentConversation returns the current thread, or nil.
func (s *MessagingStore) CurrentConversation() *models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.conversations, s.currentConversationID, convID); s.currentConversationID != "" && i >= 0 {
		conv := s.conversations[i]
		return &conv
	}
	return nil
}

// --- Messages ---

func (s *MessagingStore) FetchMessages(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	s.msgStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/messaging/conversations/"+conversationID+"/messages")
	var messages []models.Message
	if err == nil {
		messages, err = api.DecodeList[models.Message](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.msgStatus = Status{Error: err.Error()}
		return err
	}

	s.messages[conversationID] = messages
	s.msgStatus = Status{}
	return nil
}

// Messages returns a copy of the thread for the conversation, newest first.
func (s *MessagingStore) Messages(conversationID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.messages[conversationID]...)
}

func (s *MessagingStore) MessagesStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.msgStatus
}

// SendMessage prepends an optimistic pending message, posts it, and
// reconciles: on success the pending record is replaced by the server's
// message; on failure it stays and is marked failed so the thread is
// truthful about what never left the device.
func (s *MessagingStore) SendMessage(ctx context.Context, conversationID, body string) (models.Message, error) {
	pending := models.Message{
		ID:             "pending-" + uuid.New().String(),
		ConversationID: conversationID,
		Sender:         "me",
		Body:           body,
		Status:         models.MessageStatusPending,
		CreatedAt:      time.Now(),
	}

	s.mu.Lock()
	s.messages[conversationID] = append([]models.Message{pending}, s.messages[conversationID]...)
	s.mu.Unlock()

	raw, err := s.api.Post(ctx, "/messaging/conversations/"+conversationID+"/messages", map[string]string{"body": body})
	var sent models.Message
	if err == nil {
		sent, err = api.DecodeItem[models.Message](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.messages[conversationID], pending.ID, messageID)
	if err != nil {
		if i >= 0 {
			s.messages[conversationID][i].Status = models.MessageStatusFailed
		}
		return pending, err
	}

	if i >= 0 {
		s.messages[conversationID][i] = sent
	} else {
		s.messages[conversationID] = append([]models.Message{sent}, s.messages[conversationID]...)
	}
	if j := indexOf(s.conversations, conversationID, convID); j >= 0 {
		now := sent.CreatedAt
		s.conversations[j].LastMessageAt = &now
	}

	s.opts.Recorder.Record(activity.VerbCreated, "message", sent.ID, "")
	return sent, nil
}

// HandleRealtimeEvent applies a server conversation or message event.
// Incoming messages land newest-first in their thread; unknown entities and
// actions are skipped.
func (s *MessagingStore) HandleRealtimeEvent(evt realtime.Event) {
	switch evt.Entity {
	case realtime.EntityConversation:
		s.applyConversationEvent(evt)
	case realtime.EntityMessage:
		s.applyMessageEvent(evt)
	}
}

func (s *MessagingStore) applyConversationEvent(evt realtime.Event) {
	switch evt.Action {
	case realtime.ActionCreated, realtime.ActionUpdated:
		var conv models.Conversation
		if err := json.Unmarshal(evt.Data, &conv); err != nil {
			log.Printf("warning: skipping malformed conversation %s event: %v", evt.Action, err)
			return
		}
		if conv.ID == "" {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if i := indexOf(s.conversations, conv.ID, convID); i >= 0 {
			s.conversations[i] = conv
			return
		}
		if evt.Action == realtime.ActionCreated {
			s.conversations = append([]models.Conversation{conv}, s.conversations...)
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
		if i := indexOf(s.conversations, ref.ID, convID); i >= 0 {
			s.conversations = removeAt(s.conversations, i)
		}
		delete(s.messages, ref.ID)
		if s.currentConversationID == ref.ID {
			s.currentConversationID = ""
		}
	}
}

func (s *MessagingStore) applyMessageEvent(evt realtime.Event) {
	switch evt.Action {
	case realtime.ActionCreated, realtime.ActionUpdated:
		var msg models.Message
		if err := json.Unmarshal(evt.Data, &msg); err != nil {
			log.Printf("warning: skipping malformed message %s event: %v", evt.Action, err)
			return
		}
		if msg.ID == "" || msg.ConversationID == "" {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		thread := s.messages[msg.ConversationID]
		if i := indexOf(thread, msg.ID, messageID); i >= 0 {
			thread[i] = msg
			return
		}
		if evt.Action == realtime.ActionUpdated {
			return
		}
		s.messages[msg.ConversationID] = append([]models.Message{msg}, thread...)
		if j := indexOf(s.conversations, msg.ConversationID, convID); j >= 0 {
			at := msg.CreatedAt
			s.conversations[j].LastMessageAt = &at
		}

	case realtime.ActionDeleted:
		var ref struct {
			ID             string `json:"id"`
			ConversationID string `json:"conversation_id"`
		}
		if err := json.Unmarshal(evt.Data, &ref); err != nil || ref.ID == "" {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if ref.ConversationID != "" {
			if i := indexOf(s.messages[ref.ConversationID], ref.ID, messageID); i >= 0 {
				s.messages[ref.ConversationID] = removeAt(s.messages[ref.ConversationID], i)
			}
			return
		}
		for convKey, thread := range s.messages {
			if i := indexOf(thread, ref.ID, messageID); i >= 0 {
				s.messages[convKey] = removeAt(thread, i)
				return
			}
		}
	}
}

func convID(c models.Conversation) string { return c.ID }
func messageID(m models.Message) string   { return m.ID }
