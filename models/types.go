// ABOUTME: Data models for CRM and workforce entities
// ABOUTME: Defines Lead, Contact, Deal, Communication, call, calendar, messaging, and vault records
package models

import (
	"time"
)

// Lead is a prospective customer record. IDs are opaque strings assigned by
// the backend; the client never parses them.
type Lead struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Company     string     `json:"company,omitempty"`
	Source      string     `json:"source,omitempty"`
	Status      string     `json:"status"`
	Score       int        `json:"score,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	LastContact *time.Time `json:"last_contact,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Title     string    `json:"title,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Deal struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Amount            int64      `json:"amount,omitempty"` // in cents
	Currency          string     `json:"currency"`
	Stage             string     `json:"stage"`
	Company           string     `json:"company,omitempty"`
	ContactID         string     `json:"contact_id,omitempty"`
	LeadID            string     `json:"lead_id,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Communication is one logged touchpoint (call, email, SMS, meeting) with a
// lead or contact.
type Communication struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id,omitempty"`
	ContactID string    `json:"contact_id,omitempty"`
	Channel   string    `json:"channel"`
	Direction string    `json:"direction,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AICall is a conversational-AI phone call session.
type AICall struct {
	ID          string     `json:"id"`
	LeadID      string     `json:"lead_id,omitempty"`
	Phone       string     `json:"phone"`
	VoiceID     string     `json:"voice_id,omitempty"`
	ScriptID    string     `json:"script_id,omitempty"`
	Status      string     `json:"status"`
	DurationSec int        `json:"duration_sec,omitempty"`
	Transcript  string     `json:"transcript,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Voice is a synthesized voice offered by the speech provider.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Preview  string `json:"preview_url,omitempty"`
}

type CallScript struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Opening   string    `json:"opening,omitempty"`
	Body      string    `json:"body"`
	Closing   string    `json:"closing,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	AllDay      bool      `json:"all_day,omitempty"`
	LeadID      string    `json:"lead_id,omitempty"`
	Source      string    `json:"source,omitempty"`
	SourceID    string    `json:"source_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Conversation struct {
	ID            string     `json:"id"`
	Subject       string     `json:"subject,omitempty"`
	Channel       string     `json:"channel,omitempty"`
	LeadID        string     `json:"lead_id,omitempty"`
	ContactID     string     `json:"contact_id,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Body           string    `json:"body"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// VaultItem is a stored credential. Secret holds the plaintext only while in
// memory; the local cache keeps it behind the encrypted KV backend.
type VaultItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Username  string    `json:"username,omitempty"`
	Secret    string    `json:"secret,omitempty"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lead status constants.
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusQualified   = "qualified"
	LeadStatusUnqualified = "unqualified"
	LeadStatusConverted   = "converted"
)

// Deal stage constants.
const (
	StageProspecting   = "prospecting"
	StageQualification = "qualification"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosedWon     = "closed_won"
	StageClosedLost    = "closed_lost"
)

// Communication channel constants.
const (
	ChannelCall    = "call"
	ChannelEmail   = "email"
	ChannelSMS     = "sms"
	ChannelMeeting = "meeting"
)

// AI call status constants.
const (
	CallStatusQueued     = "queued"
	CallStatusDialing    = "dialing"
	CallStatusInProgress = "in_progress"
	CallStatusCompleted  = "completed"
	CallStatusFailed     = "failed"
)

// Message status constants. Pending marks an optimistic message that has not
// been confirmed by the server yet.
const (
	MessageStatusPending   = "pending"
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusFailed    = "failed"
)

// Calendar sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)

// SyncState tracks the backend calendar-sync service state for one provider.
type SyncState struct {
	Provider     string     `json:"provider"`
	Status       string     `json:"status"`
	LastSyncTime *time.Time `json:"last_sync_time,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// PipelineStages lists deal stages in funnel order for views and the
// pipeline graph.
var PipelineStages = []string{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}
