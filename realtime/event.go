// ABOUTME: Realtime event model for CRM collection updates
// ABOUTME: Defines the {entity, action, data} shape and the handler contract
package realtime

import (
	"encoding/json"
)

// Action is what happened to the entity on the server.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entity names carried on the wire.
const (
	EntityLead          = "lead"
	EntityContact       = "contact"
	EntityDeal          = "deal"
	EntityCommunication = "communication"
	EntityCalendarEvent = "calendar_event"
	EntityConversation  = "conversation"
	EntityMessage       = "message"
)

// Event is one realtime notification. Data holds the full entity for
// created/updated and at least {"id": ...} for deleted.
type Event struct {
	Entity string          `json:"entity"`
	Action Action          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Handler consumes events. Stores implement this; unknown entities and
// actions must be ignored for forward compatibility. Events carry no
// ordering guarantee versus in-flight fetches: last write wins.
type Handler interface {
	HandleRealtimeEvent(evt Event)
}
