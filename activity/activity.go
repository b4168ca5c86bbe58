// ABOUTME: Local activity timeline for store mutations
// ABOUTME: Defines Activity records and a best-effort Recorder over a storage sink
package activity

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// Verb is the action performed on an entity.
type Verb string

const (
	VerbCreated Verb = "created"
	VerbUpdated Verb = "updated"
	VerbDeleted Verb = "deleted"
	VerbSynced  Verb = "synced"
)

// Activity is one timeline entry. Entries are client-local and never leave
// the device.
type Activity struct {
	ID        string    `json:"id"`
	Verb      Verb      `json:"verb"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink persists activities. The snapshot cache implements this.
type Sink interface {
	SaveActivity(a Activity) error
	ListActivities(limit int) ([]Activity, error)
}

// Recorder writes activities to a sink. Recording is best-effort: a failed
// write must never fail the mutation that produced it.
type Recorder struct {
	sink Sink
}

func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Record stores one activity entry. Failures are logged and swallowed.
func (r *Recorder) Record(verb Verb, entity, entityID, summary string) {
	if r == nil || r.sink == nil {
		return
	}
	a := Activity{
		ID:        uuid.New().String(),
		Verb:      verb,
		Entity:    entity,
		EntityID:  entityID,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
	if err := r.sink.SaveActivity(a); err != nil {
		log.Printf("warning: failed to record activity: %v", err)
	}
}

// Recent returns the newest entries, most recent first.
func (r *Recorder) Recent(limit int) ([]Activity, error) {
	if r == nil || r.sink == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	return r.sink.ListActivities(limit)
}
