package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/tair/pharmadistrib/internal/domain"
)

// Command is one state transition
type Command interface {
	Name() string
	Apply(tx *Tx) error
}

// Tx is the working copy handed to a Command
type Tx struct {
	State  domain.State
	now    time.Time
	ids    IDGenerator
	events []Event
	dirty  bool
}

// Now is the command's timestamp, fixed for the whole Apply
func (tx *Tx) Now() time.Time {
	return tx.now
}

// NewID allocates an identifier with the collection prefix
func (tx *Tx) NewID(prefix string) string {
	return tx.ids(prefix)
}

// Emit records a change. A Tx with no events is not persisted.
func (tx *Tx) Emit(eventType, collection, entityID string) {
	tx.dirty = true
	tx.events = append(tx.events, Event{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		Collection: collection,
		EntityID:   entityID,
		Timestamp:  tx.now,
	})
}

// Event describes a committed change
type Event struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Collection string    `json:"collection"`
	EntityID   string    `json:"entity_id"`
	Timestamp  time.Time `json:"timestamp"`
}
