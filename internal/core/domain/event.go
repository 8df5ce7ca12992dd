package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event field names match the wire format consumed by downstream
// subscribers, so the JSON tags are load-bearing.
const (
	EventSource        = "kanban-api"
	EventSchemaVersion = "1.0"
)

// Well-known event types broadcast after committed mutations.
const (
	EventCardCreated = "CardCreated"
	EventCardUpdated = "CardUpdated"
	EventCardMoved   = "CardMoved"
	EventCardDeleted = "CardDeleted"
	EventListCreated = "ListCreated"
	EventListUpdated = "ListUpdated"
	EventListDeleted = "ListDeleted"
	EventUserUpdated = "UserUpdated"
	EventTest        = "TestEvent"
)

// Event is a notification of a committed mutation. It is built transiently
// per mutation and never persisted.
type Event struct {
	EventID   string         `json:"eventId"`
	EventType string         `json:"eventType"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Version   string         `json:"version"`
	Data      map[string]any `json:"data"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEvent builds an event with a fresh id, the given occurrence time, and
// the fixed source tag and schema version.
func NewEvent(eventType string, at time.Time, data, metadata map[string]any) Event {
	return Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: at.UTC(),
		Source:    EventSource,
		Version:   EventSchemaVersion,
		Data:      data,
		Metadata:  metadata,
	}
}
