package events

import (
	"context"
	"time"
)

const (
	// StreamName is the JetStream stream that carries every system event.
	StreamName    = "EVENTS"
	SubjectPrefix = "events."

	TypeIntakeCompleted = "intake.completed"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "intake.completed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher sends events to whatever bus is configured.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject returns the bus subject for an event type.
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// NewIntakeCompleted describes a session that reached the results step.
// Only the step outcome is carried, never the free-text answers.
func NewIntakeCompleted(sessionID string, severity int, adviceFallback bool, facilityOutcome string, facilities int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeIntakeCompleted,
		Data: map[string]interface{}{
			"session_id":       sessionID,
			"severity":         severity,
			"advice_fallback":  adviceFallback,
			"facility_outcome": facilityOutcome,
			"facility_count":   facilities,
		},
		OccurredAt: at,
	}
}

// NopPublisher drops every event. Used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
