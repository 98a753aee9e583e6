package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types stored in the append-only application event log.
const (
	EventTypeCreated       = "created"
	EventTypeStatusChanged = "status_changed"
)

// ApplicationEvent is one append-only log entry tied to an application,
// ordered by timestamp with the serial id as tie-break. Entries are never
// mutated or deleted.
type ApplicationEvent struct {
	ID            int64     `db:"id" json:"id"`
	ApplicationID string    `db:"application_id" json:"applicationId"`
	TS            time.Time `db:"ts" json:"ts"`
	Payload       []byte    `db:"event" json:"-"`
}

// CreatedEvent records the warnings attached at acceptance time.
type CreatedEvent struct {
	Warnings []string `json:"warnings"`
}

// StatusChangedEvent records a staff-driven status transition.
type StatusChangedEvent struct {
	OldStatus ApplicationStatus `json:"old_status"`
	NewStatus ApplicationStatus `json:"new_status"`
}

// EventPayload is the tagged union decoded from the stored JSON blob.
// Exactly one variant is non-nil.
type EventPayload struct {
	Type          string
	Created       *CreatedEvent
	StatusChanged *StatusChangedEvent
}

type eventEnvelope struct {
	Type      string            `json:"type"`
	Warnings  []string          `json:"warnings,omitempty"`
	OldStatus ApplicationStatus `json:"old_status,omitempty"`
	NewStatus ApplicationStatus `json:"new_status,omitempty"`
}

// EncodeCreatedEvent serializes a created payload.
func EncodeCreatedEvent(warnings []string) ([]byte, error) {
	if warnings == nil {
		warnings = []string{}
	}
	return json.Marshal(eventEnvelope{Type: EventTypeCreated, Warnings: warnings})
}

// EncodeStatusChangedEvent serializes a status transition payload.
func EncodeStatusChangedEvent(oldStatus, newStatus ApplicationStatus) ([]byte, error) {
	return json.Marshal(eventEnvelope{Type: EventTypeStatusChanged, OldStatus: oldStatus, NewStatus: newStatus})
}

// DecodePayload parses the event blob into its tagged variant. Unknown types
// are an error rather than being skipped silently.
func (e ApplicationEvent) DecodePayload() (EventPayload, error) {
	var env eventEnvelope
	if err := json.Unmarshal(e.Payload, &env); err != nil {
		return EventPayload{}, fmt.Errorf("decode event %d: %w", e.ID, err)
	}

	switch env.Type {
	case EventTypeCreated:
		warnings := env.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		return EventPayload{Type: env.Type, Created: &CreatedEvent{Warnings: warnings}}, nil
	case EventTypeStatusChanged:
		return EventPayload{Type: env.Type, StatusChanged: &StatusChangedEvent{OldStatus: env.OldStatus, NewStatus: env.NewStatus}}, nil
	default:
		return EventPayload{}, fmt.Errorf("decode event %d: unknown type %q", e.ID, env.Type)
	}
}
