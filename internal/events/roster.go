// Package events defines the roster change payloads published to downstream consumers.
package events

import "time"

// Event types carried in the event_type header.
const (
	TypeParticipantSignedUp = "roster.participant_signed_up"
	TypeParticipantRemoved  = "roster.participant_removed"
)

// Operation names used when labelling roster outcomes.
const (
	OperationSignup = "signup"
	OperationRemove = "remove"
)

// RosterChanged is emitted after a participant joins or leaves an activity.
type RosterChanged struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
