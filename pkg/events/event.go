package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "EMAIL_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent carries the common fields shared by every concrete event.
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

const (
	TypeEmailIngested  = "EMAIL_INGESTED"
	TypeReplyGenerated = "REPLY_GENERATED"
)

// NewEmailIngestedEvent is emitted after an email has been embedded and stored.
func NewEmailIngestedEvent(emailID, sender string) Event {
	return BaseEvent{
		Type: TypeEmailIngested,
		Data: map[string]interface{}{
			"email_id": emailID,
			"sender":   sender,
		},
		OccurredAt: time.Now(),
	}
}

// NewReplyGeneratedEvent is emitted when a reply workflow run completes.
func NewReplyGeneratedEvent(runID string, score float64, iterations int) Event {
	return BaseEvent{
		Type: TypeReplyGenerated,
		Data: map[string]interface{}{
			"run_id":     runID,
			"score":      score,
			"iterations": iterations,
		},
		OccurredAt: time.Now(),
	}
}
