package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the study service.
const (
	TypeSessionStarted       = "session.started"
	TypeCardScored           = "card.scored"
	TypeSessionPassCompleted = "session.pass_completed"
	TypeSessionModeChanged   = "session.mode_changed"
	TypeSessionEnded         = "session.ended"
)

// Event records something that happened in a study session.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	SessionID string          `json:"session_id"`
	TopicID   string          `json:"topic_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// SessionStartedPayload accompanies TypeSessionStarted.
type SessionStartedPayload struct {
	Mode      string `json:"mode"`
	CardCount int    `json:"card_count"`
}

// CardScoredPayload accompanies TypeCardScored.
type CardScoredPayload struct {
	CardID   string `json:"card_id"`
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
}

// PassCompletedPayload accompanies TypeSessionPassCompleted.
type PassCompletedPayload struct {
	Mode   string `json:"mode"`
	Passes int    `json:"passes"`
}

// ModeChangedPayload accompanies TypeSessionModeChanged.
type ModeChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SessionEndedPayload accompanies TypeSessionEnded.
type SessionEndedPayload struct {
	Passes   int `json:"passes"`
	Reviewed int `json:"reviewed"`
}

// NewEvent creates an Event with the given type and JSON-encoded payload.
func NewEvent(eventType, sessionID, topicID string, payload any) (*Event, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		SessionID: sessionID,
		TopicID:   topicID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler processes events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter publishes events to registered handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *Event) error { return nil }
