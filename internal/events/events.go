package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is something that happened to a task, published to whoever listens.
// Payload stays raw JSON so a broker handler can forward it untouched.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"` // e.g. "task.assigned"
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEvent stamps payload with a fresh ID and the current UTC time.
func NewEvent(eventType string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler consumes events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc lets a plain function act as an EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter is the publishing side seen by services. Implementations
// decide whether delivery is synchronous.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// DeferredEmitter is implemented by emitters whose EmitEvent only accepts the
// event for later delivery. A nil error then means queued, not delivered.
type DeferredEmitter interface {
	EventEmitter
	Deferred() bool
}
