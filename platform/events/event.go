// Package events is the in-process event bus. The catalog and weights
// services publish after every successful save; subscribers such as the
// config archive react without the publishers knowing about them.
package events

import (
	"context"
	"time"
)

// Event is a named fact about something that already happened.
type Event interface {
	// EventName is the routing key subscribers register for, e.g. "weights.saved".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the time an event was raised. Embed it in concrete events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one event. A returned error is logged by the bus and
// never reaches the publisher.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events by name to their subscribers.
type Bus interface {
	// Publish hands the event to every subscriber in the background.
	Publish(ctx context.Context, event Event)
	// PublishSync runs subscribers in order and joins their errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
