package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"solar21_precheck/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())

	var order []int
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		order = append(order, 2)
		return errors.New("boom")
	}))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatalf("expected handler error to be returned")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("unexpected handler order %v", order)
	}
}

func TestPublishIsAsyncAndIgnoresOtherEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())

	var calls atomic.Int32
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		calls.Add(1)
		return nil
	}))
	bus.Subscribe("test.other", HandlerFunc(func(context.Context, Event) error {
		t.Errorf("unrelated handler invoked")
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", calls.Load())
	}
}

func TestNewBaseEventStampsUTC(t *testing.T) {
	e := pingEvent{BaseEvent: NewBaseEvent()}
	if e.OccurredAt().IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
	if e.OccurredAt().Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", e.OccurredAt().Location())
	}
}
