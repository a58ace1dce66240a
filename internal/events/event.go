// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"solar21_precheck/internal/scoring"
	"solar21_precheck/platform/events"
	"solar21_precheck/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// InMemoryBus is the process-local bus used by the API binary.
type InMemoryBus = events.InMemoryBus

// NewInMemoryBus creates the bus that carries CatalogChanged and WeightsSaved.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// Catalog change actions.
const (
	CatalogActionCreated = "created"
	CatalogActionUpdated = "updated"
	CatalogActionDeleted = "deleted"
)

// CatalogChanged is published after a catalog mutation has been persisted.
type CatalogChanged struct {
	BaseEvent
	Action     string          `json:"action"`
	QuestionID string          `json:"questionId"`
	Catalog    scoring.Catalog `json:"catalog"`
}

func (e CatalogChanged) EventName() string { return "catalog.changed" }

// WeightsSaved is published after a weight document has been persisted.
type WeightsSaved struct {
	BaseEvent
	Weights scoring.Weights `json:"weights"`
	// Reason is "admin" for explicit saves and "catalog" when a catalog edit
	// added or removed a key.
	Reason string `json:"reason"`
}

func (e WeightsSaved) EventName() string { return "weights.saved" }
