package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventName() string
	OccurredAt() time.Time
}

// EventHandler handles domain events
type EventHandler func(ctx context.Context, event DomainEvent) error

// EventMeta carries the identity and timestamp every event shares
type EventMeta struct {
	ID   uuid.UUID
	When time.Time
}

// NewEventMeta stamps a new event
func NewEventMeta(at time.Time) EventMeta {
	return EventMeta{ID: uuid.New(), When: at}
}

func (m EventMeta) EventID() uuid.UUID {
	return m.ID
}

func (m EventMeta) OccurredAt() time.Time {
	return m.When
}
