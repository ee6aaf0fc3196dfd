// Package events provides the in-process dispatcher for domain events
package events

import (
	"context"
	"errors"
	"sync"

	"github.com/esasma/API-Recettes/internal/domain/shared"
	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"go.uber.org/zap"
)

// Counter records that an event was dispatched
type Counter interface {
	CatalogEvent(name string)
}

// Dispatcher delivers domain events synchronously to registered handlers
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	counter  Counter
	log      *zap.Logger
}

var _ outbound.EventPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a new event dispatcher; counter may be nil
func NewDispatcher(counter Counter, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]shared.EventHandler),
		counter:  counter,
		log:      log.Named("events"),
	}
}

// Register subscribes handler to events named event
func (d *Dispatcher) Register(event string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[event] = append(d.handlers[event], handler)
	d.log.Debug("Registered event handler", zap.String("event", event))
}

// Publish logs and counts every event, then runs its handlers. Every handler
// runs even when an earlier one fails; the failures are joined.
func (d *Dispatcher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, event := range events {
		name := event.EventName()

		d.log.Info("Domain event",
			zap.String("event", name),
			zap.String("event_id", event.EventID().String()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
		if d.counter != nil {
			d.counter.CatalogEvent(name)
		}

		d.mu.RLock()
		handlers := d.handlers[name]
		d.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				d.log.Error("Event handler failed", zap.String("event", name), zap.Error(err))
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
