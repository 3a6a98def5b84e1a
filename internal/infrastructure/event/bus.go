// Package event provides the in-process event bus used to fan out
// domain events after persistence.
package event

import (
	"context"
	"sync"

	"github.com/campusstore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Bus is an in-process, synchronous event bus. Handler failures are
// logged, never propagated: event delivery must not fail an operation
// that already committed.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler // keyed by event type; "" receives all
	logger   *zap.Logger
}

// NewBus creates a new in-process event bus
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

// Publish delivers events to every subscribed handler
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		b.mu.RLock()
		targets := make([]shared.EventHandler, 0,
			len(b.handlers[evt.EventType()])+len(b.handlers[""]))
		targets = append(targets, b.handlers[evt.EventType()]...)
		targets = append(targets, b.handlers[""]...)
		b.mu.RUnlock()

		for _, handler := range targets {
			if err := handler.Handle(ctx, evt); err != nil {
				b.logger.Warn("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("aggregate_id", evt.AggregateID().String()),
					zap.Error(err))
			}
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types. With no event
// types the handler receives all events.
func (b *Bus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	if len(eventTypes) == 0 {
		b.handlers[""] = append(b.handlers[""], handler)
		return
	}
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Unsubscribe removes a handler from every subscription list
func (b *Bus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, handlers := range b.handlers {
		kept := handlers[:0]
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		b.handlers[eventType] = kept
	}
}

var _ shared.EventBus = (*Bus)(nil)
