package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gigverse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus implements EventBus with in-memory pub/sub. Handlers for
// one event run concurrently and independently: a failing or panicking
// handler never prevents the others from seeing the event. Publish returns
// after every handler has finished.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	audit    shared.EventAuditStore
	logger   *zap.Logger
	running  atomic.Bool
}

// BusOption is a functional option for InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithAuditStore persists every published event before dispatch. An append
// failure aborts the publish: an event that cannot be audited is not
// delivered to any handler.
func WithAuditStore(store shared.EventAuditStore) BusOption {
	return func(b *InMemoryEventBus) {
		b.audit = store
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish publishes events in argument order. Each event is audited (when
// an audit store is configured), then fanned out to all registered handlers
// concurrently; handler errors are logged and swallowed.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		if b.audit != nil {
			if err := b.audit.Append(ctx, event); err != nil {
				return fmt.Errorf("failed to audit event %s: %w", event.EventType(), err)
			}
		}

		handlers := b.registry.GetHandlers(event.EventType())
		if len(handlers) == 0 {
			continue
		}

		var wg sync.WaitGroup
		for _, handler := range handlers {
			wg.Add(1)
			go func(h shared.EventHandler) {
				defer wg.Done()
				if err := b.dispatchToHandler(ctx, h, event); err != nil {
					b.logger.Error("handler failed to process event",
						zap.String("event_type", event.EventType()),
						zap.String("event_id", event.EventID().String()),
						zap.Error(err),
					)
				}
			}(handler)
		}
		wg.Wait()
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	// If handler specifies its own event types, use those
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start starts the event bus
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop stops the event bus. Publish awaits its handlers, so there is no
// in-flight work to drain beyond the running publishes themselves.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

// dispatchToHandler safely dispatches an event to a handler
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
