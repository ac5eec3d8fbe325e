package event

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type funcHandler struct {
	types []string
	fn    func(ctx context.Context, event shared.DomainEvent) error
}

func (h *funcHandler) EventTypes() []string {
	return h.types
}

func (h *funcHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	return h.fn(ctx, event)
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New())
	return &e
}

type recordingAudit struct {
	appended atomic.Int64
	err      error
}

func (a *recordingAudit) Append(ctx context.Context, event shared.DomainEvent) error {
	if a.err != nil {
		return a.err
	}
	a.appended.Add(1)
	return nil
}

func TestInMemoryEventBusFanOut(t *testing.T) {
	t.Run("all subscribed handlers receive the event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		var calls atomic.Int64
		for i := 0; i < 3; i++ {
			bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: func(ctx context.Context, event shared.DomainEvent) error {
				calls.Add(1)
				return nil
			}})
		}

		err := bus.Publish(context.Background(), newTestEvent("ThingHappened"))

		require.NoError(t, err)
		assert.Equal(t, int64(3), calls.Load())
	})

	t.Run("handlers run concurrently", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		barrier := make(chan struct{})
		var arrived atomic.Int32
		var timedOut atomic.Bool

		// Each handler blocks until both have been dispatched; sequential
		// dispatch would never release the barrier.
		rendezvous := func(ctx context.Context, event shared.DomainEvent) error {
			if arrived.Add(1) == 2 {
				close(barrier)
			}
			select {
			case <-barrier:
				return nil
			case <-time.After(2 * time.Second):
				timedOut.Store(true)
				return errors.New("dispatch was not concurrent")
			}
		}
		bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: rendezvous})
		bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: rendezvous})

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("ThingHappened")))
		assert.False(t, timedOut.Load())
	})

	t.Run("publish returns only after every handler finished", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		var done atomic.Bool
		bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: func(ctx context.Context, event shared.DomainEvent) error {
			time.Sleep(20 * time.Millisecond)
			done.Store(true)
			return nil
		}})

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("ThingHappened")))
		assert.True(t, done.Load())
	})

	t.Run("unsubscribed event types are ignored", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		var calls atomic.Int64
		bus.Subscribe(&funcHandler{types: []string{"SomethingElse"}, fn: func(ctx context.Context, event shared.DomainEvent) error {
			calls.Add(1)
			return nil
		}})

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("ThingHappened")))
		assert.Equal(t, int64(0), calls.Load())
	})

	t.Run("wildcard handler receives every event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		var calls atomic.Int64
		bus.Subscribe(&funcHandler{types: nil, fn: func(ctx context.Context, event shared.DomainEvent) error {
			calls.Add(1)
			return nil
		}})

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("First"), newTestEvent("Second")))
		assert.Equal(t, int64(2), calls.Load())
	})
}

func TestInMemoryEventBusIsolation(t *testing.T) {
	t.Run("failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		var succeeded atomic.Int64
		bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: func(ctx context.Context, event shared.DomainEvent) error {
			succeeded.Add(1)
			return nil
		}})
		bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: func(ctx context.Context, event shared.DomainEvent) error {
			return errors.New("notification provider down")
		}})
		bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: func(ctx context.Context, event shared.DomainEvent) error {
			succeeded.Add(1)
			return nil
		}})

		err := bus.Publish(context.Background(), newTestEvent("ThingHappened"))

		require.NoError(t, err)
		assert.Equal(t, int64(2), succeeded.Load())
	})

	t.Run("panicking handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		var succeeded atomic.Int64
		bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: func(ctx context.Context, event shared.DomainEvent) error {
			panic("boom")
		}})
		bus.Subscribe(&funcHandler{types: []string{"ThingHappened"}, fn: func(ctx context.Context, event shared.DomainEvent) error {
			succeeded.Add(1)
			return nil
		}})

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("ThingHappened")))
		assert.Equal(t, int64(1), succeeded.Load())
	})

	t.Run("a later event is published after an earlier handler failed", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		var seen atomic.Int64
		bus.Subscribe(&funcHandler{types: nil, fn: func(ctx context.Context, event shared.DomainEvent) error {
			seen.Add(1)
			if event.EventType() == "First" {
				return errors.New("fails on the first event")
			}
			return nil
		}})

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("First"), newTestEvent("Second")))
		assert.Equal(t, int64(2), seen.Load())
	})
}

func TestInMemoryEventBusAudit(t *testing.T) {
	t.Run("every published event is appended before dispatch", func(t *testing.T) {
		audit := &recordingAudit{}
		bus := NewInMemoryEventBus(zap.NewNop(), WithAuditStore(audit))
		bus.Subscribe(&funcHandler{types: nil, fn: func(ctx context.Context, event shared.DomainEvent) error {
			return nil
		}})

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("First"), newTestEvent("Second")))
		assert.Equal(t, int64(2), audit.appended.Load())
	})

	t.Run("audit failure aborts the publish and reaches no handler", func(t *testing.T) {
		audit := &recordingAudit{err: errors.New("audit table unavailable")}
		bus := NewInMemoryEventBus(zap.NewNop(), WithAuditStore(audit))
		var calls atomic.Int64
		bus.Subscribe(&funcHandler{types: nil, fn: func(ctx context.Context, event shared.DomainEvent) error {
			calls.Add(1)
			return nil
		}})

		err := bus.Publish(context.Background(), newTestEvent("ThingHappened"))

		assert.Error(t, err)
		assert.Equal(t, int64(0), calls.Load())
	})
}
