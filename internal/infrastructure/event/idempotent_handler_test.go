package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(ctx context.Context, operationID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[operationID] {
		return false, nil
	}
	s.seen[operationID] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(ctx context.Context, operationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[operationID], s.err
}

func (s *fakeIdempotencyStore) Close() error {
	return nil
}

type countingHandler struct {
	calls int
	err   error
}

func (h *countingHandler) EventTypes() []string {
	return []string{"ThingHappened"}
}

func (h *countingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.calls++
	return h.err
}

func TestIdempotentHandler(t *testing.T) {
	t.Run("first delivery is processed", func(t *testing.T) {
		inner := &countingHandler{}
		h := NewIdempotentHandler(inner, newFakeIdempotencyStore(), zap.NewNop())

		err := h.Handle(context.Background(), newTestEvent("ThingHappened"))

		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
		assert.Equal(t, int64(1), h.Metrics().Stats().EventsProcessed)
	})

	t.Run("redelivery of the same event is skipped", func(t *testing.T) {
		inner := &countingHandler{}
		h := NewIdempotentHandler(inner, newFakeIdempotencyStore(), zap.NewNop())
		e := newTestEvent("ThingHappened")

		require.NoError(t, h.Handle(context.Background(), e))
		require.NoError(t, h.Handle(context.Background(), e))

		assert.Equal(t, 1, inner.calls)
		stats := h.Metrics().Stats()
		assert.Equal(t, int64(1), stats.EventsProcessed)
		assert.Equal(t, int64(1), stats.EventsDuplicate)
	})

	t.Run("distinct events are each processed", func(t *testing.T) {
		inner := &countingHandler{}
		h := NewIdempotentHandler(inner, newFakeIdempotencyStore(), zap.NewNop())

		require.NoError(t, h.Handle(context.Background(), newTestEvent("ThingHappened")))
		require.NoError(t, h.Handle(context.Background(), newTestEvent("ThingHappened")))

		assert.Equal(t, 2, inner.calls)
	})

	t.Run("store failure processes the event anyway", func(t *testing.T) {
		inner := &countingHandler{}
		store := newFakeIdempotencyStore()
		store.err = errors.New("redis unavailable")
		h := NewIdempotentHandler(inner, store, zap.NewNop())

		err := h.Handle(context.Background(), newTestEvent("ThingHappened"))

		require.NoError(t, err)
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("handler failure propagates and counts", func(t *testing.T) {
		inner := &countingHandler{err: errors.New("downstream rejected")}
		h := NewIdempotentHandler(inner, newFakeIdempotencyStore(), zap.NewNop())

		err := h.Handle(context.Background(), newTestEvent("ThingHappened"))

		assert.Error(t, err)
		assert.Equal(t, int64(1), h.Metrics().Stats().EventsFailed)
	})

	t.Run("disabled config bypasses the store", func(t *testing.T) {
		inner := &countingHandler{}
		store := newFakeIdempotencyStore()
		h := NewIdempotentHandler(inner, store, zap.NewNop(),
			WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))
		e := newTestEvent("ThingHappened")

		require.NoError(t, h.Handle(context.Background(), e))
		require.NoError(t, h.Handle(context.Background(), e))

		assert.Equal(t, 2, inner.calls)
		assert.Empty(t, store.seen)
	})
}
