package marketplace

import (
	"context"
	"fmt"

	"github.com/gigverse/backend/internal/application/notification"
	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderConfirmedHandler sends the booking confirmation to both parties. The
// conditional confirmation write upstream guarantees the event fires once
// per order, so the notification cannot double-send on webhook redelivery.
type OrderConfirmedHandler struct {
	notifier notification.BookingNotifier
	logger   *zap.Logger
}

// NewOrderConfirmedHandler creates a new OrderConfirmedHandler
func NewOrderConfirmedHandler(notifier notification.BookingNotifier, logger *zap.Logger) *OrderConfirmedHandler {
	if notifier == nil {
		notifier = notification.NopNotifier{}
	}
	return &OrderConfirmedHandler{notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderConfirmedHandler) EventTypes() []string {
	return []string{marketplace.EventTypeOrderConfirmed}
}

// Handle processes an OrderConfirmedEvent
func (h *OrderConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*marketplace.OrderConfirmedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if err := h.notifier.NotifyOrderConfirmed(ctx, e.OwnerID, e.CounterpartyID, e.OrderID); err != nil {
		h.logger.Error("failed to send booking confirmation",
			zap.String("order_id", e.OrderID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
