package showcase

import (
	"context"
	"fmt"

	"github.com/gigverse/backend/internal/application/notification"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/showcase"
	"go.uber.org/zap"
)

// ShowcasePublishedHandler announces a freshly published showcase
type ShowcasePublishedHandler struct {
	notifier notification.ShowcaseNotifier
	logger   *zap.Logger
}

// NewShowcasePublishedHandler creates a new ShowcasePublishedHandler
func NewShowcasePublishedHandler(notifier notification.ShowcaseNotifier, logger *zap.Logger) *ShowcasePublishedHandler {
	if notifier == nil {
		notifier = notification.NopNotifier{}
	}
	return &ShowcasePublishedHandler{notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ShowcasePublishedHandler) EventTypes() []string {
	return []string{showcase.EventTypeShowcasePublished}
}

// Handle processes a ShowcasePublishedEvent
func (h *ShowcasePublishedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*showcase.ShowcasePublishedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if err := h.notifier.NotifyShowcasePublished(ctx, e.OwnerID, e.ShowcaseID, e.Title); err != nil {
		h.logger.Error("failed to announce showcase",
			zap.String("showcase_id", e.ShowcaseID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
