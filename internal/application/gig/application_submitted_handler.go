package gig

import (
	"context"
	"fmt"

	"github.com/gigverse/backend/internal/application/notification"
	"github.com/gigverse/backend/internal/domain/gig"
	"github.com/gigverse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ApplicationSubmittedHandler notifies the gig owner when a new application
// arrives. It runs on the event bus; a notification failure is isolated from
// the application request and from the other handlers of the event.
type ApplicationSubmittedHandler struct {
	notifier notification.ApplicationNotifier
	logger   *zap.Logger
}

// NewApplicationSubmittedHandler creates a new ApplicationSubmittedHandler
func NewApplicationSubmittedHandler(notifier notification.ApplicationNotifier, logger *zap.Logger) *ApplicationSubmittedHandler {
	if notifier == nil {
		notifier = notification.NopNotifier{}
	}
	return &ApplicationSubmittedHandler{notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ApplicationSubmittedHandler) EventTypes() []string {
	return []string{gig.EventTypeApplicationSubmitted}
}

// Handle processes an ApplicationSubmittedEvent
func (h *ApplicationSubmittedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*gig.ApplicationSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if err := h.notifier.NotifyOwnerOfApplication(ctx, e.OwnerID, e.GigID, e.ApplicantID, e.GigTitle); err != nil {
		h.logger.Error("failed to notify gig owner of application",
			zap.String("gig_id", e.GigID.String()),
			zap.String("owner_id", e.OwnerID.String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Debug("gig owner notified of new application",
		zap.String("gig_id", e.GigID.String()),
		zap.String("applicant_id", e.ApplicantID.String()),
	)

	return nil
}
