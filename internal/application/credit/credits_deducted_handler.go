package credit

import (
	"context"
	"fmt"

	"github.com/gigverse/backend/internal/domain/credit"
	"github.com/gigverse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreditsDeductedHandler records feature usage statistics off the bus. It is
// deliberately side-effect light: the ledger entry is already the source of
// truth, this handler only feeds operational logging.
type CreditsDeductedHandler struct {
	logger *zap.Logger
}

// NewCreditsDeductedHandler creates a new CreditsDeductedHandler
func NewCreditsDeductedHandler(logger *zap.Logger) *CreditsDeductedHandler {
	return &CreditsDeductedHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *CreditsDeductedHandler) EventTypes() []string {
	return []string{credit.EventTypeCreditsDeducted}
}

// Handle processes a CreditsDeductedEvent
func (h *CreditsDeductedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*credit.CreditsDeductedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	h.logger.Info("credits consumed",
		zap.String("user_id", e.UserID.String()),
		zap.Int64("amount", e.Amount),
		zap.Int64("remaining_balance", e.RemainingBalance),
	)

	return nil
}
