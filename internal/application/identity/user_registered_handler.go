package identity

import (
	"context"
	"fmt"

	"github.com/gigverse/backend/internal/application/notification"
	"github.com/gigverse/backend/internal/domain/identity"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReferralBonusCredits is granted to the referrer when a referred user
// completes registration
const ReferralBonusCredits = 25

// ReferralRewarder grants referral credit; satisfied by credit.LedgerService
type ReferralRewarder interface {
	GrantReferralBonus(ctx context.Context, userID uuid.UUID, amount int64, metadata map[string]interface{}) error
}

// UserRegisteredHandler sends the welcome mail and rewards the referrer.
// Both side effects run off the bus; a failure in one is isolated from the
// registration request and from the other handlers.
type UserRegisteredHandler struct {
	mailer notification.WelcomeMailer
	ledger ReferralRewarder
	logger *zap.Logger
}

// NewUserRegisteredHandler creates a new UserRegisteredHandler
func NewUserRegisteredHandler(mailer notification.WelcomeMailer, ledger ReferralRewarder, logger *zap.Logger) *UserRegisteredHandler {
	if mailer == nil {
		mailer = notification.NopNotifier{}
	}
	return &UserRegisteredHandler{mailer: mailer, ledger: ledger, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *UserRegisteredHandler) EventTypes() []string {
	return []string{identity.EventTypeUserRegistered}
}

// Handle processes a UserRegisteredEvent
func (h *UserRegisteredHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*identity.UserRegisteredEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if err := h.mailer.SendWelcome(ctx, e.UserID, e.Email, e.DisplayName); err != nil {
		h.logger.Error("failed to send welcome mail",
			zap.String("user_id", e.UserID.String()),
			zap.Error(err),
		)
	}

	if e.ReferredBy != nil {
		err := h.ledger.GrantReferralBonus(ctx, *e.ReferredBy, ReferralBonusCredits, map[string]interface{}{
			"referred_user_id": e.UserID.String(),
		})
		if err != nil {
			h.logger.Error("failed to grant referral bonus",
				zap.String("referrer_id", e.ReferredBy.String()),
				zap.String("referred_user_id", e.UserID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	return nil
}
