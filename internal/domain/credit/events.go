package credit

import (
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeCreditAccount = "CreditAccount"

// Event type constants
const (
	EventTypeCreditsDeducted      = "CreditsDeducted"
	EventTypeCreditsRefunded      = "CreditsRefunded"
	EventTypeReferralBonusGranted = "ReferralBonusGranted"
)

// CreditsDeductedEvent is raised when credits are consumed
type CreditsDeductedEvent struct {
	shared.BaseDomainEvent
	UserID           uuid.UUID `json:"user_id"`
	Amount           int64     `json:"amount"`
	RemainingBalance int64     `json:"remaining_balance"`
}

// NewCreditsDeductedEvent creates a new CreditsDeductedEvent
func NewCreditsDeductedEvent(account *Account, amount int64) *CreditsDeductedEvent {
	return &CreditsDeductedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCreditsDeducted, AggregateTypeCreditAccount, account.ID),
		UserID:           account.UserID,
		Amount:           amount,
		RemainingBalance: account.Balance,
	}
}

// EventType returns the event type name
func (e *CreditsDeductedEvent) EventType() string {
	return EventTypeCreditsDeducted
}

// CreditsRefundedEvent is raised when a refund is applied to an account
type CreditsRefundedEvent struct {
	shared.BaseDomainEvent
	UserID           uuid.UUID `json:"user_id"`
	Amount           int64     `json:"amount"`
	Reason           string    `json:"reason"`
	OverRefundAmount int64     `json:"over_refund_amount,omitempty"`
}

// NewCreditsRefundedEvent creates a new CreditsRefundedEvent
func NewCreditsRefundedEvent(account *Account, amount int64, reason string, outcome RefundOutcome) *CreditsRefundedEvent {
	return &CreditsRefundedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeCreditsRefunded, AggregateTypeCreditAccount, account.ID),
		UserID:           account.UserID,
		Amount:           amount,
		Reason:           reason,
		OverRefundAmount: outcome.OverRefundAmount,
	}
}

// EventType returns the event type name
func (e *CreditsRefundedEvent) EventType() string {
	return EventTypeCreditsRefunded
}

// ReferralBonusGrantedEvent is raised when referral credits are granted
type ReferralBonusGrantedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Amount int64     `json:"amount"`
}

// NewReferralBonusGrantedEvent creates a new ReferralBonusGrantedEvent
func NewReferralBonusGrantedEvent(account *Account, amount int64) *ReferralBonusGrantedEvent {
	return &ReferralBonusGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReferralBonusGranted, AggregateTypeCreditAccount, account.ID),
		UserID:          account.UserID,
		Amount:          amount,
	}
}

// EventType returns the event type name
func (e *ReferralBonusGrantedEvent) EventType() string {
	return EventTypeReferralBonusGranted
}
