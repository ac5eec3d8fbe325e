package credit

import (
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Account tracks a user's AI-enhancement credits. Balance and
// ConsumedThisMonth co-move: every deduction moves both fields by the same
// amount, every refund moves them in opposite directions with the
// consumption decrement clamped at zero. ConsumedThisMonth is reset on a
// monthly cycle by an external scheduler.
type Account struct {
	shared.BaseAggregateRoot
	UserID            uuid.UUID
	Balance           int64
	MonthlyAllowance  int64
	ConsumedThisMonth int64
}

// NewAccount creates a credit account with its monthly allowance as the
// starting balance
func NewAccount(userID uuid.UUID, monthlyAllowance int64) (*Account, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if monthlyAllowance < 0 {
		return nil, shared.NewDomainError("INVALID_ALLOWANCE", "Monthly allowance cannot be negative")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Balance:           monthlyAllowance,
		MonthlyAllowance:  monthlyAllowance,
	}, nil
}

// CanDeduct reports whether the balance covers the given amount
func (a *Account) CanDeduct(amount int64) bool {
	return amount > 0 && a.Balance >= amount
}

// Deduct decrements the balance and increments monthly consumption by the
// same amount. Callers persisting the account must apply both fields in a
// single conditional write; this method only expresses the invariant on the
// in-memory aggregate.
func (a *Account) Deduct(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Deduction amount must be positive")
	}
	if a.Balance < amount {
		return shared.ErrInsufficientBalance
	}

	a.Balance -= amount
	a.ConsumedThisMonth += amount
	a.UpdatedAt = time.Now()

	return nil
}

// RefundOutcome describes how a refund was applied to the account
type RefundOutcome struct {
	// ConsumedReversed is how much of the refund was reversed out of
	// ConsumedThisMonth (clamped so consumption never goes negative)
	ConsumedReversed int64
	// OverRefundAmount is the portion of the refund that exceeded the
	// recorded consumption; non-zero values require an operational alert
	OverRefundAmount int64
}

// IsOverRefund reports whether the refund exceeded recorded consumption
func (o RefundOutcome) IsOverRefund() bool {
	return o.OverRefundAmount > 0
}

// Refund credits the balance in full and reverses consumption bounded at
// zero. The returned outcome carries the over-refund discrepancy, if any.
func (a *Account) Refund(amount int64) (RefundOutcome, error) {
	if amount <= 0 {
		return RefundOutcome{}, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}

	outcome := RefundOutcome{ConsumedReversed: amount}
	if amount > a.ConsumedThisMonth {
		outcome.ConsumedReversed = a.ConsumedThisMonth
		outcome.OverRefundAmount = amount - a.ConsumedThisMonth
	}

	a.Balance += amount
	a.ConsumedThisMonth -= outcome.ConsumedReversed
	a.UpdatedAt = time.Now()

	return outcome, nil
}

// GrantBonus credits the balance without touching monthly consumption
func (a *Account) GrantBonus(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Bonus amount must be positive")
	}

	a.Balance += amount
	a.UpdatedAt = time.Now()

	return nil
}

// ResetMonthlyConsumption zeroes the monthly counter and restores the
// allowance; invoked by the monthly billing cycle
func (a *Account) ResetMonthlyConsumption() {
	a.ConsumedThisMonth = 0
	a.Balance = a.MonthlyAllowance
	a.UpdatedAt = time.Now()
}
