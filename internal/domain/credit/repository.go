package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefundApplication is the result of an atomic refund write
type RefundApplication struct {
	// ConsumedBefore is the monthly consumption at the moment the refund
	// was applied; the over-refund discrepancy derives from it
	ConsumedBefore int64
	// BalanceAfter is the balance after the credit was applied
	BalanceAfter int64
}

// AccountRepository persists credit accounts.
//
// Balance and monthly consumption are hot shared state: ApplyDeduction,
// ApplyRefund and ApplyBonus must each execute as a single conditional
// statement against the store so concurrent requests for the same user
// cannot interleave between the two field updates.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Account, error)

	// ApplyDeduction decrements balance and increments consumption by the
	// same amount in one guarded statement. Returns
	// shared.ErrInsufficientBalance when the balance guard rejects the
	// write, shared.ErrNotFound when no account exists.
	ApplyDeduction(ctx context.Context, userID uuid.UUID, amount int64) (balanceAfter int64, err error)

	// ApplyRefund increments balance by amount and decrements consumption
	// by amount clamped at zero, in one statement. The returned
	// application reports the pre-refund consumption for over-refund
	// detection.
	ApplyRefund(ctx context.Context, userID uuid.UUID, amount int64) (RefundApplication, error)

	// ApplyBonus increments balance only
	ApplyBonus(ctx context.Context, userID uuid.UUID, amount int64) (balanceAfter int64, err error)

	// ResetMonthlyConsumption zeroes consumption and restores allowances
	// for every account; invoked by the monthly cycle scheduler
	ResetMonthlyConsumption(ctx context.Context) (int64, error)
}

// LedgerTx bundles the credit repositories bound to a single store
// transaction
type LedgerTx struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
}

// UnitOfWork executes a ledger operation atomically: every write fn issues
// through the bound repositories commits or rolls back as one. A balance
// movement must never become durable without its ledger entry, and vice
// versa.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx LedgerTx) error) error
}

// TransactionFilter narrows ledger history queries
type TransactionFilter struct {
	Type     *TransactionType
	Since    *time.Time
	Page     int
	PageSize int
}

// TransactionRepository persists the append-only ledger trail
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByUserID(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*Transaction, int64, error)

	// FindRefundByOperationID looks up a completed refund with the given
	// idempotency key; shared.ErrNotFound when none exists
	FindRefundByOperationID(ctx context.Context, userID uuid.UUID, operationID string) (*Transaction, error)
}

// OverRefundAlert is the operational record written when a refund exceeds
// the month's recorded consumption
type OverRefundAlert struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	TransactionID    uuid.UUID
	RefundAmount     int64
	ConsumedAtRefund int64
	OverRefundAmount int64
	Reason           string
	CreatedAt        time.Time
}

// AlertRecorder records consistency alerts for out-of-band human review.
// Recording failures must not fail the refund that triggered the alert.
type AlertRecorder interface {
	RecordOverRefund(ctx context.Context, alert OverRefundAlert) error
}
