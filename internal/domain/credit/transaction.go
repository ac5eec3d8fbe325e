package credit

import (
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionType represents the kind of ledger movement
type TransactionType string

const (
	TransactionTypeDeduction     TransactionType = "deduction"
	TransactionTypeRefund        TransactionType = "refund"
	TransactionTypeReferralBonus TransactionType = "referral_bonus"
)

// IsValid checks if the type is a known TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeduction, TransactionTypeRefund, TransactionTypeReferralBonus:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// TransactionStatus represents the processing status of a ledger entry
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// MetadataKeyOverRefund is the metadata key recording the clamped portion
// of a refund that exceeded the month's consumption
const MetadataKeyOverRefund = "over_refund_amount"

// Transaction is an append-only ledger entry. Entries are created once per
// ledger operation and never updated; they form the audit trail and the
// basis for over-refund detection.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        TransactionType
	Amount      int64
	Status      TransactionStatus
	Reason      string
	OperationID *string // caller-supplied idempotency key, refunds only
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}

func newTransaction(userID uuid.UUID, txType TransactionType, amount int64) Transaction {
	return Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      txType,
		Amount:    amount,
		Status:    TransactionStatusCompleted,
		Metadata:  make(map[string]interface{}),
		CreatedAt: time.Now(),
	}
}

// NewDeduction creates a completed deduction entry
func NewDeduction(userID uuid.UUID, amount int64, metadata map[string]interface{}) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, shared.NewDomainError("INVALID_AMOUNT", "Deduction amount must be positive")
	}
	tx := newTransaction(userID, TransactionTypeDeduction, amount)
	for k, v := range metadata {
		tx.Metadata[k] = v
	}
	return tx, nil
}

// NewRefund creates a completed refund entry. A non-zero overRefundAmount is
// recorded in the metadata for out-of-band review.
func NewRefund(userID uuid.UUID, amount int64, reason string, operationID string, overRefundAmount int64) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	tx := newTransaction(userID, TransactionTypeRefund, amount)
	tx.Reason = reason
	if operationID != "" {
		tx.OperationID = &operationID
	}
	if overRefundAmount > 0 {
		tx.Metadata[MetadataKeyOverRefund] = overRefundAmount
	}
	return tx, nil
}

// NewReferralBonus creates a completed referral bonus entry
func NewReferralBonus(userID uuid.UUID, amount int64, metadata map[string]interface{}) (Transaction, error) {
	if amount <= 0 {
		return Transaction{}, shared.NewDomainError("INVALID_AMOUNT", "Bonus amount must be positive")
	}
	tx := newTransaction(userID, TransactionTypeReferralBonus, amount)
	for k, v := range metadata {
		tx.Metadata[k] = v
	}
	return tx, nil
}
