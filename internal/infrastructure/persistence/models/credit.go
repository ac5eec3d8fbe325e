package models

import (
	"encoding/json"
	"time"

	"github.com/gigverse/backend/internal/domain/credit"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreditAccountModel is the persistence model for credit accounts
type CreditAccountModel struct {
	AggregateModel
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Balance           int64     `gorm:"not null;default:0"`
	MonthlyAllowance  int64     `gorm:"not null;default:0"`
	ConsumedThisMonth int64     `gorm:"not null;default:0"`
}

// TableName specifies the table name
func (CreditAccountModel) TableName() string {
	return "credit_accounts"
}

// ToDomain converts the model to a domain account
func (m *CreditAccountModel) ToDomain() *credit.Account {
	account := &credit.Account{
		UserID:            m.UserID,
		Balance:           m.Balance,
		MonthlyAllowance:  m.MonthlyAllowance,
		ConsumedThisMonth: m.ConsumedThisMonth,
	}
	m.PopulateAggregateRoot(&account.BaseAggregateRoot)
	return account
}

// CreditAccountModelFromDomain converts a domain account to the model
func CreditAccountModelFromDomain(account *credit.Account) *CreditAccountModel {
	m := &CreditAccountModel{
		UserID:            account.UserID,
		Balance:           account.Balance,
		MonthlyAllowance:  account.MonthlyAllowance,
		ConsumedThisMonth: account.ConsumedThisMonth,
	}
	m.FromDomainAggregateRoot(account.BaseAggregateRoot)
	return m
}

// CreditTransactionModel is the persistence model for ledger entries
type CreditTransactionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(30);not null;index"`
	Amount      int64     `gorm:"not null"`
	Status      string    `gorm:"type:varchar(20);not null"`
	Reason      string    `gorm:"type:varchar(500)"`
	OperationID *string   `gorm:"type:varchar(100);uniqueIndex:idx_refund_operation,where:operation_id IS NOT NULL"`
	Metadata    string    `gorm:"type:jsonb;default:'{}'"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName specifies the table name
func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// ToDomain converts the model to a domain transaction
func (m *CreditTransactionModel) ToDomain() *credit.Transaction {
	tx := &credit.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        credit.TransactionType(m.Type),
		Amount:      m.Amount,
		Status:      credit.TransactionStatus(m.Status),
		Reason:      m.Reason,
		OperationID: m.OperationID,
		Metadata:    make(map[string]interface{}),
		CreatedAt:   m.CreatedAt,
	}
	if m.Metadata != "" {
		// Corrupt metadata surfaces as an empty map rather than failing reads
		_ = json.Unmarshal([]byte(m.Metadata), &tx.Metadata)
	}
	return tx
}

// CreditTransactionModelFromDomain converts a domain transaction to the model
func CreditTransactionModelFromDomain(tx *credit.Transaction) (*CreditTransactionModel, error) {
	metadata, err := json.Marshal(tx.Metadata)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_METADATA", "Transaction metadata is not serializable")
	}
	return &CreditTransactionModel{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Type:        tx.Type.String(),
		Amount:      tx.Amount,
		Status:      string(tx.Status),
		Reason:      tx.Reason,
		OperationID: tx.OperationID,
		Metadata:    string(metadata),
		CreatedAt:   tx.CreatedAt,
	}, nil
}

// OverRefundAlertModel is the persistence model for over-refund alerts
type OverRefundAlertModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	TransactionID    uuid.UUID `gorm:"type:uuid;not null"`
	RefundAmount     int64     `gorm:"not null"`
	ConsumedAtRefund int64     `gorm:"not null"`
	OverRefundAmount int64     `gorm:"not null"`
	Reason           string    `gorm:"type:varchar(500)"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (OverRefundAlertModel) TableName() string {
	return "credit_over_refund_alerts"
}

// ToDomain converts the model to a domain alert
func (m *OverRefundAlertModel) ToDomain() credit.OverRefundAlert {
	return credit.OverRefundAlert{
		ID:               m.ID,
		UserID:           m.UserID,
		TransactionID:    m.TransactionID,
		RefundAmount:     m.RefundAmount,
		ConsumedAtRefund: m.ConsumedAtRefund,
		OverRefundAmount: m.OverRefundAmount,
		Reason:           m.Reason,
		CreatedAt:        m.CreatedAt,
	}
}

// OverRefundAlertModelFromDomain converts a domain alert to the model
func OverRefundAlertModelFromDomain(alert credit.OverRefundAlert) *OverRefundAlertModel {
	return &OverRefundAlertModel{
		ID:               alert.ID,
		UserID:           alert.UserID,
		TransactionID:    alert.TransactionID,
		RefundAmount:     alert.RefundAmount,
		ConsumedAtRefund: alert.ConsumedAtRefund,
		OverRefundAmount: alert.OverRefundAmount,
		Reason:           alert.Reason,
		CreatedAt:        alert.CreatedAt,
	}
}
