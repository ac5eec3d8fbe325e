package persistence

import (
	"context"
	"errors"

	"github.com/gigverse/backend/internal/domain/credit"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCreditTransactionRepository implements credit.TransactionRepository using GORM
type GormCreditTransactionRepository struct {
	db *gorm.DB
}

// NewGormCreditTransactionRepository creates a new GormCreditTransactionRepository
func NewGormCreditTransactionRepository(db *gorm.DB) *GormCreditTransactionRepository {
	return &GormCreditTransactionRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormCreditTransactionRepository) WithTx(tx *gorm.DB) *GormCreditTransactionRepository {
	return &GormCreditTransactionRepository{db: tx}
}

// Create appends a ledger entry
func (r *GormCreditTransactionRepository) Create(ctx context.Context, tx *credit.Transaction) error {
	model, err := models.CreditTransactionModelFromDomain(tx)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByUserID returns the user's ledger history, newest first
func (r *GormCreditTransactionRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filter credit.TransactionFilter) ([]*credit.Transaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CreditTransactionModel{}).
		Where("user_id = ?", userID)

	if filter.Type != nil {
		query = query.Where("type = ?", filter.Type.String())
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var txModels []models.CreditTransactionModel
	if err := query.Order("created_at DESC").Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*credit.Transaction, len(txModels))
	for i := range txModels {
		transactions[i] = txModels[i].ToDomain()
	}
	return transactions, total, nil
}

// FindRefundByOperationID finds a completed refund by its idempotency key
func (r *GormCreditTransactionRepository) FindRefundByOperationID(ctx context.Context, userID uuid.UUID, operationID string) (*credit.Transaction, error) {
	var model models.CreditTransactionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND operation_id = ?",
			userID, credit.TransactionTypeRefund.String(), operationID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ credit.TransactionRepository = (*GormCreditTransactionRepository)(nil)

// GormAlertRecorder implements credit.AlertRecorder using GORM
type GormAlertRecorder struct {
	db *gorm.DB
}

// NewGormAlertRecorder creates a new GormAlertRecorder
func NewGormAlertRecorder(db *gorm.DB) *GormAlertRecorder {
	return &GormAlertRecorder{db: db}
}

// RecordOverRefund persists an over-refund alert for operational review
func (r *GormAlertRecorder) RecordOverRefund(ctx context.Context, alert credit.OverRefundAlert) error {
	model := models.OverRefundAlertModelFromDomain(alert)
	return r.db.WithContext(ctx).Create(model).Error
}

var _ credit.AlertRecorder = (*GormAlertRecorder)(nil)
