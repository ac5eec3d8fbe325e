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

// GormCreditAccountRepository implements credit.AccountRepository using GORM.
//
// Balance mutations run as single guarded UPDATE statements so two requests
// racing on the same account cannot interleave between the balance write and
// the consumption write.
type GormCreditAccountRepository struct {
	db *gorm.DB
}

// NewGormCreditAccountRepository creates a new GormCreditAccountRepository
func NewGormCreditAccountRepository(db *gorm.DB) *GormCreditAccountRepository {
	return &GormCreditAccountRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormCreditAccountRepository) WithTx(tx *gorm.DB) *GormCreditAccountRepository {
	return &GormCreditAccountRepository{db: tx}
}

// Create persists a new credit account
func (r *GormCreditAccountRepository) Create(ctx context.Context, account *credit.Account) error {
	model := models.CreditAccountModelFromDomain(account)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByUserID finds a credit account by user ID
func (r *GormCreditAccountRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*credit.Account, error) {
	var model models.CreditAccountModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ApplyDeduction decrements balance and increments monthly consumption by
// the same amount in one statement guarded on sufficient balance.
func (r *GormCreditAccountRepository) ApplyDeduction(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	var row struct {
		Balance int64
	}
	result := r.db.WithContext(ctx).Raw(`
		UPDATE credit_accounts
		SET balance = balance - ?,
		    consumed_this_month = consumed_this_month + ?,
		    updated_at = NOW()
		WHERE user_id = ? AND balance >= ?
		RETURNING balance`,
		amount, amount, userID, amount,
	).Scan(&row)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		// Either no account exists or the balance guard rejected the write
		if exists, err := r.accountExists(ctx, userID); err != nil {
			return 0, err
		} else if !exists {
			return 0, shared.ErrNotFound
		}
		return 0, shared.ErrInsufficientBalance
	}
	return row.Balance, nil
}

// ApplyRefund credits the balance in full and reverses consumption clamped
// at zero, reporting the pre-refund consumption for over-refund detection.
func (r *GormCreditAccountRepository) ApplyRefund(ctx context.Context, userID uuid.UUID, amount int64) (credit.RefundApplication, error) {
	var row struct {
		ConsumedBefore int64
		Balance        int64
	}
	result := r.db.WithContext(ctx).Raw(`
		UPDATE credit_accounts a
		SET balance = a.balance + ?,
		    consumed_this_month = GREATEST(a.consumed_this_month - ?, 0),
		    updated_at = NOW()
		FROM (
			SELECT id, consumed_this_month AS consumed_before
			FROM credit_accounts
			WHERE user_id = ?
			FOR UPDATE
		) prior
		WHERE a.id = prior.id
		RETURNING prior.consumed_before, a.balance`,
		amount, amount, userID,
	).Scan(&row)
	if result.Error != nil {
		return credit.RefundApplication{}, result.Error
	}
	if result.RowsAffected == 0 {
		return credit.RefundApplication{}, shared.ErrNotFound
	}
	return credit.RefundApplication{
		ConsumedBefore: row.ConsumedBefore,
		BalanceAfter:   row.Balance,
	}, nil
}

// ApplyBonus credits the balance without touching monthly consumption
func (r *GormCreditAccountRepository) ApplyBonus(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	var row struct {
		Balance int64
	}
	result := r.db.WithContext(ctx).Raw(`
		UPDATE credit_accounts
		SET balance = balance + ?,
		    updated_at = NOW()
		WHERE user_id = ?
		RETURNING balance`,
		amount, userID,
	).Scan(&row)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrNotFound
	}
	return row.Balance, nil
}

// ResetMonthlyConsumption zeroes consumption and restores the monthly
// allowance for every account. Returns the number of accounts reset.
func (r *GormCreditAccountRepository) ResetMonthlyConsumption(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE credit_accounts
		SET consumed_this_month = 0,
		    balance = monthly_allowance,
		    updated_at = NOW()`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormCreditAccountRepository) accountExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CreditAccountModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ credit.AccountRepository = (*GormCreditAccountRepository)(nil)
