package persistence

import (
	"context"

	"github.com/gigverse/backend/internal/domain/credit"
	"gorm.io/gorm"
)

// GormLedgerUnitOfWork implements credit.UnitOfWork on a gorm transaction.
// The repositories handed to fn are bound to the same transaction, so the
// account movement and its ledger entry commit or roll back together.
type GormLedgerUnitOfWork struct {
	db           *gorm.DB
	accounts     *GormCreditAccountRepository
	transactions *GormCreditTransactionRepository
}

// NewGormLedgerUnitOfWork creates a new GormLedgerUnitOfWork
func NewGormLedgerUnitOfWork(db *gorm.DB) *GormLedgerUnitOfWork {
	return &GormLedgerUnitOfWork{
		db:           db,
		accounts:     NewGormCreditAccountRepository(db),
		transactions: NewGormCreditTransactionRepository(db),
	}
}

// Execute runs fn inside one database transaction. Any error from fn rolls
// the whole operation back, including a unique violation on the refund
// idempotency index, which therefore aborts the balance credit with it.
func (u *GormLedgerUnitOfWork) Execute(ctx context.Context, fn func(tx credit.LedgerTx) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(credit.LedgerTx{
			Accounts:     u.accounts.WithTx(tx),
			Transactions: u.transactions.WithTx(tx),
		})
	})
}

var _ credit.UnitOfWork = (*GormLedgerUnitOfWork)(nil)
