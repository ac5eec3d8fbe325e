package credit

import (
	"context"
	"errors"

	"github.com/gigverse/backend/internal/domain/credit"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService owns every mutation of credit accounts. Balance and monthly
// consumption are only ever moved through the repository's single-statement
// conditional writes; this service adds the ledger trail, refund idempotency
// and over-refund alerting on top.
type LedgerService struct {
	accounts       credit.AccountRepository
	transactions   credit.TransactionRepository
	ledger         credit.UnitOfWork
	alerts         credit.AlertRecorder
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	accounts credit.AccountRepository,
	transactions credit.TransactionRepository,
	ledger credit.UnitOfWork,
	alerts credit.AlertRecorder,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		accounts:       accounts,
		transactions:   transactions,
		ledger:         ledger,
		alerts:         alerts,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateAccount opens a credit account for a new user
func (s *LedgerService) CreateAccount(ctx context.Context, userID uuid.UUID, monthlyAllowance int64) (*credit.Account, error) {
	account, err := credit.NewAccount(userID, monthlyAllowance)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// BalanceOf returns the current account state for a user
func (s *LedgerService) BalanceOf(ctx context.Context, userID uuid.UUID) (*credit.Account, error) {
	return s.accounts.FindByUserID(ctx, userID)
}

// Deduct consumes credits: balance down and monthly consumption up by the
// same amount in one conditional write, plus a deduction ledger entry
// committed in the same transaction.
func (s *LedgerService) Deduct(ctx context.Context, userID uuid.UUID, amount int64, metadata map[string]interface{}) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Deduction amount must be positive")
	}

	account, err := s.accounts.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	var balanceAfter int64
	err = s.ledger.Execute(ctx, func(tx credit.LedgerTx) error {
		after, err := tx.Accounts.ApplyDeduction(ctx, userID, amount)
		if err != nil {
			return err
		}
		entry, err := credit.NewDeduction(userID, amount, metadata)
		if err != nil {
			return err
		}
		if err := tx.Transactions.Create(ctx, &entry); err != nil {
			return err
		}
		balanceAfter = after
		return nil
	})
	if err != nil {
		return err
	}

	account.Balance = balanceAfter
	s.publish(ctx, credit.NewCreditsDeductedEvent(account, amount))

	return nil
}

// Refund reverses a deduction. The balance is always credited in full; the
// consumption decrement is clamped at zero, and any over-refund is recorded
// in the ledger metadata and raised as an operational alert. Refunds are
// idempotent per operation ID: a duplicate attempt for the same failed
// generation is a no-op and must not double-credit. The lookup below is
// only a fast path; the guarantee is the unique index on operation_id,
// whose violation rolls the whole refund back before anything commits.
func (s *LedgerService) Refund(ctx context.Context, userID uuid.UUID, amount int64, reason, operationID string) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}

	if operationID != "" {
		existing, err := s.transactions.FindRefundByOperationID(ctx, userID, operationID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if existing != nil {
			s.logger.Info("duplicate refund attempt skipped",
				zap.String("user_id", userID.String()),
				zap.String("operation_id", operationID),
			)
			return nil
		}
	}

	account, err := s.accounts.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	var application credit.RefundApplication
	var entry credit.Transaction
	err = s.ledger.Execute(ctx, func(tx credit.LedgerTx) error {
		app, err := tx.Accounts.ApplyRefund(ctx, userID, amount)
		if err != nil {
			return err
		}
		var over int64
		if amount > app.ConsumedBefore {
			over = amount - app.ConsumedBefore
		}
		e, err := credit.NewRefund(userID, amount, reason, operationID, over)
		if err != nil {
			return err
		}
		if err := tx.Transactions.Create(ctx, &e); err != nil {
			return err
		}
		application = app
		entry = e
		return nil
	})
	if err != nil {
		if operationID != "" && errors.Is(err, shared.ErrAlreadyExists) {
			// A concurrent duplicate won the insert; our credit rolled
			// back with the transaction, so nothing moved twice.
			s.logger.Info("duplicate refund attempt skipped",
				zap.String("user_id", userID.String()),
				zap.String("operation_id", operationID),
			)
			return nil
		}
		return err
	}

	var overRefund int64
	if amount > application.ConsumedBefore {
		overRefund = amount - application.ConsumedBefore
	}

	if overRefund > 0 {
		s.recordOverRefund(ctx, account, entry, amount, application.ConsumedBefore, overRefund, reason)
	}

	account.Balance = application.BalanceAfter
	outcome := credit.RefundOutcome{
		ConsumedReversed: amount - overRefund,
		OverRefundAmount: overRefund,
	}
	s.publish(ctx, credit.NewCreditsRefundedEvent(account, amount, reason, outcome))

	return nil
}

// recordOverRefund writes the consistency alert for human review. Alert
// persistence failures must not fail the refund that triggered them.
func (s *LedgerService) recordOverRefund(ctx context.Context, account *credit.Account, tx credit.Transaction, amount, consumedBefore, overRefund int64, reason string) {
	s.logger.Warn("refund exceeds recorded consumption, consumption clamped at zero",
		zap.String("user_id", account.UserID.String()),
		zap.Int64("refund_amount", amount),
		zap.Int64("consumed_at_refund", consumedBefore),
		zap.Int64("over_refund_amount", overRefund),
	)

	alert := credit.OverRefundAlert{
		ID:               uuid.New(),
		UserID:           account.UserID,
		TransactionID:    tx.ID,
		RefundAmount:     amount,
		ConsumedAtRefund: consumedBefore,
		OverRefundAmount: overRefund,
		Reason:           reason,
	}
	if err := s.alerts.RecordOverRefund(ctx, alert); err != nil {
		s.logger.Error("failed to record over-refund alert",
			zap.String("user_id", account.UserID.String()),
			zap.Error(err),
		)
	}
}

// GrantReferralBonus credits referral credits; bonuses never touch the
// monthly consumption counter
func (s *LedgerService) GrantReferralBonus(ctx context.Context, userID uuid.UUID, amount int64, metadata map[string]interface{}) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Bonus amount must be positive")
	}

	account, err := s.accounts.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	var balanceAfter int64
	err = s.ledger.Execute(ctx, func(tx credit.LedgerTx) error {
		after, err := tx.Accounts.ApplyBonus(ctx, userID, amount)
		if err != nil {
			return err
		}
		entry, err := credit.NewReferralBonus(userID, amount, metadata)
		if err != nil {
			return err
		}
		if err := tx.Transactions.Create(ctx, &entry); err != nil {
			return err
		}
		balanceAfter = after
		return nil
	})
	if err != nil {
		return err
	}

	account.Balance = balanceAfter
	s.publish(ctx, credit.NewReferralBonusGrantedEvent(account, amount))

	return nil
}

// History returns the ledger trail for a user
func (s *LedgerService) History(ctx context.Context, userID uuid.UUID, filter credit.TransactionFilter) ([]*credit.Transaction, int64, error) {
	return s.transactions.FindByUserID(ctx, userID, filter)
}

// publish dispatches a ledger event. The ledger mutation is already durable
// at this point, so a publish failure is logged rather than surfaced.
func (s *LedgerService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish ledger event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
