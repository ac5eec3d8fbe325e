package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigverse/backend/internal/domain/credit"
	"github.com/gigverse/backend/internal/domain/identity"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMonthlyAllowance is the credit allowance opened with every account
const DefaultMonthlyAllowance = 100

// AccountOpener opens credit accounts; satisfied by credit.LedgerService
type AccountOpener interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, monthlyAllowance int64) (*credit.Account, error)
}

// UserService registers users and opens their credit accounts. Referral
// rewards and the welcome mail run as event handlers off UserRegistered, so
// a slow mail provider never blocks registration.
type UserService struct {
	users          identity.UserRepository
	ledger         AccountOpener
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users identity.UserRepository,
	ledger AccountOpener,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:          users,
		ledger:         ledger,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Register creates a user on the free tier with a fresh credit account
func (s *UserService) Register(ctx context.Context, email, displayName string, referredBy *uuid.UUID) (*identity.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	if referredBy != nil {
		if _, err := s.users.FindByID(ctx, *referredBy); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_REFERRER", "Referring user does not exist")
			}
			return nil, err
		}
	}

	user, err := identity.NewUser(email, displayName, referredBy)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := s.ledger.CreateAccount(ctx, user.ID, DefaultMonthlyAllowance); err != nil {
		return nil, fmt.Errorf("failed to open credit account: %w", err)
	}

	events := user.GetDomainEvents()
	if len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish registration events", zap.Error(err))
		}
		user.ClearDomainEvents()
	}

	return user, nil
}

// ChangeTier applies a billing-driven tier change
func (s *UserService) ChangeTier(ctx context.Context, userID uuid.UUID, tier subscription.Tier) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangeTier(tier); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	return s.users.FindByID(ctx, userID)
}
