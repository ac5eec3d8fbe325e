package identity

import (
	"context"
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// User is a marketplace member. Tier changes arrive through billing flows
// owned elsewhere; this context reads the tier for enforcement and owns the
// referral relationship.
type User struct {
	shared.BaseAggregateRoot
	Email       string
	DisplayName string
	Tier        subscription.Tier
	ReferredBy  *uuid.UUID
}

// NewUser creates a user on the free tier
func NewUser(email, displayName string, referredBy *uuid.UUID) (*User, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot be empty")
	}

	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		DisplayName:       displayName,
		Tier:              subscription.TierFree,
		ReferredBy:        referredBy,
	}

	u.AddDomainEvent(NewUserRegisteredEvent(u))

	return u, nil
}

// ChangeTier applies a billing-driven tier change
func (u *User) ChangeTier(tier subscription.Tier) error {
	if !tier.IsValid() {
		return shared.NewDomainError("INVALID_TIER", "Unknown subscription tier")
	}
	u.Tier = tier
	u.UpdatedAt = time.Now()
	return nil
}

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// TierOf returns the user's current subscription tier
	TierOf(ctx context.Context, id uuid.UUID) (subscription.Tier, error)
}
