package identity

import (
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeUser = "User"

// EventTypeUserRegistered is raised when a new user joins
const EventTypeUserRegistered = "UserRegistered"

// UserRegisteredEvent feeds the welcome email and referral bonus handlers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID  `json:"user_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	ReferredBy  *uuid.UUID `json:"referred_by,omitempty"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID),
		UserID:          u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		ReferredBy:      u.ReferredBy,
	}
}

// EventType returns the event type name
func (e *UserRegisteredEvent) EventType() string {
	return EventTypeUserRegistered
}
