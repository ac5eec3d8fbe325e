package showcase

import (
	"context"
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Showcase is a portfolio piece published to a talent profile. Showcases are
// governed by a total (not monthly) quota per subscription tier.
type Showcase struct {
	shared.BaseAggregateRoot
	OwnerID     uuid.UUID
	Title       string
	Description string
	PublishedAt time.Time
}

// NewShowcase creates a published showcase
func NewShowcase(ownerID uuid.UUID, title, description string) (*Showcase, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Showcase title cannot be empty")
	}

	s := &Showcase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Title:             title,
		Description:       description,
		PublishedAt:       time.Now(),
	}

	s.AddDomainEvent(NewShowcasePublishedEvent(s))

	return s, nil
}

// Repository persists showcases
type Repository interface {
	Create(ctx context.Context, s *Showcase) error
	FindByID(ctx context.Context, id uuid.UUID) (*Showcase, error)

	// CountByOwner counts all showcases the user has published; total
	// quotas compare against this
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
