package gig

import (
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GigStatus represents the lifecycle status of a gig
type GigStatus string

const (
	GigStatusDraft  GigStatus = "draft"
	GigStatusOpen   GigStatus = "open"
	GigStatusClosed GigStatus = "closed"
)

// IsValid checks if the status is a known GigStatus
func (s GigStatus) IsValid() bool {
	switch s {
	case GigStatusDraft, GigStatusOpen, GigStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of GigStatus
func (s GigStatus) String() string {
	return string(s)
}

// Gig is a paid job posting on the marketplace
type Gig struct {
	shared.BaseAggregateRoot
	OwnerID        uuid.UUID
	Title          string
	Description    string
	Status         GigStatus
	ApplicantCount int
	Boosted        bool
	BoostedAt      *time.Time
	ClosedAt       *time.Time
}

// NewGig creates an open gig
func NewGig(ownerID uuid.UUID, title, description string) (*Gig, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Gig title cannot be empty")
	}

	gig := &Gig{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Title:             title,
		Description:       description,
		Status:            GigStatusOpen,
	}

	gig.AddDomainEvent(NewGigCreatedEvent(gig))

	return gig, nil
}

// IsAcceptingApplications reports whether new applications can be submitted
func (g *Gig) IsAcceptingApplications() bool {
	return g.Status == GigStatusOpen
}

// Boost flags the gig for promoted placement
func (g *Gig) Boost() error {
	if g.Status != GigStatusOpen {
		return shared.ErrInvalidState
	}
	if g.Boosted {
		return shared.NewDomainError("ALREADY_BOOSTED", "Gig is already boosted")
	}

	now := time.Now()
	g.Boosted = true
	g.BoostedAt = &now
	g.UpdatedAt = now

	g.AddDomainEvent(NewGigBoostedEvent(g))

	return nil
}

// Close stops the gig from accepting applications
func (g *Gig) Close() error {
	if g.Status == GigStatusClosed {
		return shared.ErrInvalidState
	}

	now := time.Now()
	g.Status = GigStatusClosed
	g.ClosedAt = &now
	g.UpdatedAt = now

	return nil
}
