package marketplace

import (
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// AvailabilityBlock excludes a listing from being ordered over a date range.
// Blocks are created by listing owners (maintenance, personal use); the
// order flow only consults them.
type AvailabilityBlock struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	CreatedAt time.Time
}

// NewAvailabilityBlock creates a block over the given date range
func NewAvailabilityBlock(listingID uuid.UUID, dates valueobject.DateRange, reason string) (*AvailabilityBlock, error) {
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING", "Listing ID cannot be empty")
	}

	return &AvailabilityBlock{
		ID:        uuid.New(),
		ListingID: listingID,
		StartDate: dates.Start(),
		EndDate:   dates.End(),
		Reason:    reason,
		CreatedAt: time.Now(),
	}, nil
}

// Dates returns the blocked date range
func (b *AvailabilityBlock) Dates() valueobject.DateRange {
	dates, err := valueobject.NewDateRange(b.StartDate, b.EndDate)
	if err != nil {
		return valueobject.DateRange{}
	}
	return dates
}
