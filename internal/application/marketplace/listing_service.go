package marketplace

import (
	"context"
	"time"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingService manages marketplace listings and their availability blocks
type ListingService struct {
	listings marketplace.ListingRepository
	blocks   marketplace.AvailabilityBlockRepository
	orders   marketplace.OrderRepository
	logger   *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(
	listings marketplace.ListingRepository,
	blocks marketplace.AvailabilityBlockRepository,
	orders marketplace.OrderRepository,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		listings: listings,
		blocks:   blocks,
		orders:   orders,
		logger:   logger,
	}
}

// CreateRentalListing creates an active rental listing priced per day
func (s *ListingService) CreateRentalListing(ctx context.Context, ownerID uuid.UUID, title string, dailyRate valueobject.Money) (*marketplace.Listing, error) {
	listing, err := marketplace.NewRentalListing(ownerID, title, dailyRate)
	if err != nil {
		return nil, err
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	s.logger.Info("rental listing created",
		zap.String("listing_id", listing.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return listing, nil
}

// CreateSaleListing creates an active sale listing with a one-off price
func (s *ListingService) CreateSaleListing(ctx context.Context, ownerID uuid.UUID, title string, price valueobject.Money) (*marketplace.Listing, error) {
	listing, err := marketplace.NewSaleListing(ownerID, title, price)
	if err != nil {
		return nil, err
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	s.logger.Info("sale listing created",
		zap.String("listing_id", listing.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return listing, nil
}

// GetListing returns a listing by ID
func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*marketplace.Listing, error) {
	return s.listings.FindByID(ctx, id)
}

// BlockDates excludes a date range from a rental listing's availability.
// Only the owner can block, and the range must not collide with an open
// order already holding those dates.
func (s *ListingService) BlockDates(ctx context.Context, ownerID, listingID uuid.UUID, start, end time.Time, reason string) (*marketplace.AvailabilityBlock, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the listing owner can block dates")
	}
	if listing.Kind != marketplace.ListingKindRental {
		return nil, shared.ErrInvalidState
	}

	dates, err := valueobject.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	taken, err := s.orders.HasOpenOrderOverlapping(ctx, listingID, dates)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("INVALID_STATE", "An open order already holds dates in this range")
	}

	block, err := marketplace.NewAvailabilityBlock(listingID, dates, reason)
	if err != nil {
		return nil, err
	}
	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

// ListBlocks returns all availability blocks for a listing
func (s *ListingService) ListBlocks(ctx context.Context, listingID uuid.UUID) ([]*marketplace.AvailabilityBlock, error) {
	return s.blocks.FindByListingID(ctx, listingID)
}
