package marketplace

import (
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingKind distinguishes equipment offered for rental from equipment
// offered for sale
type ListingKind string

const (
	ListingKindRental ListingKind = "rental"
	ListingKindSale   ListingKind = "sale"
)

// IsValid checks if the kind is a known ListingKind
func (k ListingKind) IsValid() bool {
	return k == ListingKindRental || k == ListingKindSale
}

// String returns the string representation of ListingKind
func (k ListingKind) String() string {
	return string(k)
}

// ListingStatus represents the availability status of a listing
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
	ListingStatusSold     ListingStatus = "sold"
)

// IsValid checks if the status is a known ListingStatus
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusActive, ListingStatusInactive, ListingStatusSold:
		return true
	}
	return false
}

// String returns the string representation of ListingStatus
func (s ListingStatus) String() string {
	return string(s)
}

// Listing is an equipment listing offered on the marketplace
type Listing struct {
	shared.BaseAggregateRoot
	OwnerID   uuid.UUID
	Kind      ListingKind
	Title     string
	DailyRate decimal.Decimal // per-day price, rental listings
	SalePrice decimal.Decimal // one-off price, sale listings
	Currency  valueobject.Currency
	Status    ListingStatus
}

// NewRentalListing creates an active rental listing
func NewRentalListing(ownerID uuid.UUID, title string, dailyRate valueobject.Money) (*Listing, error) {
	if err := validateListing(ownerID, title, dailyRate); err != nil {
		return nil, err
	}

	return &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Kind:              ListingKindRental,
		Title:             title,
		DailyRate:         dailyRate.Amount(),
		Currency:          dailyRate.Currency(),
		Status:            ListingStatusActive,
	}, nil
}

// NewSaleListing creates an active sale listing
func NewSaleListing(ownerID uuid.UUID, title string, price valueobject.Money) (*Listing, error) {
	if err := validateListing(ownerID, title, price); err != nil {
		return nil, err
	}

	return &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Kind:              ListingKindSale,
		Title:             title,
		SalePrice:         price.Amount(),
		Currency:          price.Currency(),
		Status:            ListingStatusActive,
	}, nil
}

func validateListing(ownerID uuid.UUID, title string, price valueobject.Money) error {
	if ownerID == uuid.Nil {
		return shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Listing title cannot be empty")
	}
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Listing price must be positive")
	}
	return nil
}

// IsActive reports whether the listing can accept new orders
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

// Deactivate removes the listing from the marketplace
func (l *Listing) Deactivate() {
	l.Status = ListingStatusInactive
	l.UpdatedAt = time.Now()
}

// MarkSold marks a sale listing as sold. Only active sale listings can be
// sold; the transition is also guarded at the persistence layer so a
// duplicate payment confirmation cannot re-mark the listing.
func (l *Listing) MarkSold() error {
	if l.Kind != ListingKindSale {
		return shared.NewDomainError("INVALID_KIND", "Only sale listings can be marked sold")
	}
	if l.Status != ListingStatusActive {
		return shared.ErrInvalidState
	}

	l.Status = ListingStatusSold
	l.UpdatedAt = time.Now()

	return nil
}

// RentalTotal computes the total for renting the listing over a date range
func (l *Listing) RentalTotal(dates valueobject.DateRange) (valueobject.Money, error) {
	if l.Kind != ListingKindRental {
		return valueobject.Money{}, shared.NewDomainError("INVALID_KIND", "Listing is not offered for rental")
	}
	rate, err := valueobject.NewMoney(l.DailyRate, l.Currency)
	if err != nil {
		return valueobject.Money{}, err
	}
	return rate.MultiplyByInt(int64(dates.Days())), nil
}
