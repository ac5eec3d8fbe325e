package marketplace

import (
	"context"

	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ListingRepository persists marketplace listings
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// MarkSold transitions an active listing to sold with a status-guarded
	// update. Returns false when the listing was not active (already sold
	// or deactivated), which makes duplicate confirmations a no-op.
	MarkSold(ctx context.Context, id uuid.UUID) (bool, error)
}

// OrderRepository persists marketplace orders.
//
// The order row is hot shared state under duplicate webhook delivery:
// status transitions must be value-guarded single statements, never
// read-modify-write sequences in application memory.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*Order, error)

	// HasOpenOrderOverlapping reports whether any order for the listing in
	// an open status (pending_payment, confirmed, in_progress) overlaps
	// the closed date interval
	HasOpenOrderOverlapping(ctx context.Context, listingID uuid.UUID, dates valueobject.DateRange) (bool, error)

	// HasOpenOrder reports whether the listing has any open order at all
	// (sale listings are exclusive regardless of dates)
	HasOpenOrder(ctx context.Context, listingID uuid.UUID) (bool, error)

	// TransitionStatus applies a guarded single-statement transition
	// (`... SET status = ? WHERE id = ? AND status = ?`) stamping the
	// lifecycle timestamp for the target status. Returns false when the
	// guard rejected the write (order no longer in the expected status).
	TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to OrderStatus) (bool, error)

	// ConfirmByPaymentIntent is the idempotent confirmation write:
	// transitions the order matching the intent from pending_payment to
	// confirmed. Returns false when no row matched, making a second
	// delivery of the same confirmation a no-op.
	ConfirmByPaymentIntent(ctx context.Context, intentID string) (bool, error)
}

// AvailabilityBlockRepository persists listing availability blocks
type AvailabilityBlockRepository interface {
	Create(ctx context.Context, block *AvailabilityBlock) error
	FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*AvailabilityBlock, error)

	// HasBlockOverlapping reports whether any block for the listing
	// overlaps the closed date interval
	HasBlockOverlapping(ctx context.Context, listingID uuid.UUID, dates valueobject.DateRange) (bool, error)
}
