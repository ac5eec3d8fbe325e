package marketplace

import (
	"fmt"
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderKind discriminates rental orders from sale orders on a single Order
// type; kind-specific behavior is dispatched through kindBehavior rather
// than string branching at call sites.
type OrderKind string

const (
	OrderKindRental OrderKind = "rental"
	OrderKindSale   OrderKind = "sale"
)

// IsValid checks if the kind is a known OrderKind
func (k OrderKind) IsValid() bool {
	return k == OrderKindRental || k == OrderKindSale
}

// String returns the string representation of OrderKind
func (k OrderKind) String() string {
	return string(k)
}

// OrderStatus represents the status of a marketplace order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusInProgress     OrderStatus = "in_progress"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusConfirmed, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsOpen returns true for statuses that keep a listing reserved:
// an order in one of these states blocks overlapping bookings.
func (s OrderStatus) IsOpen() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusConfirmed, OrderStatusInProgress:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// Cancellation is reachable from every non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case OrderStatusPendingPayment:
		return target == OrderStatusConfirmed
	case OrderStatusConfirmed:
		return target == OrderStatusInProgress
	case OrderStatusInProgress:
		return target == OrderStatusCompleted
	}
	return false
}

// kindBehavior resolves the kind-specific parts of the order lifecycle
type kindBehavior interface {
	// validate checks kind-specific invariants at creation time
	validate(o *Order) error
	// marksListingSold reports whether confirmation sells the listing
	marksListingSold() bool
}

type rentalBehavior struct{}

func (rentalBehavior) validate(o *Order) error {
	if o.StartDate == nil || o.EndDate == nil {
		return shared.NewDomainError("INVALID_DATES", "Rental orders require a date range")
	}
	return nil
}

func (rentalBehavior) marksListingSold() bool { return false }

type saleBehavior struct{}

func (saleBehavior) validate(o *Order) error {
	if o.StartDate != nil || o.EndDate != nil {
		return shared.NewDomainError("INVALID_DATES", "Sale orders do not carry a date range")
	}
	return nil
}

func (saleBehavior) marksListingSold() bool { return true }

func behaviorFor(kind OrderKind) (kindBehavior, error) {
	switch kind {
	case OrderKindRental:
		return rentalBehavior{}, nil
	case OrderKindSale:
		return saleBehavior{}, nil
	}
	return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Unknown order kind %q", kind))
}

// Order represents a rental or sale order aggregate root
type Order struct {
	shared.BaseAggregateRoot
	Kind            OrderKind
	ListingID       uuid.UUID
	OwnerID         uuid.UUID // listing owner
	CounterpartyID  uuid.UUID // renter or buyer
	Amount          decimal.Decimal
	Currency        valueobject.Currency
	PaymentIntentID string
	Status          OrderStatus
	StartDate       *time.Time // rental orders only
	EndDate         *time.Time // rental orders only
	ConfirmedAt     *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

// NewRentalOrder creates a rental order in pending_payment status
func NewRentalOrder(listing *Listing, counterpartyID uuid.UUID, dates valueobject.DateRange, total valueobject.Money, paymentIntentID string) (*Order, error) {
	start := dates.Start()
	end := dates.End()
	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              OrderKindRental,
		ListingID:         listing.ID,
		OwnerID:           listing.OwnerID,
		CounterpartyID:    counterpartyID,
		Amount:            total.Amount(),
		Currency:          total.Currency(),
		PaymentIntentID:   paymentIntentID,
		Status:            OrderStatusPendingPayment,
		StartDate:         &start,
		EndDate:           &end,
	}
	if err := validateOrder(order, counterpartyID, paymentIntentID); err != nil {
		return nil, err
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// NewSaleOrder creates a sale order in pending_payment status
func NewSaleOrder(listing *Listing, counterpartyID uuid.UUID, total valueobject.Money, paymentIntentID string) (*Order, error) {
	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              OrderKindSale,
		ListingID:         listing.ID,
		OwnerID:           listing.OwnerID,
		CounterpartyID:    counterpartyID,
		Amount:            total.Amount(),
		Currency:          total.Currency(),
		PaymentIntentID:   paymentIntentID,
		Status:            OrderStatusPendingPayment,
	}
	if err := validateOrder(order, counterpartyID, paymentIntentID); err != nil {
		return nil, err
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

func validateOrder(order *Order, counterpartyID uuid.UUID, paymentIntentID string) error {
	if order.ListingID == uuid.Nil {
		return shared.NewDomainError("INVALID_LISTING", "Listing ID cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if counterpartyID == order.OwnerID {
		return shared.NewDomainError("INVALID_COUNTERPARTY", "Cannot order your own listing")
	}
	if order.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Order amount must be positive")
	}
	if paymentIntentID == "" {
		return shared.NewDomainError("INVALID_PAYMENT_INTENT", "Payment intent ID cannot be empty")
	}

	behavior, err := behaviorFor(order.Kind)
	if err != nil {
		return err
	}
	return behavior.validate(order)
}

// MarksListingSold reports whether confirming this order sells the listing
func (o *Order) MarksListingSold() bool {
	behavior, err := behaviorFor(o.Kind)
	if err != nil {
		return false
	}
	return behavior.marksListingSold()
}

// Dates returns the rental date range; zero range for sale orders
func (o *Order) Dates() valueobject.DateRange {
	if o.StartDate == nil || o.EndDate == nil {
		return valueobject.DateRange{}
	}
	dates, err := valueobject.NewDateRange(*o.StartDate, *o.EndDate)
	if err != nil {
		return valueobject.DateRange{}
	}
	return dates
}

// Confirm transitions the order to confirmed after successful payment
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// Start marks the order as in progress (rental handed over / sale shipped)
func (o *Order) Start() error {
	if !o.Status.CanTransitionTo(OrderStatusInProgress) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusInProgress
	o.StartedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStartedEvent(o))

	return nil
}

// Complete marks the order as completed
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel cancels the order with a reason
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// AmountMoney returns the order amount as a Money value object
func (o *Order) AmountMoney() valueobject.Money {
	m, err := valueobject.NewMoney(o.Amount, o.Currency)
	if err != nil {
		return valueobject.Zero(valueobject.DefaultCurrency)
	}
	return m
}
