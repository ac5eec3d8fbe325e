package marketplace

import (
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderConfirmed = "OrderConfirmed"
	EventTypeOrderStarted   = "OrderStarted"
	EventTypeOrderCompleted = "OrderCompleted"
	EventTypeOrderCancelled = "OrderCancelled"
)

// OrderCreatedEvent is raised when a new order enters pending_payment
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID       `json:"order_id"`
	Kind           OrderKind       `json:"kind"`
	ListingID      uuid.UUID       `json:"listing_id"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Amount         decimal.Decimal `json:"amount"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	EndDate        *time.Time      `json:"end_date,omitempty"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Kind:            order.Kind,
		ListingID:       order.ListingID,
		OwnerID:         order.OwnerID,
		CounterpartyID:  order.CounterpartyID,
		Amount:          order.Amount,
		StartDate:       order.StartDate,
		EndDate:         order.EndDate,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderConfirmedEvent is raised exactly once when payment is confirmed:
// the conditional status transition guards against duplicate webhook
// deliveries re-raising it
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	Kind            OrderKind       `json:"kind"`
	ListingID       uuid.UUID       `json:"listing_id"`
	OwnerID         uuid.UUID       `json:"owner_id"`
	CounterpartyID  uuid.UUID       `json:"counterparty_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentIntentID string          `json:"payment_intent_id"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(order *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Kind:            order.Kind,
		ListingID:       order.ListingID,
		OwnerID:         order.OwnerID,
		CounterpartyID:  order.CounterpartyID,
		Amount:          order.Amount,
		PaymentIntentID: order.PaymentIntentID,
	}
}

// EventType returns the event type name
func (e *OrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// OrderStartedEvent is raised when an order moves to in_progress
type OrderStartedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	ListingID uuid.UUID `json:"listing_id"`
}

// NewOrderStartedEvent creates a new OrderStartedEvent
func NewOrderStartedEvent(order *Order) *OrderStartedEvent {
	return &OrderStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStarted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ListingID:       order.ListingID,
	}
}

// EventType returns the event type name
func (e *OrderStartedEvent) EventType() string {
	return EventTypeOrderStarted
}

// OrderCompletedEvent is raised when an order reaches its terminal
// completed state
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	ListingID uuid.UUID `json:"listing_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(order *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ListingID:       order.ListingID,
		OwnerID:         order.OwnerID,
	}
}

// EventType returns the event type name
func (e *OrderCompletedEvent) EventType() string {
	return EventTypeOrderCompleted
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	ListingID uuid.UUID `json:"listing_id"`
	Reason    string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ListingID:       order.ListingID,
		Reason:          order.CancelReason,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
