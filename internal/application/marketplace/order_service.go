package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateOrderStatus is the typed outcome of an order creation attempt
type CreateOrderStatus string

const (
	CreateOrderStatusSuccess            CreateOrderStatus = "success"
	CreateOrderStatusListingNotActive   CreateOrderStatus = "listing_not_active"
	CreateOrderStatusListingUnavailable CreateOrderStatus = "listing_unavailable"
)

// CreateOrderResult reports the outcome of a create-order use case.
// ClientSecret is set on success so the caller can complete payment.
type CreateOrderResult struct {
	Status       CreateOrderStatus
	Order        *marketplace.Order
	ClientSecret string
}

// ConfirmPaymentStatus is the typed outcome of a payment confirmation
type ConfirmPaymentStatus string

const (
	ConfirmPaymentStatusSuccess             ConfirmPaymentStatus = "success"
	ConfirmPaymentStatusAlreadyConfirmed    ConfirmPaymentStatus = "already_confirmed"
	ConfirmPaymentStatusPaymentNotSucceeded ConfirmPaymentStatus = "payment_not_succeeded"
)

// ConfirmPaymentResult reports the outcome of ConfirmPayment. Order is set
// whenever the matching order was found.
type ConfirmPaymentResult struct {
	Status ConfirmPaymentStatus
	Order  *marketplace.Order
}

// OrderService coordinates the order lifecycle against the payment gateway.
// Every status mutation goes through a value-guarded single-statement write
// so duplicate webhook deliveries and concurrent requests cannot double-fire
// a transition.
type OrderService struct {
	listings       marketplace.ListingRepository
	orders         marketplace.OrderRepository
	blocks         marketplace.AvailabilityBlockRepository
	gateway        marketplace.PaymentGateway
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	listings marketplace.ListingRepository,
	orders marketplace.OrderRepository,
	blocks marketplace.AvailabilityBlockRepository,
	gateway marketplace.PaymentGateway,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		listings:       listings,
		orders:         orders,
		blocks:         blocks,
		gateway:        gateway,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateRentalOrder books a rental listing for a closed date interval. The
// payment intent is created before the order row; if the insert fails the
// intent is cancelled so no orphaned authorization remains.
func (s *OrderService) CreateRentalOrder(ctx context.Context, listingID, renterID uuid.UUID, start, end time.Time) (*CreateOrderResult, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Kind != marketplace.ListingKindRental || !listing.IsActive() {
		return &CreateOrderResult{Status: CreateOrderStatusListingNotActive}, nil
	}

	dates, err := valueobject.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	available, err := s.rentalDatesAvailable(ctx, listingID, dates)
	if err != nil {
		return nil, err
	}
	if !available {
		return &CreateOrderResult{Status: CreateOrderStatusListingUnavailable}, nil
	}

	total, err := listing.RentalTotal(dates)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, total, map[string]string{
		"listing_id": listingID.String(),
		"order_kind": marketplace.OrderKindRental.String(),
	})
	if err != nil {
		return nil, marketplace.NewPaymentGatewayError("create_intent", err)
	}

	order, err := marketplace.NewRentalOrder(listing, renterID, dates, total, intent.ID)
	if err != nil {
		s.cancelIntent(ctx, intent.ID)
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.cancelIntent(ctx, intent.ID)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishEvents(ctx, order)

	return &CreateOrderResult{
		Status:       CreateOrderStatusSuccess,
		Order:        order,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// CreateSaleOrder buys a sale listing outright. Sale listings are exclusive:
// any open order blocks a second buyer until it resolves.
func (s *OrderService) CreateSaleOrder(ctx context.Context, listingID, buyerID uuid.UUID) (*CreateOrderResult, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Kind != marketplace.ListingKindSale || !listing.IsActive() {
		return &CreateOrderResult{Status: CreateOrderStatusListingNotActive}, nil
	}

	open, err := s.orders.HasOpenOrder(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if open {
		return &CreateOrderResult{Status: CreateOrderStatusListingUnavailable}, nil
	}

	price, err := valueobject.NewMoney(listing.SalePrice, listing.Currency)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, price, map[string]string{
		"listing_id": listingID.String(),
		"order_kind": marketplace.OrderKindSale.String(),
	})
	if err != nil {
		return nil, marketplace.NewPaymentGatewayError("create_intent", err)
	}

	order, err := marketplace.NewSaleOrder(listing, buyerID, price, intent.ID)
	if err != nil {
		s.cancelIntent(ctx, intent.ID)
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.cancelIntent(ctx, intent.ID)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishEvents(ctx, order)

	return &CreateOrderResult{
		Status:       CreateOrderStatusSuccess,
		Order:        order,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// ConfirmPayment reacts to a successful payment, typically from the gateway
// webhook. The transition is a conditional update keyed on the intent and
// the pending_payment status, so a redelivered webhook confirms nothing the
// second time and produces no duplicate events or notifications.
func (s *OrderService) ConfirmPayment(ctx context.Context, paymentIntentID string) (*ConfirmPaymentResult, error) {
	intent, err := s.gateway.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, marketplace.NewPaymentGatewayError("retrieve_intent", err)
	}
	if intent.Status != marketplace.PaymentIntentStatusSucceeded {
		s.logger.Warn("payment confirmation rejected, intent not succeeded",
			zap.String("payment_intent_id", paymentIntentID),
			zap.String("intent_status", string(intent.Status)),
		)
		return &ConfirmPaymentResult{Status: ConfirmPaymentStatusPaymentNotSucceeded}, nil
	}

	transitioned, err := s.orders.ConfirmByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}

	if !transitioned {
		if order.Status == marketplace.OrderStatusConfirmed || order.Status == marketplace.OrderStatusInProgress ||
			order.Status == marketplace.OrderStatusCompleted {
			s.logger.Info("duplicate payment confirmation ignored",
				zap.String("order_id", order.ID.String()),
				zap.String("payment_intent_id", paymentIntentID),
			)
			return &ConfirmPaymentResult{Status: ConfirmPaymentStatusAlreadyConfirmed, Order: order}, nil
		}
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot confirm order in %s status", order.Status))
	}

	if order.MarksListingSold() {
		sold, err := s.listings.MarkSold(ctx, order.ListingID)
		if err != nil {
			return nil, err
		}
		if !sold {
			s.logger.Warn("listing already sold or inactive at confirmation",
				zap.String("listing_id", order.ListingID.String()),
				zap.String("order_id", order.ID.String()),
			)
		}
	}

	s.publish(ctx, marketplace.NewOrderConfirmedEvent(order))

	return &ConfirmPaymentResult{Status: ConfirmPaymentStatusSuccess, Order: order}, nil
}

// StartOrder marks a confirmed order as in progress
func (s *OrderService) StartOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.updateStatus(ctx, orderID, marketplace.OrderStatusInProgress, "")
}

// CompleteOrder marks an in-progress order as completed
func (s *OrderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.updateStatus(ctx, orderID, marketplace.OrderStatusCompleted, "")
}

// CancelOrder cancels any non-terminal order. Cancelling an order that is
// still pending payment also voids the payment intent.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	return s.updateStatus(ctx, orderID, marketplace.OrderStatusCancelled, reason)
}

// GetOrder returns an order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*marketplace.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// updateStatus applies an FSM-validated transition through the guarded
// repository write and publishes the matching lifecycle event once.
func (s *OrderService) updateStatus(ctx context.Context, orderID uuid.UUID, target marketplace.OrderStatus, reason string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	from := order.Status
	switch target {
	case marketplace.OrderStatusInProgress:
		err = order.Start()
	case marketplace.OrderStatusCompleted:
		err = order.Complete()
	case marketplace.OrderStatusCancelled:
		err = order.Cancel(reason)
	default:
		err = shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Unsupported transition target %s", target))
	}
	if err != nil {
		return err
	}

	transitioned, err := s.orders.TransitionStatus(ctx, orderID, from, target)
	if err != nil {
		return err
	}
	if !transitioned {
		return shared.ErrConcurrencyConflict
	}

	if target == marketplace.OrderStatusCancelled && from == marketplace.OrderStatusPendingPayment {
		s.cancelIntent(ctx, order.PaymentIntentID)
	}

	s.publishEvents(ctx, order)

	return nil
}

// rentalDatesAvailable checks open orders and availability blocks against
// the requested closed interval
func (s *OrderService) rentalDatesAvailable(ctx context.Context, listingID uuid.UUID, dates valueobject.DateRange) (bool, error) {
	booked, err := s.orders.HasOpenOrderOverlapping(ctx, listingID, dates)
	if err != nil {
		return false, err
	}
	if booked {
		return false, nil
	}

	blocked, err := s.blocks.HasBlockOverlapping(ctx, listingID, dates)
	if err != nil {
		return false, err
	}
	return !blocked, nil
}

// cancelIntent is the compensating action for a failed order write. A
// cancellation failure leaves the error in the logs for reconciliation; the
// original failure still surfaces to the caller.
func (s *OrderService) cancelIntent(ctx context.Context, intentID string) {
	if intentID == "" {
		return
	}
	if err := s.gateway.CancelPaymentIntent(ctx, intentID); err != nil {
		s.logger.Error("failed to cancel payment intent after order failure",
			zap.String("payment_intent_id", intentID),
			zap.Error(err),
		)
	}
}

func (s *OrderService) publishEvents(ctx context.Context, order *marketplace.Order) {
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish order events", zap.Error(err))
	}
	order.ClearDomainEvents()
}

func (s *OrderService) publish(ctx context.Context, event shared.DomainEvent) {
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish order event",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
