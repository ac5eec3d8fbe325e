package marketplace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock implementations

type mockListingRepository struct {
	mock.Mock
}

func (m *mockListingRepository) Create(ctx context.Context, listing *marketplace.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Listing), args.Error(1)
}

func (m *mockListingRepository) MarkSold(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *marketplace.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Order), args.Error(1)
}

func (m *mockOrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*marketplace.Order, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.Order), args.Error(1)
}

func (m *mockOrderRepository) HasOpenOrderOverlapping(ctx context.Context, listingID uuid.UUID, dates valueobject.DateRange) (bool, error) {
	args := m.Called(ctx, listingID, dates)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepository) HasOpenOrder(ctx context.Context, listingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepository) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to marketplace.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrderRepository) ConfirmByPaymentIntent(ctx context.Context, intentID string) (bool, error) {
	args := m.Called(ctx, intentID)
	return args.Bool(0), args.Error(1)
}

type mockBlockRepository struct {
	mock.Mock
}

func (m *mockBlockRepository) Create(ctx context.Context, block *marketplace.AvailabilityBlock) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *mockBlockRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*marketplace.AvailabilityBlock, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*marketplace.AvailabilityBlock), args.Error(1)
}

func (m *mockBlockRepository) HasBlockOverlapping(ctx context.Context, listingID uuid.UUID, dates valueobject.DateRange) (bool, error) {
	args := m.Called(ctx, listingID, dates)
	return args.Bool(0), args.Error(1)
}

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) CreatePaymentIntent(ctx context.Context, amount valueobject.Money, metadata map[string]string) (*marketplace.PaymentIntent, error) {
	args := m.Called(ctx, amount, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.PaymentIntent), args.Error(1)
}

func (m *mockPaymentGateway) RetrievePaymentIntent(ctx context.Context, intentID string) (*marketplace.PaymentIntent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketplace.PaymentIntent), args.Error(1)
}

func (m *mockPaymentGateway) CancelPaymentIntent(ctx context.Context, intentID string) error {
	args := m.Called(ctx, intentID)
	return args.Error(0)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type orderFixture struct {
	svc      *OrderService
	listings *mockListingRepository
	orders   *mockOrderRepository
	blocks   *mockBlockRepository
	gateway  *mockPaymentGateway
	pub      *mockEventPublisher
}

func newOrderFixture() *orderFixture {
	listings := new(mockListingRepository)
	orders := new(mockOrderRepository)
	blocks := new(mockBlockRepository)
	gateway := new(mockPaymentGateway)
	pub := new(mockEventPublisher)
	svc := NewOrderService(listings, orders, blocks, gateway, pub, zap.NewNop())
	return &orderFixture{svc: svc, listings: listings, orders: orders, blocks: blocks, gateway: gateway, pub: pub}
}

func rentalListing(t *testing.T, dailyRate int64) *marketplace.Listing {
	t.Helper()
	listing, err := marketplace.NewRentalListing(uuid.New(), "Sony A7 IV kit",
		valueobject.NewMoneyUSD(decimal.NewFromInt(dailyRate)))
	require.NoError(t, err)
	return listing
}

func saleListing(t *testing.T, price int64) *marketplace.Listing {
	t.Helper()
	listing, err := marketplace.NewSaleListing(uuid.New(), "Godox lighting set",
		valueobject.NewMoneyUSD(decimal.NewFromInt(price)))
	require.NoError(t, err)
	return listing
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestCreateRentalOrder(t *testing.T) {
	renterID := uuid.New()

	t.Run("books available dates and charges days times rate", func(t *testing.T) {
		f := newOrderFixture()
		listing := rentalListing(t, 80)
		f.listings.On("FindByID", mock.Anything, listing.ID).Return(listing, nil)
		f.orders.On("HasOpenOrderOverlapping", mock.Anything, listing.ID, mock.Anything).Return(false, nil)
		f.blocks.On("HasBlockOverlapping", mock.Anything, listing.ID, mock.Anything).Return(false, nil)
		f.gateway.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(amount valueobject.Money) bool {
			// 3 closed-interval days at 80
			return amount.Amount().Equal(decimal.NewFromInt(240))
		}), mock.Anything).Return(&marketplace.PaymentIntent{ID: "pi_1", ClientSecret: "secret_1"}, nil)
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == marketplace.EventTypeOrderCreated
		})).Return(nil)

		result, err := f.svc.CreateRentalOrder(context.Background(), listing.ID, renterID, day("2024-06-10"), day("2024-06-12"))

		require.NoError(t, err)
		assert.Equal(t, CreateOrderStatusSuccess, result.Status)
		assert.Equal(t, "secret_1", result.ClientSecret)
		require.NotNil(t, result.Order)
		assert.Equal(t, marketplace.OrderStatusPendingPayment, result.Order.Status)
		assert.Equal(t, marketplace.OrderKindRental, result.Order.Kind)
	})

	t.Run("overlapping open order blocks the booking before any charge", func(t *testing.T) {
		f := newOrderFixture()
		listing := rentalListing(t, 80)
		f.listings.On("FindByID", mock.Anything, listing.ID).Return(listing, nil)
		f.orders.On("HasOpenOrderOverlapping", mock.Anything, listing.ID, mock.Anything).Return(true, nil)

		result, err := f.svc.CreateRentalOrder(context.Background(), listing.ID, renterID, day("2024-06-10"), day("2024-06-12"))

		require.NoError(t, err)
		assert.Equal(t, CreateOrderStatusListingUnavailable, result.Status)
		f.gateway.AssertNotCalled(t, "CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("availability block also blocks the booking", func(t *testing.T) {
		f := newOrderFixture()
		listing := rentalListing(t, 80)
		f.listings.On("FindByID", mock.Anything, listing.ID).Return(listing, nil)
		f.orders.On("HasOpenOrderOverlapping", mock.Anything, listing.ID, mock.Anything).Return(false, nil)
		f.blocks.On("HasBlockOverlapping", mock.Anything, listing.ID, mock.Anything).Return(true, nil)

		result, err := f.svc.CreateRentalOrder(context.Background(), listing.ID, renterID, day("2024-06-10"), day("2024-06-12"))

		require.NoError(t, err)
		assert.Equal(t, CreateOrderStatusListingUnavailable, result.Status)
	})

	t.Run("cancels the intent when the order insert fails", func(t *testing.T) {
		f := newOrderFixture()
		listing := rentalListing(t, 80)
		f.listings.On("FindByID", mock.Anything, listing.ID).Return(listing, nil)
		f.orders.On("HasOpenOrderOverlapping", mock.Anything, listing.ID, mock.Anything).Return(false, nil)
		f.blocks.On("HasBlockOverlapping", mock.Anything, listing.ID, mock.Anything).Return(false, nil)
		f.gateway.On("CreatePaymentIntent", mock.Anything, mock.Anything, mock.Anything).
			Return(&marketplace.PaymentIntent{ID: "pi_2", ClientSecret: "secret_2"}, nil)
		f.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("constraint violation"))
		f.gateway.On("CancelPaymentIntent", mock.Anything, "pi_2").Return(nil)

		_, err := f.svc.CreateRentalOrder(context.Background(), listing.ID, renterID, day("2024-06-10"), day("2024-06-12"))

		assert.Error(t, err)
		f.gateway.AssertCalled(t, "CancelPaymentIntent", mock.Anything, "pi_2")
	})

	t.Run("inactive listing is rejected", func(t *testing.T) {
		f := newOrderFixture()
		listing := rentalListing(t, 80)
		listing.Deactivate()
		f.listings.On("FindByID", mock.Anything, listing.ID).Return(listing, nil)

		result, err := f.svc.CreateRentalOrder(context.Background(), listing.ID, renterID, day("2024-06-10"), day("2024-06-12"))

		require.NoError(t, err)
		assert.Equal(t, CreateOrderStatusListingNotActive, result.Status)
	})
}

func TestCreateSaleOrder(t *testing.T) {
	buyerID := uuid.New()

	t.Run("buys an active listing with no open order", func(t *testing.T) {
		f := newOrderFixture()
		listing := saleListing(t, 1200)
		f.listings.On("FindByID", mock.Anything, listing.ID).Return(listing, nil)
		f.orders.On("HasOpenOrder", mock.Anything, listing.ID).Return(false, nil)
		f.gateway.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(amount valueobject.Money) bool {
			return amount.Amount().Equal(decimal.NewFromInt(1200))
		}), mock.Anything).Return(&marketplace.PaymentIntent{ID: "pi_3", ClientSecret: "secret_3"}, nil)
		f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.CreateSaleOrder(context.Background(), listing.ID, buyerID)

		require.NoError(t, err)
		assert.Equal(t, CreateOrderStatusSuccess, result.Status)
		assert.Equal(t, marketplace.OrderKindSale, result.Order.Kind)
		assert.Nil(t, result.Order.StartDate)
	})

	t.Run("open order makes the listing unavailable", func(t *testing.T) {
		f := newOrderFixture()
		listing := saleListing(t, 1200)
		f.listings.On("FindByID", mock.Anything, listing.ID).Return(listing, nil)
		f.orders.On("HasOpenOrder", mock.Anything, listing.ID).Return(true, nil)

		result, err := f.svc.CreateSaleOrder(context.Background(), listing.ID, buyerID)

		require.NoError(t, err)
		assert.Equal(t, CreateOrderStatusListingUnavailable, result.Status)
	})
}

func pendingSaleOrder(t *testing.T, intentID string) *marketplace.Order {
	t.Helper()
	listing := saleListing(t, 1200)
	order, err := marketplace.NewSaleOrder(listing, uuid.New(),
		valueobject.NewMoneyUSD(decimal.NewFromInt(1200)), intentID)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestConfirmPayment(t *testing.T) {
	t.Run("confirms once and marks a sale listing sold", func(t *testing.T) {
		f := newOrderFixture()
		order := pendingSaleOrder(t, "pi_ok")
		f.gateway.On("RetrievePaymentIntent", mock.Anything, "pi_ok").
			Return(&marketplace.PaymentIntent{ID: "pi_ok", Status: marketplace.PaymentIntentStatusSucceeded}, nil)
		f.orders.On("ConfirmByPaymentIntent", mock.Anything, "pi_ok").Return(true, nil)
		f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_ok").Return(order, nil)
		f.listings.On("MarkSold", mock.Anything, order.ListingID).Return(true, nil)
		f.pub.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == marketplace.EventTypeOrderConfirmed
		})).Return(nil)

		result, err := f.svc.ConfirmPayment(context.Background(), "pi_ok")

		require.NoError(t, err)
		assert.Equal(t, ConfirmPaymentStatusSuccess, result.Status)
		f.listings.AssertExpectations(t)
		f.pub.AssertExpectations(t)
	})

	t.Run("redelivered webhook is a no-op", func(t *testing.T) {
		f := newOrderFixture()
		order := pendingSaleOrder(t, "pi_dup")
		require.NoError(t, order.Confirm())
		order.ClearDomainEvents()
		f.gateway.On("RetrievePaymentIntent", mock.Anything, "pi_dup").
			Return(&marketplace.PaymentIntent{ID: "pi_dup", Status: marketplace.PaymentIntentStatusSucceeded}, nil)
		f.orders.On("ConfirmByPaymentIntent", mock.Anything, "pi_dup").Return(false, nil)
		f.orders.On("FindByPaymentIntentID", mock.Anything, "pi_dup").Return(order, nil)

		result, err := f.svc.ConfirmPayment(context.Background(), "pi_dup")

		require.NoError(t, err)
		assert.Equal(t, ConfirmPaymentStatusAlreadyConfirmed, result.Status)
		f.listings.AssertNotCalled(t, "MarkSold", mock.Anything, mock.Anything)
		f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("intent not succeeded confirms nothing", func(t *testing.T) {
		f := newOrderFixture()
		f.gateway.On("RetrievePaymentIntent", mock.Anything, "pi_pending").
			Return(&marketplace.PaymentIntent{ID: "pi_pending", Status: marketplace.PaymentIntentStatusProcessing}, nil)

		result, err := f.svc.ConfirmPayment(context.Background(), "pi_pending")

		require.NoError(t, err)
		assert.Equal(t, ConfirmPaymentStatusPaymentNotSucceeded, result.Status)
		f.orders.AssertNotCalled(t, "ConfirmByPaymentIntent", mock.Anything, mock.Anything)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("cancelling a pending order voids the intent", func(t *testing.T) {
		f := newOrderFixture()
		order := pendingSaleOrder(t, "pi_cancel")
		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("TransitionStatus", mock.Anything, order.ID,
			marketplace.OrderStatusPendingPayment, marketplace.OrderStatusCancelled).Return(true, nil)
		f.gateway.On("CancelPaymentIntent", mock.Anything, "pi_cancel").Return(nil)
		f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

		err := f.svc.CancelOrder(context.Background(), order.ID, "changed my mind")

		require.NoError(t, err)
		f.gateway.AssertCalled(t, "CancelPaymentIntent", mock.Anything, "pi_cancel")
	})

	t.Run("guard rejection surfaces a concurrency conflict", func(t *testing.T) {
		f := newOrderFixture()
		order := pendingSaleOrder(t, "pi_race")
		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		f.orders.On("TransitionStatus", mock.Anything, order.ID,
			marketplace.OrderStatusPendingPayment, marketplace.OrderStatusCancelled).Return(false, nil)

		err := f.svc.CancelOrder(context.Background(), order.ID, "late")

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		f := newOrderFixture()
		order := pendingSaleOrder(t, "pi_done")
		require.NoError(t, order.Confirm())
		require.NoError(t, order.Start())
		require.NoError(t, order.Complete())
		order.ClearDomainEvents()
		f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		err := f.svc.CancelOrder(context.Background(), order.ID, "too late")

		assert.Error(t, err)
		f.orders.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
