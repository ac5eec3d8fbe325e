package marketplace

import (
	"testing"
	"time"

	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRentalListing(t *testing.T) *Listing {
	t.Helper()
	listing, err := NewRentalListing(uuid.New(), "Cinema camera kit", valueobject.NewMoneyUSD(decimal.NewFromInt(80)))
	require.NoError(t, err)
	return listing
}

func newSaleListing(t *testing.T) *Listing {
	t.Helper()
	listing, err := NewSaleListing(uuid.New(), "Used strobe set", valueobject.NewMoneyUSD(decimal.NewFromInt(450)))
	require.NoError(t, err)
	return listing
}

func testDates(t *testing.T) valueobject.DateRange {
	t.Helper()
	dates, err := valueobject.NewDateRange(
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dates
}

func newPendingRentalOrder(t *testing.T) *Order {
	t.Helper()
	listing := newRentalListing(t)
	total, err := listing.RentalTotal(testDates(t))
	require.NoError(t, err)
	order, err := NewRentalOrder(listing, uuid.New(), testDates(t), total, "pi_test_123")
	require.NoError(t, err)
	return order
}

func TestNewRentalOrder(t *testing.T) {
	t.Run("starts in pending_payment with dates and created event", func(t *testing.T) {
		order := newPendingRentalOrder(t)

		assert.Equal(t, OrderStatusPendingPayment, order.Status)
		assert.Equal(t, OrderKindRental, order.Kind)
		require.NotNil(t, order.StartDate)
		require.NotNil(t, order.EndDate)
		assert.False(t, order.MarksListingSold())

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
	})

	t.Run("three day rental is billed for three days", func(t *testing.T) {
		listing := newRentalListing(t)
		total, err := listing.RentalTotal(testDates(t))
		require.NoError(t, err)
		assert.True(t, total.Amount().Equal(decimal.NewFromInt(240)))
	})

	t.Run("owner cannot rent own listing", func(t *testing.T) {
		listing := newRentalListing(t)
		total, err := listing.RentalTotal(testDates(t))
		require.NoError(t, err)
		_, err = NewRentalOrder(listing, listing.OwnerID, testDates(t), total, "pi_test_123")
		assert.Error(t, err)
	})

	t.Run("missing payment intent is rejected", func(t *testing.T) {
		listing := newRentalListing(t)
		total, err := listing.RentalTotal(testDates(t))
		require.NoError(t, err)
		_, err = NewRentalOrder(listing, uuid.New(), testDates(t), total, "")
		assert.Error(t, err)
	})
}

func TestNewSaleOrder(t *testing.T) {
	listing := newSaleListing(t)
	order, err := NewSaleOrder(listing, uuid.New(), valueobject.NewMoneyUSD(listing.SalePrice), "pi_sale_1")
	require.NoError(t, err)

	assert.Equal(t, OrderKindSale, order.Kind)
	assert.Nil(t, order.StartDate)
	assert.True(t, order.MarksListingSold())
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPendingPayment, OrderStatusConfirmed, true},
		{OrderStatusPendingPayment, OrderStatusCancelled, true},
		{OrderStatusPendingPayment, OrderStatusInProgress, false},
		{OrderStatusPendingPayment, OrderStatusCompleted, false},
		{OrderStatusConfirmed, OrderStatusInProgress, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusCompleted, false},
		{OrderStatusInProgress, OrderStatusCompleted, true},
		{OrderStatusInProgress, OrderStatusCancelled, true},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderLifecycleTimestamps(t *testing.T) {
	order := newPendingRentalOrder(t)
	order.ClearDomainEvents()

	require.NoError(t, order.Confirm())
	assert.NotNil(t, order.ConfirmedAt)

	require.NoError(t, order.Start())
	assert.NotNil(t, order.StartedAt)

	require.NoError(t, order.Complete())
	assert.NotNil(t, order.CompletedAt)
	assert.True(t, order.Status.IsTerminal())

	types := make([]string, 0)
	for _, e := range order.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []string{EventTypeOrderConfirmed, EventTypeOrderStarted, EventTypeOrderCompleted}, types)
}

func TestOrderCancel(t *testing.T) {
	t.Run("cancel from pending stamps timestamp and reason", func(t *testing.T) {
		order := newPendingRentalOrder(t)

		require.NoError(t, order.Cancel("renter withdrew"))

		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.NotNil(t, order.CancelledAt)
		assert.Equal(t, "renter withdrew", order.CancelReason)
	})

	t.Run("cancel from terminal state is rejected", func(t *testing.T) {
		order := newPendingRentalOrder(t)
		require.NoError(t, order.Confirm())
		require.NoError(t, order.Start())
		require.NoError(t, order.Complete())

		assert.Error(t, order.Cancel("too late"))
	})

	t.Run("confirm twice is rejected on the aggregate", func(t *testing.T) {
		order := newPendingRentalOrder(t)
		require.NoError(t, order.Confirm())
		assert.Error(t, order.Confirm())
	})
}

func TestListingMarkSold(t *testing.T) {
	t.Run("active sale listing becomes sold once", func(t *testing.T) {
		listing := newSaleListing(t)
		require.NoError(t, listing.MarkSold())
		assert.Equal(t, ListingStatusSold, listing.Status)
		assert.Error(t, listing.MarkSold())
	})

	t.Run("rental listings cannot be sold", func(t *testing.T) {
		listing := newRentalListing(t)
		assert.Error(t, listing.MarkSold())
	})
}

func TestOpenStatuses(t *testing.T) {
	assert.True(t, OrderStatusPendingPayment.IsOpen())
	assert.True(t, OrderStatusConfirmed.IsOpen())
	assert.True(t, OrderStatusInProgress.IsOpen())
	assert.False(t, OrderStatusCompleted.IsOpen())
	assert.False(t, OrderStatusCancelled.IsOpen())
}
