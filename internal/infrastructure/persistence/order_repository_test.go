package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository_ConfirmByPaymentIntent(t *testing.T) {
	t.Run("confirms a pending order", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		mock.ExpectExec(`UPDATE "orders" SET "confirmed_at"=NOW\(\),"status"=\$1,"updated_at"=NOW\(\) WHERE payment_intent_id = \$2 AND status = \$3`).
			WithArgs("confirmed", "pi_123", "pending_payment").
			WillReturnResult(sqlmock.NewResult(0, 1))

		confirmed, err := repo.ConfirmByPaymentIntent(context.Background(), "pi_123")

		require.NoError(t, err)
		assert.True(t, confirmed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redelivered confirmation matches no row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		mock.ExpectExec(`UPDATE "orders" SET .* WHERE payment_intent_id = \$2 AND status = \$3`).
			WithArgs("confirmed", "pi_123", "pending_payment").
			WillReturnResult(sqlmock.NewResult(0, 0))

		confirmed, err := repo.ConfirmByPaymentIntent(context.Background(), "pi_123")

		require.NoError(t, err)
		assert.False(t, confirmed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_TransitionStatus(t *testing.T) {
	t.Run("stamps the lifecycle timestamp for the target status", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		mock.ExpectExec(`UPDATE "orders" SET "completed_at"=NOW\(\),"status"=\$1,"updated_at"=NOW\(\) WHERE id = \$2 AND status = \$3`).
			WithArgs("completed", orderID, "in_progress").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.TransitionStatus(context.Background(), orderID, marketplace.OrderStatusInProgress, marketplace.OrderStatusCompleted)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports false when the expected status no longer holds", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		orderID := uuid.New()
		mock.ExpectExec(`UPDATE "orders" SET .* WHERE id = \$2 AND status = \$3`).
			WithArgs("cancelled", orderID, "pending_payment").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.TransitionStatus(context.Background(), orderID, marketplace.OrderStatusPendingPayment, marketplace.OrderStatusCancelled)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_HasOpenOrderOverlapping(t *testing.T) {
	newRange := func(t *testing.T, start, end time.Time) valueobject.DateRange {
		t.Helper()
		r, err := valueobject.NewDateRange(start, end)
		require.NoError(t, err)
		return r
	}

	t.Run("closed intervals overlap when each starts before the other ends", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		listingID := uuid.New()
		start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" WHERE \(listing_id = \$1 AND status IN \(\$2,\$3,\$4\)\) AND \(start_date <= \$5 AND end_date >= \$6\)`).
			WithArgs(listingID, "pending_payment", "confirmed", "in_progress", end, start).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		overlaps, err := repo.HasOpenOrderOverlapping(context.Background(), listingID, newRange(t, start, end))

		require.NoError(t, err)
		assert.True(t, overlaps)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no overlap when only closed orders exist in the window", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db)

		listingID := uuid.New()
		start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
			WithArgs(listingID, "pending_payment", "confirmed", "in_progress", end, start).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		overlaps, err := repo.HasOpenOrderOverlapping(context.Background(), listingID, newRange(t, start, end))

		require.NoError(t, err)
		assert.False(t, overlaps)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
