package persistence

import (
	"context"
	"errors"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/gigverse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// openStatuses are the order statuses that keep a listing reserved
var openStatuses = []string{
	marketplace.OrderStatusPendingPayment.String(),
	marketplace.OrderStatusConfirmed.String(),
	marketplace.OrderStatusInProgress.String(),
}

// GormOrderRepository implements marketplace.OrderRepository using GORM.
//
// Status transitions are value-guarded single statements so duplicate
// webhook deliveries and concurrent lifecycle calls cannot double-apply.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx returns a new repository instance bound to the given transaction
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: tx}
}

// Create persists a new order
func (r *GormOrderRepository) Create(ctx context.Context, order *marketplace.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentIntentID finds an order by its payment intent
func (r *GormOrderRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*marketplace.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "payment_intent_id = ?", intentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// HasOpenOrderOverlapping reports whether any open order for the listing
// overlaps the closed date interval. Two closed intervals overlap when each
// starts no later than the other ends.
func (r *GormOrderRepository) HasOpenOrderOverlapping(ctx context.Context, listingID uuid.UUID, dates valueobject.DateRange) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("listing_id = ? AND status IN ?", listingID, openStatuses).
		Where("start_date <= ? AND end_date >= ?", dates.End(), dates.Start()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasOpenOrder reports whether the listing has any open order
func (r *GormOrderRepository) HasOpenOrder(ctx context.Context, listingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("listing_id = ? AND status IN ?", listingID, openStatuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// lifecycleTimestampColumn maps a target status to the timestamp column it stamps
func lifecycleTimestampColumn(status marketplace.OrderStatus) string {
	switch status {
	case marketplace.OrderStatusConfirmed:
		return "confirmed_at"
	case marketplace.OrderStatusInProgress:
		return "started_at"
	case marketplace.OrderStatusCompleted:
		return "completed_at"
	case marketplace.OrderStatusCancelled:
		return "cancelled_at"
	}
	return ""
}

// TransitionStatus applies a guarded single-statement transition, stamping
// the lifecycle timestamp for the target status. Returns false when the
// order was no longer in the expected status.
func (r *GormOrderRepository) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to marketplace.OrderStatus) (bool, error) {
	updates := map[string]interface{}{
		"status":     to.String(),
		"updated_at": gorm.Expr("NOW()"),
	}
	if column := lifecycleTimestampColumn(to); column != "" {
		updates[column] = gorm.Expr("NOW()")
	}

	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, from.String()).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ConfirmByPaymentIntent transitions the order matching the intent from
// pending_payment to confirmed. A redelivered confirmation matches no row
// and reports false.
func (r *GormOrderRepository) ConfirmByPaymentIntent(ctx context.Context, intentID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("payment_intent_id = ? AND status = ?", intentID, marketplace.OrderStatusPendingPayment.String()).
		Updates(map[string]interface{}{
			"status":       marketplace.OrderStatusConfirmed.String(),
			"confirmed_at": gorm.Expr("NOW()"),
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var _ marketplace.OrderRepository = (*GormOrderRepository)(nil)
