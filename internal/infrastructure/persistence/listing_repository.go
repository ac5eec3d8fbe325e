package persistence

import (
	"context"
	"errors"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormListingRepository implements marketplace.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Create persists a new listing
func (r *GormListingRepository) Create(ctx context.Context, listing *marketplace.Listing) error {
	model := models.ListingModelFromDomain(listing)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketplace.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// MarkSold transitions an active listing to sold. The status guard makes a
// second confirmation of the same sale a no-op.
func (r *GormListingRepository) MarkSold(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ListingModel{}).
		Where("id = ? AND status = ?", id, marketplace.ListingStatusActive.String()).
		Updates(map[string]interface{}{
			"status":     marketplace.ListingStatusSold.String(),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

var _ marketplace.ListingRepository = (*GormListingRepository)(nil)
