package persistence

import (
	"context"

	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/gigverse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAvailabilityBlockRepository implements marketplace.AvailabilityBlockRepository using GORM
type GormAvailabilityBlockRepository struct {
	db *gorm.DB
}

// NewGormAvailabilityBlockRepository creates a new GormAvailabilityBlockRepository
func NewGormAvailabilityBlockRepository(db *gorm.DB) *GormAvailabilityBlockRepository {
	return &GormAvailabilityBlockRepository{db: db}
}

// Create persists a new availability block
func (r *GormAvailabilityBlockRepository) Create(ctx context.Context, block *marketplace.AvailabilityBlock) error {
	model := models.AvailabilityBlockModelFromDomain(block)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByListingID returns all blocks for a listing
func (r *GormAvailabilityBlockRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]*marketplace.AvailabilityBlock, error) {
	var blockModels []models.AvailabilityBlockModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("start_date ASC").
		Find(&blockModels).Error; err != nil {
		return nil, err
	}
	blocks := make([]*marketplace.AvailabilityBlock, len(blockModels))
	for i := range blockModels {
		blocks[i] = blockModels[i].ToDomain()
	}
	return blocks, nil
}

// HasBlockOverlapping reports whether any block for the listing overlaps
// the closed date interval
func (r *GormAvailabilityBlockRepository) HasBlockOverlapping(ctx context.Context, listingID uuid.UUID, dates valueobject.DateRange) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AvailabilityBlockModel{}).
		Where("listing_id = ?", listingID).
		Where("start_date <= ? AND end_date >= ?", dates.End(), dates.Start()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ marketplace.AvailabilityBlockRepository = (*GormAvailabilityBlockRepository)(nil)
