package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gigverse/backend/internal/domain/gig"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormGigRepository implements gig.GigRepository using GORM
type GormGigRepository struct {
	db *gorm.DB
}

// NewGormGigRepository creates a new GormGigRepository
func NewGormGigRepository(db *gorm.DB) *GormGigRepository {
	return &GormGigRepository{db: db}
}

// Create persists a new gig
func (r *GormGigRepository) Create(ctx context.Context, g *gig.Gig) error {
	model := models.GigModelFromDomain(g)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an existing gig
func (r *GormGigRepository) Save(ctx context.Context, g *gig.Gig) error {
	model := models.GigModelFromDomain(g)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a gig by its ID
func (r *GormGigRepository) FindByID(ctx context.Context, id uuid.UUID) (*gig.Gig, error) {
	var model models.GigModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountCreatedSince counts gigs the owner created at or after the given instant
func (r *GormGigRepository) CountCreatedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GigModel{}).
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ gig.GigRepository = (*GormGigRepository)(nil)
