package persistence

import (
	"context"
	"errors"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/showcase"
	"github.com/gigverse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShowcaseRepository implements showcase.Repository using GORM
type GormShowcaseRepository struct {
	db *gorm.DB
}

// NewGormShowcaseRepository creates a new GormShowcaseRepository
func NewGormShowcaseRepository(db *gorm.DB) *GormShowcaseRepository {
	return &GormShowcaseRepository{db: db}
}

// Create persists a new showcase
func (r *GormShowcaseRepository) Create(ctx context.Context, s *showcase.Showcase) error {
	model := models.ShowcaseModelFromDomain(s)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a showcase by its ID
func (r *GormShowcaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*showcase.Showcase, error) {
	var model models.ShowcaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountByOwner counts all showcases the user has published
func (r *GormShowcaseRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ShowcaseModel{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ showcase.Repository = (*GormShowcaseRepository)(nil)
