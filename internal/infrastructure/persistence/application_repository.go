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

// GormApplicationRepository implements gig.ApplicationRepository using GORM.
//
// The applicant cap is enforced in the database: CreateIfUnderLimit bumps
// the gig's applicant count with a count-guarded UPDATE before inserting,
// closing the window between counting applicants and inserting.
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository creates a new GormApplicationRepository
func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Save creates or updates an application
func (r *GormApplicationRepository) Save(ctx context.Context, app *gig.Application) error {
	model := models.ApplicationModelFromDomain(app)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds an application by its ID
func (r *GormApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*gig.Application, error) {
	var model models.ApplicationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGigAndApplicant finds the user's application to a gig
func (r *GormApplicationRepository) FindByGigAndApplicant(ctx context.Context, gigID, applicantID uuid.UUID) (*gig.Application, error) {
	var model models.ApplicationModel
	err := r.db.WithContext(ctx).
		First(&model, "gig_id = ? AND applicant_id = ?", gigID, applicantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateIfUnderLimit inserts the application while atomically incrementing
// the gig's applicant count, guarded on the count staying under
// maxApplicants (-1 for unlimited). Returns false when the gig was full.
func (r *GormApplicationRepository) CreateIfUnderLimit(ctx context.Context, app *gig.Application, maxApplicants int) (bool, error) {
	admitted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(`
			UPDATE gigs
			SET applicant_count = applicant_count + 1,
			    updated_at = NOW()
			WHERE id = ? AND (? < 0 OR applicant_count < ?)`,
			app.GigID, maxApplicants, maxApplicants,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Guard rejected: gig at capacity (or gone). Roll back nothing.
			return nil
		}

		model := models.ApplicationModelFromDomain(app)
		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		admitted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return admitted, nil
}

// CountByApplicantSince counts applications the user submitted at or after
// the given instant
func (r *GormApplicationRepository) CountByApplicantSince(ctx context.Context, applicantID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ApplicationModel{}).
		Where("applicant_id = ? AND created_at >= ?", applicantID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByGig counts all applications on a gig
func (r *GormApplicationRepository) CountByGig(ctx context.Context, gigID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ApplicationModel{}).
		Where("gig_id = ?", gigID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ gig.ApplicationRepository = (*GormApplicationRepository)(nil)
