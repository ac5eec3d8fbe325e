package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	appsubscription "github.com/gigverse/backend/internal/application/subscription"
	"github.com/gigverse/backend/internal/infrastructure/persistence/models"
)

// GormUsageCounter supplies live usage counts for subscription quota checks
// by querying across the gig, application and showcase tables.
type GormUsageCounter struct {
	db *gorm.DB
}

// NewGormUsageCounter creates a new GormUsageCounter
func NewGormUsageCounter(db *gorm.DB) *GormUsageCounter {
	return &GormUsageCounter{db: db}
}

// CountGigsCreatedSince counts gigs the owner created at or after the given instant
func (c *GormUsageCounter) CountGigsCreatedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.GigModel{}).
		Where("owner_id = ? AND created_at >= ?", ownerID, since).
		Count(&count).Error
	return count, err
}

// CountApplicationsSince counts applications the user submitted at or after
// the given instant
func (c *GormUsageCounter) CountApplicationsSince(ctx context.Context, applicantID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.ApplicationModel{}).
		Where("applicant_id = ? AND created_at >= ?", applicantID, since).
		Count(&count).Error
	return count, err
}

// CountShowcases counts all showcases the user has published
func (c *GormUsageCounter) CountShowcases(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.ShowcaseModel{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// CountApplicants counts all applications on a gig
func (c *GormUsageCounter) CountApplicants(ctx context.Context, gigID uuid.UUID) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.ApplicationModel{}).
		Where("gig_id = ?", gigID).
		Count(&count).Error
	return count, err
}

var _ appsubscription.UsageCounter = (*GormUsageCounter)(nil)
