package models

import (
	"time"

	"github.com/gigverse/backend/internal/domain/gig"
	"github.com/google/uuid"
)

// GigModel is the persistence model for gigs
type GigModel struct {
	AggregateModel
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Title          string    `gorm:"type:varchar(200);not null"`
	Description    string    `gorm:"type:text"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	ApplicantCount int       `gorm:"not null;default:0"`
	Boosted        bool      `gorm:"not null;default:false"`
	BoostedAt      *time.Time
	ClosedAt       *time.Time
}

// TableName specifies the table name
func (GigModel) TableName() string {
	return "gigs"
}

// ToDomain converts the model to a domain gig
func (m *GigModel) ToDomain() *gig.Gig {
	g := &gig.Gig{
		OwnerID:        m.OwnerID,
		Title:          m.Title,
		Description:    m.Description,
		Status:         gig.GigStatus(m.Status),
		ApplicantCount: m.ApplicantCount,
		Boosted:        m.Boosted,
		BoostedAt:      m.BoostedAt,
		ClosedAt:       m.ClosedAt,
	}
	m.PopulateAggregateRoot(&g.BaseAggregateRoot)
	return g
}

// GigModelFromDomain converts a domain gig to the model
func GigModelFromDomain(g *gig.Gig) *GigModel {
	m := &GigModel{
		OwnerID:        g.OwnerID,
		Title:          g.Title,
		Description:    g.Description,
		Status:         g.Status.String(),
		ApplicantCount: g.ApplicantCount,
		Boosted:        g.Boosted,
		BoostedAt:      g.BoostedAt,
		ClosedAt:       g.ClosedAt,
	}
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	return m
}

// ApplicationModel is the persistence model for gig applications
type ApplicationModel struct {
	AggregateModel
	GigID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_gig_applicant"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_gig_applicant;index"`
	Message     string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(20);not null"`
}

// TableName specifies the table name
func (ApplicationModel) TableName() string {
	return "gig_applications"
}

// ToDomain converts the model to a domain application
func (m *ApplicationModel) ToDomain() *gig.Application {
	app := &gig.Application{
		GigID:       m.GigID,
		ApplicantID: m.ApplicantID,
		Message:     m.Message,
		Status:      gig.ApplicationStatus(m.Status),
	}
	m.PopulateAggregateRoot(&app.BaseAggregateRoot)
	return app
}

// ApplicationModelFromDomain converts a domain application to the model
func ApplicationModelFromDomain(app *gig.Application) *ApplicationModel {
	m := &ApplicationModel{
		GigID:       app.GigID,
		ApplicantID: app.ApplicantID,
		Message:     app.Message,
		Status:      app.Status.String(),
	}
	m.FromDomainAggregateRoot(app.BaseAggregateRoot)
	return m
}
