package models

import (
	"time"

	"github.com/gigverse/backend/internal/domain/showcase"
	"github.com/google/uuid"
)

// ShowcaseModel is the persistence model for showcases
type ShowcaseModel struct {
	AggregateModel
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	PublishedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (ShowcaseModel) TableName() string {
	return "showcases"
}

// ToDomain converts the model to a domain showcase
func (m *ShowcaseModel) ToDomain() *showcase.Showcase {
	s := &showcase.Showcase{
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		PublishedAt: m.PublishedAt,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// ShowcaseModelFromDomain converts a domain showcase to the model
func ShowcaseModelFromDomain(s *showcase.Showcase) *ShowcaseModel {
	m := &ShowcaseModel{
		OwnerID:     s.OwnerID,
		Title:       s.Title,
		Description: s.Description,
		PublishedAt: s.PublishedAt,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
