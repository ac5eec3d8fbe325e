package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRecord is the persisted form of a published domain event. The table
// is append-only; rows exist for compliance review and debugging, nothing
// reads them back on the hot path.
type AuditRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType     string    `gorm:"type:varchar(100);not null;index"`
	AggregateType string    `gorm:"type:varchar(100);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Payload       []byte    `gorm:"type:jsonb;not null"`
	OccurredAt    time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for AuditRecord
func (AuditRecord) TableName() string {
	return "domain_events"
}

// GormAuditStore persists published events to the domain_events table.
// Append participates in the publish path: a failed insert aborts the
// publish, per the bus's audit contract.
type GormAuditStore struct {
	db *gorm.DB
}

// NewGormAuditStore creates a new GormAuditStore
func NewGormAuditStore(db *gorm.DB) *GormAuditStore {
	return &GormAuditStore{db: db}
}

// Append writes the event to the audit table
func (s *GormAuditStore) Append(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event %s: %w", event.EventType(), err)
	}

	record := AuditRecord{
		ID:            event.EventID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		Payload:       payload,
		OccurredAt:    event.OccurredAt(),
	}

	return s.db.WithContext(ctx).Create(&record).Error
}

// Ensure GormAuditStore implements EventAuditStore
var _ shared.EventAuditStore = (*GormAuditStore)(nil)
