package showcase

import (
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeShowcase = "Showcase"

// EventTypeShowcasePublished is raised when a showcase goes live
const EventTypeShowcasePublished = "ShowcasePublished"

// ShowcasePublishedEvent is raised when a showcase is published
type ShowcasePublishedEvent struct {
	shared.BaseDomainEvent
	ShowcaseID uuid.UUID `json:"showcase_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Title      string    `json:"title"`
}

// NewShowcasePublishedEvent creates a new ShowcasePublishedEvent
func NewShowcasePublishedEvent(s *Showcase) *ShowcasePublishedEvent {
	return &ShowcasePublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShowcasePublished, AggregateTypeShowcase, s.ID),
		ShowcaseID:      s.ID,
		OwnerID:         s.OwnerID,
		Title:           s.Title,
	}
}

// EventType returns the event type name
func (e *ShowcasePublishedEvent) EventType() string {
	return EventTypeShowcasePublished
}
