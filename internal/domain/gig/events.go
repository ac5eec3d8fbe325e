package gig

import (
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeGig         = "Gig"
	AggregateTypeApplication = "GigApplication"
)

// Event type constants
const (
	EventTypeGigCreated           = "GigCreated"
	EventTypeGigBoosted           = "GigBoosted"
	EventTypeApplicationSubmitted = "ApplicationSubmitted"
)

// GigCreatedEvent is raised when a new gig is posted
type GigCreatedEvent struct {
	shared.BaseDomainEvent
	GigID   uuid.UUID `json:"gig_id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Title   string    `json:"title"`
}

// NewGigCreatedEvent creates a new GigCreatedEvent
func NewGigCreatedEvent(g *Gig) *GigCreatedEvent {
	return &GigCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGigCreated, AggregateTypeGig, g.ID),
		GigID:           g.ID,
		OwnerID:         g.OwnerID,
		Title:           g.Title,
	}
}

// EventType returns the event type name
func (e *GigCreatedEvent) EventType() string {
	return EventTypeGigCreated
}

// GigBoostedEvent is raised when a gig is boosted to promoted placement
type GigBoostedEvent struct {
	shared.BaseDomainEvent
	GigID   uuid.UUID `json:"gig_id"`
	OwnerID uuid.UUID `json:"owner_id"`
}

// NewGigBoostedEvent creates a new GigBoostedEvent
func NewGigBoostedEvent(g *Gig) *GigBoostedEvent {
	return &GigBoostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGigBoosted, AggregateTypeGig, g.ID),
		GigID:           g.ID,
		OwnerID:         g.OwnerID,
	}
}

// EventType returns the event type name
func (e *GigBoostedEvent) EventType() string {
	return EventTypeGigBoosted
}

// ApplicationSubmittedEvent is raised when a talent applies to a gig.
// It feeds the owner notification and applicant statistics handlers.
type ApplicationSubmittedEvent struct {
	shared.BaseDomainEvent
	ApplicationID uuid.UUID `json:"application_id"`
	GigID         uuid.UUID `json:"gig_id"`
	GigTitle      string    `json:"gig_title"`
	OwnerID       uuid.UUID `json:"owner_id"`
	ApplicantID   uuid.UUID `json:"applicant_id"`
}

// NewApplicationSubmittedEvent creates a new ApplicationSubmittedEvent
func NewApplicationSubmittedEvent(g *Gig, app *Application) *ApplicationSubmittedEvent {
	return &ApplicationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApplicationSubmitted, AggregateTypeApplication, app.ID),
		ApplicationID:   app.ID,
		GigID:           g.ID,
		GigTitle:        g.Title,
		OwnerID:         g.OwnerID,
		ApplicantID:     app.ApplicantID,
	}
}

// EventType returns the event type name
func (e *ApplicationSubmittedEvent) EventType() string {
	return EventTypeApplicationSubmitted
}
