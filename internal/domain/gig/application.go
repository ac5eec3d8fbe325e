package gig

import (
	"time"

	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ApplicationStatus represents the review status of a gig application
type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// IsValid checks if the status is a known ApplicationStatus
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusShortlisted, ApplicationStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ApplicationStatus
func (s ApplicationStatus) String() string {
	return string(s)
}

// Application is a talent's application to a gig. A user applies to a given
// gig at most once; duplicates are rejected both here and by a unique
// constraint at the persistence layer.
type Application struct {
	shared.BaseAggregateRoot
	GigID       uuid.UUID
	ApplicantID uuid.UUID
	Message     string
	Status      ApplicationStatus
}

// NewApplication creates a submitted application
func NewApplication(g *Gig, applicantID uuid.UUID, message string) (*Application, error) {
	if applicantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPLICANT", "Applicant ID cannot be empty")
	}
	if applicantID == g.OwnerID {
		return nil, shared.NewDomainError("INVALID_APPLICANT", "Cannot apply to your own gig")
	}
	if !g.IsAcceptingApplications() {
		return nil, shared.ErrInvalidState
	}

	app := &Application{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		GigID:             g.ID,
		ApplicantID:       applicantID,
		Message:           message,
		Status:            ApplicationStatusSubmitted,
	}

	app.AddDomainEvent(NewApplicationSubmittedEvent(g, app))

	return app, nil
}

// Shortlist marks the application as shortlisted by the gig owner
func (a *Application) Shortlist() error {
	if a.Status != ApplicationStatusSubmitted {
		return shared.ErrInvalidState
	}
	a.Status = ApplicationStatusShortlisted
	a.UpdatedAt = time.Now()
	return nil
}

// Reject marks the application as rejected
func (a *Application) Reject() error {
	if a.Status == ApplicationStatusRejected {
		return shared.ErrInvalidState
	}
	a.Status = ApplicationStatusRejected
	a.UpdatedAt = time.Now()
	return nil
}
