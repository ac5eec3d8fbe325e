package gig

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GigRepository persists gigs
type GigRepository interface {
	Create(ctx context.Context, g *Gig) error
	Save(ctx context.Context, g *Gig) error
	FindByID(ctx context.Context, id uuid.UUID) (*Gig, error)

	// CountCreatedSince counts gigs the owner created at or after the
	// given instant; used for monthly quota checks
	CountCreatedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error)
}

// ApplicationRepository persists gig applications
type ApplicationRepository interface {
	Save(ctx context.Context, app *Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*Application, error)
	FindByGigAndApplicant(ctx context.Context, gigID, applicantID uuid.UUID) (*Application, error)

	// CreateIfUnderLimit inserts the application and increments the gig's
	// applicant count in one guarded statement: the insert only happens
	// while the gig's applicant count is below maxApplicants (-1 for
	// unlimited). Returns false when the guard rejected the write. This
	// closes the check-then-act window between counting applicants and
	// inserting the application.
	CreateIfUnderLimit(ctx context.Context, app *Application, maxApplicants int) (bool, error)

	// CountByApplicantSince counts applications the user submitted at or
	// after the given instant; used for monthly quota checks
	CountByApplicantSince(ctx context.Context, applicantID uuid.UUID, since time.Time) (int64, error)

	// CountByGig counts all applications on a gig
	CountByGig(ctx context.Context, gigID uuid.UUID) (int64, error)
}
