package gig

import (
	"context"
	"errors"
	"fmt"

	appsubscription "github.com/gigverse/backend/internal/application/subscription"
	"github.com/gigverse/backend/internal/domain/gig"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateGigStatus is the typed outcome of a gig creation attempt
type CreateGigStatus string

const (
	CreateGigStatusSuccess           CreateGigStatus = "success"
	CreateGigStatusSubscriptionLimit CreateGigStatus = "subscription_limit"
)

// CreateGigResult reports the outcome of CreateGig. Limit is set when the
// status is subscription_limit.
type CreateGigResult struct {
	Status CreateGigStatus
	Gig    *gig.Gig
	Limit  *subscription.LimitError
}

// ApplyStatus is the typed outcome of an application attempt
type ApplyStatus string

const (
	ApplyStatusSuccess           ApplyStatus = "success"
	ApplyStatusAlreadyApplied    ApplyStatus = "already_applied"
	ApplyStatusGigNotAccepting   ApplyStatus = "gig_not_accepting"
	ApplyStatusSubscriptionLimit ApplyStatus = "subscription_limit"
)

// ApplyToGigResult reports the outcome of ApplyToGig. Application is set on
// success; Limit is set when the status is subscription_limit.
type ApplyToGigResult struct {
	Status      ApplyStatus
	Application *gig.Application
	Limit       *subscription.LimitError
}

// CreditCharger deducts credits for paid features; satisfied by
// credit.LedgerService
type CreditCharger interface {
	Deduct(ctx context.Context, userID uuid.UUID, amount int64, metadata map[string]interface{}) error
}

// GigService coordinates gig posting, applications and boosting. Quota
// outcomes surface as typed result statuses; only infrastructure failures
// come back as errors.
type GigService struct {
	gigs           gig.GigRepository
	applications   gig.ApplicationRepository
	enforcer       *appsubscription.Enforcer
	ledger         CreditCharger
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewGigService creates a new GigService
func NewGigService(
	gigs gig.GigRepository,
	applications gig.ApplicationRepository,
	enforcer *appsubscription.Enforcer,
	ledger CreditCharger,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *GigService {
	return &GigService{
		gigs:           gigs,
		applications:   applications,
		enforcer:       enforcer,
		ledger:         ledger,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateGig posts a new gig after checking the owner's monthly quota
func (s *GigService) CreateGig(ctx context.Context, ownerID uuid.UUID, title, description string) (*CreateGigResult, error) {
	if err := s.enforcer.EnforceGigCreation(ctx, ownerID); err != nil {
		var limitErr *subscription.LimitError
		if errors.As(err, &limitErr) {
			return &CreateGigResult{Status: CreateGigStatusSubscriptionLimit, Limit: limitErr}, nil
		}
		return nil, err
	}

	g, err := gig.NewGig(ownerID, title, description)
	if err != nil {
		return nil, err
	}

	if err := s.gigs.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create gig: %w", err)
	}

	s.publishEvents(ctx, g)

	return &CreateGigResult{Status: CreateGigStatusSuccess, Gig: g}, nil
}

// ApplyToGig submits an application. The applicant-count cap is enforced by
// a guarded insert so two concurrent applicants cannot both take the last
// slot.
func (s *GigService) ApplyToGig(ctx context.Context, gigID, applicantID uuid.UUID, message string) (*ApplyToGigResult, error) {
	g, err := s.gigs.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if !g.IsAcceptingApplications() {
		return &ApplyToGigResult{Status: ApplyStatusGigNotAccepting}, nil
	}

	existing, err := s.applications.FindByGigAndApplicant(ctx, gigID, applicantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return &ApplyToGigResult{Status: ApplyStatusAlreadyApplied, Application: existing}, nil
	}

	if err := s.enforcer.EnforceApplication(ctx, applicantID); err != nil {
		var limitErr *subscription.LimitError
		if errors.As(err, &limitErr) {
			return &ApplyToGigResult{Status: ApplyStatusSubscriptionLimit, Limit: limitErr}, nil
		}
		return nil, err
	}

	app, err := gig.NewApplication(g, applicantID, message)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			return &ApplyToGigResult{Status: ApplyStatusGigNotAccepting}, nil
		}
		return nil, err
	}

	// The cap comes from the gig owner's tier, not the applicant's
	maxApplicants, err := s.enforcer.MaxApplicantsFor(ctx, g.OwnerID)
	if err != nil {
		return nil, err
	}

	inserted, err := s.applications.CreateIfUnderLimit(ctx, app, maxApplicants)
	if err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return &ApplyToGigResult{Status: ApplyStatusAlreadyApplied}, nil
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	if !inserted {
		s.logger.Info("application rejected, gig at applicant capacity",
			zap.String("gig_id", gigID.String()),
			zap.Int("max_applicants", maxApplicants),
		)
		return &ApplyToGigResult{Status: ApplyStatusGigNotAccepting}, nil
	}

	s.publishEvents(ctx, app)

	return &ApplyToGigResult{Status: ApplyStatusSuccess, Application: app}, nil
}

// BoostGig promotes a gig; boosting is a tier capability
func (s *GigService) BoostGig(ctx context.Context, ownerID, gigID uuid.UUID) error {
	if err := s.enforcer.EnforceGigBoosting(ctx, ownerID); err != nil {
		return err
	}

	g, err := s.gigs.FindByID(ctx, gigID)
	if err != nil {
		return err
	}
	if g.OwnerID != ownerID {
		return shared.NewDomainError("FORBIDDEN", "Only the gig owner can boost a gig")
	}

	if err := g.Boost(); err != nil {
		return err
	}

	if err := s.gigs.Save(ctx, g); err != nil {
		return fmt.Errorf("failed to save gig: %w", err)
	}

	s.publishEvents(ctx, g)

	return nil
}

// CloseGig stops a gig from accepting applications
func (s *GigService) CloseGig(ctx context.Context, ownerID, gigID uuid.UUID) error {
	g, err := s.gigs.FindByID(ctx, gigID)
	if err != nil {
		return err
	}
	if g.OwnerID != ownerID {
		return shared.NewDomainError("FORBIDDEN", "Only the gig owner can close a gig")
	}

	if err := g.Close(); err != nil {
		return err
	}

	return s.gigs.Save(ctx, g)
}

// GetGig returns a gig by ID
func (s *GigService) GetGig(ctx context.Context, gigID uuid.UUID) (*gig.Gig, error) {
	return s.gigs.FindByID(ctx, gigID)
}

// ConsumeEnhancement charges credits for AI enhancement runs. The capability
// gate runs first; the balance guard inside the ledger rejects the charge
// when credits run out. Callers refund failed generations through
// LedgerService.Refund with the generation ID as the operation ID.
func (s *GigService) ConsumeEnhancement(ctx context.Context, userID uuid.UUID, credits int64, generationID string) error {
	if err := s.enforcer.EnforceAIEnhancements(ctx, userID); err != nil {
		return err
	}

	return s.ledger.Deduct(ctx, userID, credits, map[string]interface{}{
		"feature":       "ai_enhancement",
		"generation_id": generationID,
	})
}

// Shortlist marks an application as shortlisted; bulk shortlisting is gated
// on the owner's tier
func (s *GigService) Shortlist(ctx context.Context, ownerID uuid.UUID, applicationIDs []uuid.UUID) error {
	if len(applicationIDs) > 1 {
		if err := s.enforcer.EnforceBulkShortlist(ctx, ownerID); err != nil {
			return err
		}
	}

	for _, id := range applicationIDs {
		app, err := s.applications.FindByID(ctx, id)
		if err != nil {
			return err
		}
		g, err := s.gigs.FindByID(ctx, app.GigID)
		if err != nil {
			return err
		}
		if g.OwnerID != ownerID {
			return shared.NewDomainError("FORBIDDEN", "Only the gig owner can shortlist applications")
		}
		if err := app.Shortlist(); err != nil {
			return err
		}
		if err := s.applications.Save(ctx, app); err != nil {
			return err
		}
	}

	return nil
}

// publishEvents dispatches pending aggregate events. The mutation is already
// durable; handler failures are isolated by the bus.
func (s *GigService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish gig events", zap.Error(err))
	}
	aggregate.ClearDomainEvents()
}
