package showcase

import (
	"context"
	"errors"
	"fmt"

	appsubscription "github.com/gigverse/backend/internal/application/subscription"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/showcase"
	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateShowcaseStatus is the typed outcome of a showcase creation attempt
type CreateShowcaseStatus string

const (
	CreateShowcaseStatusSuccess           CreateShowcaseStatus = "success"
	CreateShowcaseStatusSubscriptionLimit CreateShowcaseStatus = "subscription_limit"
)

// CreateShowcaseResult reports the outcome of CreateShowcase
type CreateShowcaseResult struct {
	Status   CreateShowcaseStatus
	Showcase *showcase.Showcase
	Limit    *subscription.LimitError
}

// ShowcaseService publishes portfolio showcases under the tier's total quota
type ShowcaseService struct {
	showcases      showcase.Repository
	enforcer       *appsubscription.Enforcer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewShowcaseService creates a new ShowcaseService
func NewShowcaseService(
	showcases showcase.Repository,
	enforcer *appsubscription.Enforcer,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ShowcaseService {
	return &ShowcaseService{
		showcases:      showcases,
		enforcer:       enforcer,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateShowcase publishes a showcase. The quota counts all showcases ever
// published, not a monthly window.
func (s *ShowcaseService) CreateShowcase(ctx context.Context, ownerID uuid.UUID, title, description string) (*CreateShowcaseResult, error) {
	if err := s.enforcer.EnforceShowcaseCreation(ctx, ownerID); err != nil {
		var limitErr *subscription.LimitError
		if errors.As(err, &limitErr) {
			return &CreateShowcaseResult{Status: CreateShowcaseStatusSubscriptionLimit, Limit: limitErr}, nil
		}
		return nil, err
	}

	sc, err := showcase.NewShowcase(ownerID, title, description)
	if err != nil {
		return nil, err
	}

	if err := s.showcases.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to create showcase: %w", err)
	}

	events := sc.GetDomainEvents()
	if len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Error("failed to publish showcase events", zap.Error(err))
		}
		sc.ClearDomainEvents()
	}

	return &CreateShowcaseResult{Status: CreateShowcaseStatusSuccess, Showcase: sc}, nil
}

// GetShowcase returns a showcase by ID
func (s *ShowcaseService) GetShowcase(ctx context.Context, id uuid.UUID) (*showcase.Showcase, error) {
	return s.showcases.FindByID(ctx, id)
}
