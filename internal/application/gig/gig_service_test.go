package gig

import (
	"context"
	"testing"
	"time"

	appsubscription "github.com/gigverse/backend/internal/application/subscription"
	"github.com/gigverse/backend/internal/domain/gig"
	"github.com/gigverse/backend/internal/domain/shared"
	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock implementations

type mockGigRepository struct {
	mock.Mock
}

func (m *mockGigRepository) Create(ctx context.Context, g *gig.Gig) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGigRepository) Save(ctx context.Context, g *gig.Gig) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGigRepository) FindByID(ctx context.Context, id uuid.UUID) (*gig.Gig, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gig.Gig), args.Error(1)
}

func (m *mockGigRepository) CountCreatedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, since)
	return args.Get(0).(int64), args.Error(1)
}

type mockApplicationRepository struct {
	mock.Mock
}

func (m *mockApplicationRepository) Save(ctx context.Context, app *gig.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*gig.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gig.Application), args.Error(1)
}

func (m *mockApplicationRepository) FindByGigAndApplicant(ctx context.Context, gigID, applicantID uuid.UUID) (*gig.Application, error) {
	args := m.Called(ctx, gigID, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gig.Application), args.Error(1)
}

func (m *mockApplicationRepository) CreateIfUnderLimit(ctx context.Context, app *gig.Application, maxApplicants int) (bool, error) {
	args := m.Called(ctx, app, maxApplicants)
	return args.Bool(0), args.Error(1)
}

func (m *mockApplicationRepository) CountByApplicantSince(ctx context.Context, applicantID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, applicantID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockApplicationRepository) CountByGig(ctx context.Context, gigID uuid.UUID) (int64, error) {
	args := m.Called(ctx, gigID)
	return args.Get(0).(int64), args.Error(1)
}

type mockTierResolver struct {
	mock.Mock
}

func (m *mockTierResolver) TierOf(ctx context.Context, userID uuid.UUID) (subscription.Tier, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(subscription.Tier), args.Error(1)
}

type mockUsageCounter struct {
	mock.Mock
}

func (m *mockUsageCounter) CountGigsCreatedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageCounter) CountApplicationsSince(ctx context.Context, applicantID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, applicantID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageCounter) CountShowcases(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageCounter) CountApplicants(ctx context.Context, gigID uuid.UUID) (int64, error) {
	args := m.Called(ctx, gigID)
	return args.Get(0).(int64), args.Error(1)
}

type mockCreditCharger struct {
	mock.Mock
}

func (m *mockCreditCharger) Deduct(ctx context.Context, userID uuid.UUID, amount int64, metadata map[string]interface{}) error {
	args := m.Called(ctx, userID, amount, metadata)
	return args.Error(0)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type serviceFixture struct {
	svc          *GigService
	gigs         *mockGigRepository
	applications *mockApplicationRepository
	tiers        *mockTierResolver
	usage        *mockUsageCounter
	charger      *mockCreditCharger
	publisher    *mockEventPublisher
}

func newFixture(tier subscription.Tier) *serviceFixture {
	gigs := new(mockGigRepository)
	applications := new(mockApplicationRepository)
	tiers := new(mockTierResolver)
	usage := new(mockUsageCounter)
	charger := new(mockCreditCharger)
	publisher := new(mockEventPublisher)

	tiers.On("TierOf", mock.Anything, mock.Anything).Return(tier, nil)
	enforcer := appsubscription.NewEnforcer(tiers, usage, zap.NewNop())
	svc := NewGigService(gigs, applications, enforcer, charger, publisher, zap.NewNop())

	return &serviceFixture{
		svc:          svc,
		gigs:         gigs,
		applications: applications,
		tiers:        tiers,
		usage:        usage,
		charger:      charger,
		publisher:    publisher,
	}
}

func openGig(t *testing.T, ownerID uuid.UUID) *gig.Gig {
	t.Helper()
	g, err := gig.NewGig(ownerID, "Logo design", "Brand refresh for a coffee shop")
	require.NoError(t, err)
	g.ClearDomainEvents()
	return g
}

func TestCreateGig(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates gig under quota and publishes event", func(t *testing.T) {
		f := newFixture(subscription.TierFree)
		f.usage.On("CountGigsCreatedSince", mock.Anything, ownerID, mock.Anything).Return(int64(1), nil)
		f.gigs.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == gig.EventTypeGigCreated
		})).Return(nil)

		result, err := f.svc.CreateGig(context.Background(), ownerID, "Logo design", "Brand refresh")

		require.NoError(t, err)
		assert.Equal(t, CreateGigStatusSuccess, result.Status)
		require.NotNil(t, result.Gig)
		assert.Equal(t, gig.GigStatusOpen, result.Gig.Status)
		f.publisher.AssertExpectations(t)
	})

	t.Run("returns subscription_limit at the tier cap", func(t *testing.T) {
		f := newFixture(subscription.TierFree)
		f.usage.On("CountGigsCreatedSince", mock.Anything, ownerID, mock.Anything).Return(int64(2), nil)

		result, err := f.svc.CreateGig(context.Background(), ownerID, "Logo design", "Brand refresh")

		require.NoError(t, err)
		assert.Equal(t, CreateGigStatusSubscriptionLimit, result.Status)
		require.NotNil(t, result.Limit)
		assert.Equal(t, 2, result.Limit.Limit)
		f.gigs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestApplyToGig(t *testing.T) {
	ownerID := uuid.New()
	applicantID := uuid.New()

	t.Run("submits application through the guarded insert", func(t *testing.T) {
		f := newFixture(subscription.TierPlus)
		g := openGig(t, ownerID)
		f.gigs.On("FindByID", mock.Anything, g.ID).Return(g, nil)
		f.applications.On("FindByGigAndApplicant", mock.Anything, g.ID, applicantID).Return(nil, shared.ErrNotFound)
		f.usage.On("CountApplicationsSince", mock.Anything, applicantID, mock.Anything).Return(int64(0), nil)
		f.applications.On("CreateIfUnderLimit", mock.Anything, mock.Anything, subscription.PolicyFor(subscription.TierPlus).MaxApplicantsPerGig).Return(true, nil)
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == gig.EventTypeApplicationSubmitted
		})).Return(nil)

		result, err := f.svc.ApplyToGig(context.Background(), g.ID, applicantID, "I'd love to help")

		require.NoError(t, err)
		assert.Equal(t, ApplyStatusSuccess, result.Status)
		require.NotNil(t, result.Application)
		assert.Equal(t, gig.ApplicationStatusSubmitted, result.Application.Status)
		f.applications.AssertExpectations(t)
	})

	t.Run("closed gig is not accepting", func(t *testing.T) {
		f := newFixture(subscription.TierFree)
		g := openGig(t, ownerID)
		require.NoError(t, g.Close())
		f.gigs.On("FindByID", mock.Anything, g.ID).Return(g, nil)

		result, err := f.svc.ApplyToGig(context.Background(), g.ID, applicantID, "")

		require.NoError(t, err)
		assert.Equal(t, ApplyStatusGigNotAccepting, result.Status)
	})

	t.Run("duplicate application is reported, not re-created", func(t *testing.T) {
		f := newFixture(subscription.TierFree)
		g := openGig(t, ownerID)
		existing, err := gig.NewApplication(g, applicantID, "first try")
		require.NoError(t, err)
		f.gigs.On("FindByID", mock.Anything, g.ID).Return(g, nil)
		f.applications.On("FindByGigAndApplicant", mock.Anything, g.ID, applicantID).Return(existing, nil)

		result, err := f.svc.ApplyToGig(context.Background(), g.ID, applicantID, "second try")

		require.NoError(t, err)
		assert.Equal(t, ApplyStatusAlreadyApplied, result.Status)
		f.applications.AssertNotCalled(t, "CreateIfUnderLimit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("applicant monthly quota maps to subscription_limit", func(t *testing.T) {
		f := newFixture(subscription.TierFree)
		g := openGig(t, ownerID)
		f.gigs.On("FindByID", mock.Anything, g.ID).Return(g, nil)
		f.applications.On("FindByGigAndApplicant", mock.Anything, g.ID, applicantID).Return(nil, shared.ErrNotFound)
		f.usage.On("CountApplicationsSince", mock.Anything, applicantID, mock.Anything).Return(int64(5), nil)

		result, err := f.svc.ApplyToGig(context.Background(), g.ID, applicantID, "")

		require.NoError(t, err)
		assert.Equal(t, ApplyStatusSubscriptionLimit, result.Status)
		require.NotNil(t, result.Limit)
		assert.Equal(t, 5, result.Limit.Limit)
	})

	t.Run("guard rejection means the gig is full", func(t *testing.T) {
		f := newFixture(subscription.TierFree)
		g := openGig(t, ownerID)
		f.gigs.On("FindByID", mock.Anything, g.ID).Return(g, nil)
		f.applications.On("FindByGigAndApplicant", mock.Anything, g.ID, applicantID).Return(nil, shared.ErrNotFound)
		f.usage.On("CountApplicationsSince", mock.Anything, applicantID, mock.Anything).Return(int64(0), nil)
		f.applications.On("CreateIfUnderLimit", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		result, err := f.svc.ApplyToGig(context.Background(), g.ID, applicantID, "")

		require.NoError(t, err)
		assert.Equal(t, ApplyStatusGigNotAccepting, result.Status)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("owner cannot apply to own gig", func(t *testing.T) {
		f := newFixture(subscription.TierFree)
		g := openGig(t, ownerID)
		f.gigs.On("FindByID", mock.Anything, g.ID).Return(g, nil)
		f.applications.On("FindByGigAndApplicant", mock.Anything, g.ID, ownerID).Return(nil, shared.ErrNotFound)
		f.usage.On("CountApplicationsSince", mock.Anything, ownerID, mock.Anything).Return(int64(0), nil)

		_, err := f.svc.ApplyToGig(context.Background(), g.ID, ownerID, "")

		assert.Error(t, err)
	})
}

func TestBoostGig(t *testing.T) {
	ownerID := uuid.New()

	t.Run("free tier cannot boost", func(t *testing.T) {
		f := newFixture(subscription.TierFree)
		g := openGig(t, ownerID)

		err := f.svc.BoostGig(context.Background(), ownerID, g.ID)

		var limitErr *subscription.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, subscription.TierFree, limitErr.Tier)
		f.gigs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("plus tier boosts and publishes", func(t *testing.T) {
		f := newFixture(subscription.TierPlus)
		g := openGig(t, ownerID)
		f.gigs.On("FindByID", mock.Anything, g.ID).Return(g, nil)
		f.gigs.On("Save", mock.Anything, g).Return(nil)
		f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == gig.EventTypeGigBoosted
		})).Return(nil)

		err := f.svc.BoostGig(context.Background(), ownerID, g.ID)

		require.NoError(t, err)
		assert.True(t, g.Boosted)
		f.publisher.AssertExpectations(t)
	})

	t.Run("only the owner can boost", func(t *testing.T) {
		f := newFixture(subscription.TierPro)
		g := openGig(t, ownerID)
		stranger := uuid.New()
		f.gigs.On("FindByID", mock.Anything, g.ID).Return(g, nil)

		err := f.svc.BoostGig(context.Background(), stranger, g.ID)

		assert.Error(t, err)
		f.gigs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestConsumeEnhancement(t *testing.T) {
	t.Run("free tier is rejected before the ledger is touched", func(t *testing.T) {
		f := newFixture(subscription.TierFree)

		err := f.svc.ConsumeEnhancement(context.Background(), uuid.New(), 2, "gen-1")

		var limitErr *subscription.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, "ai_enhancements", limitErr.Resource)
		f.charger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("plus tier charges the ledger with the generation id", func(t *testing.T) {
		f := newFixture(subscription.TierPlus)
		userID := uuid.New()
		f.charger.On("Deduct", mock.Anything, userID, int64(2), mock.MatchedBy(func(meta map[string]interface{}) bool {
			return meta["generation_id"] == "gen-2"
		})).Return(nil)

		err := f.svc.ConsumeEnhancement(context.Background(), userID, 2, "gen-2")

		require.NoError(t, err)
		f.charger.AssertExpectations(t)
	})
}
