package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock implementations

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

func newTestEnforcer(tier subscription.Tier) (*Enforcer, *mockTierResolver, *mockUsageCounter) {
	tiers := new(mockTierResolver)
	usage := new(mockUsageCounter)
	tiers.On("TierOf", mock.Anything, mock.Anything).Return(tier, nil)
	return NewEnforcer(tiers, usage, zap.NewNop()), tiers, usage
}

func TestEnforceGigCreation(t *testing.T) {
	userID := uuid.New()

	t.Run("free tier at limit is rejected with the limit in the error", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		usage.On("CountGigsCreatedSince", mock.Anything, userID, mock.Anything).Return(int64(2), nil)

		err := enforcer.EnforceGigCreation(context.Background(), userID)

		var limitErr *subscription.LimitError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, ResourceGigsPerMonth, limitErr.Resource)
		assert.Equal(t, 2, limitErr.Limit)
		assert.Equal(t, subscription.TierFree, limitErr.Tier)
	})

	t.Run("free tier below limit passes", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		usage.On("CountGigsCreatedSince", mock.Anything, userID, mock.Anything).Return(int64(1), nil)

		assert.NoError(t, enforcer.EnforceGigCreation(context.Background(), userID))
	})

	t.Run("count over limit is still rejected", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		usage.On("CountGigsCreatedSince", mock.Anything, userID, mock.Anything).Return(int64(7), nil)

		var limitErr *subscription.LimitError
		require.ErrorAs(t, enforcer.EnforceGigCreation(context.Background(), userID), &limitErr)
		assert.Equal(t, 2, limitErr.Limit)
	})

	t.Run("unlimited tier never counts", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierPro)

		assert.NoError(t, enforcer.EnforceGigCreation(context.Background(), userID))
		usage.AssertNotCalled(t, "CountGigsCreatedSince", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("counting window starts at the first of the month", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		enforcer.now = func() time.Time {
			return time.Date(2024, 3, 18, 15, 4, 5, 0, time.UTC)
		}
		monthStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		usage.On("CountGigsCreatedSince", mock.Anything, userID, monthStart).Return(int64(0), nil)

		require.NoError(t, enforcer.EnforceGigCreation(context.Background(), userID))
		usage.AssertExpectations(t)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		usage.On("CountGigsCreatedSince", mock.Anything, userID, mock.Anything).Return(int64(0), errors.New("db down"))

		err := enforcer.EnforceGigCreation(context.Background(), userID)
		var limitErr *subscription.LimitError
		assert.Error(t, err)
		assert.False(t, errors.As(err, &limitErr))
	})
}

func TestEnforceApplication(t *testing.T) {
	userID := uuid.New()

	t.Run("free tier limit applies", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		usage.On("CountApplicationsSince", mock.Anything, userID, mock.Anything).Return(int64(5), nil)

		var limitErr *subscription.LimitError
		require.ErrorAs(t, enforcer.EnforceApplication(context.Background(), userID), &limitErr)
		assert.Equal(t, 5, limitErr.Limit)
	})

	t.Run("plus tier applications are unlimited", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierPlus)

		assert.NoError(t, enforcer.EnforceApplication(context.Background(), userID))
		usage.AssertNotCalled(t, "CountApplicationsSince", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEnforceShowcaseCreation(t *testing.T) {
	userID := uuid.New()

	t.Run("total quota compares against lifetime count", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		usage.On("CountShowcases", mock.Anything, userID).Return(int64(3), nil)

		var limitErr *subscription.LimitError
		require.ErrorAs(t, enforcer.EnforceShowcaseCreation(context.Background(), userID), &limitErr)
		assert.Equal(t, ResourceShowcasesTotal, limitErr.Resource)
		assert.Equal(t, 3, limitErr.Limit)
	})

	t.Run("creator tier is unlimited", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierCreator)

		assert.NoError(t, enforcer.EnforceShowcaseCreation(context.Background(), userID))
		usage.AssertNotCalled(t, "CountShowcases", mock.Anything, mock.Anything)
	})
}

func TestEnforceApplicantLimit(t *testing.T) {
	ownerID := uuid.New()
	gigID := uuid.New()

	t.Run("cap derives from the gig owner's tier", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		usage.On("CountApplicants", mock.Anything, gigID).Return(int64(10), nil)

		var limitErr *subscription.LimitError
		require.ErrorAs(t, enforcer.EnforceApplicantLimit(context.Background(), ownerID, gigID), &limitErr)
		assert.Equal(t, 10, limitErr.Limit)
	})

	t.Run("below the cap passes", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)
		usage.On("CountApplicants", mock.Anything, gigID).Return(int64(9), nil)

		assert.NoError(t, enforcer.EnforceApplicantLimit(context.Background(), ownerID, gigID))
	})
}

func TestCapabilityChecks(t *testing.T) {
	userID := uuid.New()

	t.Run("free tier lacks all capabilities", func(t *testing.T) {
		enforcer, _, usage := newTestEnforcer(subscription.TierFree)

		var limitErr *subscription.LimitError
		require.ErrorAs(t, enforcer.EnforceAIEnhancements(context.Background(), userID), &limitErr)
		assert.Equal(t, ResourceAIEnhancements, limitErr.Resource)

		assert.Error(t, enforcer.EnforceMoodboardVideos(context.Background(), userID))
		assert.Error(t, enforcer.EnforceGigBoosting(context.Background(), userID))

		ok, err := enforcer.CanBulkShortlist(context.Background(), userID)
		require.NoError(t, err)
		assert.False(t, ok)

		// Capability checks consult only the static table
		usage.AssertNotCalled(t, "CountGigsCreatedSince", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("plus tier has all capabilities", func(t *testing.T) {
		enforcer, _, _ := newTestEnforcer(subscription.TierPlus)

		assert.NoError(t, enforcer.EnforceAIEnhancements(context.Background(), userID))
		assert.NoError(t, enforcer.EnforceMoodboardVideos(context.Background(), userID))
		assert.NoError(t, enforcer.EnforceGigBoosting(context.Background(), userID))

		ok, err := enforcer.CanBulkShortlist(context.Background(), userID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
