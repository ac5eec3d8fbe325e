package subscription

import (
	"context"
	"time"

	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resource names carried in limit errors
const (
	ResourceGigsPerMonth         = "gigs_per_month"
	ResourceApplicationsPerMonth = "applications_per_month"
	ResourceShowcasesTotal       = "showcases_total"
	ResourceMaxApplicantsPerGig  = "max_applicants_per_gig"
	ResourceAIEnhancements       = "ai_enhancements"
	ResourceMoodboardVideos      = "moodboard_videos"
	ResourceGigBoosting          = "gig_boosting"
	ResourceBulkShortlist        = "bulk_shortlist"
)

// TierResolver looks up a user's current subscription tier
type TierResolver interface {
	TierOf(ctx context.Context, userID uuid.UUID) (subscription.Tier, error)
}

// UsageCounter supplies live usage counts for quota checks. Counting stays
// with the caller's repositories so the enforcer remains storage-agnostic.
type UsageCounter interface {
	CountGigsCreatedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error)
	CountApplicationsSince(ctx context.Context, applicantID uuid.UUID, since time.Time) (int64, error)
	CountShowcases(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CountApplicants(ctx context.Context, gigID uuid.UUID) (int64, error)
}

// Enforcer combines the static quota policy table with live usage counts to
// approve or reject governed actions. Enforcement methods have no side
// effects: the caller performs the actual creation afterward, and the
// persistence layer re-checks the guard atomically at write time.
type Enforcer struct {
	tiers  TierResolver
	usage  UsageCounter
	logger *zap.Logger
	now    func() time.Time
}

// NewEnforcer creates a new Enforcer
func NewEnforcer(tiers TierResolver, usage UsageCounter, logger *zap.Logger) *Enforcer {
	return &Enforcer{
		tiers:  tiers,
		usage:  usage,
		logger: logger,
		now:    time.Now,
	}
}

// monthStart returns the first instant of the current calendar month
func (e *Enforcer) monthStart() time.Time {
	now := e.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func (e *Enforcer) policyFor(ctx context.Context, userID uuid.UUID) (subscription.QuotaPolicy, subscription.Tier, error) {
	tier, err := e.tiers.TierOf(ctx, userID)
	if err != nil {
		return subscription.QuotaPolicy{}, "", err
	}
	return subscription.PolicyFor(tier), tier, nil
}

func (e *Enforcer) enforceMonthlyQuota(ctx context.Context, userID uuid.UUID, resource string, limit int,
	count func(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error), tier subscription.Tier) error {
	if subscription.IsUnlimited(limit) {
		return nil
	}

	used, err := count(ctx, userID, e.monthStart())
	if err != nil {
		return err
	}
	if used >= int64(limit) {
		e.logger.Info("subscription quota reached",
			zap.String("resource", resource),
			zap.String("user_id", userID.String()),
			zap.Int64("used", used),
			zap.Int("limit", limit),
			zap.String("tier", tier.String()),
		)
		return subscription.NewLimitError(resource, limit, tier)
	}
	return nil
}

// EnforceGigCreation rejects gig creation beyond the tier's monthly quota
func (e *Enforcer) EnforceGigCreation(ctx context.Context, userID uuid.UUID) error {
	policy, tier, err := e.policyFor(ctx, userID)
	if err != nil {
		return err
	}
	return e.enforceMonthlyQuota(ctx, userID, ResourceGigsPerMonth, policy.GigsPerMonth, e.usage.CountGigsCreatedSince, tier)
}

// EnforceApplication rejects applications beyond the tier's monthly quota
func (e *Enforcer) EnforceApplication(ctx context.Context, userID uuid.UUID) error {
	policy, tier, err := e.policyFor(ctx, userID)
	if err != nil {
		return err
	}
	return e.enforceMonthlyQuota(ctx, userID, ResourceApplicationsPerMonth, policy.ApplicationsPerMonth, e.usage.CountApplicationsSince, tier)
}

// EnforceShowcaseCreation rejects showcase creation beyond the tier's total
// quota; showcases are bounded across the account lifetime, not per month
func (e *Enforcer) EnforceShowcaseCreation(ctx context.Context, userID uuid.UUID) error {
	policy, tier, err := e.policyFor(ctx, userID)
	if err != nil {
		return err
	}
	if subscription.IsUnlimited(policy.ShowcasesTotal) {
		return nil
	}

	used, err := e.usage.CountShowcases(ctx, userID)
	if err != nil {
		return err
	}
	if used >= int64(policy.ShowcasesTotal) {
		return subscription.NewLimitError(ResourceShowcasesTotal, policy.ShowcasesTotal, tier)
	}
	return nil
}

// EnforceApplicantLimit rejects new applications once a gig has reached the
// applicant cap granted by its owner's tier
func (e *Enforcer) EnforceApplicantLimit(ctx context.Context, ownerID, gigID uuid.UUID) error {
	policy, tier, err := e.policyFor(ctx, ownerID)
	if err != nil {
		return err
	}
	if subscription.IsUnlimited(policy.MaxApplicantsPerGig) {
		return nil
	}

	applicants, err := e.usage.CountApplicants(ctx, gigID)
	if err != nil {
		return err
	}
	if applicants >= int64(policy.MaxApplicantsPerGig) {
		return subscription.NewLimitError(ResourceMaxApplicantsPerGig, policy.MaxApplicantsPerGig, tier)
	}
	return nil
}

// MaxApplicantsFor returns the applicant cap for the gig owner's tier;
// the persistence layer uses it as the guard value for the atomic insert
func (e *Enforcer) MaxApplicantsFor(ctx context.Context, ownerID uuid.UUID) (int, error) {
	policy, _, err := e.policyFor(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return policy.MaxApplicantsPerGig, nil
}

func (e *Enforcer) enforceCapability(ctx context.Context, userID uuid.UUID, resource string,
	enabled func(subscription.QuotaPolicy) bool) error {
	policy, tier, err := e.policyFor(ctx, userID)
	if err != nil {
		return err
	}
	if !enabled(policy) {
		return subscription.NewCapabilityError(resource, tier)
	}
	return nil
}

// EnforceAIEnhancements rejects AI-enhancement use on tiers without the
// capability; consults only the static policy table
func (e *Enforcer) EnforceAIEnhancements(ctx context.Context, userID uuid.UUID) error {
	return e.enforceCapability(ctx, userID, ResourceAIEnhancements, func(p subscription.QuotaPolicy) bool {
		return p.CanUseAIEnhancements
	})
}

// EnforceMoodboardVideos rejects moodboard video uploads on tiers without
// the capability
func (e *Enforcer) EnforceMoodboardVideos(ctx context.Context, userID uuid.UUID) error {
	return e.enforceCapability(ctx, userID, ResourceMoodboardVideos, func(p subscription.QuotaPolicy) bool {
		return p.CanAddMoodboardVideos
	})
}

// EnforceGigBoosting rejects gig boosting on tiers without the capability
func (e *Enforcer) EnforceGigBoosting(ctx context.Context, userID uuid.UUID) error {
	return e.enforceCapability(ctx, userID, ResourceGigBoosting, func(p subscription.QuotaPolicy) bool {
		return p.CanBoostGig
	})
}

// CanBulkShortlist reports whether the tier includes bulk shortlisting
func (e *Enforcer) CanBulkShortlist(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, tier, err := e.policyFor(ctx, userID)
	if err != nil {
		return false, err
	}
	return subscription.PolicyFor(tier).CanBulkShortlist, nil
}

// EnforceBulkShortlist rejects bulk shortlisting on tiers without the
// capability
func (e *Enforcer) EnforceBulkShortlist(ctx context.Context, userID uuid.UUID) error {
	return e.enforceCapability(ctx, userID, ResourceBulkShortlist, func(p subscription.QuotaPolicy) bool {
		return p.CanBulkShortlist
	})
}
