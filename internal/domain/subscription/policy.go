package subscription

// Unlimited marks a quota dimension with no limit
const Unlimited = -1

// QuotaPolicy defines the entitlements of a subscription tier.
// Policies are static configuration: they are never mutated at runtime
// and are looked up by every enforcement check.
type QuotaPolicy struct {
	GigsPerMonth          int
	ApplicationsPerMonth  int
	ShowcasesTotal        int
	MaxApplicantsPerGig   int
	CanUseAIEnhancements  bool
	CanAddMoodboardVideos bool
	CanBoostGig           bool
	CanBulkShortlist      bool
}

// IsUnlimited reports whether a quota dimension has no limit
func IsUnlimited(limit int) bool {
	return limit == Unlimited
}

var policies = map[Tier]QuotaPolicy{
	TierFree: {
		GigsPerMonth:         2,
		ApplicationsPerMonth: 5,
		ShowcasesTotal:       3,
		MaxApplicantsPerGig:  10,
	},
	TierPlus: {
		GigsPerMonth:          10,
		ApplicationsPerMonth:  Unlimited,
		ShowcasesTotal:        15,
		MaxApplicantsPerGig:   50,
		CanUseAIEnhancements:  true,
		CanAddMoodboardVideos: true,
		CanBoostGig:           true,
		CanBulkShortlist:      true,
	},
	TierPro: {
		GigsPerMonth:          Unlimited,
		ApplicationsPerMonth:  Unlimited,
		ShowcasesTotal:        50,
		MaxApplicantsPerGig:   200,
		CanUseAIEnhancements:  true,
		CanAddMoodboardVideos: true,
		CanBoostGig:           true,
		CanBulkShortlist:      true,
	},
	TierCreator: {
		GigsPerMonth:          Unlimited,
		ApplicationsPerMonth:  Unlimited,
		ShowcasesTotal:        Unlimited,
		MaxApplicantsPerGig:   Unlimited,
		CanUseAIEnhancements:  true,
		CanAddMoodboardVideos: true,
		CanBoostGig:           true,
		CanBulkShortlist:      true,
	},
}

// PolicyFor returns the quota policy for a tier.
// Unknown tiers fall back to the FREE policy, the most restrictive one.
func PolicyFor(tier Tier) QuotaPolicy {
	if p, ok := policies[tier]; ok {
		return p
	}
	return policies[TierFree]
}
