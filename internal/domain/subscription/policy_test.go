package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyFor(t *testing.T) {
	t.Run("free tier has the most restrictive quotas", func(t *testing.T) {
		p := PolicyFor(TierFree)
		assert.Equal(t, 2, p.GigsPerMonth)
		assert.Equal(t, 5, p.ApplicationsPerMonth)
		assert.Equal(t, 3, p.ShowcasesTotal)
		assert.Equal(t, 10, p.MaxApplicantsPerGig)
		assert.False(t, p.CanUseAIEnhancements)
		assert.False(t, p.CanAddMoodboardVideos)
		assert.False(t, p.CanBoostGig)
		assert.False(t, p.CanBulkShortlist)
	})

	t.Run("plus tier unlocks capabilities and unlimited applications", func(t *testing.T) {
		p := PolicyFor(TierPlus)
		assert.Equal(t, 10, p.GigsPerMonth)
		assert.True(t, IsUnlimited(p.ApplicationsPerMonth))
		assert.True(t, p.CanUseAIEnhancements)
		assert.True(t, p.CanBulkShortlist)
	})

	t.Run("creator tier is unlimited on every quota", func(t *testing.T) {
		p := PolicyFor(TierCreator)
		assert.True(t, IsUnlimited(p.GigsPerMonth))
		assert.True(t, IsUnlimited(p.ApplicationsPerMonth))
		assert.True(t, IsUnlimited(p.ShowcasesTotal))
		assert.True(t, IsUnlimited(p.MaxApplicantsPerGig))
	})

	t.Run("unknown tier falls back to free", func(t *testing.T) {
		assert.Equal(t, PolicyFor(TierFree), PolicyFor(Tier("LEGACY")))
	})
}

func TestTierIsValid(t *testing.T) {
	for _, tier := range []Tier{TierFree, TierPlus, TierPro, TierCreator} {
		assert.True(t, tier.IsValid(), tier)
	}
	assert.False(t, Tier("GOLD").IsValid())
}

func TestLimitErrorMessage(t *testing.T) {
	quota := NewLimitError("gigs_per_month", 2, TierFree)
	assert.Contains(t, quota.Error(), "gigs_per_month")
	assert.Contains(t, quota.Error(), "2")
	assert.Contains(t, quota.Error(), "FREE")

	capability := NewCapabilityError("ai_enhancements", TierFree)
	assert.Contains(t, capability.Error(), "ai_enhancements")
	assert.Contains(t, capability.Error(), "not included")
}
