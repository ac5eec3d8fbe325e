package subscription

// Tier represents a user's subscription tier.
// Tier changes happen through billing flows owned by another context;
// this package only reads the tier for enforcement checks.
type Tier string

const (
	TierFree    Tier = "FREE"
	TierPlus    Tier = "PLUS"
	TierPro     Tier = "PRO"
	TierCreator Tier = "CREATOR"
)

// IsValid checks if the tier is a known Tier
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierPlus, TierPro, TierCreator:
		return true
	}
	return false
}

// String returns the string representation of Tier
func (t Tier) String() string {
	return string(t)
}
