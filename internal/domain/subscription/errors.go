package subscription

import "fmt"

// LimitError is returned when an action would exceed a tier's quota
// or requires a capability the tier does not include.
// The message names the limit and the tier so callers can surface an
// actionable upgrade prompt.
type LimitError struct {
	Resource string // quota dimension or capability, e.g. "gigs_per_month"
	Limit    int    // the limit that was reached (0 for capability checks)
	Tier     Tier   // the tier the check ran against
}

// Error implements the error interface
func (e *LimitError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("subscription limit exceeded: %s limit of %d reached on %s tier", e.Resource, e.Limit, e.Tier)
	}
	return fmt.Sprintf("subscription capability missing: %s is not included in %s tier", e.Resource, e.Tier)
}

// NewLimitError creates a LimitError for a numeric quota
func NewLimitError(resource string, limit int, tier Tier) *LimitError {
	return &LimitError{Resource: resource, Limit: limit, Tier: tier}
}

// NewCapabilityError creates a LimitError for a missing boolean capability
func NewCapabilityError(resource string, tier Tier) *LimitError {
	return &LimitError{Resource: resource, Tier: tier}
}
