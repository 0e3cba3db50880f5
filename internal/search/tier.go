package search

// Tier values recognised by the ranking step.
const (
	TierPremium  = "Premium"
	TierEnhanced = "Enhanced"
	TierLogo     = "Logo"
	TierFree     = "Free"
)

// unrankedPriority is given to any tier outside tierPriority, including a
// missing one.
const unrankedPriority = 5

var tierPriority = map[string]int{
	TierPremium:  1,
	TierEnhanced: 2,
	TierLogo:     3,
	TierFree:     4,
}

// TierPriority returns the sort rank of an advertising tier. Lower ranks come
// first. Matching is exact: "premium" is not Premium.
func TierPriority(tier *string) int {
	if tier == nil {
		return unrankedPriority
	}
	if p, ok := tierPriority[*tier]; ok {
		return p
	}
	return unrankedPriority
}
