package search_test

import (
	"testing"

	"bizdir/directory-gateway/internal/search"
)

func TestTierPriority_Known(t *testing.T) {
	cases := map[string]int{
		search.TierPremium:  1,
		search.TierEnhanced: 2,
		search.TierLogo:     3,
		search.TierFree:     4,
	}
	for tier, want := range cases {
		if got := search.TierPriority(strp(tier)); got != want {
			t.Errorf("TierPriority(%q) = %d, want %d", tier, got, want)
		}
	}
}

// Unknown, differently-cased and missing tiers all rank after Free.
func TestTierPriority_Unranked(t *testing.T) {
	if got := search.TierPriority(nil); got != 5 {
		t.Errorf("TierPriority(nil) = %d, want 5", got)
	}
	for _, tier := range []string{"Gold", "", "premium", "FREE", " Logo"} {
		if got := search.TierPriority(strp(tier)); got != 5 {
			t.Errorf("TierPriority(%q) = %d, want 5", tier, got)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []search.Company{
		{ID: 1, AdvertisingTier: strp("Free")},
		{ID: 2, AdvertisingTier: strp("Premium")},
	}
	out := search.Rank(in)
	if in[0].ID != 1 || in[1].ID != 2 {
		t.Errorf("Rank reordered its input: %+v", in)
	}
	if out[0].ID != 2 || out[1].ID != 1 {
		t.Errorf("Rank = %+v, want ids [2 1]", out)
	}
}
