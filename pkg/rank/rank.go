// Package rank orders surviving opportunities by a composite score.
package rank

import (
	"sort"

	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// Multiplier computes the score multiplier for one opportunity.
type Multiplier func(o *domain.Opportunity) float64

// DiscountMultiplier boosts opportunities by how far below the
// estimated sold median they are priced: 1 + discount.
func DiscountMultiplier(o *domain.Opportunity) float64 {
	return 1.0 + o.Discount
}

// UnitMultiplier applies no boost. It stands in for a future
// liquidity adjustment in catalog mode.
func UnitMultiplier(_ *domain.Opportunity) float64 {
	return 1.0
}

// Rank attaches score = profit x confidence x multiplier to each
// opportunity and returns a new slice sorted descending by score,
// ties broken descending by raw profit. The sort is stable: input
// order is preserved for opportunities equal on both keys. The output
// always has the same length as the input.
func Rank(opps []domain.Opportunity, multiplier Multiplier) []domain.Opportunity {
	if multiplier == nil {
		multiplier = UnitMultiplier
	}

	ranked := make([]domain.Opportunity, len(opps))
	copy(ranked, opps)

	for i := range ranked {
		ranked[i].Score = ranked[i].Economics.Profit *
			ranked[i].Match.Confidence *
			multiplier(&ranked[i])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Economics.Profit > ranked[j].Economics.Profit
	})

	return ranked
}
