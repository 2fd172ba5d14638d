// Package rank orders scored companies and selects the top prospects.
package rank

import (
	"sort"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Ranking is the ordered outcome of a scan.
type Ranking struct {
	// All holds every scored company in rank order, SKIP included.
	All []model.RankedCompany
	// Top holds at most topN non-SKIP companies.
	Top          []model.RankedCompany
	CountsByTier map[model.Tier]int
}

// Rank sorts companies by final score descending, then listing count descending,
// then company key ascending, and assigns 1-based ranks. The input is not modified.
func Rank(scored []model.RankedCompany, topN int) Ranking {
	all := make([]model.RankedCompany, len(scored))
	copy(all, scored)
	sort.SliceStable(all, func(i, j int) bool {
		return less(&all[i], &all[j])
	})

	counts := make(map[model.Tier]int, len(model.Tiers))
	for _, t := range model.Tiers {
		counts[t] = 0
	}

	var top []model.RankedCompany
	for i := range all {
		all[i].Rank = i + 1
		counts[all[i].Score.Tier]++
		if all[i].Score.Tier == model.TierSkip || len(top) >= topN {
			continue
		}
		top = append(top, all[i])
	}

	return Ranking{All: all, Top: top, CountsByTier: counts}
}

func less(a, b *model.RankedCompany) bool {
	if a.Score.FinalScore != b.Score.FinalScore {
		return a.Score.FinalScore > b.Score.FinalScore
	}
	if a.ListingCount != b.ListingCount {
		return a.ListingCount > b.ListingCount
	}
	return a.CompanyKey < b.CompanyKey
}
