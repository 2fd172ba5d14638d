package company

import (
	"sort"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
)

// merge folds key groups into the Company identified by key.
func merge(key string, groups []keyGroup) model.Company {
	var (
		listings []model.NormalizedListing
		contacts []string
	)
	for _, grp := range groups {
		listings = append(listings, grp.listings...)
		contacts = append(contacts, grp.contacts...)
	}

	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i], listings[j]
		if a.Raw.URL != b.Raw.URL {
			return a.Raw.URL < b.Raw.URL
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		if a.CompanyKey != b.CompanyKey {
			return a.CompanyKey < b.CompanyKey
		}
		return a.Text < b.Text
	})

	return model.Company{
		Key:         key,
		DisplayName: displayName(listings, key),
		Listings:    listings,
		Contacts:    dedupeSorted(contacts),
		Locations:   locations(listings),
	}
}

// canonicalKey picks the identity of a merged company: the real (non-placeholder)
// key carrying the most listings, ties broken by the smallest key. Placeholder keys
// are only used when the component has nothing else.
func canonicalKey(groups []keyGroup) string {
	counts := make(map[string]int, len(groups))
	for _, grp := range groups {
		counts[grp.key] += len(grp.listings)
	}

	var best string
	found := false
	for key, n := range counts {
		if !found || better(key, n, best, counts[best]) {
			best, found = key, true
		}
	}
	return best
}

func better(a string, na int, b string, nb int) bool {
	pa, pb := normalize.IsPlaceholder(a), normalize.IsPlaceholder(b)
	if pa != pb {
		return !pa
	}
	if na != nb {
		return na > nb
	}
	return a < b
}

// displayName returns the most frequent extracted company name, falling back to key.
func displayName(listings []model.NormalizedListing, key string) string {
	counts := make(map[string]int)
	for _, l := range listings {
		if l.CompanyName != "" {
			counts[l.CompanyName]++
		}
	}
	best, bestN := "", 0
	for name, n := range counts {
		if n > bestN || (n == bestN && name < best) {
			best, bestN = name, n
		}
	}
	if best == "" {
		return key
	}
	return best
}

// locations returns the distinct non-empty normalized locations, sorted.
func locations(listings []model.NormalizedListing) []string {
	var out []string
	for _, l := range listings {
		if l.Location != "" {
			out = append(out, l.Location)
		}
	}
	return dedupeSorted(out)
}
