// Package company groups normalized listings into candidate companies.
//
// Listings are first partitioned by company key. Groups are then merged with a
// union-find whenever they share an exact phone number or email address, so a
// company posting under slightly different names still collapses into one bucket.
// Placeholder-keyed listings enter the union-find one by one: a shared location is
// not evidence of a shared employer, so it never links two contacts.
package company

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
)

// Partition is the complete grouping of a scan's accepted listings.
type Partition struct {
	// Companies is sorted by key.
	Companies []model.Company
}

// Eligible returns the companies with at least min listings, preserving key order.
func (p *Partition) Eligible(min int) []model.Company {
	var out []model.Company
	for _, c := range p.Companies {
		if c.ListingCount() >= min {
			out = append(out, c)
		}
	}
	return out
}

// keyGroup is one union-find node: every listing sharing a real company key, or a
// single placeholder-keyed listing.
type keyGroup struct {
	key      string
	listings []model.NormalizedListing
	contacts []string
}

// Group partitions listings into companies. Contact extraction fans out across
// workers; the union-find reduce runs on the calling goroutine. The result does not
// depend on the order of listings.
func Group(ctx context.Context, listings []model.NormalizedListing, workers int) (*Partition, error) {
	if len(listings) == 0 {
		return &Partition{}, nil
	}
	if workers <= 0 {
		workers = 1
	}

	contacts := make([][]string, len(listings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range listings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			contacts[i] = ExtractContacts(listings[i].Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "company: extract contacts")
	}

	groups := partitionByKey(listings, contacts)

	uf := newUnionFind(len(groups))
	owner := make(map[string]int)
	for i, grp := range groups {
		for _, id := range grp.contacts {
			if j, ok := owner[id]; ok {
				uf.union(i, j)
				continue
			}
			owner[id] = i
		}
	}

	members := make(map[int][]keyGroup)
	for i, grp := range groups {
		root := uf.find(i)
		members[root] = append(members[root], grp)
	}

	// Each real key lives in exactly one component. Components made only of
	// placeholder listings collapse into one low-confidence company per key.
	byKey := make(map[string][]keyGroup, len(members))
	for _, m := range members {
		key := canonicalKey(m)
		byKey[key] = append(byKey[key], m...)
	}

	companies := make([]model.Company, 0, len(byKey))
	for key, m := range byKey {
		companies = append(companies, merge(key, m))
	}
	sort.Slice(companies, func(i, j int) bool {
		return companies[i].Key < companies[j].Key
	})

	zap.L().Debug("company: grouped listings",
		zap.Int("listings", len(listings)),
		zap.Int("nodes", len(groups)),
		zap.Int("companies", len(companies)),
	)

	return &Partition{Companies: companies}, nil
}

// partitionByKey buckets listings by company key; placeholder-keyed listings each get
// their own group. Groups are returned in key order.
func partitionByKey(listings []model.NormalizedListing, contacts [][]string) []keyGroup {
	index := make(map[string]int)
	var groups []keyGroup
	for i, l := range listings {
		if normalize.IsPlaceholder(l.CompanyKey) {
			groups = append(groups, keyGroup{
				key:      l.CompanyKey,
				listings: []model.NormalizedListing{l},
				contacts: contacts[i],
			})
			continue
		}
		j, ok := index[l.CompanyKey]
		if !ok {
			j = len(groups)
			index[l.CompanyKey] = j
			groups = append(groups, keyGroup{key: l.CompanyKey})
		}
		groups[j].listings = append(groups[j].listings, l)
		groups[j].contacts = append(groups[j].contacts, contacts[i]...)
	}
	for i := range groups {
		groups[i].contacts = dedupeSorted(groups[i].contacts)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].key < groups[j].key
	})
	return groups
}

func dedupeSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
