// Package signals extracts business signals from a company's listing text.
//
// Extraction is a pure function of the company's listings and the compiled rule
// set. Dictionaries are matched as case-insensitive substrings of folded text;
// evidence lists keep the first matches in dictionary order up to the evidence cap.
package signals

import (
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// Extract computes the SignalSet for a company.
func Extract(c *model.Company, set *rules.Set) model.SignalSet {
	text := combinedText(c)
	limit := set.EvidenceCap()

	var s model.SignalSet

	s.JobCategories = jobCategories(c, set.JobCategories)
	s.CrossFunctionalHiring = len(s.JobCategories) >= 2

	expansion := matchPhrases(set.ExpansionPhrases, text)
	s.ExpansionPhraseCount = len(expansion)
	s.ExpansionLanguageFound = len(expansion) > 0
	s.ExpansionEvidence = capped(expansion, limit)

	s.RevenueRoles = matchCategories(set.RevenueRoles, text)
	s.RevenueRoleCount = len(s.RevenueRoles)

	volume := matchVolume(set, text)
	s.HighVolumeHiringDetected = len(volume) > 0
	s.VolumeEvidence = capped(volume, limit)

	stress := matchPhrases(set.StressPhrases, text)
	s.StressSignalCount = len(stress)
	s.StressEvidence = capped(stress, limit)

	s.TechCategories = matchCategories(set.TechCategories, text)
	s.TechAdoptionCategoryCount = len(s.TechCategories)

	s.StructuredRecruitingDetected = len(matchPhrases(set.StructuredRecruitingPhrases, text)) > 0
	s.MultiLocationDetected = len(c.Locations) >= 2

	if len(c.Contacts) > 0 {
		s.ContactIdentifiers = append([]string(nil), c.Contacts...)
	}
	return s
}

// RedFlags returns the names of the distinct red-flag patterns matched by the
// company's text, in dictionary order.
func RedFlags(c *model.Company, set *rules.Set) []string {
	text := combinedText(c)
	if text == "" {
		return nil
	}
	var out []string
	for _, p := range set.RedFlags {
		if p.Re.MatchString(text) {
			out = append(out, p.Name)
		}
	}
	return out
}

// combinedText joins the folded text of every listing.
func combinedText(c *model.Company) string {
	if c == nil || len(c.Listings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.Listings))
	for i := range c.Listings {
		parts = append(parts, c.Listings[i].Text)
	}
	return strings.Join(parts, "\n")
}

// jobCategories maps each listing to the first bucket whose keyword appears in its
// title or category and returns the distinct buckets in dictionary order.
func jobCategories(c *model.Company, buckets []rules.Category) []string {
	if c == nil {
		return nil
	}
	hit := make(map[string]bool)
	for i := range c.Listings {
		l := &c.Listings[i]
		text := normalize.Fold(l.Title + " " + l.Raw.Category)
		for _, b := range buckets {
			if containsAny(text, b.Keywords) {
				hit[b.Name] = true
				break
			}
		}
	}
	var out []string
	for _, b := range buckets {
		if hit[b.Name] {
			out = append(out, b.Name)
		}
	}
	return out
}

// matchPhrases returns the phrases that appear in text, in dictionary order.
func matchPhrases(phrases []string, text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, p := range phrases {
		if strings.Contains(text, p) {
			out = append(out, p)
		}
	}
	return out
}

// matchCategories returns the categories with at least one keyword in text.
func matchCategories(categories []rules.Category, text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, c := range categories {
		if containsAny(text, c.Keywords) {
			out = append(out, c.Name)
		}
	}
	return out
}

// matchVolume returns the first match of each volume pattern followed by any
// volume keywords present.
func matchVolume(set *rules.Set, text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, p := range set.Volume {
		if m := p.Re.FindString(text); m != "" {
			out = append(out, strings.TrimSpace(m))
		}
	}
	return append(out, matchPhrases(set.VolumeKeywords, text)...)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func capped(in []string, limit int) []string {
	if limit > 0 && len(in) > limit {
		return in[:limit:limit]
	}
	return in
}
