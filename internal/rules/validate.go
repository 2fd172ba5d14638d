package rules

import (
	"fmt"
	"strings"
	"unicode"
)

// Validate checks that r is internally consistent. It returns the first problem found
// as a *ConfigError.
func Validate(r Rules) error {
	switch {
	case r.TopN <= 0:
		return configErr("top_n", "must be > 0, got %d", r.TopN)
	case r.MinListingsPerCompany <= 0:
		return configErr("min_listings_per_company", "must be > 0, got %d", r.MinListingsPerCompany)
	case r.EvidenceCap <= 0:
		return configErr("evidence_cap", "must be > 0, got %d", r.EvidenceCap)
	case r.MinTitleLength < 0:
		return configErr("min_title_length", "must be >= 0")
	case r.MinAlphaRun < 0:
		return configErr("min_alpha_run", "must be >= 0")
	case r.MinAlphaCharCount < 0:
		return configErr("min_alpha_char_count", "must be >= 0")
	case r.MinCompanyKeyLength < 0:
		return configErr("min_company_key_length", "must be >= 0")
	case r.RedFlagThreshold <= 0:
		return configErr("red_flag_threshold", "must be > 0, got %d", r.RedFlagThreshold)
	}

	if err := validateWeights(r.Weights); err != nil {
		return err
	}
	if err := validateThresholds(r.VelocityThresholds); err != nil {
		return err
	}
	if err := validateMultipliers(r.Multipliers); err != nil {
		return err
	}
	if err := validateTiers(r.Tiers); err != nil {
		return err
	}
	return validateDictionaries(r)
}

func validateWeights(w Weights) error {
	named := []struct {
		name string
		v    float64
	}{
		{"weights.hiring_velocity", w.HiringVelocity},
		{"weights.growth_signals", w.GrowthSignals},
		{"weights.expansion_indicators", w.ExpansionIndicators},
		{"weights.operational_maturity", w.OperationalMaturity},
	}
	for _, n := range named {
		if n.v < 0 {
			return configErr(n.name, "must be >= 0, got %.2f", n.v)
		}
	}
	if w.Sum() <= 0 {
		return configErr("weights", "sum must be > 0")
	}
	return nil
}

func validateThresholds(ts []Threshold) error {
	if len(ts) == 0 {
		return configErr("velocity_thresholds", "must not be empty")
	}
	for i, t := range ts {
		field := fmt.Sprintf("velocity_thresholds[%d]", i)
		if t.MinListings < 0 {
			return configErr(field, "min_listings must be >= 0")
		}
		if t.Points < 0 || t.Points > 100 {
			return configErr(field, "points must be between 0 and 100")
		}
		if i == 0 {
			continue
		}
		if t.MinListings <= ts[i-1].MinListings {
			return configErr(field, "min_listings must be strictly ascending")
		}
		if t.Points < ts[i-1].Points {
			return configErr(field, "points must be non-decreasing")
		}
	}
	return nil
}

func validateMultipliers(m Multipliers) error {
	switch {
	case m.ExpansionLanguage <= 0:
		return configErr("multipliers.expansion_language", "must be > 0")
	case m.CrossFunctional <= 0:
		return configErr("multipliers.cross_functional", "must be > 0")
	case m.StressSignals <= 0:
		return configErr("multipliers.stress_signals", "must be > 0")
	case m.StressMinCount <= 0:
		return configErr("multipliers.stress_min_count", "must be > 0")
	}
	return nil
}

func validateTiers(t TierBoundaries) error {
	switch {
	case t.Hot > 100:
		return configErr("tiers.hot", "must be <= 100")
	case t.Potential <= 0:
		return configErr("tiers.potential", "must be > 0")
	case t.Qualified <= t.Potential:
		return configErr("tiers.qualified", "must be greater than tiers.potential")
	case t.Hot <= t.Qualified:
		return configErr("tiers.hot", "must be greater than tiers.qualified")
	}
	return nil
}

func validateDictionaries(r Rules) error {
	lists := []struct {
		name string
		n    int
	}{
		{"job_categories", len(r.JobCategories)},
		{"expansion_phrases", len(r.ExpansionPhrases)},
		{"revenue_roles", len(r.RevenueRoles)},
		{"stress_phrases", len(r.StressPhrases)},
		{"tech_categories", len(r.TechCategories)},
		{"structured_recruiting_phrases", len(r.StructuredRecruitingPhrases)},
		{"red_flag_patterns", len(r.RedFlagPatterns)},
		{"volume_patterns", len(r.VolumePatterns) + len(r.VolumeKeywords)},
	}
	for _, l := range lists {
		if l.n == 0 {
			return configErr(l.name, "dictionary must not be empty")
		}
	}

	cats := []struct {
		name string
		cs   []Category
	}{
		{"job_categories", r.JobCategories},
		{"revenue_roles", r.RevenueRoles},
		{"tech_categories", r.TechCategories},
	}
	for _, c := range cats {
		for i, cat := range c.cs {
			field := fmt.Sprintf("%s[%d]", c.name, i)
			if cat.Name == "" {
				return configErr(field, "name must not be empty")
			}
			if len(cat.Keywords) == 0 {
				return configErr(field, "keywords must not be empty")
			}
		}
	}

	for i, w := range r.NameStopwords {
		w = strings.TrimSpace(w)
		if w == "" || strings.ContainsFunc(w, unicode.IsSpace) {
			return configErr(fmt.Sprintf("name_stopwords[%d]", i), "must be a single word")
		}
	}

	for i, p := range r.RedFlagPatterns {
		if p.Name == "" || p.Regex == "" {
			return configErr(fmt.Sprintf("red_flag_patterns[%d]", i), "name and regex are required")
		}
	}
	for i, p := range r.VolumePatterns {
		if p.Name == "" || p.Regex == "" {
			return configErr(fmt.Sprintf("volume_patterns[%d]", i), "name and regex are required")
		}
	}
	return nil
}
