package rules

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// CompiledPattern is a named, compiled regular expression.
type CompiledPattern struct {
	Name string
	Re   *regexp.Regexp
}

// Set is a validated, compiled rule set. It is read-only after Compile returns and
// safe for concurrent use without synchronization.
type Set struct {
	rules Rules
	hash  string

	NamePatterns   []*regexp.Regexp
	LegalSuffixes  map[string]bool
	NameStopwords  map[string]bool
	SpamPhrases    []string
	KnownLocations map[string]bool

	RedFlags []CompiledPattern
	Volume   []CompiledPattern

	JobCategories               []Category
	ExpansionPhrases            []string
	RevenueRoles                []Category
	VolumeKeywords              []string
	StressPhrases               []string
	TechCategories              []Category
	StructuredRecruitingPhrases []string
}

// Rules returns a copy of the source rules the set was compiled from.
func (s *Set) Rules() Rules {
	return s.rules
}

// Hash returns a stable digest of the rule set.
func (s *Set) Hash() string {
	return s.hash
}

// MinListingsPerCompany returns the eligibility threshold for grouped companies.
func (s *Set) MinListingsPerCompany() int { return s.rules.MinListingsPerCompany }

// TopN returns the maximum number of companies selected for output.
func (s *Set) TopN() int { return s.rules.TopN }

// MinCompanyKeyLength is the shortest company key the normalizer accepts.
func (s *Set) MinCompanyKeyLength() int { return s.rules.MinCompanyKeyLength }

// EvidenceCap returns the maximum number of evidence entries kept per list.
func (s *Set) EvidenceCap() int { return s.rules.EvidenceCap }

// MustCompile is like Compile but panics on error. Intended for tests and defaults.
func MustCompile(r Rules) *Set {
	s, err := Compile(r)
	if err != nil {
		panic(err)
	}
	return s
}

// Compile validates r and builds an immutable Set. Any problem is reported as a
// *ConfigError naming the offending field.
func Compile(r Rules) (*Set, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	s := &Set{
		rules:                       r,
		LegalSuffixes:               make(map[string]bool, len(r.LegalSuffixes)),
		NameStopwords:               make(map[string]bool, len(r.NameStopwords)),
		KnownLocations:              make(map[string]bool, len(r.KnownLocations)),
		SpamPhrases:                 lowerAll(r.SpamPhrases),
		JobCategories:               lowerCategories(r.JobCategories),
		ExpansionPhrases:            lowerAll(r.ExpansionPhrases),
		RevenueRoles:                lowerCategories(r.RevenueRoles),
		VolumeKeywords:              lowerAll(r.VolumeKeywords),
		StressPhrases:               lowerAll(r.StressPhrases),
		TechCategories:              lowerCategories(r.TechCategories),
		StructuredRecruitingPhrases: lowerAll(r.StructuredRecruitingPhrases),
	}

	for i, p := range r.CompanyNamePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, configErr(fmt.Sprintf("company_name_patterns[%d]", i), "%v", err)
		}
		if re.NumSubexp() < 1 {
			return nil, configErr(fmt.Sprintf("company_name_patterns[%d]", i), "pattern needs a capture group")
		}
		s.NamePatterns = append(s.NamePatterns, re)
	}

	var err error
	if s.RedFlags, err = compilePatterns("red_flag_patterns", r.RedFlagPatterns); err != nil {
		return nil, err
	}
	if s.Volume, err = compilePatterns("volume_patterns", r.VolumePatterns); err != nil {
		return nil, err
	}

	for _, suf := range r.LegalSuffixes {
		s.LegalSuffixes[strings.ToLower(strings.TrimSpace(suf))] = true
	}
	for _, w := range r.NameStopwords {
		s.NameStopwords[strings.ToLower(strings.TrimSpace(w))] = true
	}
	for _, loc := range r.KnownLocations {
		s.KnownLocations[strings.ToLower(strings.TrimSpace(loc))] = true
	}

	s.hash = hashRules(r)
	return s, nil
}

// compilePatterns compiles named patterns case-insensitively.
func compilePatterns(field string, patterns []Pattern) ([]CompiledPattern, error) {
	out := make([]CompiledPattern, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p.Regex)
		if err != nil {
			return nil, configErr(fmt.Sprintf("%s[%d]", field, i), "%v", err)
		}
		out = append(out, CompiledPattern{Name: p.Name, Re: re})
	}
	return out, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerCategories(in []Category) []Category {
	out := make([]Category, 0, len(in))
	for _, c := range in {
		out = append(out, Category{Name: c.Name, Keywords: lowerAll(c.Keywords)})
	}
	return out
}

// hashRules returns a SHA-256 digest of the rules for reproducibility.
func hashRules(r Rules) string {
	data, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:16])
}
