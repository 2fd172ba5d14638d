// Package rules defines the thresholds and keyword dictionaries that drive a prospect scan.
//
// A Rules value is plain data that can be loaded from YAML. Compile validates it and
// produces an immutable Set that every pipeline stage shares by pointer.
package rules

// Weights are the component weights applied to the base score.
type Weights struct {
	HiringVelocity      float64 `yaml:"hiring_velocity" json:"hiring_velocity"`
	GrowthSignals       float64 `yaml:"growth_signals" json:"growth_signals"`
	ExpansionIndicators float64 `yaml:"expansion_indicators" json:"expansion_indicators"`
	OperationalMaturity float64 `yaml:"operational_maturity" json:"operational_maturity"`
}

// Sum returns the sum of all component weights.
func (w Weights) Sum() float64 {
	return w.HiringVelocity + w.GrowthSignals + w.ExpansionIndicators + w.OperationalMaturity
}

// Threshold awards Points once a company has at least MinListings listings.
type Threshold struct {
	MinListings int     `yaml:"min_listings" json:"min_listings"`
	Points      float64 `yaml:"points" json:"points"`
}

// Multipliers configures the multiplicative score boosts.
type Multipliers struct {
	ExpansionLanguage float64 `yaml:"expansion_language" json:"expansion_language"`
	CrossFunctional   float64 `yaml:"cross_functional" json:"cross_functional"`
	StressSignals     float64 `yaml:"stress_signals" json:"stress_signals"`
	StressMinCount    int     `yaml:"stress_min_count" json:"stress_min_count"`
}

// TierBoundaries are the inclusive lower bounds of each tier.
type TierBoundaries struct {
	Hot       float64 `yaml:"hot" json:"hot"`
	Qualified float64 `yaml:"qualified" json:"qualified"`
	Potential float64 `yaml:"potential" json:"potential"`
}

// Category maps a named bucket to the keywords that identify it.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Pattern is a named regular expression.
type Pattern struct {
	Name  string `yaml:"name" json:"name"`
	Regex string `yaml:"regex" json:"regex"`
}

// Rules holds every tunable of a scan.
type Rules struct {
	// Quality filter.
	MinTitleLength    int      `yaml:"min_title_length" json:"min_title_length"`
	MinAlphaRun       int      `yaml:"min_alpha_run" json:"min_alpha_run"`
	MinAlphaCharCount int      `yaml:"min_alpha_char_count" json:"min_alpha_char_count"`
	SpamPhrases       []string `yaml:"spam_phrases" json:"spam_phrases"`
	KnownLocations    []string `yaml:"known_locations" json:"known_locations"`

	// Normalizer.
	CompanyNamePatterns []string `yaml:"company_name_patterns" json:"company_name_patterns"`
	LegalSuffixes       []string `yaml:"legal_suffixes" json:"legal_suffixes"`
	// NameStopwords are words that never make a company name on their own. A key
	// made only of these is discarded.
	NameStopwords       []string `yaml:"name_stopwords" json:"name_stopwords"`
	MinCompanyKeyLength int      `yaml:"min_company_key_length" json:"min_company_key_length"`

	// Grouping and selection.
	MinListingsPerCompany int `yaml:"min_listings_per_company" json:"min_listings_per_company"`
	TopN                  int `yaml:"top_n" json:"top_n"`
	EvidenceCap           int `yaml:"evidence_cap" json:"evidence_cap"`

	// Scoring.
	Weights            Weights        `yaml:"weights" json:"weights"`
	VelocityThresholds []Threshold    `yaml:"velocity_thresholds" json:"velocity_thresholds"`
	Multipliers        Multipliers    `yaml:"multipliers" json:"multipliers"`
	Tiers              TierBoundaries `yaml:"tiers" json:"tiers"`
	RedFlagPatterns    []Pattern      `yaml:"red_flag_patterns" json:"red_flag_patterns"`
	RedFlagThreshold   int            `yaml:"red_flag_threshold" json:"red_flag_threshold"`

	// Signal dictionaries.
	JobCategories               []Category `yaml:"job_categories" json:"job_categories"`
	ExpansionPhrases            []string   `yaml:"expansion_phrases" json:"expansion_phrases"`
	RevenueRoles                []Category `yaml:"revenue_roles" json:"revenue_roles"`
	VolumePatterns              []Pattern  `yaml:"volume_patterns" json:"volume_patterns"`
	VolumeKeywords              []string   `yaml:"volume_keywords" json:"volume_keywords"`
	StressPhrases               []string   `yaml:"stress_phrases" json:"stress_phrases"`
	TechCategories              []Category `yaml:"tech_categories" json:"tech_categories"`
	StructuredRecruitingPhrases []string   `yaml:"structured_recruiting_phrases" json:"structured_recruiting_phrases"`
}
