package model

// Tier is the priority bucket derived from a final score.
type Tier string

const (
	TierHot       Tier = "HOT"
	TierQualified Tier = "QUALIFIED"
	TierPotential Tier = "POTENTIAL"
	TierSkip      Tier = "SKIP"
)

// Tiers lists every tier from highest to lowest priority.
var Tiers = []Tier{TierHot, TierQualified, TierPotential, TierSkip}

// Score component names.
const (
	ComponentHiringVelocity      = "hiring_velocity"
	ComponentGrowthSignals       = "growth_signals"
	ComponentExpansionIndicators = "expansion_indicators"
	ComponentOperationalMaturity = "operational_maturity"
)

// Multiplier names.
const (
	MultiplierExpansionLanguage = "expansion_language"
	MultiplierCrossFunctional   = "cross_functional"
	MultiplierStressSignals     = "stress_signals"
)

// Disqualification reason codes.
const (
	DisqualifyRedFlags      = "red_flags"
	DisqualifyLowConfidence = "low_confidence_grouping"
)

// Score is the explainable scoring outcome for one company.
type Score struct {
	Components        map[string]float64 `json:"components"`
	Weights           map[string]float64 `json:"weights"`
	BaseScore         float64            `json:"base_score"`
	Multipliers       []string           `json:"multipliers,omitempty"`
	MultiplierFactor  float64            `json:"multiplier_factor"`
	FinalScore        float64            `json:"final_score"`
	Tier              Tier               `json:"tier"`
	Disqualified      bool               `json:"disqualified"`
	DisqualifyReasons []string           `json:"disqualify_reasons,omitempty"`
}
