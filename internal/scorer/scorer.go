// Package scorer computes the explainable composite score of a grouped company.
//
// Four components are each capped to 0-100 and combined with the configured weights
// into a base score. Qualitative multipliers then compound on the base score and the
// result is clamped to 100. A disqualified company always scores 0 and lands in SKIP.
package scorer

import (
	"math"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// lowConfidenceMajority is the share of placeholder-keyed listings above which a
// company is disqualified.
const lowConfidenceMajority = 0.5

// Compute scores a company from its listing count, extracted signals, matched red
// flags and the share of its listings grouped with low confidence.
func Compute(listingCount int, s model.SignalSet, redFlags []string, lowConfidenceShare float64, set *rules.Set) model.Score {
	r := set.Rules()
	weights := map[string]float64{
		model.ComponentHiringVelocity:      r.Weights.HiringVelocity,
		model.ComponentGrowthSignals:       r.Weights.GrowthSignals,
		model.ComponentExpansionIndicators: r.Weights.ExpansionIndicators,
		model.ComponentOperationalMaturity: r.Weights.OperationalMaturity,
	}

	components := map[string]float64{
		model.ComponentHiringVelocity:      clamp(HiringVelocity(listingCount, r.VelocityThresholds)),
		model.ComponentGrowthSignals:       GrowthSignals(s),
		model.ComponentExpansionIndicators: ExpansionIndicators(s),
		model.ComponentOperationalMaturity: OperationalMaturity(s),
	}

	var base float64
	for _, name := range componentOrder {
		base += components[name] * weights[name]
	}

	factor := 1.0
	var applied []string
	if s.ExpansionLanguageFound {
		factor *= r.Multipliers.ExpansionLanguage
		applied = append(applied, model.MultiplierExpansionLanguage)
	}
	if s.CrossFunctionalHiring {
		factor *= r.Multipliers.CrossFunctional
		applied = append(applied, model.MultiplierCrossFunctional)
	}
	if s.StressSignalCount >= r.Multipliers.StressMinCount {
		factor *= r.Multipliers.StressSignals
		applied = append(applied, model.MultiplierStressSignals)
	}

	score := model.Score{
		Components:       components,
		Weights:          weights,
		BaseScore:        round2(base),
		Multipliers:      applied,
		MultiplierFactor: factor,
	}

	// Disqualification forces a zero final score but keeps the breakdown.
	if len(redFlags) >= r.RedFlagThreshold {
		score.DisqualifyReasons = append(score.DisqualifyReasons, model.DisqualifyRedFlags)
	}
	if lowConfidenceShare > lowConfidenceMajority {
		score.DisqualifyReasons = append(score.DisqualifyReasons, model.DisqualifyLowConfidence)
	}
	if len(score.DisqualifyReasons) > 0 {
		score.Disqualified = true
		score.Tier = model.TierSkip
		return score
	}

	score.FinalScore = round2(clamp(base * factor))
	score.Tier = TierFor(score.FinalScore, r.Tiers)
	return score
}

// componentOrder fixes the summation order so the base score is reproducible
// to the last bit.
var componentOrder = []string{
	model.ComponentHiringVelocity,
	model.ComponentGrowthSignals,
	model.ComponentExpansionIndicators,
	model.ComponentOperationalMaturity,
}

// TierFor maps a final score to its tier. Lower bounds are inclusive.
func TierFor(score float64, b rules.TierBoundaries) model.Tier {
	switch {
	case score >= b.Hot:
		return model.TierHot
	case score >= b.Qualified:
		return model.TierQualified
	case score >= b.Potential:
		return model.TierPotential
	default:
		return model.TierSkip
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
