package scorer

import (
	"math"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// HiringVelocity returns the points of the highest threshold the listing count
// reaches. Thresholds must be ascending by MinListings.
func HiringVelocity(count int, thresholds []rules.Threshold) float64 {
	var points float64
	for _, t := range thresholds {
		if count < t.MinListings {
			break
		}
		points = t.Points
	}
	return points
}

// GrowthSignals scores cross-functional hiring, revenue roles, volume and stress.
func GrowthSignals(s model.SignalSet) float64 {
	var v float64
	if s.CrossFunctionalHiring {
		v += 30
	}
	v += math.Min(float64(s.RevenueRoleCount)*10, 30)
	if s.HighVolumeHiringDetected {
		v += 20
	}
	v += math.Min(float64(s.StressSignalCount)*10, 20)
	return clamp(v)
}

// ExpansionIndicators scores expansion language and multi-location presence.
func ExpansionIndicators(s model.SignalSet) float64 {
	var v float64
	if s.ExpansionLanguageFound {
		v += 50
		if s.ExpansionPhraseCount >= 3 {
			v += 20
		}
	}
	if s.MultiLocationDetected {
		v += 30
	}
	return clamp(v)
}

// OperationalMaturity scores tool adoption and structured recruiting.
func OperationalMaturity(s model.SignalSet) float64 {
	v := math.Min(float64(s.TechAdoptionCategoryCount)*10, 40)
	if s.StructuredRecruitingDetected {
		v += 40
	}
	return clamp(v)
}
