package export

import (
	"strconv"
	"strings"

	"github.com/sells-group/prospect-cli/internal/model"
)

// leadColumns defines the ordered CSV and XLSX lead columns.
var leadColumns = []string{
	"Rank",
	"Company Key",
	"Company",
	"Listings",
	"Final Score",
	"Tier",
	"Base Score",
	"Multiplier",
	"Hiring Velocity",
	"Growth Signals",
	"Expansion Indicators",
	"Operational Maturity",
	"Multipliers Applied",
	"Job Categories",
	"Expansion Evidence",
	"Revenue Roles",
	"High Volume Hiring",
	"Volume Evidence",
	"Stress Evidence",
	"Tech Categories",
	"Structured Recruiting",
	"Multi Location",
	"Locations",
	"Contacts",
	"Red Flags",
}

// buildLeadRow maps a ranked company to a lead row.
func buildLeadRow(rc *model.RankedCompany) []string {
	s := rc.Signals
	sc := rc.Score

	return []string{
		strconv.Itoa(rc.Rank),                                          // Rank
		rc.CompanyKey,                                                  // Company Key
		rc.DisplayName,                                                 // Company
		strconv.Itoa(rc.ListingCount),                                  // Listings
		formatScore(sc.FinalScore),                                     // Final Score
		string(sc.Tier),                                                // Tier
		formatScore(sc.BaseScore),                                      // Base Score
		formatScore(sc.MultiplierFactor),                               // Multiplier
		formatScore(sc.Components[model.ComponentHiringVelocity]),      // Hiring Velocity
		formatScore(sc.Components[model.ComponentGrowthSignals]),       // Growth Signals
		formatScore(sc.Components[model.ComponentExpansionIndicators]), // Expansion Indicators
		formatScore(sc.Components[model.ComponentOperationalMaturity]), // Operational Maturity
		joinList(sc.Multipliers),                                       // Multipliers Applied
		joinList(s.JobCategories),                                      // Job Categories
		joinList(s.ExpansionEvidence),                                  // Expansion Evidence
		joinList(s.RevenueRoles),                                       // Revenue Roles
		strconv.FormatBool(s.HighVolumeHiringDetected),                 // High Volume Hiring
		joinList(s.VolumeEvidence),                                     // Volume Evidence
		joinList(s.StressEvidence),                                     // Stress Evidence
		joinList(s.TechCategories),                                     // Tech Categories
		strconv.FormatBool(s.StructuredRecruitingDetected),             // Structured Recruiting
		strconv.FormatBool(s.MultiLocationDetected),                    // Multi Location
		joinList(rc.Locations),                                         // Locations
		joinList(rc.ContactIdentifiers),                                // Contacts
		joinList(rc.RedFlags),                                          // Red Flags
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func joinList(items []string) string {
	return strings.Join(items, "; ")
}
