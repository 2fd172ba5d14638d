package model

import "time"

// RankedCompany is the output projection of a scored company.
type RankedCompany struct {
	Rank               int       `json:"rank"`
	CompanyKey         string    `json:"company_key"`
	DisplayName        string    `json:"display_name"`
	ListingCount       int       `json:"listing_count"`
	Locations          []string  `json:"locations,omitempty"`
	Signals            SignalSet `json:"signals"`
	RedFlags           []string  `json:"red_flags,omitempty"`
	Score              Score     `json:"score"`
	ContactIdentifiers []string  `json:"contact_identifiers,omitempty"`
}

// Summary holds run-level counts for a scan.
type Summary struct {
	TotalListingsIn        int            `json:"total_listings_in"`
	MalformedSkipped       int            `json:"malformed_skipped"`
	TruncatedByBudget      int            `json:"truncated_by_budget"`
	TotalAccepted          int            `json:"total_accepted"`
	RejectedByReason       map[string]int `json:"rejected_by_reason"`
	TotalCompaniesFormed   int            `json:"total_companies_formed"`
	TotalCompaniesEligible int            `json:"total_companies_eligible"`
	CountsByTier           map[Tier]int   `json:"counts_by_tier"`
}

// TotalRejected returns the number of listings rejected by the quality filter.
func (s *Summary) TotalRejected() int {
	n := 0
	for _, c := range s.RejectedByReason {
		n += c
	}
	return n
}

// ScanResult is the complete output of one scan.
type ScanResult struct {
	Top     []RankedCompany `json:"top"`
	All     []RankedCompany `json:"all"`
	Summary Summary         `json:"summary"`
}

// ScanRecord is an archived scan.
type ScanRecord struct {
	ID        string      `json:"id"`
	Label     string      `json:"label,omitempty"`
	RulesHash string      `json:"rules_hash"`
	Result    *ScanResult `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
