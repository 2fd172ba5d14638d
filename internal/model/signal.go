package model

// SignalSet holds the business signals extracted from a company's listing text.
type SignalSet struct {
	CrossFunctionalHiring bool     `json:"cross_functional_hiring"`
	JobCategories         []string `json:"job_categories,omitempty"`

	ExpansionLanguageFound bool     `json:"expansion_language_found"`
	ExpansionPhraseCount   int      `json:"expansion_phrase_count"`
	ExpansionEvidence      []string `json:"expansion_evidence,omitempty"`

	RevenueRoleCount int      `json:"revenue_role_count"`
	RevenueRoles     []string `json:"revenue_roles,omitempty"`

	HighVolumeHiringDetected bool     `json:"high_volume_hiring_detected"`
	VolumeEvidence           []string `json:"volume_evidence,omitempty"`

	StressSignalCount int      `json:"stress_signal_count"`
	StressEvidence    []string `json:"stress_evidence,omitempty"`

	TechAdoptionCategoryCount int      `json:"tech_adoption_category_count"`
	TechCategories            []string `json:"tech_categories,omitempty"`

	StructuredRecruitingDetected bool `json:"structured_recruiting_detected"`
	MultiLocationDetected        bool `json:"multi_location_detected"`

	ContactIdentifiers []string `json:"contact_identifiers,omitempty"`
}
