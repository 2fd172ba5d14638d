package model

// Company is a bucket of listings believed to belong to the same employer.
// It is built once per scan by the grouper and not mutated afterwards.
type Company struct {
	Key         string              `json:"key"`
	DisplayName string              `json:"display_name"`
	Listings    []NormalizedListing `json:"listings"`
	Contacts    []string            `json:"contacts,omitempty"`
	Locations   []string            `json:"locations,omitempty"`
}

// ListingCount returns the number of listings grouped into the company.
func (c *Company) ListingCount() int {
	return len(c.Listings)
}

// LowConfidenceShare returns the fraction of listings whose company key is a placeholder.
func (c *Company) LowConfidenceShare() float64 {
	if len(c.Listings) == 0 {
		return 0
	}
	n := 0
	for i := range c.Listings {
		if c.Listings[i].LowConfidenceGrouping {
			n++
		}
	}
	return float64(n) / float64(len(c.Listings))
}
