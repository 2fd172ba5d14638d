// Package model defines the data types shared by the prospect scan engine.
package model

import "time"

// RawListing is a single scraped job posting as supplied by an external collector.
type RawListing struct {
	Title          string     `json:"title" yaml:"title"`
	URL            string     `json:"url" yaml:"url"`
	CompanyNameRaw *string    `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	LocationRaw    string     `json:"location" yaml:"location"`
	Description    string     `json:"description" yaml:"description"`
	Category       string     `json:"category,omitempty" yaml:"category,omitempty"`
	PostedAt       *time.Time `json:"posted_at,omitempty" yaml:"posted_at,omitempty"`
}

// CompanyName returns the raw company-name candidate, or "" when absent.
func (r RawListing) CompanyName() string {
	if r.CompanyNameRaw == nil {
		return ""
	}
	return *r.CompanyNameRaw
}

// NormalizedListing is a RawListing after cleaning and grouping-key derivation.
type NormalizedListing struct {
	Raw                   RawListing `json:"raw"`
	Title                 string     `json:"title"`
	CompanyKey            string     `json:"company_key"`
	CompanyName           string     `json:"company_name,omitempty"`
	Text                  string     `json:"text"`
	Location              string     `json:"location,omitempty"`
	LowConfidenceGrouping bool       `json:"low_confidence_grouping"`
}
