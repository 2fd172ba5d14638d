// Package quality rejects spam and garbage listings before grouping.
package quality

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// Reason codes for rejected listings.
const (
	ReasonTooShort      = "TooShort"
	ReasonNonAlphabetic = "NonAlphabetic"
	ReasonSpamKeyword   = "SpamKeyword"
	ReasonLocationOnly  = "LocationOnly"
	ReasonTooFewLetters = "TooFewLetters"
)

// Reasons lists every reason code in check order.
var Reasons = []string{
	ReasonLocationOnly,
	ReasonTooShort,
	ReasonNonAlphabetic,
	ReasonTooFewLetters,
	ReasonSpamKeyword,
}

// Rejection pairs a rejected listing with its reason code.
type Rejection struct {
	Listing model.NormalizedListing
	Reason  string
}

// Result is the outcome of filtering a batch.
type Result struct {
	Accepted []model.NormalizedListing
	Rejected []Rejection
	Counts   map[string]int
}

// Check returns the reason a listing should be rejected, or "" and true if it passes.
func Check(l *model.NormalizedListing, set *rules.Set) (string, bool) {
	r := set.Rules()
	title := strings.TrimSpace(l.Title)
	folded := normalize.Fold(title)

	if isLocationOnly(folded, l.Location, set) {
		return ReasonLocationOnly, false
	}
	if len([]rune(title)) < r.MinTitleLength {
		return ReasonTooShort, false
	}
	if normalize.LongestAlphaRun(title) < r.MinAlphaRun {
		return ReasonNonAlphabetic, false
	}
	if normalize.AlphaCount(title) < r.MinAlphaCharCount {
		return ReasonTooFewLetters, false
	}
	for _, phrase := range set.SpamPhrases {
		if strings.Contains(folded, phrase) || strings.Contains(l.Text, phrase) {
			return ReasonSpamKeyword, false
		}
	}
	return "", true
}

// isLocationOnly reports whether the title is nothing but a place name.
func isLocationOnly(folded, location string, set *rules.Set) bool {
	t := strings.Trim(folded, " .,;:-")
	if t == "" {
		return false
	}
	if set.KnownLocations[t] {
		return true
	}
	if location != "" && (t == location || t == strings.ReplaceAll(location, ",", "")) {
		return true
	}
	// "Houston, TX" style titles: every comma part must be a known location or a
	// two-letter region code.
	parts := strings.Split(t, ",")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !set.KnownLocations[p] && !(len(p) == 2 && normalize.AlphaCount(p) == 2) {
			return false
		}
	}
	return true
}

// Filter checks every listing and returns the accepted ones plus per-reason counts.
// Accepted listings are returned unchanged.
func Filter(listings []model.NormalizedListing, set *rules.Set) Result {
	reasons := make([]string, len(listings))
	for i := range listings {
		reasons[i], _ = Check(&listings[i], set)
	}
	return Assemble(listings, reasons)
}

// Assemble builds a Result from listings and their precomputed reasons, where an empty
// reason means the listing passed. Input order is preserved.
func Assemble(listings []model.NormalizedListing, reasons []string) Result {
	res := Result{
		Accepted: make([]model.NormalizedListing, 0, len(listings)),
		Counts:   make(map[string]int),
	}
	for i := range listings {
		if reasons[i] == "" {
			res.Accepted = append(res.Accepted, listings[i])
			continue
		}
		res.Rejected = append(res.Rejected, Rejection{Listing: listings[i], Reason: reasons[i]})
		res.Counts[reasons[i]]++
	}

	zap.L().Debug("quality: filter complete",
		zap.Int("accepted", len(res.Accepted)),
		zap.Int("rejected", len(res.Rejected)),
	)
	return res
}
