// Package normalize cleans raw job listings and derives the key used to group them.
package normalize

import (
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/rules"
)

// PlaceholderPrefix marks company keys derived from location because no name was found.
const PlaceholderPrefix = "loc:"

// ErrMalformedRecord is returned by Validate for listings missing a title or URL.
var ErrMalformedRecord = eris.New("normalize: malformed record")

// Validate reports whether raw carries the fields every listing needs.
func Validate(raw model.RawListing) error {
	if strings.TrimSpace(raw.Title) == "" {
		return eris.Wrap(ErrMalformedRecord, "missing title")
	}
	if strings.TrimSpace(raw.URL) == "" {
		return eris.Wrap(ErrMalformedRecord, "missing url")
	}
	return nil
}

// IsPlaceholder reports whether key is a location-derived placeholder.
func IsPlaceholder(key string) bool {
	return strings.HasPrefix(key, PlaceholderPrefix)
}

// Normalize produces a best-effort NormalizedListing. It never fails.
func Normalize(raw model.RawListing, set *rules.Set) model.NormalizedListing {
	title := CleanText(raw.Title)
	loc := Location(raw.LocationRaw)

	n := model.NormalizedListing{
		Raw:      raw,
		Title:    title,
		Text:     Fold(strings.Join([]string{raw.Title, raw.Category, raw.Description}, " ")),
		Location: loc,
	}

	name, key := companyName(raw, set)
	if key == "" {
		n.CompanyKey = placeholderKey(loc)
		n.LowConfidenceGrouping = true
		return n
	}
	n.CompanyName = name
	n.CompanyKey = key
	return n
}

// companyName returns the first name candidate that yields a usable key.
func companyName(raw model.RawListing, set *rules.Set) (string, string) {
	if name := CleanText(raw.CompanyName()); name != "" {
		if key := CompanyKey(name, set); usableKey(key, set) {
			return name, key
		}
	}

	sources := []string{CleanText(raw.Title), CleanText(raw.Description)}
	for _, re := range set.NamePatterns {
		for _, src := range sources {
			if src == "" {
				continue
			}
			for _, m := range re.FindAllStringSubmatch(src, -1) {
				name := strings.TrimRight(strings.TrimSpace(m[1]), ".,;:!-")
				if key := CompanyKey(name, set); usableKey(key, set) {
					return name, key
				}
			}
		}
	}
	return "", ""
}

// usableKey reports whether key can identify a company. Keys that are too short,
// name a known location or consist only of stopwords ("our", "home") are boilerplate.
func usableKey(key string, set *rules.Set) bool {
	if key == "" || len(key) < set.MinCompanyKeyLength() || set.KnownLocations[key] {
		return false
	}
	for _, w := range strings.Fields(key) {
		if !set.NameStopwords[w] {
			return true
		}
	}
	return false
}

var keyStripper = strings.NewReplacer(".", "", "'", "", "&", " and ")

// CompanyKey derives a case- and whitespace-insensitive grouping key from a name.
// Trailing legal suffixes are dropped.
func CompanyKey(name string, set *rules.Set) string {
	s := keyStripper.Replace(Fold(name))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for len(fields) > 1 && set.LegalSuffixes[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

func placeholderKey(loc string) string {
	if loc == "" {
		return PlaceholderPrefix + "unknown"
	}
	return PlaceholderPrefix + loc
}
