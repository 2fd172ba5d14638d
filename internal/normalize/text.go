package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quoteReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\u2018", "'", "\u2019", "'",
	"\u201c", `"`, "\u201d", `"`,
	"\u2013", "-", "\u2014", "-",
)

// CleanText replaces typographic characters and collapses whitespace.
func CleanText(s string) string {
	s = quoteReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Fold cleans s, strips diacritics and lowercases it.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, CleanText(s))
	if err != nil {
		out = CleanText(s)
	}
	return strings.ToLower(out)
}

// Location normalizes a raw location string: labels are dropped, comma-separated parts
// are folded and de-duplicated.
func Location(raw string) string {
	loc := CleanText(raw)
	if loc == "" {
		return ""
	}
	low := strings.ToLower(loc)
	for _, label := range []string{"job location:", "locations:", "location:"} {
		if strings.HasPrefix(low, label) {
			loc = loc[len(label):]
			break
		}
	}

	seen := map[string]bool{}
	var out []string
	for _, p := range strings.Split(loc, ",") {
		p = Fold(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// AlphaCount returns the number of letters in s.
func AlphaCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// LongestAlphaRun returns the length of the longest run of consecutive letters in s.
func LongestAlphaRun(s string) int {
	longest, cur := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			cur++
			if cur > longest {
				longest = cur
			}
			continue
		}
		cur = 0
	}
	return longest
}
