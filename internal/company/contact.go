package company

import (
	"regexp"
	"sort"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?[2-9]\d{2}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	emailPattern = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9-]+(?:\.[a-z0-9-]+)*\.[a-z]{2,}`)
)

// ExtractContacts returns the distinct phone numbers and email addresses found in text,
// sorted. Phones are normalized to +1XXXXXXXXXX and emails are lowercased.
func ExtractContacts(text string) []string {
	if text == "" {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		// Reject matches that are part of a longer digit run.
		if loc[0] > 0 && isDigit(text[loc[0]-1]) {
			continue
		}
		if loc[1] < len(text) && isDigit(text[loc[1]]) {
			continue
		}
		digits := onlyDigits(text[loc[0]:loc[1]])
		if len(digits) == 11 && digits[0] == '1' {
			digits = digits[1:]
		}
		if len(digits) != 10 {
			continue
		}
		add("+1" + digits)
	}

	for _, m := range emailPattern.FindAllString(text, -1) {
		add(strings.ToLower(strings.TrimRight(m, ".")))
	}

	sort.Strings(out)
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func onlyDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
