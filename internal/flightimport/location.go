package flightimport

import (
	"regexp"
	"strings"
)

// parenRegex strips parenthetical qualifiers such as airport codes:
// "Tokyo (NRT)" -> "Tokyo".
var parenRegex = regexp.MustCompile(`\s*\([^)]*\)`)

// normalizeLocation prepares a free-text location for fuzzy comparison:
// parenthetical codes are removed, a trailing country qualifier is dropped
// ("Paris, France" -> "paris"), and the result is lower-cased and trimmed.
func normalizeLocation(s string) string {
	s = parenRegex.ReplaceAllString(s, "")
	s = strings.ToLower(strings.TrimSpace(s))

	// Drop the final comma-delimited token when there is more than one;
	// booking locations carry the country last.
	if parts := strings.Split(s, ","); len(parts) > 1 {
		s = strings.Join(parts[:len(parts)-1], ",")
	}

	return strings.TrimSpace(strings.Trim(s, ","))
}

// cityName extracts a bare city name from a location string: parenthetical
// codes are stripped and everything after the first comma is dropped.
// "Tokyo Narita (NRT), Japan" -> "Tokyo Narita".
func cityName(s string) string {
	s = parenRegex.ReplaceAllString(s, "")
	if idx := strings.Index(s, ","); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// locationsMatch reports whether two free-text locations plausibly refer to
// the same place: equal after normalization, one contains the other, or
// their leading comma-delimited city tokens match.
func locationsMatch(a, b string) bool {
	na, nb := normalizeLocation(a), normalizeLocation(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb || strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	ca := strings.TrimSpace(strings.SplitN(na, ",", 2)[0])
	cb := strings.TrimSpace(strings.SplitN(nb, ",", 2)[0])
	return ca != "" && ca == cb
}
