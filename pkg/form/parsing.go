package form

import "strings"

// Legacy submissions stored metrics, team members and references as
// plain strings. The parsers below recover structure from those strings
// on a best-effort basis; anything unrecoverable is dropped rather than
// surfaced as an error.

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// parseMetricEntry splits a free-text metric line into label and value.
// The token containing a digit is taken as the value. When both ends of
// the line carry digits the trailing token wins: legacy entries were
// written "MRR 12k" far more often than "12k MRR".
func parseMetricEntry(s string) (Metric, bool) {
	tokens := strings.Fields(strings.TrimSpace(s))
	if len(tokens) == 0 {
		return Metric{}, false
	}
	if len(tokens) == 1 {
		if containsDigit(tokens[0]) {
			return Metric{Value: tokens[0]}, true
		}
		return Metric{Metric: tokens[0]}, true
	}
	if containsDigit(tokens[len(tokens)-1]) {
		return Metric{
			Metric: strings.Join(tokens[:len(tokens)-1], " "),
			Value:  tokens[len(tokens)-1],
		}, true
	}
	if containsDigit(tokens[0]) {
		return Metric{
			Metric: strings.Join(tokens[1:], " "),
			Value:  tokens[0],
		}, true
	}
	// A digit somewhere in the middle: everything from that token on is
	// the value ("users over 10 000" style).
	for i, tok := range tokens {
		if containsDigit(tok) {
			return Metric{
				Metric: strings.Join(tokens[:i], " "),
				Value:  strings.Join(tokens[i:], " "),
			}, true
		}
	}
	return Metric{Metric: strings.Join(tokens, " ")}, true
}

// parseReferenceEntry splits "Name, relationship" on the first comma.
// Without a comma the whole string becomes the name.
func parseReferenceEntry(s string) (Reference, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reference{}, false
	}
	if i := strings.Index(s, ","); i >= 0 {
		return Reference{
			Name:         strings.TrimSpace(s[:i]),
			Relationship: strings.TrimSpace(s[i+1:]),
		}, true
	}
	return Reference{Name: s}, true
}

// parseMemberEntry recovers a team member from a legacy string. The
// historical format was "Name - role" or just a name; background never
// survived the old encoding, so these entries stay incomplete until the
// user re-enters them.
func parseMemberEntry(s string) (Member, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Member{}, false
	}
	if i := strings.Index(s, " - "); i >= 0 {
		return Member{
			Name: strings.TrimSpace(s[:i]),
			Role: strings.TrimSpace(s[i+3:]),
		}, true
	}
	return Member{Name: s}, true
}
