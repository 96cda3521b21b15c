package filter

import "strings"

// DefaultKeywords seeds the keyword input on a fresh session.
const DefaultKeywords = "security, masking, privacy"

// ParseKeywords splits a comma-separated keyword string, trims each
// entry, drops empties, and lowercases the rest. An empty result means
// the input had no usable keywords and filtering must be rejected.
func ParseKeywords(s string) []string {
	var keywords []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			keywords = append(keywords, strings.ToLower(part))
		}
	}
	return keywords
}
