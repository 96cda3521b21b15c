package filter

import (
	"strings"

	"storysift/internal/types"
)

// Alias priority lists for the four canonical fields. Earlier entries win.
// Matching is case-insensitive and exact after trimming.
var (
	idAliases          = []string{"user story id", "story id", "us id", "id", "key"}
	descriptionAliases = []string{"user story description", "description", "user story", "story", "summary", "desc"}
	topicAliases       = []string{"topic group", "topic", "group", "category", "theme"}
	numberAliases      = []string{"no", "no.", "number", "nr", "#", "seq"}
)

// Resolve returns the index of the first column whose lowercased name
// equals an alias, checking aliases in priority order (first alias with
// any match wins, not first column in table order). Returns -1 when no
// alias matches.
func Resolve(columns []string, aliases []string) int {
	lowered := make([]string, len(columns))
	for i, c := range columns {
		lowered[i] = strings.ToLower(strings.TrimSpace(c))
	}

	for _, alias := range aliases {
		for i, c := range lowered {
			if c == alias {
				return i
			}
		}
	}
	return -1
}

// DefaultMapping pre-selects a column for each canonical field by alias
// lookup. Fields with no alias match stay -1 so the caller must ask the
// user for an explicit choice; there is no positional guess.
func DefaultMapping(columns []string) types.ColumnMapping {
	return types.ColumnMapping{
		ID:          Resolve(columns, idAliases),
		Description: Resolve(columns, descriptionAliases),
		Topic:       Resolve(columns, topicAliases),
		Number:      Resolve(columns, numberAliases),
	}
}
