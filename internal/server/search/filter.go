// Package search implements term filtering over in-memory candidates.
// The SQLite store offers the same contract server-side through
// storage.UserQuery and storage.PostQuery terms.
package search

import "strings"

// Searchable exposes the fields a term is matched against
type Searchable interface {
	SearchFields() []string
}

// Filter keeps candidates where any term is contained, case-insensitively,
// in any searchable field. No terms returns candidates unchanged.
func Filter[T Searchable](candidates []T, terms []string) []T {
	terms = normalize(terms)
	if len(terms) == 0 {
		return candidates
	}

	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if matches(c, terms) {
			out = append(out, c)
		}
	}
	return out
}

// ParseTerms splits a free-text query on whitespace
func ParseTerms(q string) []string {
	return normalize(strings.Fields(q))
}

func matches(c Searchable, terms []string) bool {
	for _, field := range c.SearchFields() {
		field = strings.ToLower(field)
		for _, term := range terms {
			if strings.Contains(field, term) {
				return true
			}
		}
	}
	return false
}

// normalize lowercases terms and drops blanks
func normalize(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
