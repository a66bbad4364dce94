package service

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/finadvisor/internal/finance"
)

const (
	maxCategoryDistance  = 2
	minFuzzyCategoryRune = 5
)

// MatchCategory maps a user supplied category onto the catalog spelling. Exact
// case-insensitive matches win; otherwise a catalog entry of the same type within
// a small edit distance is used. Unmatched names are returned trimmed.
func MatchCategory(name string, typ finance.Type, catalog []finance.Category) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	for _, c := range catalog {
		if strings.ToLower(c.Name) == lower {
			return c.Name
		}
	}
	if utf8.RuneCountInString(name) < minFuzzyCategoryRune {
		return name
	}
	best, bestDist := "", maxCategoryDistance+1
	for _, c := range catalog {
		if typ != "" && c.Type != typ {
			continue
		}
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c.Name))
		if d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	if best == "" {
		return name
	}
	return best
}
