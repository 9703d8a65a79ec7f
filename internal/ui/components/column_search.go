package components

import (
	"strings"
	"unicode"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
)

// SearchQuery represents a parsed search query
type SearchQuery struct {
	Pattern    string // The search pattern (after removing prefix/type)
	Negate     bool   // True if query starts with !
	TypeFilter string // "numeric", "text" or empty
}

const (
	typeNumeric = "numeric"
	typeText    = "text"
)

// Longest first so "num:" wins over "n:"
var typePrefixes = []struct {
	prefix   string
	typeName string
}{
	{"numeric:", typeNumeric},
	{"text:", typeText},
	{"num:", typeNumeric},
	{"txt:", typeText},
	{"n:", typeNumeric},
	{"t:", typeText},
}

// ParseSearchQuery parses a search query string into structured form
// Examples:
//   - "quota" → {Pattern: "quota"}
//   - "!z-score" → {Pattern: "z-score", Negate: true}
//   - "n:rit" → {Pattern: "rit", TypeFilter: "numeric"}
//   - "!t:squadra" → {Pattern: "squadra", Negate: true, TypeFilter: "text"}
func ParseSearchQuery(query string) SearchQuery {
	q := SearchQuery{}

	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = query[1:]
	}

	queryLower := strings.ToLower(query)
	for _, p := range typePrefixes {
		if strings.HasPrefix(queryLower, p.prefix) {
			q.TypeFilter = p.typeName
			query = query[len(p.prefix):]
			break
		}
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs case-insensitive subsequence matching.
// Positions are rune indexes into target.
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	p := []rune(strings.ToLower(pattern))
	positions := make([]int, 0, len(p))
	pi := 0

	for i, r := range []rune(target) {
		if pi == len(p) {
			break
		}
		if unicode.ToLower(r) == p[pi] {
			positions = append(positions, i)
			pi++
		}
	}

	if pi == len(p) {
		return true, positions
	}
	return false, nil
}

// ColumnMatchesType checks a column against a type filter.
// Empty filter matches all columns.
func ColumnMatchesType(col dataset.Column, typeFilter string) bool {
	switch typeFilter {
	case "":
		return true
	case typeNumeric:
		return col.Type == dataset.Numeric
	case typeText:
		return col.Type == dataset.Textual
	}
	return false
}

// FilterColumns returns the columns matching query, keeping their order
func FilterColumns(columns []dataset.Column, query SearchQuery) []dataset.Column {
	var matches []dataset.Column
	for _, col := range columns {
		typeMatches := ColumnMatchesType(col, query.TypeFilter)
		patternMatches, _ := FuzzyMatch(query.Pattern, col.Name)

		include := typeMatches && patternMatches
		if query.Negate {
			switch {
			case query.TypeFilter != "" && query.Pattern == "":
				include = !typeMatches
			case query.TypeFilter != "":
				include = typeMatches && !patternMatches
			default:
				include = !patternMatches
			}
		}
		if include {
			matches = append(matches, col)
		}
	}
	return matches
}

// FilterValues returns the values containing pattern as a fuzzy subsequence
func FilterValues(values []string, pattern string) []string {
	if pattern == "" {
		return values
	}
	var out []string
	for _, v := range values {
		if ok, _ := FuzzyMatch(pattern, v); ok {
			out = append(out, v)
		}
	}
	return out
}
