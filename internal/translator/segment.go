package translator

import (
	"regexp"
	"strings"
)

var connectorPattern = regexp.MustCompile(`\band\b|\bwith\b|,`)

// Segment splits a normalized query into clauses on the connectives "and",
// "with" and commas. The "and" inside a "between Xk and Yk" phrase is not a
// connective. Clauses are trimmed and empty ones dropped.
func Segment(s string) []string {
	protected := betweenPattern.FindAllStringIndex(s, -1)

	var clauses []string
	start := 0
	for _, loc := range connectorPattern.FindAllStringIndex(s, -1) {
		if within(loc, protected) {
			continue
		}
		clauses = appendClause(clauses, s[start:loc[0]])
		start = loc[1]
	}
	return appendClause(clauses, s[start:])
}

func appendClause(clauses []string, raw string) []string {
	if clause := strings.TrimSpace(raw); clause != "" {
		return append(clauses, clause)
	}
	return clauses
}

func within(loc []int, spans [][]int) bool {
	for _, span := range spans {
		if loc[0] >= span[0] && loc[1] <= span[1] {
			return true
		}
	}
	return false
}
