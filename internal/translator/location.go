package translator

import (
	"regexp"
	"sort"
	"strings"

	"homesearch/internal/model"
	"homesearch/internal/predicate"
)

type locationMatcher struct {
	name   string
	detect *regexp.Regexp
	strip  *regexp.Regexp
}

// LocationExtractor finds catalog place names anywhere in a query.
type LocationExtractor struct {
	matchers []locationMatcher
	// indexes into matchers, longest name first
	stripOrder []int
}

// NewLocationExtractor compiles a whole-word matcher per location.
func NewLocationExtractor(locations []string) *LocationExtractor {
	matchers := make([]locationMatcher, 0, len(locations))
	for _, loc := range locations {
		word := `\b` + strings.ReplaceAll(regexp.QuoteMeta(loc), " ", `\s+`) + `\b`
		matchers = append(matchers, locationMatcher{
			name:   loc,
			detect: regexp.MustCompile(word),
			strip:  regexp.MustCompile(`(?:\b(?:in|near|at)\s+)?` + word),
		})
	}
	order := make([]int, len(matchers))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(matchers[order[a]].name) > len(matchers[order[b]].name)
	})
	return &LocationExtractor{matchers: matchers, stripOrder: order}
}

// Extract returns the detected locations in catalog order and s with every
// occurrence removed, together with a directly preceding "in", "near" or "at".
// Detection runs against the untouched input, so a name that contains another
// ("south dublin", "dublin") is found as well. Longer names are removed first.
func (e *LocationExtractor) Extract(s string) ([]string, string) {
	var found []string
	hit := make([]bool, len(e.matchers))
	for i, m := range e.matchers {
		if m.detect.MatchString(s) {
			hit[i] = true
			found = append(found, m.name)
		}
	}

	rest := s
	for _, i := range e.stripOrder {
		if hit[i] {
			rest = e.matchers[i].strip.ReplaceAllString(rest, "")
		}
	}
	return found, rest
}

// locationCondition ORs one group per location; each group tests the
// address, the county and an "in <location>" phrase in the description.
func locationCondition(locations []string) predicate.Condition {
	groups := make([]predicate.Condition, 0, len(locations))
	for _, loc := range locations {
		groups = append(groups, predicate.Or(
			predicate.Contains(model.FieldAddress, loc),
			predicate.Contains(model.FieldCounty, loc),
			predicate.Word(model.FieldDescription, "in "+loc),
		).WithTag(TagLocation))
	}
	if len(groups) == 1 {
		return groups[0]
	}
	return predicate.Or(groups...).WithTag(TagLocation)
}
