// Package translator turns free-text property searches such as
// "house 3 bed under 400k dublin with garden" into predicate trees.
//
// Translation is a single pass: normalize, pull out known locations, split the
// rest into clauses, run every classifier over every clause, and AND the
// distinct results together. When nothing at all is recognised the whole
// query is searched as text across the main fields instead. The translator
// never fails and holds no mutable state, so one instance can serve any number
// of goroutines.
package translator

import (
	"strings"

	"homesearch/internal/catalog"
	"homesearch/internal/predicate"
)

// ClauseTrace records which classifiers fired for one clause.
type ClauseTrace struct {
	Text        string   `json:"text"`
	Classifiers []string `json:"classifiers"`
}

// Result is the outcome of translating one query.
type Result struct {
	Query      string              `json:"query"`
	Normalized string              `json:"normalized"`
	Locations  []string            `json:"locations"`
	Clauses    []ClauseTrace       `json:"clauses"`
	Fallback   bool                `json:"fallback"`
	Predicate  predicate.Condition `json:"predicate"`
}

// Translator converts queries using a fixed catalog.
type Translator struct {
	locations   *LocationExtractor
	classifiers []Classifier
	fallback    Classifier
}

// New builds a Translator over cat. A nil catalog means catalog.Default().
func New(cat *catalog.Catalog) *Translator {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Translator{
		locations: NewLocationExtractor(cat.Locations()),
		classifiers: []Classifier{
			priceClassifier{},
			newTypeClassifier(cat.PropertyTypes()),
			bedroomsClassifier,
			bathroomsClassifier,
			featureClassifier{keywords: cat.Features()},
		},
		fallback: textClassifier{},
	}
}

// Normalize lowercases and trims a raw query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Translate converts query into a predicate. Clause conditions keep clause
// order; the location group, if any, comes last.
func (t *Translator) Translate(query string) *Result {
	normalized := Normalize(query)
	locations, rest := t.locations.Extract(normalized)
	clauses := Segment(rest)

	conditions := predicate.NewSet()
	traces := make([]ClauseTrace, 0, len(clauses))
	for _, clause := range clauses {
		trace := ClauseTrace{Text: clause, Classifiers: []string{}}
		for _, c := range t.classifiers {
			if t.apply(c, clause, conditions) {
				trace.Classifiers = append(trace.Classifiers, c.Name())
			}
		}
		if len(trace.Classifiers) == 0 && t.apply(t.fallback, clause, conditions) {
			trace.Classifiers = append(trace.Classifiers, t.fallback.Name())
		}
		traces = append(traces, trace)
	}

	if len(locations) > 0 {
		conditions.Add(locationCondition(locations))
	}

	result := &Result{
		Query:      query,
		Normalized: normalized,
		Locations:  nonNilStrings(locations),
		Clauses:    traces,
	}
	if conditions.Len() == 0 {
		result.Fallback = true
		result.Predicate = anyTextField(normalized).WithTag(TagFallback)
		return result
	}
	result.Predicate = predicate.And(conditions.Conditions()...)
	return result
}

// apply reports whether c recognised the clause, even if every condition it
// produced was already present.
func (t *Translator) apply(c Classifier, clause string, into *predicate.Set) bool {
	conds := c.Classify(clause)
	for _, cond := range conds {
		into.Add(cond)
	}
	return len(conds) > 0
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
