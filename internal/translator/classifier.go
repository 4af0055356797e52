package translator

import (
	"regexp"
	"strings"

	"homesearch/internal/catalog"
	"homesearch/internal/model"
	"homesearch/internal/predicate"
)

// Tags attached to the conditions each stage produces.
const (
	TagPrice     = "price"
	TagType      = "property_type"
	TagBedrooms  = "bedrooms"
	TagBathrooms = "bathrooms"
	TagFeature   = "feature"
	TagLocation  = "location"
	TagText      = "text"
	TagFallback  = "fallback"
)

// textFields are searched by the per-clause and whole-query fallbacks.
var textFields = []string{
	model.FieldAddress,
	model.FieldDescription,
	model.FieldFeatures,
	model.FieldPropertyType,
}

// Classifier turns one clause into zero or more conditions.
type Classifier interface {
	Name() string
	Classify(clause string) []predicate.Condition
}

type propertyType struct {
	synonyms []string
	pattern  string
}

type typeClassifier struct {
	types []propertyType
}

func newTypeClassifier(types []catalog.PropertyType) typeClassifier {
	out := make([]propertyType, 0, len(types))
	for _, pt := range types {
		quoted := make([]string, len(pt.Synonyms))
		for i, syn := range pt.Synonyms {
			quoted[i] = regexp.QuoteMeta(syn)
		}
		out = append(out, propertyType{
			synonyms: pt.Synonyms,
			pattern:  strings.Join(quoted, "|"),
		})
	}
	return typeClassifier{types: out}
}

func (typeClassifier) Name() string { return "property_type" }

// Classify emits one condition per canonical type with a synonym in the
// clause. The condition accepts any synonym of that type, not only the word
// that was seen.
func (c typeClassifier) Classify(clause string) []predicate.Condition {
	var out []predicate.Condition
	for _, pt := range c.types {
		for _, syn := range pt.synonyms {
			if strings.Contains(clause, syn) {
				out = append(out, predicate.Regex(model.FieldPropertyType, pt.pattern).WithTag(TagType))
				break
			}
		}
	}
	return out
}

// countClassifier handles "<n> bed" style room counts. "3 bed" becomes a
// containment test on the free-text field; "3+ bed" a lower bound on the
// numeric one.
type countClassifier struct {
	name         string
	pattern      *regexp.Regexp
	textField    string
	numericField string
}

var (
	bedroomsClassifier = countClassifier{
		name:         TagBedrooms,
		pattern:      regexp.MustCompile(`(\d+)\s*(\+)?\s*bed`),
		textField:    model.FieldBedrooms,
		numericField: model.FieldBedroomsNumeric,
	}
	bathroomsClassifier = countClassifier{
		name:         TagBathrooms,
		pattern:      regexp.MustCompile(`(\d+)\s*(\+)?\s*bath`),
		textField:    model.FieldBathrooms,
		numericField: model.FieldBathroomsNumeric,
	}
)

func (c countClassifier) Name() string { return c.name }

func (c countClassifier) Classify(clause string) []predicate.Condition {
	m := c.pattern.FindStringSubmatch(clause)
	if m == nil {
		return nil
	}
	if m[2] == "+" {
		n := parseNumber(m[1])
		return []predicate.Condition{predicate.AtLeast(c.numericField, n).WithTag(c.name)}
	}
	return []predicate.Condition{predicate.Contains(c.textField, m[1]).WithTag(c.name)}
}

type featureClassifier struct {
	keywords []string
}

func (featureClassifier) Name() string { return "feature" }

// Classify emits one condition per keyword found in the clause, matching the
// keyword in either the description or the feature list.
func (c featureClassifier) Classify(clause string) []predicate.Condition {
	var out []predicate.Condition
	for _, kw := range c.keywords {
		if !strings.Contains(clause, kw) {
			continue
		}
		out = append(out, predicate.Or(
			predicate.Contains(model.FieldDescription, kw),
			predicate.Contains(model.FieldFeatures, kw),
		).WithTag(TagFeature))
	}
	return out
}

// textClassifier is the last resort for clauses nothing else understood.
type textClassifier struct{}

func (textClassifier) Name() string { return "text" }

func (textClassifier) Classify(clause string) []predicate.Condition {
	if clause == "" {
		return nil
	}
	return []predicate.Condition{anyTextField(clause).WithTag(TagText)}
}

func anyTextField(pattern string) predicate.Condition {
	children := make([]predicate.Condition, len(textFields))
	for i, field := range textFields {
		children[i] = predicate.Contains(field, pattern)
	}
	return predicate.Or(children...)
}
