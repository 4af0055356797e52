package service

import (
	"homesearch/internal/model"
	"homesearch/internal/predicate"
	"homesearch/internal/translator"
)

// Match reason constants
const (
	ReasonPriceMatch      = "Price within budget"
	ReasonTypeMatch       = "Property type match"
	ReasonBedroomsMatch   = "Bedrooms match"
	ReasonBathroomsMatch  = "Bathrooms match"
	ReasonLocationMatch   = "Location match"
	ReasonContentRelevant = "Content relevant"
	ReasonGeneralMatch    = "General match"
)

var reasonByTag = map[string]string{
	translator.TagPrice:     ReasonPriceMatch,
	translator.TagType:      ReasonTypeMatch,
	translator.TagBedrooms:  ReasonBedroomsMatch,
	translator.TagBathrooms: ReasonBathroomsMatch,
	translator.TagLocation:  ReasonLocationMatch,
	translator.TagText:      ReasonContentRelevant,
}

// Annotate pairs every property with the reasons it matched: one label per
// top-level condition of pred the property satisfies, in predicate order.
// Result order is the store's order.
func Annotate(pred predicate.Condition, properties []model.Property) []model.PropertySearchResult {
	conditions := []predicate.Condition{pred}
	if pred.Kind() == predicate.KindAnd {
		conditions = pred.Children()
	}

	results := make([]model.PropertySearchResult, 0, len(properties))
	for i := range properties {
		results = append(results, model.PropertySearchResult{
			Property:       properties[i],
			MatchedReasons: matchedReasons(conditions, &properties[i]),
		})
	}
	return results
}

func matchedReasons(conditions []predicate.Condition, p *model.Property) []string {
	reasons := []string{}
	seen := make(map[string]bool)
	for _, c := range conditions {
		reason := reasonFor(c)
		if reason == "" || seen[reason] || !predicate.Eval(c, p) {
			continue
		}
		seen[reason] = true
		reasons = append(reasons, reason)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}
	return reasons
}

func reasonFor(c predicate.Condition) string {
	if c.Tag() == translator.TagFeature {
		// feature groups test one keyword across fields
		if leaves := c.Leaves(); len(leaves) > 0 {
			return "Has " + leaves[0].Text()
		}
	}
	return reasonByTag[c.Tag()]
}
