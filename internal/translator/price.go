package translator

import (
	"math"
	"regexp"
	"strconv"

	"homesearch/internal/model"
	"homesearch/internal/predicate"
)

// amountPattern captures a number and its unit: "400k", "1.5 m", "300 thousand".
const amountPattern = `(\d+(?:\.\d+)?)\s*(thousand|million|k|m)\b`

var (
	underPattern      = regexp.MustCompile(`(?:under|below|less than|up to)\s*` + amountPattern)
	overPattern       = regexp.MustCompile(`(?:over|above|more than)\s*` + amountPattern)
	betweenPattern    = regexp.MustCompile(`between\s*` + amountPattern + `\s*(?:and|to|-)\s*` + amountPattern)
	standalonePattern = regexp.MustCompile(`^` + amountPattern + `$`)
)

type priceClassifier struct{}

func (priceClassifier) Name() string { return "price" }

// Classify tries under, over and between in that order; the first hit wins.
// A clause that is only an amount is read as an upper bound.
func (priceClassifier) Classify(clause string) []predicate.Condition {
	if m := underPattern.FindStringSubmatch(clause); m != nil {
		return []predicate.Condition{priceCondition(predicate.AtMost(model.FieldPriceNumeric, amount(m[1], m[2])))}
	}
	if m := overPattern.FindStringSubmatch(clause); m != nil {
		return []predicate.Condition{priceCondition(predicate.AtLeast(model.FieldPriceNumeric, amount(m[1], m[2])))}
	}
	if m := betweenPattern.FindStringSubmatch(clause); m != nil {
		lo, hi := amount(m[1], m[2]), amount(m[3], m[4])
		return []predicate.Condition{priceCondition(predicate.Between(model.FieldPriceNumeric, lo, hi))}
	}
	if m := standalonePattern.FindStringSubmatch(clause); m != nil {
		return []predicate.Condition{priceCondition(predicate.AtMost(model.FieldPriceNumeric, amount(m[1], m[2])))}
	}
	return nil
}

func priceCondition(c predicate.Condition) predicate.Condition {
	return c.WithTag(TagPrice)
}

// amount converts a captured number and unit to euros. Values are not range
// checked; anything beyond float64 is clamped to the largest finite value.
func amount(number, unit string) float64 {
	return clamp(math.Round(parseNumber(number) * multiplier(unit)))
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(v, 0) {
		return 0
	}
	return clamp(v)
}

func clamp(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return math.MaxFloat64
	}
	return v
}

func multiplier(unit string) float64 {
	switch unit {
	case "m", "million":
		return 1_000_000
	default:
		return 1_000
	}
}
