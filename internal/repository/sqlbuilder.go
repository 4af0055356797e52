package repository

import (
	"fmt"
	"regexp"
	"strings"

	"homesearch/internal/model"
	"homesearch/internal/predicate"
)

// columns maps predicate fields onto properties table columns.
var columns = map[string]string{
	model.FieldAddress:          "address",
	model.FieldCounty:           "county",
	model.FieldDescription:      "description",
	model.FieldPropertyType:     "property_type",
	model.FieldBedrooms:         "bedrooms",
	model.FieldBathrooms:        "bathrooms",
	model.FieldFeatures:         "features",
	model.FieldPriceNumeric:     "price_numeric",
	model.FieldBedroomsNumeric:  "bedrooms_numeric",
	model.FieldBathroomsNumeric: "bathrooms_numeric",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Compile renders cond as a WHERE clause body with $n placeholders starting
// at $1. Text comparisons are case-insensitive, like predicate.Eval.
func Compile(cond predicate.Condition) (string, []interface{}, error) {
	b := &sqlBuilder{}
	where, err := b.build(cond)
	if err != nil {
		return "", nil, err
	}
	return where, b.args, nil
}

type sqlBuilder struct {
	args []interface{}
}

func (b *sqlBuilder) placeholder(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *sqlBuilder) build(c predicate.Condition) (string, error) {
	switch c.Kind() {
	case predicate.KindAnd:
		return b.group(c.Children(), " AND ", "TRUE")
	case predicate.KindOr:
		return b.group(c.Children(), " OR ", "FALSE")
	}

	col, ok := columns[c.Field()]
	if !ok {
		return "", fmt.Errorf("unknown field %q", c.Field())
	}

	switch c.Op() {
	case predicate.OpLTE:
		return fmt.Sprintf("%s <= %s", col, b.placeholder(c.Max())), nil
	case predicate.OpGTE:
		return fmt.Sprintf("%s >= %s", col, b.placeholder(c.Min())), nil
	case predicate.OpBetween:
		lo := b.placeholder(c.Min())
		hi := b.placeholder(c.Max())
		return fmt.Sprintf("%s BETWEEN %s AND %s", col, lo, hi), nil
	}

	var test, value string
	switch c.Op() {
	case predicate.OpContains:
		test, value = "ILIKE", "%"+likeEscaper.Replace(c.Text())+"%"
	case predicate.OpWord:
		test, value = "~*", `\y`+regexp.QuoteMeta(c.Text())+`\y`
	case predicate.OpRegex:
		test, value = "~*", c.Text()
	default:
		return "", fmt.Errorf("unsupported operator %q on %s", c.Op(), c.Field())
	}

	ph := b.placeholder(value)
	if c.Field() == model.FieldFeatures {
		// JSONB array: any element may match
		return fmt.Sprintf("EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s) AS f(v) WHERE f.v %s %s)", col, test, ph), nil
	}
	return fmt.Sprintf("%s %s %s", col, test, ph), nil
}

func (b *sqlBuilder) group(children []predicate.Condition, sep, empty string) (string, error) {
	if len(children) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(children))
	for _, ch := range children {
		part, err := b.build(ch)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}
