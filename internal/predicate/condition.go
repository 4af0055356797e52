package predicate

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind distinguishes leaf comparisons from boolean groups.
type Kind string

const (
	KindLeaf Kind = "leaf"
	KindAnd  Kind = "and"
	KindOr   Kind = "or"
)

// Op is the comparison applied by a leaf condition.
type Op string

const (
	// OpContains is a case-insensitive literal substring test on a text field.
	OpContains Op = "contains"
	// OpWord is a case-insensitive whole-word phrase test on a text field.
	OpWord Op = "word"
	// OpRegex is a case-insensitive regular expression test on a text field.
	OpRegex Op = "regex"
	// OpLTE, OpGTE and OpBetween are inclusive comparisons on a numeric field.
	OpLTE     Op = "lte"
	OpGTE     Op = "gte"
	OpBetween Op = "between"
)

// Condition is one node of a predicate tree: either a field/operator/value leaf
// or an AND/OR group of child conditions. Conditions are immutable values.
type Condition struct {
	kind     Kind
	field    string
	op       Op
	text     string
	min      float64
	max      float64
	children []Condition
	tag      string
}

// Contains builds a case-insensitive substring test.
func Contains(field, text string) Condition {
	return Condition{kind: KindLeaf, field: field, op: OpContains, text: text}
}

// Word builds a case-insensitive whole-word phrase test.
func Word(field, phrase string) Condition {
	return Condition{kind: KindLeaf, field: field, op: OpWord, text: phrase}
}

// Regex builds a case-insensitive regular expression test.
func Regex(field, pattern string) Condition {
	return Condition{kind: KindLeaf, field: field, op: OpRegex, text: pattern}
}

// AtMost builds an inclusive upper bound.
func AtMost(field string, v float64) Condition {
	return Condition{kind: KindLeaf, field: field, op: OpLTE, max: v}
}

// AtLeast builds an inclusive lower bound.
func AtLeast(field string, v float64) Condition {
	return Condition{kind: KindLeaf, field: field, op: OpGTE, min: v}
}

// Between builds a closed numeric range. Bounds are kept as given.
func Between(field string, lo, hi float64) Condition {
	return Condition{kind: KindLeaf, field: field, op: OpBetween, min: lo, max: hi}
}

// And groups children by conjunction. An empty And matches everything.
func And(children ...Condition) Condition {
	return Condition{kind: KindAnd, children: copyConditions(children)}
}

// Or groups children by disjunction. An empty Or matches nothing.
func Or(children ...Condition) Condition {
	return Condition{kind: KindOr, children: copyConditions(children)}
}

// MatchAll returns the predicate that accepts every record.
func MatchAll() Condition { return And() }

// WithTag returns a copy labelled with tag. Tags describe intent (price,
// location, ...) and do not take part in structural equality.
func (c Condition) WithTag(tag string) Condition {
	c.tag = tag
	return c
}

func (c Condition) Kind() Kind { return c.kind }
func (c Condition) Field() string { return c.field }
func (c Condition) Op() Op { return c.op }
func (c Condition) Text() string { return c.text }
func (c Condition) Min() float64 { return c.min }
func (c Condition) Max() float64 { return c.max }
func (c Condition) Tag() string { return c.tag }
func (c Condition) IsLeaf() bool { return c.kind == KindLeaf }
func (c Condition) IsGroup() bool { return c.kind == KindAnd || c.kind == KindOr }
func (c Condition) IsNumeric() bool {
	return c.op == OpLTE || c.op == OpGTE || c.op == OpBetween
}

// Children returns a copy of the group's children.
func (c Condition) Children() []Condition { return copyConditions(c.children) }

// Len is the number of direct children of a group, or 1 for a leaf.
func (c Condition) Len() int {
	if c.IsLeaf() {
		return 1
	}
	return len(c.children)
}

// Leaves returns every leaf under c in depth-first order.
func (c Condition) Leaves() []Condition {
	if c.IsLeaf() {
		return []Condition{c}
	}
	var out []Condition
	for _, ch := range c.children {
		out = append(out, ch.Leaves()...)
	}
	return out
}

// Key is a canonical encoding of the condition's structure. Two conditions
// with the same Key are interchangeable in a predicate.
func (c Condition) Key() string {
	var b strings.Builder
	c.writeKey(&b)
	return b.String()
}

func (c Condition) writeKey(b *strings.Builder) {
	if c.IsGroup() {
		b.WriteString(string(c.kind))
		b.WriteByte('(')
		for i, ch := range c.children {
			if i > 0 {
				b.WriteByte(',')
			}
			ch.writeKey(b)
		}
		b.WriteByte(')')
		return
	}
	b.WriteString(c.field)
	b.WriteByte('|')
	b.WriteString(string(c.op))
	b.WriteByte('|')
	switch c.op {
	case OpLTE:
		b.WriteString(formatNumber(c.max))
	case OpGTE:
		b.WriteString(formatNumber(c.min))
	case OpBetween:
		b.WriteString(formatNumber(c.min))
		b.WriteByte(':')
		b.WriteString(formatNumber(c.max))
	default:
		b.WriteString(strconv.Quote(c.text))
	}
}

// Equal reports structural equality.
func (c Condition) Equal(other Condition) bool { return c.Key() == other.Key() }

type leafJSON struct {
	Field string   `json:"field"`
	Op    Op       `json:"op"`
	Value any      `json:"value,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Tag   string   `json:"tag,omitempty"`
}

type andJSON struct {
	And []Condition `json:"and"`
	Tag string      `json:"tag,omitempty"`
}

type orJSON struct {
	Or  []Condition `json:"or"`
	Tag string      `json:"tag,omitempty"`
}

// MarshalJSON encodes the boolean-tree form consumed by store executors:
// {"and":[...]}, {"or":[...]} or {"field":..,"op":..,"value":..}.
func (c Condition) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindAnd:
		return json.Marshal(andJSON{And: nonNil(c.children), Tag: c.tag})
	case KindOr:
		return json.Marshal(orJSON{Or: nonNil(c.children), Tag: c.tag})
	}

	leaf := leafJSON{Field: c.field, Op: c.op, Tag: c.tag}
	switch c.op {
	case OpLTE:
		leaf.Value = c.max
	case OpGTE:
		leaf.Value = c.min
	case OpBetween:
		lo, hi := c.min, c.max
		leaf.Min, leaf.Max = &lo, &hi
	default:
		leaf.Value = c.text
	}
	return json.Marshal(leaf)
}

// String renders the JSON form, mainly for logs.
func (c Condition) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return c.Key()
	}
	return string(data)
}

func copyConditions(in []Condition) []Condition {
	if len(in) == 0 {
		return nil
	}
	out := make([]Condition, len(in))
	copy(out, in)
	return out
}

func nonNil(in []Condition) []Condition {
	if in == nil {
		return []Condition{}
	}
	return in
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
