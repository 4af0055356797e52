package predicate

import (
	"regexp"
	"strings"
	"sync"
)

// Record exposes the fields a predicate can test. Text returns every value of
// a text field (array fields yield one entry per element); a nil result means
// the field is absent.
type Record interface {
	Text(field string) []string
	Number(field string) (float64, bool)
}

// Eval reports whether rec satisfies c. Absent fields never match a leaf, which
// mirrors how the SQL store treats NULL.
func Eval(c Condition, rec Record) bool {
	switch c.kind {
	case KindAnd:
		for _, ch := range c.children {
			if !Eval(ch, rec) {
				return false
			}
		}
		return true
	case KindOr:
		for _, ch := range c.children {
			if Eval(ch, rec) {
				return true
			}
		}
		return false
	case KindLeaf:
		if c.IsNumeric() {
			return evalNumber(c, rec)
		}
		return evalText(c, rec)
	}
	return false
}

func evalNumber(c Condition, rec Record) bool {
	v, ok := rec.Number(c.field)
	if !ok {
		return false
	}
	switch c.op {
	case OpLTE:
		return v <= c.max
	case OpGTE:
		return v >= c.min
	case OpBetween:
		return v >= c.min && v <= c.max
	}
	return false
}

func evalText(c Condition, rec Record) bool {
	values := rec.Text(c.field)
	if values == nil {
		return false
	}

	var re *regexp.Regexp
	switch c.op {
	case OpWord:
		re = compile(`(?i)\b` + regexp.QuoteMeta(c.text) + `\b`)
	case OpRegex:
		re = compile(`(?i)` + c.text)
	}

	needle := strings.ToLower(c.text)
	for _, v := range values {
		switch c.op {
		case OpContains:
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		case OpWord, OpRegex:
			if re != nil && re.MatchString(v) {
				return true
			}
		}
	}
	return false
}

var regexCache sync.Map

// compile returns nil for patterns Go cannot compile; such leaves match nothing.
func compile(pattern string) *regexp.Regexp {
	if cached, ok := regexCache.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	regexCache.Store(pattern, re)
	return re
}
