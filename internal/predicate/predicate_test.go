package predicate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	text map[string][]string
	num  map[string]float64
}

func (r record) Text(field string) []string { return r.text[field] }

func (r record) Number(field string) (float64, bool) {
	v, ok := r.num[field]
	return v, ok
}

var house = record{
	text: map[string][]string{
		"address":       {"12 Main Street, Dublin 4"},
		"description":   {"Lovely home in Dublin with a south facing garden"},
		"features":      {"Garden", "Off-street parking"},
		"property_type": {"Semi-Detached"},
		"bedrooms":      {"3 Bed"},
	},
	num: map[string]float64{"price_numeric": 350000},
}

func TestEval_Leaves(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"contains is case insensitive", Contains("address", "dublin"), true},
		{"contains on array element", Contains("features", "parking"), true},
		{"contains miss", Contains("address", "cork"), false},
		{"contains absent field", Contains("county", ""), false},
		{"contains literal metacharacters", Contains("address", "main.street"), false},
		{"word phrase", Word("description", "in dublin"), true},
		{"word respects boundaries", Word("description", "in dub"), false},
		{"regex alternation", Regex("property_type", "detached|terraced"), true},
		{"regex miss", Regex("property_type", "apartment|flat"), false},
		{"invalid regex matches nothing", Regex("property_type", "(semi"), false},
		{"at most inclusive", AtMost("price_numeric", 350000), true},
		{"at most exceeded", AtMost("price_numeric", 300000), false},
		{"at least inclusive", AtLeast("price_numeric", 350000), true},
		{"between", Between("price_numeric", 300000, 400000), true},
		{"between reversed bounds", Between("price_numeric", 400000, 300000), false},
		{"numeric absent field", AtLeast("bedrooms_numeric", 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eval(tt.cond, house))
		})
	}
}

func TestEval_Groups(t *testing.T) {
	assert.True(t, Eval(MatchAll(), house))
	assert.True(t, Eval(MatchAll(), record{}))
	assert.False(t, Eval(Or(), house))

	cond := And(
		Contains("bedrooms", "3"),
		Or(Contains("address", "cork"), Contains("description", "dublin")),
	)
	assert.True(t, Eval(cond, house))

	cond = And(Contains("bedrooms", "3"), Contains("address", "cork"))
	assert.False(t, Eval(cond, house))
}

func TestCondition_KeyIgnoresTag(t *testing.T) {
	a := AtMost("price_numeric", 400000).WithTag("price")
	b := AtMost("price_numeric", 400000)

	assert.True(t, a.Equal(b))
	assert.Equal(t, "price", a.Tag())
	assert.Empty(t, b.Tag())

	assert.False(t, AtMost("price_numeric", 400000).Equal(AtLeast("price_numeric", 400000)))
	assert.False(t, Contains("address", "x").Equal(Word("address", "x")))
	assert.False(t, And(Contains("a", "x")).Equal(Or(Contains("a", "x"))))
}

func TestCondition_ChildrenAreCopied(t *testing.T) {
	kids := []Condition{Contains("address", "a"), Contains("address", "b")}
	group := Or(kids...)
	kids[0] = Contains("address", "changed")

	got := group.Children()
	assert.Equal(t, "a", got[0].Text())

	got[1] = Contains("address", "also changed")
	assert.Equal(t, "b", group.Children()[1].Text())
}

func TestCondition_Leaves(t *testing.T) {
	c := And(
		AtMost("price_numeric", 1),
		Or(Contains("address", "a"), Contains("county", "b")),
	)

	leaves := c.Leaves()
	require.Len(t, leaves, 3)
	assert.Equal(t, "price_numeric", leaves[0].Field())
	assert.Equal(t, "county", leaves[2].Field())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, leaves[0].Len())
}

func TestCondition_MarshalJSON(t *testing.T) {
	c := And(
		AtMost("price_numeric", 400000).WithTag("price"),
		Between("price_numeric", 1, 2),
		Or(Contains("address", "dublin"), Word("description", "in dublin")).WithTag("location"),
	)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"and":[
		{"field":"price_numeric","op":"lte","value":400000,"tag":"price"},
		{"field":"price_numeric","op":"between","min":1,"max":2},
		{"or":[
			{"field":"address","op":"contains","value":"dublin"},
			{"field":"description","op":"word","value":"in dublin"}
		],"tag":"location"}
	]}`, string(data))

	data, err = json.Marshal(MatchAll())
	require.NoError(t, err)
	assert.JSONEq(t, `{"and":[]}`, string(data))
}

func TestSet_DropsStructuralDuplicates(t *testing.T) {
	s := NewSet()

	assert.True(t, s.Add(Contains("bedrooms", "3").WithTag("bedrooms")))
	assert.True(t, s.Add(AtMost("price_numeric", 400000)))
	assert.False(t, s.Add(Contains("bedrooms", "3")))
	assert.True(t, s.Add(Contains("bedrooms", "4")))

	require.Equal(t, 3, s.Len())
	got := s.Conditions()
	assert.Equal(t, "3", got[0].Text())
	assert.Equal(t, "bedrooms", got[0].Tag())
	assert.Equal(t, "4", got[2].Text())
}
