package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homesearch/internal/predicate"
	"homesearch/internal/translator"
)

func TestCompile_Leaves(t *testing.T) {
	tests := []struct {
		name  string
		cond  predicate.Condition
		where string
		args  []interface{}
	}{
		{
			name:  "contains escapes like metacharacters",
			cond:  predicate.Contains("address", `50%_off\`),
			where: "address ILIKE $1",
			args:  []interface{}{`%50\%\_off\\%`},
		},
		{
			name:  "word",
			cond:  predicate.Word("description", "in dublin"),
			where: "description ~* $1",
			args:  []interface{}{`\yin dublin\y`},
		},
		{
			name:  "regex",
			cond:  predicate.Regex("property_type", "house|bungalow"),
			where: "property_type ~* $1",
			args:  []interface{}{"house|bungalow"},
		},
		{
			name:  "features array",
			cond:  predicate.Contains("features", "garden"),
			where: "EXISTS (SELECT 1 FROM jsonb_array_elements_text(features) AS f(v) WHERE f.v ILIKE $1)",
			args:  []interface{}{"%garden%"},
		},
		{
			name:  "at most",
			cond:  predicate.AtMost("price_numeric", 400000),
			where: "price_numeric <= $1",
			args:  []interface{}{400000.0},
		},
		{
			name:  "at least",
			cond:  predicate.AtLeast("bedrooms_numeric", 3),
			where: "bedrooms_numeric >= $1",
			args:  []interface{}{3.0},
		},
		{
			name:  "between",
			cond:  predicate.Between("price_numeric", 300000, 400000),
			where: "price_numeric BETWEEN $1 AND $2",
			args:  []interface{}{300000.0, 400000.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, err := Compile(tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestCompile_Groups(t *testing.T) {
	where, args, err := Compile(predicate.MatchAll())
	require.NoError(t, err)
	assert.Equal(t, "TRUE", where)
	assert.Empty(t, args)

	where, _, err = Compile(predicate.Or())
	require.NoError(t, err)
	assert.Equal(t, "FALSE", where)

	cond := predicate.And(
		predicate.AtMost("price_numeric", 400000),
		predicate.Or(predicate.Contains("address", "dublin"), predicate.Contains("county", "dublin")),
	)
	where, args, err = Compile(cond)
	require.NoError(t, err)
	assert.Equal(t, "(price_numeric <= $1 AND (address ILIKE $2 OR county ILIKE $3))", where)
	assert.Equal(t, []interface{}{400000.0, "%dublin%", "%dublin%"}, args)
}

func TestCompile_SingleChildGroupIsUnwrapped(t *testing.T) {
	where, _, err := Compile(predicate.And(predicate.Contains("address", "x")))
	require.NoError(t, err)
	assert.Equal(t, "address ILIKE $1", where)
}

func TestCompile_UnknownField(t *testing.T) {
	_, _, err := Compile(predicate.And(predicate.Contains("address; DROP TABLE properties", "x")))
	assert.ErrorContains(t, err, "unknown field")
}

func TestCompile_TranslatedScenario(t *testing.T) {
	res := translator.New(nil).Translate("house 3 bed under 400k dublin with garden")

	where, args, err := Compile(res.Predicate)
	require.NoError(t, err)

	assert.Contains(t, where, "price_numeric <= $1")
	assert.Contains(t, where, "property_type ~* $2")
	assert.Contains(t, where, "bedrooms ILIKE $3")
	assert.Contains(t, where, "jsonb_array_elements_text(features)")
	assert.Contains(t, where, `county ILIKE`)
	assert.Len(t, args, 8)
}
