package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNew_Normalizes(t *testing.T) {
	c, err := New(File{
		Locations:     []string{" Dublin ", "CORK"},
		PropertyTypes: []PropertyType{{Name: "House", Synonyms: []string{"House", " Bungalow"}}},
		Features:      []string{"Garden"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"dublin", "cork"}, c.Locations())
	assert.Equal(t, []string{"garden"}, c.Features())
	assert.Equal(t, []PropertyType{{Name: "house", Synonyms: []string{"house", "bungalow"}}}, c.PropertyTypes())
}

func TestNew_ReportsEveryProblem(t *testing.T) {
	_, err := New(File{
		Locations: []string{"dublin", "Dublin", ""},
		PropertyTypes: []PropertyType{
			{Name: "", Synonyms: []string{"x"}},
			{Name: "house", Synonyms: nil},
			{Name: "flat", Synonyms: []string{"flat"}},
			{Name: "flat", Synonyms: []string{"apartment"}},
		},
		Features: []string{"garden", " "},
	})
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		`location "dublin": duplicate`,
		"location #2: empty value",
		"property type #0: name is required",
		`property type "house": at least one synonym is required`,
		`property type "flat": duplicate name`,
		"feature #1: empty value",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(File{Locations: []string{""}})
	})
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	c := Default()

	locs := c.Locations()
	locs[0] = "atlantis"
	assert.Equal(t, "dublin", c.Locations()[0])

	types := c.PropertyTypes()
	types[0].Synonyms[0] = "castle"
	assert.Equal(t, "house", c.PropertyTypes()[0].Synonyms[0])
}

func TestDefault_SharedSynonyms(t *testing.T) {
	byName := map[string][]string{}
	for _, pt := range Default().PropertyTypes() {
		byName[pt.Name] = pt.Synonyms
	}

	assert.Contains(t, byName["house"], "terraced")
	assert.Contains(t, byName["terraced"], "terraced")
	assert.Contains(t, Default().Features(), "garden")
	assert.Contains(t, Default().Locations(), "dun laoghaire")
}

func TestLoad_RoundTrip(t *testing.T) {
	data, err := yaml.Marshal(Default())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().File(), c.File())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read catalog")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("locations: [unterminated"), 0o600))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "failed to parse catalog")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("locations: [cork, cork]\n"), 0o600))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "invalid catalog")
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Same(t, Default(), c)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
locations: [springfield]
property_types:
  - name: cabin
    synonyms: [cabin, lodge]
features: [lake]
`), 0o600))

	c, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"springfield"}, c.Locations())
	assert.Equal(t, []string{"lake"}, c.Features())
}
