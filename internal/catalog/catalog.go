// Package catalog holds the fixed vocabularies the query translator matches
// against: place names, property-type synonyms and feature keywords.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// PropertyType maps a canonical type onto the surface words that imply it.
type PropertyType struct {
	Name     string   `yaml:"name" json:"name"`
	Synonyms []string `yaml:"synonyms" json:"synonyms"`
}

// File is the on-disk YAML layout of a catalog.
type File struct {
	Locations     []string       `yaml:"locations" json:"locations"`
	PropertyTypes []PropertyType `yaml:"property_types" json:"property_types"`
	Features      []string       `yaml:"features" json:"features"`
}

// Catalog is an immutable, validated set of vocabularies. All entries are
// lowercase and trimmed. A Catalog is safe for concurrent use.
type Catalog struct {
	locations []string
	types     []PropertyType
	features  []string
}

// New validates f and builds a Catalog from it. Every problem found is
// reported, not just the first.
func New(f File) (*Catalog, error) {
	var result *multierror.Error

	locations, err := normalizeList("location", f.Locations)
	if err != nil {
		result = multierror.Append(result, err)
	}
	features, err := normalizeList("feature", f.Features)
	if err != nil {
		result = multierror.Append(result, err)
	}

	types := make([]PropertyType, 0, len(f.PropertyTypes))
	seenTypes := make(map[string]bool, len(f.PropertyTypes))
	for i, pt := range f.PropertyTypes {
		name := normalize(pt.Name)
		if name == "" {
			result = multierror.Append(result, fmt.Errorf("property type #%d: name is required", i))
			continue
		}
		if seenTypes[name] {
			result = multierror.Append(result, fmt.Errorf("property type %q: duplicate name", name))
			continue
		}
		seenTypes[name] = true

		if len(pt.Synonyms) == 0 {
			result = multierror.Append(result, fmt.Errorf("property type %q: at least one synonym is required", name))
			continue
		}
		synonyms, err := normalizeList(fmt.Sprintf("property type %q synonym", name), pt.Synonyms)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		types = append(types, PropertyType{Name: name, Synonyms: synonyms})
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &Catalog{locations: locations, types: types, features: features}, nil
}

// MustNew is New that panics on invalid input. Intended for package-level
// literals and tests.
func MustNew(f File) *Catalog {
	c, err := New(f)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	c, err := New(f)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault loads path, or returns the built-in catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Locations returns place names in catalog order.
func (c *Catalog) Locations() []string { return append([]string(nil), c.locations...) }

// Features returns feature keywords in catalog order.
func (c *Catalog) Features() []string { return append([]string(nil), c.features...) }

// PropertyTypes returns canonical types in catalog order.
func (c *Catalog) PropertyTypes() []PropertyType {
	out := make([]PropertyType, len(c.types))
	for i, pt := range c.types {
		out[i] = PropertyType{Name: pt.Name, Synonyms: append([]string(nil), pt.Synonyms...)}
	}
	return out
}

// File returns the catalog in its serializable layout.
func (c *Catalog) File() File {
	return File{
		Locations:     c.Locations(),
		PropertyTypes: c.PropertyTypes(),
		Features:      c.Features(),
	}
}

// MarshalYAML writes the catalog in the layout Load accepts.
func (c *Catalog) MarshalYAML() (interface{}, error) {
	return c.File(), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeList(what string, in []string) ([]string, error) {
	var result *multierror.Error
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, raw := range in {
		v := normalize(raw)
		if v == "" {
			result = multierror.Append(result, fmt.Errorf("%s #%d: empty value", what, i))
			continue
		}
		if seen[v] {
			result = multierror.Append(result, fmt.Errorf("%s %q: duplicate", what, v))
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, result.ErrorOrNil()
}
