package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Field names shared by the translator and the stores.
const (
	FieldAddress          = "address"
	FieldCounty           = "county"
	FieldDescription      = "description"
	FieldFeatures         = "features"
	FieldPropertyType     = "property_type"
	FieldBedrooms         = "bedrooms"
	FieldBathrooms        = "bathrooms"
	FieldPriceNumeric     = "price_numeric"
	FieldBedroomsNumeric  = "bedrooms_numeric"
	FieldBathroomsNumeric = "bathrooms_numeric"
)

// Property represents a scraped property listing
type Property struct {
	ID               int64     `json:"id" db:"id"`
	Link             string    `json:"link" db:"link"`
	Source           *string   `json:"source,omitempty" db:"source"`
	Address          *string   `json:"address,omitempty" db:"address"`
	County           *string   `json:"county,omitempty" db:"county"`
	Price            *string   `json:"price,omitempty" db:"price"`
	PriceNumeric     *float64  `json:"price_numeric,omitempty" db:"price_numeric"`
	Bedrooms         *string   `json:"bedrooms,omitempty" db:"bedrooms"`
	BedroomsNumeric  *int      `json:"bedrooms_numeric,omitempty" db:"bedrooms_numeric"`
	Bathrooms        *string   `json:"bathrooms,omitempty" db:"bathrooms"`
	BathroomsNumeric *int      `json:"bathrooms_numeric,omitempty" db:"bathrooms_numeric"`
	Area             *string   `json:"area,omitempty" db:"area"`
	PropertyType     *string   `json:"property_type,omitempty" db:"property_type"`
	Description      *string   `json:"description,omitempty" db:"description"`
	Features         JSONArray `json:"features,omitempty" db:"features"`
	MapLink          *string   `json:"map_link,omitempty" db:"map_link"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Text implements predicate.Record
func (p *Property) Text(field string) []string {
	switch field {
	case FieldAddress:
		return optional(p.Address)
	case FieldCounty:
		return optional(p.County)
	case FieldDescription:
		return optional(p.Description)
	case FieldPropertyType:
		return optional(p.PropertyType)
	case FieldBedrooms:
		return optional(p.Bedrooms)
	case FieldBathrooms:
		return optional(p.Bathrooms)
	case FieldFeatures:
		if p.Features == nil {
			return nil
		}
		return []string(p.Features)
	}
	return nil
}

// Number implements predicate.Record
func (p *Property) Number(field string) (float64, bool) {
	switch field {
	case FieldPriceNumeric:
		if p.PriceNumeric != nil {
			return *p.PriceNumeric, true
		}
	case FieldBedroomsNumeric:
		if p.BedroomsNumeric != nil {
			return float64(*p.BedroomsNumeric), true
		}
	case FieldBathroomsNumeric:
		if p.BathroomsNumeric != nil {
			return float64(*p.BathroomsNumeric), true
		}
	}
	return 0, false
}

func optional(s *string) []string {
	if s == nil {
		return nil
	}
	return []string{*s}
}

// PropertySearchResult represents a search hit with the reasons it matched
type PropertySearchResult struct {
	Property
	MatchedReasons []string `json:"matched_reasons"`
}

// PropertyInput is one listing pushed by the acquisition pipeline
type PropertyInput struct {
	Link             string    `json:"link" binding:"required"`
	Source           *string   `json:"source,omitempty"`
	Address          *string   `json:"address,omitempty"`
	County           *string   `json:"county,omitempty"`
	Price            *string   `json:"price,omitempty"`
	PriceNumeric     *float64  `json:"price_numeric,omitempty"`
	Bedrooms         *string   `json:"bedrooms,omitempty"`
	BedroomsNumeric  *int      `json:"bedrooms_numeric,omitempty"`
	Bathrooms        *string   `json:"bathrooms,omitempty"`
	BathroomsNumeric *int      `json:"bathrooms_numeric,omitempty"`
	Area             *string   `json:"area,omitempty"`
	PropertyType     *string   `json:"property_type,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Features         []string  `json:"features,omitempty"`
	MapLink          *string   `json:"map_link,omitempty"`
	Embedding        []float32 `json:"embedding,omitempty"` // Description embedding computed upstream
}

// ToProperty converts the input into a stored record shape
func (in PropertyInput) ToProperty() Property {
	p := Property{
		Link:             in.Link,
		Source:           in.Source,
		Address:          in.Address,
		County:           in.County,
		Price:            in.Price,
		PriceNumeric:     in.PriceNumeric,
		Bedrooms:         in.Bedrooms,
		BedroomsNumeric:  in.BedroomsNumeric,
		Bathrooms:        in.Bathrooms,
		BathroomsNumeric: in.BathroomsNumeric,
		Area:             in.Area,
		PropertyType:     in.PropertyType,
		Description:      in.Description,
		MapLink:          in.MapLink,
	}
	if in.Features != nil {
		p.Features = JSONArray(in.Features)
	}
	return p
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported type for JSONArray: %T", value)
	}
}
