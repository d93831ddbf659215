package model

import (
	"maps"

	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

// Restaurant is a venue returned by the search provider
type Restaurant struct {
	ID          int64             `json:"id"`
	ExternalID  string            `json:"externalId,omitempty"`
	Name        string            `json:"name"`
	Cuisine     string            `json:"cuisine"`
	PriceRange  types.PriceRange  `json:"priceRange"`
	Rating      int               `json:"rating"`
	ReviewCount int               `json:"reviewCount"`
	Phone       string            `json:"phone,omitempty"`
	Address     string            `json:"address"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Coordinates Coordinates       `json:"coordinates"`
	Hours       map[string]string `json:"hours,omitempty"`
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HasPhone reports whether the restaurant can be called
func (r *Restaurant) HasPhone() bool {
	return r.Phone != ""
}

// Clone returns a deep copy of the restaurant
func (r *Restaurant) Clone() *Restaurant {
	if r == nil {
		return nil
	}
	c := *r
	c.Hours = maps.Clone(r.Hours)
	return &c
}
