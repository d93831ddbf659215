package yelp

import (
	"context"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

// Service defines the interface for restaurant listing search
type Service interface {
	// Search returns listings matching the query. Unset limit, radius and
	// sort fall back to model.SearchQuery defaults.
	Search(ctx context.Context, query model.SearchQuery) ([]Business, error)
}

// Business is a listing as returned by the Yelp Fusion API
type Business struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	ImageURL     string      `json:"image_url"`
	IsClosed     bool        `json:"is_closed"`
	URL          string      `json:"url"`
	ReviewCount  int         `json:"review_count"`
	Categories   []Category  `json:"categories"`
	Rating       float64     `json:"rating"`
	Coordinates  Coordinates `json:"coordinates"`
	Price        string      `json:"price"`
	Location     Location    `json:"location"`
	Phone        string      `json:"phone"`
	DisplayPhone string      `json:"display_phone"`
	Distance     float64     `json:"distance"`
}

type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	Address1       string   `json:"address1"`
	City           string   `json:"city"`
	ZipCode        string   `json:"zip_code"`
	Country        string   `json:"country"`
	State          string   `json:"state"`
	DisplayAddress []string `json:"display_address"`
}

type searchResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
}
