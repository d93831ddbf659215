package model

import (
	"maps"
	"strconv"
	"strings"

	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

// Search defaults applied when a query leaves the field unset
const (
	DefaultSearchLimit  = 10
	DefaultSearchRadius = 5000
	DefaultSearchSort   = "best_match"
	MaxRecommendations  = 3
)

// SearchQuery is a restaurant search against the listing provider
type SearchQuery struct {
	Location   string
	Term       string
	Categories string
	Price      string
	Limit      int
	Radius     int
	SortBy     string
}

// WithDefaults returns a copy with unset limit, radius and sort filled in
func (q SearchQuery) WithDefaults() SearchQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Radius <= 0 {
		q.Radius = DefaultSearchRadius
	}
	if q.SortBy == "" {
		q.SortBy = DefaultSearchSort
	}
	return q
}

// CacheKey returns a stable key identifying the query
func (q SearchQuery) CacheKey() string {
	q = q.WithDefaults()
	return strings.Join([]string{
		strings.ToLower(q.Location),
		strings.ToLower(q.Term),
		q.Categories,
		q.Price,
		strconv.Itoa(q.Limit),
		strconv.Itoa(q.Radius),
		q.SortBy,
	}, "|")
}

var defaultCuisineCategories = map[string]string{
	"italian":       "italian",
	"japanese":      "japanese",
	"mexican":       "mexican",
	"chinese":       "chinese",
	"indian":        "indpak",
	"french":        "french",
	"thai":          "thai",
	"mediterranean": "mediterranean",
	"american":      "newamerican",
	"seafood":       "seafood",
}

var defaultMoodTerms = map[string]string{
	"romantic": "romantic intimate",
	"casual":   "casual family",
	"upscale":  "upscale fine dining",
	"quick":    "fast casual",
	"healthy":  "healthy fresh",
}

var priceTiers = map[types.PriceRange]string{
	types.PriceRangeBudget:    "1",
	types.PriceRangeModerate:  "1,2",
	types.PriceRangeExpensive: "2,3",
	types.PriceRangeLuxury:    "3,4",
}

const defaultPriceTier = "1,2"

// Vocabulary translates soft signals (cuisine, mood, price tier) into search
// provider parameters. Lookups are case-insensitive.
type Vocabulary struct {
	cuisines map[string]string
	moods    map[string]string
}

// DefaultVocabulary returns the built-in translation tables
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		cuisines: maps.Clone(defaultCuisineCategories),
		moods:    maps.Clone(defaultMoodTerms),
	}
}

// With returns a copy extended by extra cuisine and mood mappings. Extra
// entries override built-in ones.
func (v *Vocabulary) With(cuisines, moods map[string]string) *Vocabulary {
	out := &Vocabulary{
		cuisines: maps.Clone(v.cuisines),
		moods:    maps.Clone(v.moods),
	}
	for k, val := range cuisines {
		out.cuisines[strings.ToLower(k)] = val
	}
	for k, val := range moods {
		out.moods[strings.ToLower(k)] = val
	}
	return out
}

// CuisineCategory maps a cuisine name to a provider category. Unmapped names
// are lowercased.
func (v *Vocabulary) CuisineCategory(cuisine string) string {
	if cuisine == "" {
		return ""
	}
	key := strings.ToLower(strings.TrimSpace(cuisine))
	if cat, ok := v.cuisines[key]; ok {
		return cat
	}
	return key
}

// MoodTerm maps a mood to a search term. Unmapped moods are returned verbatim.
func (v *Vocabulary) MoodTerm(mood string) string {
	if mood == "" {
		return ""
	}
	if term, ok := v.moods[strings.ToLower(strings.TrimSpace(mood))]; ok {
		return term
	}
	return mood
}

// PriceTier maps a dollar-sign tier to a provider price filter. Unmapped or
// empty tiers yield "1,2".
func PriceTier(p types.PriceRange) string {
	if tier, ok := priceTiers[p]; ok {
		return tier
	}
	return defaultPriceTier
}
