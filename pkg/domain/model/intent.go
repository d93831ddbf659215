package model

import (
	"slices"

	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

// Entities are the optional slots extracted from an utterance
type Entities struct {
	Cuisine             string           `json:"cuisine,omitempty"`
	PriceRange          types.PriceRange `json:"priceRange,omitempty"`
	Location            string           `json:"location,omitempty"`
	PartySize           int              `json:"partySize,omitempty"`
	DateTime            string           `json:"dateTime,omitempty"`
	Mood                string           `json:"mood,omitempty"`
	DietaryRestrictions []string         `json:"dietaryRestrictions,omitempty"`
}

// IsEmpty reports whether no entity was extracted
func (e Entities) IsEmpty() bool {
	return e.Cuisine == "" &&
		e.PriceRange == "" &&
		e.Location == "" &&
		e.PartySize == 0 &&
		e.DateTime == "" &&
		e.Mood == "" &&
		len(e.DietaryRestrictions) == 0
}

// IntentResult is the output of classifying a single utterance
type IntentResult struct {
	Intent     types.Intent `json:"intent"`
	Entities   Entities     `json:"entities"`
	Confidence float64      `json:"confidence"`
}

// FallbackIntentResult is used whenever classification cannot produce a valid result
func FallbackIntentResult() *IntentResult {
	return &IntentResult{
		Intent:     types.IntentGeneralChat,
		Entities:   Entities{},
		Confidence: 0.5,
	}
}

// Clone returns a deep copy of the result
func (r *IntentResult) Clone() *IntentResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Entities.DietaryRestrictions = slices.Clone(r.Entities.DietaryRestrictions)
	return &c
}
