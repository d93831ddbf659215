package model

import (
	"slices"
	"time"

	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

// User is a diner known to the assistant
type User struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	Location    string      `json:"location,omitempty"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Preferences holds a user's standing dining preferences
type Preferences struct {
	Cuisines            []string         `json:"cuisines,omitempty"`
	PriceRange          types.PriceRange `json:"priceRange,omitempty"`
	DietaryRestrictions []string         `json:"dietaryRestrictions,omitempty"`
}

// Clone returns a deep copy of the preferences
func (p Preferences) Clone() Preferences {
	return Preferences{
		Cuisines:            slices.Clone(p.Cuisines),
		PriceRange:          p.PriceRange,
		DietaryRestrictions: slices.Clone(p.DietaryRestrictions),
	}
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Preferences = u.Preferences.Clone()
	return &c
}
