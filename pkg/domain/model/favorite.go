package model

import "time"

// Favorite marks a restaurant a user wants to keep. Unique per user and restaurant.
type Favorite struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	RestaurantID int64     `json:"restaurantId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Clone returns a copy of the favorite
func (f *Favorite) Clone() *Favorite {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// FavoriteDetail pairs a favorite with its restaurant for listing
type FavoriteDetail struct {
	*Favorite
	Restaurant *Restaurant `json:"restaurant,omitempty"`
}
