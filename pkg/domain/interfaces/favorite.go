package interfaces

import (
	"context"

	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

// FavoriteRepository defines the interface for Favorite data access
type FavoriteRepository interface {
	// Create adds a favorite. Adding an existing (user, restaurant) pair
	// returns the stored record.
	Create(ctx context.Context, f *model.Favorite) (*model.Favorite, error)

	// ListByUser returns the user's favorites, oldest first
	ListByUser(ctx context.Context, userID int64) ([]*model.Favorite, error)

	// Delete removes the favorite and reports whether it existed
	Delete(ctx context.Context, userID, restaurantID int64) (bool, error)
}
