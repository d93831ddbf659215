package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

type FavoriteUseCase struct {
	repo interfaces.Repository
}

func NewFavoriteUseCase(repo interfaces.Repository) *FavoriteUseCase {
	return &FavoriteUseCase{repo: repo}
}

// Add marks a restaurant as a favorite. Adding it twice returns the first record.
func (uc *FavoriteUseCase) Add(ctx context.Context, userID, restaurantID int64) (*model.Favorite, error) {
	if _, err := uc.repo.Restaurant().Get(ctx, restaurantID); err != nil {
		return nil, storeError(err, "failed to get restaurant", goerr.V(RestaurantIDKey, restaurantID))
	}

	favorite, err := uc.repo.Favorite().Create(ctx, &model.Favorite{
		UserID:       userID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		return nil, storeError(err, "failed to add favorite",
			goerr.V(UserIDKey, userID),
			goerr.V(RestaurantIDKey, restaurantID),
		)
	}
	return favorite, nil
}

// List returns the user's favorites with their restaurants
func (uc *FavoriteUseCase) List(ctx context.Context, userID int64) ([]*model.FavoriteDetail, error) {
	favorites, err := uc.repo.Favorite().ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "failed to list favorites", goerr.V(UserIDKey, userID))
	}

	details := make([]*model.FavoriteDetail, 0, len(favorites))
	for _, f := range favorites {
		restaurant, err := lookupRestaurant(ctx, uc.repo, f.RestaurantID)
		if err != nil {
			return nil, err
		}
		details = append(details, &model.FavoriteDetail{Favorite: f, Restaurant: restaurant})
	}
	return details, nil
}

// Remove deletes a favorite and reports whether it existed
func (uc *FavoriteUseCase) Remove(ctx context.Context, userID, restaurantID int64) (bool, error) {
	removed, err := uc.repo.Favorite().Delete(ctx, userID, restaurantID)
	if err != nil {
		return false, storeError(err, "failed to remove favorite",
			goerr.V(UserIDKey, userID),
			goerr.V(RestaurantIDKey, restaurantID),
		)
	}
	return removed, nil
}
