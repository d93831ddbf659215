package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
)

type RestaurantUseCase struct {
	repo interfaces.Repository
}

func NewRestaurantUseCase(repo interfaces.Repository) *RestaurantUseCase {
	return &RestaurantUseCase{repo: repo}
}

func (uc *RestaurantUseCase) Get(ctx context.Context, id int64) (*model.Restaurant, error) {
	restaurant, err := uc.repo.Restaurant().Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to get restaurant", goerr.V(RestaurantIDKey, id))
	}
	return restaurant, nil
}

// lookupRestaurant resolves a restaurant for a listing. A missing record is
// logged and yields nil so that the listing still renders.
func lookupRestaurant(ctx context.Context, repo interfaces.Repository, id int64) (*model.Restaurant, error) {
	restaurant, err := repo.Restaurant().Get(ctx, id)
	if errors.Is(err, interfaces.ErrNotFound) {
		logging.From(ctx).Warn("referenced restaurant is missing", "restaurant_id", id)
		return nil, nil
	}
	if err != nil {
		return nil, fail(ErrPersistenceFailure, err, "failed to get restaurant", goerr.V(RestaurantIDKey, id))
	}
	return restaurant, nil
}
