package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

func newTestRestaurant(externalID, name string) *model.Restaurant {
	return &model.Restaurant{
		ExternalID:  externalID,
		Name:        name,
		Cuisine:     "Italian",
		PriceRange:  types.PriceRangeModerate,
		Rating:      4,
		ReviewCount: 120,
		Phone:       "+14155550100",
		Address:     "1 Market St, San Francisco, CA 94105",
		Coordinates: model.Coordinates{Latitude: 37.79, Longitude: -122.39},
		Hours:       map[string]string{"mon": "11:00-22:00"},
	}
}

func runRestaurantRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Helper()

	t.Run("GetOrCreateByExternalID deduplicates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, created, err := repo.Restaurant().GetOrCreateByExternalID(ctx, newTestRestaurant("yelp-1", "Trattoria"))
		gt.NoError(t, err).Required()
		gt.Bool(t, created).True()

		second, created, err := repo.Restaurant().GetOrCreateByExternalID(ctx, newTestRestaurant("yelp-1", "Renamed"))
		gt.NoError(t, err).Required()
		gt.Bool(t, created).False()
		gt.Value(t, second.ID).Equal(first.ID)
		gt.Value(t, second.Name).Equal("Trattoria")

		other, created, err := repo.Restaurant().GetOrCreateByExternalID(ctx, newTestRestaurant("yelp-2", "Sushi"))
		gt.NoError(t, err).Required()
		gt.Bool(t, created).True()
		gt.Value(t, other.ID).NotEqual(first.ID)
	})

	t.Run("GetOrCreateByExternalID is atomic under concurrency", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const workers = 8
		ids := make([]int64, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r, _, err := repo.Restaurant().GetOrCreateByExternalID(ctx, newTestRestaurant("yelp-race", "Race"))
				gt.NoError(t, err)
				if r != nil {
					ids[i] = r.ID
				}
			}()
		}
		wg.Wait()

		for _, id := range ids {
			gt.Value(t, id).Equal(ids[0])
		}
	})

	t.Run("empty external ID always creates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a, created, err := repo.Restaurant().GetOrCreateByExternalID(ctx, newTestRestaurant("", "Local A"))
		gt.NoError(t, err).Required()
		gt.Bool(t, created).True()
		b, created, err := repo.Restaurant().GetOrCreateByExternalID(ctx, newTestRestaurant("", "Local B"))
		gt.NoError(t, err).Required()
		gt.Bool(t, created).True()
		gt.Value(t, a.ID).NotEqual(b.ID)
	})

	t.Run("Create rejects duplicate external ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Restaurant().Create(ctx, newTestRestaurant("yelp-dup", "One"))
		gt.NoError(t, err).Required()
		_, err = repo.Restaurant().Create(ctx, newTestRestaurant("yelp-dup", "Two"))
		gt.Value(t, err).NotNil()
	})

	t.Run("Get and GetByExternalID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Restaurant().Create(ctx, newTestRestaurant("yelp/with/slash", "Slash"))
		gt.NoError(t, err).Required()

		byID, err := repo.Restaurant().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, byID.Name).Equal("Slash")
		gt.Value(t, byID.Hours["mon"]).Equal("11:00-22:00")
		gt.Value(t, byID.Coordinates.Latitude).Equal(37.79)

		byExt, err := repo.Restaurant().GetByExternalID(ctx, "yelp/with/slash")
		gt.NoError(t, err).Required()
		gt.Value(t, byExt.ID).Equal(created.ID)

		_, err = repo.Restaurant().Get(ctx, 9999)
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()

		_, err = repo.Restaurant().GetByExternalID(ctx, "unknown")
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()

		_, err = repo.Restaurant().GetByExternalID(ctx, "")
		gt.Bool(t, errors.Is(err, interfaces.ErrNotFound)).True()
	})
}

func TestRestaurantRepository_Memory(t *testing.T) {
	runRestaurantRepositoryTest(t, newMemoryRepository)
}

func TestRestaurantRepository_Firestore(t *testing.T) {
	runRestaurantRepositoryTest(t, firestoreFactory(t))
}
