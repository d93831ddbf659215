package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

func runFavoriteRepositoryTest(t *testing.T, newRepo repoFactory) {
	t.Helper()

	t.Run("Create is idempotent per pair", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		f1, err := repo.Favorite().Create(ctx, &model.Favorite{UserID: 1, RestaurantID: 5})
		gt.NoError(t, err).Required()
		f2, err := repo.Favorite().Create(ctx, &model.Favorite{UserID: 1, RestaurantID: 5})
		gt.NoError(t, err).Required()
		gt.Value(t, f2.ID).Equal(f1.ID)

		list, err := repo.Favorite().ListByUser(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1)
	})

	t.Run("ListByUser filters by user", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, f := range []*model.Favorite{
			{UserID: 1, RestaurantID: 5},
			{UserID: 1, RestaurantID: 6},
			{UserID: 2, RestaurantID: 5},
		} {
			_, err := repo.Favorite().Create(ctx, f)
			gt.NoError(t, err).Required()
		}

		list, err := repo.Favorite().ListByUser(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(2).Required()
		gt.Value(t, list[0].RestaurantID).Equal(int64(5))
		gt.Value(t, list[1].RestaurantID).Equal(int64(6))
	})

	t.Run("Delete reports whether the favorite existed", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Favorite().Create(ctx, &model.Favorite{UserID: 1, RestaurantID: 5})
		gt.NoError(t, err).Required()

		removed, err := repo.Favorite().Delete(ctx, 1, 5)
		gt.NoError(t, err).Required()
		gt.Bool(t, removed).True()

		removed, err = repo.Favorite().Delete(ctx, 1, 5)
		gt.NoError(t, err).Required()
		gt.Bool(t, removed).False()

		list, err := repo.Favorite().ListByUser(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(0)
	})
}

func TestFavoriteRepository_Memory(t *testing.T) {
	runFavoriteRepositoryTest(t, newMemoryRepository)
}

func TestFavoriteRepository_Firestore(t *testing.T) {
	runFavoriteRepositoryTest(t, firestoreFactory(t))
}
