package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/repository/memory"
	"github.com/secmon-lab/dinewise/pkg/usecase"
)

func TestUserUseCase_Seed(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	users, err := uc.User.Seed(ctx, []*model.User{demoUser(), {Username: "guest"}})
	gt.NoError(t, err).Required()
	gt.Array(t, users).Length(2).Required()
	gt.Value(t, users[0].ID).Equal(int64(1))
	gt.Value(t, users[0].Location).Equal("Downtown SF")

	// a populated store is left alone
	again, err := uc.User.Seed(ctx, []*model.User{{Username: "someone-else"}})
	gt.NoError(t, err).Required()
	gt.Array(t, again).Length(2)

	_, err = usecase.New(memory.New()).User.Seed(ctx, []*model.User{{Location: "Nowhere"}})
	gt.Error(t, err).Is(usecase.ErrInvalidRequest)
}

func TestUserUseCase_UpdatePreferences(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	ctx := context.Background()

	users, err := uc.User.Seed(ctx, []*model.User{demoUser()})
	gt.NoError(t, err).Required()
	id := users[0].ID

	location := "Oakland"
	updated, err := uc.User.UpdatePreferences(ctx, id, usecase.UpdateUserInput{
		Location: &location,
		Preferences: &model.Preferences{
			Cuisines:            []string{"Thai"},
			PriceRange:          types.PriceRangeBudget,
			DietaryRestrictions: []string{"vegetarian"},
		},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.Location).Equal("Oakland")
	gt.Value(t, updated.Preferences.Cuisines).Equal([]string{"Thai"})

	got, err := uc.User.Get(ctx, id)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Preferences.PriceRange).Equal(types.PriceRangeBudget)
	gt.Value(t, got.Username).Equal("user")

	_, err = uc.User.UpdatePreferences(ctx, id, usecase.UpdateUserInput{
		Preferences: &model.Preferences{PriceRange: "cheap"},
	})
	gt.Error(t, err).Is(usecase.ErrInvalidRequest)

	_, err = uc.User.Get(ctx, 999)
	gt.Error(t, err).Is(usecase.ErrNotFound)
}
