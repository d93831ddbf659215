package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/repository/memory"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/service/yelp"
	"github.com/secmon-lab/dinewise/pkg/usecase"
)

func TestRecommendUseCase_Dedup(t *testing.T) {
	repo := memory.New()
	search := &mockSearch{businesses: []yelp.Business{business("yelp-123", "Kokkari", "greek")}}
	uc := usecase.New(repo, usecase.WithAssistant(&mockAssistant{}), usecase.WithSearch(search))
	ctx := context.Background()

	input := usecase.RecommendInput{Request: "greek food", Location: "Downtown SF"}

	first, err := uc.Recommend.Recommend(ctx, input)
	gt.NoError(t, err).Required()
	second, err := uc.Recommend.Recommend(ctx, input)
	gt.NoError(t, err).Required()

	gt.Array(t, first.Restaurants).Length(1).Required()
	gt.Array(t, second.Restaurants).Length(1).Required()
	gt.Value(t, second.Restaurants[0].ID).Equal(first.Restaurants[0].ID)

	stored, err := repo.Restaurant().GetByExternalID(ctx, "yelp-123")
	gt.NoError(t, err).Required()
	gt.Value(t, stored.ID).Equal(first.Restaurants[0].ID)

	_, err = repo.Restaurant().Get(ctx, first.Restaurants[0].ID+1)
	gt.Error(t, err).Is(memory.ErrNotFound)
}

func TestRecommendUseCase_DuplicateListings(t *testing.T) {
	repo := memory.New()
	search := &mockSearch{businesses: []yelp.Business{
		business("yelp-1", "A", "thai"),
		business("yelp-1", "A", "thai"),
		business("yelp-2", "B", "thai"),
	}}
	uc := usecase.New(repo, usecase.WithAssistant(&mockAssistant{}), usecase.WithSearch(search))

	rec, err := uc.Recommend.Recommend(context.Background(), usecase.RecommendInput{Request: "thai", Location: "Oakland"})
	gt.NoError(t, err).Required()
	gt.Array(t, rec.Restaurants).Length(2)
}

func TestRecommendUseCase_StoresEveryListing(t *testing.T) {
	repo := memory.New()
	search := &mockSearch{businesses: []yelp.Business{
		business("yelp-1", "A", "thai"),
		business("yelp-2", "B", "thai"),
		business("yelp-3", "C", "thai"),
		business("yelp-4", "D", "thai"),
		business("yelp-5", "E", "thai"),
	}}
	uc := usecase.New(repo, usecase.WithAssistant(&mockAssistant{}), usecase.WithSearch(search))
	ctx := context.Background()

	rec, err := uc.Recommend.Recommend(ctx, usecase.RecommendInput{Request: "thai", Location: "Oakland"})
	gt.NoError(t, err).Required()
	gt.Array(t, rec.Restaurants).Length(model.MaxRecommendations).Required()
	gt.Value(t, rec.Restaurants[0].ExternalID).Equal("yelp-1")
	gt.Value(t, rec.Restaurants[2].ExternalID).Equal("yelp-3")

	for _, id := range []string{"yelp-4", "yelp-5"} {
		stored, err := repo.Restaurant().GetByExternalID(ctx, id)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.ExternalID).Equal(id)
	}
}

func TestRecommendUseCase_Failures(t *testing.T) {
	ctx := context.Background()
	input := usecase.RecommendInput{Request: "pizza", Location: "Downtown SF"}

	t.Run("search error", func(t *testing.T) {
		uc := usecase.New(memory.New(),
			usecase.WithAssistant(&mockAssistant{}),
			usecase.WithSearch(&mockSearch{err: errors.New("503")}),
		)
		_, err := uc.Recommend.Recommend(ctx, input)
		gt.Error(t, err).Is(usecase.ErrProviderFailure)
	})

	t.Run("composer error", func(t *testing.T) {
		llm := &mockAssistant{
			recommendFunc: func(context.Context, assistant.RecommendInput) (*assistant.Recommendation, error) {
				return nil, assistant.ErrInvalidResponse
			},
		}
		uc := usecase.New(memory.New(), usecase.WithAssistant(llm), usecase.WithSearch(&mockSearch{}))
		_, err := uc.Recommend.Recommend(ctx, input)
		gt.Error(t, err).Is(usecase.ErrProviderFailure)
		gt.Error(t, err).Is(assistant.ErrInvalidResponse)
	})

	t.Run("composer returns nothing", func(t *testing.T) {
		llm := &mockAssistant{
			recommendFunc: func(context.Context, assistant.RecommendInput) (*assistant.Recommendation, error) {
				return nil, nil
			},
		}
		uc := usecase.New(memory.New(), usecase.WithAssistant(llm), usecase.WithSearch(&mockSearch{}))
		_, err := uc.Recommend.Recommend(ctx, input)
		gt.Error(t, err).Is(usecase.ErrProviderFailure)
		gt.Error(t, err).Is(assistant.ErrInvalidResponse)
	})

	t.Run("search not configured", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithAssistant(&mockAssistant{}))
		_, err := uc.Recommend.Recommend(ctx, input)
		gt.Error(t, err).Is(usecase.ErrProviderFailure)
	})

	t.Run("no location", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithAssistant(&mockAssistant{}), usecase.WithSearch(&mockSearch{}))
		_, err := uc.Recommend.Recommend(ctx, usecase.RecommendInput{Request: "pizza"})
		gt.Error(t, err).Is(usecase.ErrInvalidRequest)
	})
}

func TestRecommendUseCase_Query(t *testing.T) {
	vocab := model.DefaultVocabulary().With(map[string]string{"Korean": "korean"}, map[string]string{"cozy": "cozy neighborhood"})
	uc := usecase.New(memory.New(),
		usecase.WithVocabulary(vocab),
		usecase.WithSearchDefaults(model.SearchQuery{Limit: 5, Radius: 2000}),
	)

	testCases := []struct {
		name  string
		input usecase.RecommendInput
		want  model.SearchQuery
	}{
		{
			name: "entities win over preferences",
			input: usecase.RecommendInput{
				Location:    "Downtown SF",
				Entities:    model.Entities{Cuisine: "Indian", PriceRange: types.PriceRangeLuxury, Mood: "upscale"},
				Preferences: model.Preferences{PriceRange: types.PriceRangeBudget},
			},
			want: model.SearchQuery{Location: "Downtown SF", Term: "upscale fine dining", Categories: "indpak", Price: "3,4", Limit: 5, Radius: 2000, SortBy: "best_match"},
		},
		{
			name: "stored price preference",
			input: usecase.RecommendInput{
				Location:    "Berkeley",
				Preferences: model.Preferences{PriceRange: types.PriceRangeBudget},
			},
			want: model.SearchQuery{Location: "Berkeley", Price: "1", Limit: 5, Radius: 2000, SortBy: "best_match"},
		},
		{
			name: "configured vocabulary and unmapped values",
			input: usecase.RecommendInput{
				Location: "Palo Alto",
				Entities: model.Entities{Cuisine: "Korean", Mood: "cozy"},
			},
			want: model.SearchQuery{Location: "Palo Alto", Term: "cozy neighborhood", Categories: "korean", Limit: 5, Radius: 2000, SortBy: "best_match"},
		},
		{
			name: "no price at all",
			input: usecase.RecommendInput{
				Location: "SoMa",
				Entities: model.Entities{Cuisine: "Ethiopian", Mood: "lively"},
			},
			want: model.SearchQuery{Location: "SoMa", Term: "lively", Categories: "ethiopian", Limit: 5, Radius: 2000, SortBy: "best_match"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, uc.Recommend.Query(tc.input)).Equal(tc.want)
		})
	}
}

func TestRestaurantFromBusiness(t *testing.T) {
	t.Run("full listing", func(t *testing.T) {
		r := usecase.RestaurantFromBusiness(yelp.Business{
			ID:          "yelp-7",
			Name:        "Zuni Cafe",
			Categories:  []yelp.Category{{Alias: "mediterranean", Title: "Mediterranean"}, {Alias: "bars", Title: "Bars"}},
			Rating:      4.5,
			ReviewCount: 3000,
			Price:       "$$$",
			Phone:       "+14155522522",
			ImageURL:    "https://example.com/zuni.jpg",
			Coordinates: yelp.Coordinates{Latitude: 37.77, Longitude: -122.42},
			Location:    yelp.Location{DisplayAddress: []string{"1658 Market St", "San Francisco, CA 94102"}},
		})
		gt.Value(t, r.ExternalID).Equal("yelp-7")
		gt.Value(t, r.Cuisine).Equal("Mediterranean")
		gt.Value(t, r.PriceRange).Equal(types.PriceRangeExpensive)
		gt.Value(t, r.Rating).Equal(5)
		gt.Value(t, r.Address).Equal("1658 Market St, San Francisco, CA 94102")
		gt.Value(t, r.Coordinates.Latitude).Equal(37.77)
		gt.Bool(t, r.HasPhone()).True()
	})

	t.Run("sparse listing", func(t *testing.T) {
		r := usecase.RestaurantFromBusiness(yelp.Business{ID: "yelp-8", Name: "Food Truck", Rating: 7})
		gt.Value(t, r.Cuisine).Equal("Restaurant")
		gt.Value(t, r.PriceRange).Equal(types.DefaultPriceRange)
		gt.Value(t, r.Rating).Equal(5)
		gt.Value(t, r.Address).Equal("")
		gt.Bool(t, r.HasPhone()).False()
	})
}
