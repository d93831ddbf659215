package usecase

import (
	"context"
	"math"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
	"github.com/secmon-lab/dinewise/pkg/service/assistant"
	"github.com/secmon-lab/dinewise/pkg/service/yelp"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// RecommendInput is a search request in natural language plus the slots
// already extracted from it
type RecommendInput struct {
	Request     string
	Location    string
	Preferences model.Preferences
	Entities    model.Entities
}

// Recommendation is the composed answer to a search request
type Recommendation struct {
	Reasoning   string
	FollowUps   []string
	Restaurants []*model.Restaurant
}

type RecommendUseCase struct {
	repo       interfaces.Repository
	llm        assistant.Service
	search     yelp.Service
	provider   provider
	vocabulary *model.Vocabulary
	defaults   model.SearchQuery
}

func NewRecommendUseCase(repo interfaces.Repository, llm assistant.Service, search yelp.Service, p provider, vocabulary *model.Vocabulary, defaults model.SearchQuery) *RecommendUseCase {
	if vocabulary == nil {
		vocabulary = model.DefaultVocabulary()
	}
	return &RecommendUseCase{
		repo:       repo,
		llm:        llm,
		search:     search,
		provider:   p,
		vocabulary: vocabulary,
		defaults:   defaults,
	}
}

// Query builds the search provider query for input
func (uc *RecommendUseCase) Query(input RecommendInput) model.SearchQuery {
	q := model.SearchQuery{
		Location:   input.Location,
		Term:       uc.vocabulary.MoodTerm(input.Entities.Mood),
		Categories: uc.vocabulary.CuisineCategory(input.Entities.Cuisine),
		Limit:      uc.defaults.Limit,
		Radius:     uc.defaults.Radius,
		SortBy:     uc.defaults.SortBy,
	}

	price := input.Entities.PriceRange
	if price == "" {
		price = input.Preferences.PriceRange
	}
	if price != "" {
		q.Price = model.PriceTier(price)
	}

	return q.WithDefaults()
}

// Recommend asks the language model for reasoning and the search provider
// for listings, concurrently. Listings are stored once per external ID and
// at most model.MaxRecommendations are returned.
func (uc *RecommendUseCase) Recommend(ctx context.Context, input RecommendInput) (*Recommendation, error) {
	if input.Location == "" {
		return nil, fail(ErrInvalidRequest, nil, "location is required for restaurant search")
	}
	if uc.llm == nil || uc.search == nil {
		return nil, fail(ErrProviderFailure, nil, "restaurant search is not configured")
	}

	query := uc.Query(input)

	var (
		composed   *assistant.Recommendation
		businesses []yelp.Business
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return uc.provider.call(egCtx, "llm", "compose_recommendations", func(ctx context.Context) error {
			var err error
			composed, err = uc.llm.ComposeRecommendations(ctx, assistant.RecommendInput{
				Request:     input.Request,
				Location:    input.Location,
				Preferences: input.Preferences,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to compose recommendations")
			}
			if composed == nil {
				return goerr.Wrap(assistant.ErrInvalidResponse, "no recommendations composed")
			}
			return nil
		})
	})
	eg.Go(func() error {
		return uc.provider.call(egCtx, "yelp", "search", func(ctx context.Context) error {
			var err error
			businesses, err = uc.search.Search(ctx, query)
			if err != nil {
				return goerr.Wrap(err, "failed to search restaurants",
					goerr.V("location", query.Location),
					goerr.V("categories", query.Categories),
				)
			}
			return nil
		})
	})
	if err := eg.Wait(); err != nil {
		return nil, fail(ErrProviderFailure, err, "recommendation failed")
	}

	restaurants, err := uc.storeListings(ctx, businesses)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Debug("recommendations composed",
		"listings", len(businesses),
		"returned", len(restaurants),
		"query", query.CacheKey(),
	)

	return &Recommendation{
		Reasoning:   composed.Reasoning,
		FollowUps:   composed.FollowUps,
		Restaurants: restaurants,
	}, nil
}

func (uc *RecommendUseCase) storeListings(ctx context.Context, businesses []yelp.Business) ([]*model.Restaurant, error) {
	seen := make(map[int64]struct{}, len(businesses))
	restaurants := make([]*model.Restaurant, 0, len(businesses))

	for _, b := range businesses {
		candidate := RestaurantFromBusiness(b)
		var (
			stored *model.Restaurant
			err    error
		)
		if candidate.ExternalID == "" {
			stored, err = uc.repo.Restaurant().Create(ctx, candidate)
		} else {
			stored, _, err = uc.repo.Restaurant().GetOrCreateByExternalID(ctx, candidate)
		}
		if err != nil {
			return nil, fail(ErrPersistenceFailure, err, "failed to store restaurant", goerr.V("external_id", candidate.ExternalID))
		}

		if _, dup := seen[stored.ID]; dup {
			continue
		}
		seen[stored.ID] = struct{}{}
		restaurants = append(restaurants, stored)
	}

	// Every listing is stored; only the first few are shown
	if len(restaurants) > model.MaxRecommendations {
		restaurants = restaurants[:model.MaxRecommendations]
	}
	return restaurants, nil
}

// RestaurantFromBusiness maps a search listing to a Restaurant record
func RestaurantFromBusiness(b yelp.Business) *model.Restaurant {
	cuisine := "Restaurant"
	if len(b.Categories) > 0 && b.Categories[0].Title != "" {
		cuisine = b.Categories[0].Title
	}

	price := types.PriceRange(b.Price)
	if !price.IsValid() {
		price = types.DefaultPriceRange
	}

	rating := int(math.Round(b.Rating))
	rating = max(0, min(5, rating))

	return &model.Restaurant{
		ExternalID:  b.ID,
		Name:        b.Name,
		Cuisine:     cuisine,
		PriceRange:  price,
		Rating:      rating,
		ReviewCount: b.ReviewCount,
		Phone:       b.Phone,
		Address:     strings.Join(b.Location.DisplayAddress, ", "),
		ImageURL:    b.ImageURL,
		Coordinates: model.Coordinates{
			Latitude:  b.Coordinates.Latitude,
			Longitude: b.Coordinates.Longitude,
		},
		Hours: map[string]string{},
	}
}
