package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

func TestVocabulary_CuisineCategory(t *testing.T) {
	v := model.DefaultVocabulary()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Italian", want: "italian"},
		{input: "Indian", want: "indpak"},
		{input: "American", want: "newamerican"},
		{input: "Seafood", want: "seafood"},
		{input: "Korean BBQ", want: "korean bbq"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			gt.Value(t, v.CuisineCategory(tt.input)).Equal(tt.want)
		})
	}
}

func TestVocabulary_MoodTerm(t *testing.T) {
	v := model.DefaultVocabulary()

	gt.Value(t, v.MoodTerm("romantic")).Equal("romantic intimate")
	gt.Value(t, v.MoodTerm("upscale")).Equal("upscale fine dining")
	gt.Value(t, v.MoodTerm("quick")).Equal("fast casual")
	gt.Value(t, v.MoodTerm("cozy")).Equal("cozy")
	gt.Value(t, v.MoodTerm("")).Equal("")
}

func TestVocabulary_With(t *testing.T) {
	base := model.DefaultVocabulary()
	v := base.With(
		map[string]string{"Korean": "korean", "Italian": "pizza"},
		map[string]string{"Lively": "lively bar"},
	)

	gt.Value(t, v.CuisineCategory("korean")).Equal("korean")
	gt.Value(t, v.CuisineCategory("Italian")).Equal("pizza")
	gt.Value(t, v.MoodTerm("lively")).Equal("lively bar")

	// base is unchanged
	gt.Value(t, base.CuisineCategory("Italian")).Equal("italian")
	gt.Value(t, base.MoodTerm("lively")).Equal("lively")
}

func TestPriceTier(t *testing.T) {
	tests := []struct {
		input types.PriceRange
		want  string
	}{
		{input: types.PriceRangeBudget, want: "1"},
		{input: types.PriceRangeModerate, want: "1,2"},
		{input: types.PriceRangeExpensive, want: "2,3"},
		{input: types.PriceRangeLuxury, want: "3,4"},
		{input: "", want: "1,2"},
		{input: "cheap", want: "1,2"},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			gt.Value(t, model.PriceTier(tt.input)).Equal(tt.want)
		})
	}
}

func TestSearchQuery_WithDefaults(t *testing.T) {
	q := model.SearchQuery{Location: "Downtown SF"}.WithDefaults()
	gt.Value(t, q.Limit).Equal(10)
	gt.Value(t, q.Radius).Equal(5000)
	gt.Value(t, q.SortBy).Equal("best_match")

	q = model.SearchQuery{Location: "Downtown SF", Limit: 3, SortBy: "rating"}.WithDefaults()
	gt.Value(t, q.Limit).Equal(3)
	gt.Value(t, q.SortBy).Equal("rating")
}

func TestSearchQuery_CacheKey(t *testing.T) {
	a := model.SearchQuery{Location: "Downtown SF", Categories: "italian", Price: "1,2"}
	b := model.SearchQuery{Location: "downtown sf", Categories: "italian", Price: "1,2", Limit: 10}
	c := model.SearchQuery{Location: "Downtown SF", Categories: "thai", Price: "1,2"}

	gt.Value(t, a.CacheKey()).Equal(b.CacheKey())
	gt.Value(t, a.CacheKey()).NotEqual(c.CacheKey())
}
