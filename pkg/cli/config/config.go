package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/domain/types"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	DefaultUserID int64        `toml:"default_user_id"`
	Users         []UserConfig `toml:"user"`
	Search        SearchConfig `toml:"search"`
	Vocabulary    Vocabulary   `toml:"vocabulary"`
}

// UserConfig is a fixture user created on first start
type UserConfig struct {
	Username            string   `toml:"username"`
	Location            string   `toml:"location"`
	Cuisines            []string `toml:"cuisines"`
	PriceRange          string   `toml:"price_range"`
	DietaryRestrictions []string `toml:"dietary_restrictions"`
}

// Validate checks if the UserConfig is valid
func (u *UserConfig) Validate() error {
	if u.Username == "" {
		return goerr.Wrap(ErrMissingName, "user name is required")
	}
	if _, err := types.ParsePriceRange(u.PriceRange); err != nil {
		return goerr.Wrap(ErrInvalidConfig, "invalid price range",
			goerr.V(UsernameKey, u.Username),
			goerr.V("price_range", u.PriceRange),
		)
	}
	return nil
}

// SearchConfig overrides the restaurant search defaults
type SearchConfig struct {
	Limit  int    `toml:"limit"`
	Radius int    `toml:"radius"`
	SortBy string `toml:"sort_by"`
}

var validSortOrders = map[string]bool{
	"best_match":   true,
	"rating":       true,
	"review_count": true,
	"distance":     true,
}

// Validate checks if the SearchConfig is valid
func (s *SearchConfig) Validate() error {
	if s.Limit < 0 || s.Limit > 50 {
		return goerr.Wrap(ErrInvalidConfig, "search limit must be between 1 and 50", goerr.V("limit", s.Limit))
	}
	if s.Radius < 0 || s.Radius > 40000 {
		return goerr.Wrap(ErrInvalidConfig, "search radius must be between 1 and 40000 meters", goerr.V("radius", s.Radius))
	}
	if s.SortBy != "" && !validSortOrders[s.SortBy] {
		return goerr.Wrap(ErrInvalidConfig, "unknown search sort order", goerr.V("sort_by", s.SortBy))
	}
	return nil
}

// Vocabulary adds cuisine-to-category and mood-to-term mappings
type Vocabulary struct {
	Cuisines map[string]string `toml:"cuisines"`
	Moods    map[string]string `toml:"moods"`
}

// Validate checks if the Vocabulary is valid
func (v *Vocabulary) Validate() error {
	for k, val := range v.Cuisines {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(val) == "" {
			return goerr.Wrap(ErrInvalidMapping, "empty cuisine mapping", goerr.V(MappingKey, k))
		}
	}
	for k, val := range v.Moods {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(val) == "" {
			return goerr.Wrap(ErrInvalidMapping, "empty mood mapping", goerr.V(MappingKey, k))
		}
	}
	return nil
}

// DefaultAppConfig is used when no configuration file is given: a single
// demo user located in Downtown SF.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		DefaultUserID: 1,
		Users: []UserConfig{
			{
				Username:   "user",
				Location:   "Downtown SF",
				Cuisines:   []string{"Italian", "Japanese"},
				PriceRange: string(types.PriceRangeModerate),
			},
		},
	}
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.DefaultUserID < 0 {
		return goerr.Wrap(ErrInvalidConfig, "default_user_id must be positive", goerr.V("default_user_id", a.DefaultUserID))
	}

	names := make(map[string]bool)
	for i, u := range a.Users {
		if err := u.Validate(); err != nil {
			return goerr.Wrap(err, "invalid user", goerr.V(UserIndexKey, i))
		}
		if names[u.Username] {
			return goerr.Wrap(ErrDuplicateUser, "duplicate username", goerr.V(UsernameKey, u.Username))
		}
		names[u.Username] = true
	}

	if err := a.Search.Validate(); err != nil {
		return goerr.Wrap(err, "invalid search settings")
	}
	if err := a.Vocabulary.Validate(); err != nil {
		return goerr.Wrap(err, "invalid vocabulary")
	}
	return nil
}

// LoadAppConfiguration loads the application configuration from a TOML file.
// Missing sections keep their defaults.
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if len(config.Users) == 0 {
		config.Users = DefaultAppConfig().Users
	}
	if config.DefaultUserID == 0 {
		config.DefaultUserID = 1
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// FixtureUsers converts the configured users to domain records
func (a *AppConfig) FixtureUsers() []*model.User {
	users := make([]*model.User, len(a.Users))
	for i, u := range a.Users {
		users[i] = &model.User{
			Username: u.Username,
			Location: u.Location,
			Preferences: model.Preferences{
				Cuisines:            u.Cuisines,
				PriceRange:          types.PriceRange(u.PriceRange),
				DietaryRestrictions: u.DietaryRestrictions,
			},
		}
	}
	return users
}

// ToVocabulary merges the configured mappings over the built-in tables
func (a *AppConfig) ToVocabulary() *model.Vocabulary {
	return model.DefaultVocabulary().With(a.Vocabulary.Cuisines, a.Vocabulary.Moods)
}

// SearchDefaults returns the search limits; zero values fall back to the
// built-in defaults
func (a *AppConfig) SearchDefaults() model.SearchQuery {
	return model.SearchQuery{
		Limit:  a.Search.Limit,
		Radius: a.Search.Radius,
		SortBy: a.Search.SortBy,
	}.WithDefaults()
}
