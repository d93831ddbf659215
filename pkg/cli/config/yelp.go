package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"github.com/secmon-lab/dinewise/pkg/service/yelp"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
	"github.com/secmon-lab/dinewise/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
)

// Yelp holds configuration for the restaurant search provider
type Yelp struct {
	apiKey   string
	baseURL  string
	cacheTTL time.Duration
}

// Flags returns CLI flags for Yelp configuration
func (x *Yelp) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "yelp-api-key",
			Usage:       "Yelp Fusion API key",
			Category:    "Yelp",
			Sources:     cli.EnvVars("DINEWISE_YELP_API_KEY"),
			Destination: &x.apiKey,
		},
		&cli.StringFlag{
			Name:        "yelp-base-url",
			Usage:       "Yelp Fusion API base URL",
			Value:       yelp.DefaultBaseURL,
			Category:    "Yelp",
			Sources:     cli.EnvVars("DINEWISE_YELP_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.DurationFlag{
			Name:        "search-cache-ttl",
			Usage:       "How long search results stay in Redis (needs --redis-addr)",
			Value:       yelp.DefaultCacheTTL,
			Category:    "Yelp",
			Sources:     cli.EnvVars("DINEWISE_SEARCH_CACHE_TTL"),
			Destination: &x.cacheTTL,
		},
	}
}

func (x Yelp) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-key.len", len(x.apiKey)),
		slog.String("base-url", x.baseURL),
		slog.Duration("cache-ttl", x.cacheTTL),
	)
}

// Configure creates the search client, wrapped with a Redis cache when rdb
// is not nil. Returns nil when no API key is set; searches then fail and
// the conversation answers with an apology.
func (x *Yelp) Configure(rdb redis.Cmdable, m *metrics.Metrics) (yelp.Service, error) {
	if x.apiKey == "" {
		logging.Default().Warn("Yelp API key not configured, restaurant search is disabled")
		return nil, nil
	}

	svc, err := yelp.New(x.apiKey, yelp.WithBaseURL(x.baseURL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create yelp client")
	}

	if rdb == nil {
		return svc, nil
	}

	cached, err := yelp.NewCached(svc, rdb, x.cacheTTL, yelp.WithCacheMetrics(m))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create search cache")
	}
	logging.Default().Info("Search cache enabled", "ttl", x.cacheTTL)
	return cached, nil
}
