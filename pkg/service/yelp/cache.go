package yelp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
	"github.com/secmon-lab/dinewise/pkg/utils/metrics"
)

const cacheKeyPrefix = "dinewise:yelp:search:"

// DefaultCacheTTL bounds how stale a cached search may be
const DefaultCacheTTL = 10 * time.Minute

// cachedService serves repeated searches from redis. Cache failures are
// logged and fall through to the wrapped service.
type cachedService struct {
	next    Service
	rdb     redis.Cmdable
	ttl     time.Duration
	metrics *metrics.Metrics
}

// CacheOption configures NewCached
type CacheOption func(*cachedService)

// WithCacheMetrics records hit/miss counts
func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(s *cachedService) {
		s.metrics = m
	}
}

// NewCached wraps next with a redis-backed response cache. A ttl <= 0
// uses DefaultCacheTTL.
func NewCached(next Service, rdb redis.Cmdable, ttl time.Duration, opts ...CacheOption) (Service, error) {
	if next == nil {
		return nil, goerr.New("search service is required")
	}
	if rdb == nil {
		return nil, goerr.New("redis client is required")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	s := &cachedService{next: next, rdb: rdb, ttl: ttl}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *cachedService) Search(ctx context.Context, query model.SearchQuery) ([]Business, error) {
	key := cacheKeyPrefix + query.CacheKey()
	logger := logging.From(ctx)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []Business
		if err := json.Unmarshal(raw, &cached); err == nil {
			s.metrics.ObserveSearchCache(true)
			return cached, nil
		}
		logger.Warn("discarding undecodable search cache entry", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		logger.Warn("search cache read failed", "error", err, "key", key)
	}
	s.metrics.ObserveSearchCache(false)

	result, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode search result")
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logger.Warn("search cache write failed", "error", err, "key", key)
	}

	return result, nil
}
