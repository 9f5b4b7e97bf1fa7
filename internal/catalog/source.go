package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/tripplanner/internal/models"
)

// CacheKey holds the JSON-encoded catalog in Redis.
const CacheKey = "catalog:destinations"

// DefaultTTL is how long a cached catalog is served.
const DefaultTTL = 10 * time.Minute

// Cache is the subset of the Redis client the catalog uses.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Cache = (*redis.Client)(nil)

// Source reads the catalog from the store, through a Redis cache when one
// is configured. Cache failures are logged and the store is used instead.
type Source struct {
	store  Store
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithCache serves the catalog from cache for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Source) {
		s.cache = cache
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger for cache failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSource creates a catalog source over store.
func NewSource(store Store, opts ...Option) *Source {
	s := &Source{
		store:  store,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Destinations returns the whole catalog in catalog order.
func (s *Source) Destinations(ctx context.Context) ([]*models.Destination, error) {
	if s.cache != nil {
		if cached, ok := s.cached(ctx); ok {
			return cached, nil
		}
	}

	destinations, err := s.store.GetAllDestinations(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(destinations) > 0 {
		s.fill(ctx, destinations)
	}
	return destinations, nil
}

// Destination returns one catalog entry, or nil when it does not exist.
func (s *Source) Destination(ctx context.Context, destinationID string) (*models.Destination, error) {
	return s.store.GetDestinationByID(ctx, destinationID)
}

// Invalidate drops the cached catalog.
func (s *Source) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, CacheKey).Err()
}

func (s *Source) cached(ctx context.Context) ([]*models.Destination, bool) {
	data, err := s.cache.Get(ctx, CacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("Catalog cache read failed", "error", err)
		return nil, false
	}

	var destinations []*models.Destination
	if err := json.Unmarshal(data, &destinations); err != nil {
		s.logger.Warn("Catalog cache entry is corrupt", "error", err)
		return nil, false
	}
	return destinations, true
}

func (s *Source) fill(ctx context.Context, destinations []*models.Destination) {
	data, err := json.Marshal(destinations)
	if err != nil {
		s.logger.Warn("Failed to encode catalog for cache", "error", err)
		return
	}
	if err := s.cache.Set(ctx, CacheKey, data, s.ttl).Err(); err != nil {
		s.logger.Warn("Catalog cache write failed", "error", err)
	}
}
