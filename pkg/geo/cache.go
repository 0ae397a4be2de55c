package geo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ambubot-be/internal/pkg/logger"
	"ambubot-be/pkg/intake"
)

// Store is the key/value surface the geocode cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisStore adapts a go-redis client to Store.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// CachedGeocoder remembers successful lookups. Misses and failures are not
// cached, and a cache outage only costs the upstream call.
type CachedGeocoder struct {
	next   intake.Geocoder
	store  Store
	ttl    time.Duration
	logger logger.ILogger
}

var _ intake.Geocoder = (*CachedGeocoder)(nil)

func NewCachedGeocoder(next intake.Geocoder, store Store, ttl time.Duration, log logger.ILogger) *CachedGeocoder {
	return &CachedGeocoder{next: next, store: store, ttl: ttl, logger: log}
}

func cacheKey(text string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(text), " "))
}

func (c *CachedGeocoder) Resolve(ctx context.Context, text string) (*intake.Coordinates, error) {
	key := cacheKey(text)

	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Warn("GeocodeCache", "Cache read failed", map[string]interface{}{"error": err.Error()})
	} else if ok {
		var coords intake.Coordinates
		if err := json.Unmarshal([]byte(raw), &coords); err == nil {
			return &coords, nil
		}
	}

	coords, err := c.next.Resolve(ctx, text)
	if err != nil || coords == nil {
		return coords, err
	}

	if raw, err := json.Marshal(coords); err == nil {
		if err := c.store.Set(ctx, key, string(raw), c.ttl); err != nil {
			c.logger.Warn("GeocodeCache", "Cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return coords, nil
}
