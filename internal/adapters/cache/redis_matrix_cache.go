package cache

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisMatrixCache keeps one hash per origin. Fields are destination keys and
// values are JSON-encoded costs. Each write refreshes the hash TTL.
type RedisMatrixCache struct {
	rdb *redis.Client
	ttl time.Duration
}

type cachedCost struct {
	Meters  float64 `json:"m"`
	Seconds float64 `json:"s"`
}

func NewRedisMatrixCache(rdb *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{rdb: rdb, ttl: ttl}
}

// NewRedisMatrixCacheFromURL parses a redis:// URL and connects lazily.
func NewRedisMatrixCacheFromURL(url string, ttl time.Duration) (*RedisMatrixCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis matrix cache: parse url: %w", err)
	}
	return NewRedisMatrixCache(redis.NewClient(opt), ttl), nil
}

func (r *RedisMatrixCache) hashName(origin string) string { return "matrix:" + origin }

func (r *RedisMatrixCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]domain.TravelCost, err error) {
	defer obs.Time(ctx, "matrix.cache.redis.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get matrix cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]domain.TravelCost{}, nil
	}

	vals, err := r.rdb.HMGet(ctx, r.hashName(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get matrix cache: hmget: %w", err)
	}

	out := make(map[string]domain.TravelCost, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var c cachedCost
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return nil, fmt.Errorf("get matrix cache: decode %q: %w", uniq[i], err)
		}
		out[uniq[i]] = domain.TravelCost{DistanceMeters: c.Meters, DurationSeconds: c.Seconds}
	}

	return out, nil
}

func (r *RedisMatrixCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]domain.TravelCost,
) (err error) {
	defer obs.Time(ctx, "matrix.cache.redis.PutMany")(&err)

	if origin == "" {
		return errors.New("insert matrix cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	fields := make(map[string]any, len(results))
	for dest, c := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert matrix cache: empty destination key")
		}
		b, err := json.Marshal(cachedCost{Meters: c.DistanceMeters, Seconds: c.DurationSeconds})
		if err != nil {
			return fmt.Errorf("insert matrix cache: encode %q: %w", dest, err)
		}
		fields[dest] = string(b)
	}

	key := r.hashName(origin)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert matrix cache: %w", err)
	}

	return nil
}

// Close releases the underlying client.
func (r *RedisMatrixCache) Close() error { return r.rdb.Close() }
