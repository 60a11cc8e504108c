package main

import (
	"database/sql"
	"delivery-scenario-service/internal/adapters/cache"
	"delivery-scenario-service/internal/adapters/distance"
	"delivery-scenario-service/internal/config"
	"delivery-scenario-service/internal/platform/logging"
	"delivery-scenario-service/internal/ports"
	"errors"
	"fmt"
	"strings"
	"time"
)

const defaultMatrixCacheTTL = 7 * 24 * time.Hour

// buildProvider selects the travel cost provider from TRAVEL_COST_PROVIDER and
// wraps it in the cache named by MATRIX_CACHE. The returned func releases
// cache connections.
func buildProvider(sqlDB *sql.DB) (ports.TravelCostProvider, func(), error) {
	noop := func() {}
	log := logging.Get()

	var (
		base ports.TravelCostProvider
		name string
	)
	switch kind := strings.ToLower(config.Get("TRAVEL_COST_PROVIDER", "ors")); kind {
	case "ors":
		key := config.Get("ORS_API_KEY", "")
		if key == "" {
			return nil, noop, errors.New("ORS_API_KEY is required when TRAVEL_COST_PROVIDER=ors")
		}
		ors, err := distance.NewORSMatrixProvider(key,
			distance.WithProfile(config.Get("ORS_PROFILE", "driving-car")),
			distance.WithRateLimit(config.GetFloat("ORS_RATE_PER_SEC", 40.0/60.0), 2),
		)
		if err != nil {
			return nil, noop, err
		}
		base, name = ors, ors.Name()
	case "straightline":
		sl, err := distance.NewStraightLineProvider(
			config.GetFloat("STRAIGHTLINE_SPEED_KPH", distance.DefaultStraightLineSpeedKPH),
			config.GetFloat("STRAIGHTLINE_DETOUR", 1.3),
		)
		if err != nil {
			return nil, noop, err
		}
		base, name = sl, sl.Name()
	default:
		return nil, noop, fmt.Errorf("unknown TRAVEL_COST_PROVIDER %q", kind)
	}

	defaultCache := "none"
	if sqlDB != nil {
		defaultCache = "postgres"
	}

	switch kind := strings.ToLower(config.Get("MATRIX_CACHE", defaultCache)); kind {
	case "none":
		log.Info().Str("provider", name).Msg("matrix cache disabled")
		return base, noop, nil
	case "postgres":
		if sqlDB == nil {
			return nil, noop, errors.New("MATRIX_CACHE=postgres requires DATABASE_URL")
		}
		log.Info().Str("provider", name).Msg("matrix cache: postgres")
		return distance.NewCachingProvider(base, cache.NewSQLMatrixCache(sqlDB), name), noop, nil
	case "redis":
		rc, err := cache.NewRedisMatrixCacheFromURL(
			config.Get("REDIS_URL", "redis://localhost:6379/0"),
			config.GetDuration("MATRIX_CACHE_TTL", defaultMatrixCacheTTL),
		)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("provider", name).Msg("matrix cache: redis")
		closeFn := func() {
			if err := rc.Close(); err != nil {
				log.Warn().Err(err).Msg("close redis matrix cache")
			}
		}
		return distance.NewCachingProvider(base, rc, name), closeFn, nil
	default:
		return nil, noop, fmt.Errorf("unknown MATRIX_CACHE %q", kind)
	}
}
