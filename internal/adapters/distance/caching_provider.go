package distance

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/platform/logging"
	"delivery-scenario-service/internal/platform/metrics"
	"delivery-scenario-service/internal/platform/obs"
	"delivery-scenario-service/internal/ports"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

const cacheConcurrency = 5

// CachingProvider serves cost matrices from a MatrixCache and falls back to
// the wrapped provider when any pair is missing. Keys are built from the
// namespace and the stop coordinates, so orders at the same location share
// entries across runs.
//
// Read failures are returned to the caller. Write failures are logged and
// the freshly fetched matrix is returned anyway.
type CachingProvider struct {
	inner     ports.TravelCostProvider
	cache     ports.MatrixCache
	namespace string
}

func NewCachingProvider(inner ports.TravelCostProvider, cache ports.MatrixCache, namespace string) *CachingProvider {
	return &CachingProvider{inner: inner, cache: cache, namespace: namespace}
}

func (c *CachingProvider) key(s domain.Stop) string {
	return c.namespace + "|" + s.Coordinates.Key()
}

func (c *CachingProvider) GetCostMatrix(ctx context.Context, stops []domain.Stop) (_ *domain.CostMatrix, err error) {
	defer obs.Time(ctx, "cache.GetCostMatrix")(&err)

	if len(stops) < 2 {
		return domain.NewCostMatrix(nil), nil
	}

	keys := make([]string, len(stops))
	var unique []string
	seen := make(map[string]bool, len(stops))
	for i, s := range stops {
		keys[i] = c.key(s)
		if !seen[keys[i]] {
			seen[keys[i]] = true
			unique = append(unique, keys[i])
		}
	}

	cached, err := c.readAll(ctx, unique)
	if err != nil {
		return nil, err
	}

	entries := make(map[domain.Leg]domain.TravelCost, len(stops)*(len(stops)-1))
	hits, misses := 0, 0
	for i, from := range stops {
		for j, to := range stops {
			if i == j {
				continue
			}
			leg := domain.Leg{From: from.ID, To: to.ID}
			// Distinct orders at one location cost nothing to travel between.
			if keys[i] == keys[j] {
				entries[leg] = domain.TravelCost{}
				continue
			}
			if cost, ok := cached[keys[i]][keys[j]]; ok {
				entries[leg] = cost
				hits++
				continue
			}
			misses++
		}
	}
	metrics.MatrixCacheLookups.WithLabelValues("hit").Add(float64(hits))
	metrics.MatrixCacheLookups.WithLabelValues("miss").Add(float64(misses))

	if misses == 0 {
		return domain.NewCostMatrix(entries), nil
	}

	m, err := c.inner.GetCostMatrix(ctx, stops)
	if err != nil {
		return nil, err
	}

	c.writeAll(ctx, stops, keys, m)

	return zeroSharedLocations(stops, keys, m), nil
}

// zeroSharedLocations returns m with every pair of stops that share a cache
// key set to zero cost, matching what a warm cache serves for them.
func zeroSharedLocations(stops []domain.Stop, keys []string, m *domain.CostMatrix) *domain.CostMatrix {
	entries := make(map[domain.Leg]domain.TravelCost, len(stops)*(len(stops)-1))
	for i, from := range stops {
		for j, to := range stops {
			if i == j {
				continue
			}
			leg := domain.Leg{From: from.ID, To: to.ID}
			if keys[i] == keys[j] {
				entries[leg] = domain.TravelCost{}
				continue
			}
			if cost, err := m.Entry(from.ID, to.ID); err == nil {
				entries[leg] = cost
			}
		}
	}
	return domain.NewCostMatrix(entries)
}

func (c *CachingProvider) readAll(ctx context.Context, origins []string) (map[string]map[string]domain.TravelCost, error) {
	out := make(map[string]map[string]domain.TravelCost, len(origins))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cacheConcurrency)
	for _, origin := range origins {
		dests := make([]string, 0, len(origins)-1)
		for _, d := range origins {
			if d != origin {
				dests = append(dests, d)
			}
		}

		g.Go(func() error {
			got, err := c.cache.GetMany(gctx, origin, dests)
			if err != nil {
				return fmt.Errorf("matrix cache read %q: %w", origin, err)
			}
			mu.Lock()
			out[origin] = got
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *CachingProvider) writeAll(ctx context.Context, stops []domain.Stop, keys []string, m *domain.CostMatrix) {
	rows := make(map[string]map[string]domain.TravelCost)
	for i, from := range stops {
		for j, to := range stops {
			if keys[i] == keys[j] {
				continue
			}
			cost, err := m.Entry(from.ID, to.ID)
			if err != nil {
				continue
			}
			if rows[keys[i]] == nil {
				rows[keys[i]] = make(map[string]domain.TravelCost)
			}
			rows[keys[i]][keys[j]] = cost
		}
	}

	log := logging.Get()
	var wg sync.WaitGroup
	sem := make(chan struct{}, cacheConcurrency)
	for origin, row := range rows {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := c.cache.PutMany(ctx, origin, row); err != nil {
				log.Warn().
					Str("req_id", obs.RequestID(ctx)).
					Str("origin", origin).
					Err(err).
					Msg("matrix cache write failed")
			}
		}()
	}
	wg.Wait()
}
