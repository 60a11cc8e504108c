package services

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// EvaluateScenario partitions set into k clusters and sequences each cluster
// into a route. Clusters are sequenced concurrently; they share only the
// read-only matrix and each writes its own result slot. Route i belongs to
// driver i+1. Errors from the clusterer or sequencer are returned wrapped, so
// errors.As still matches their types.
func EvaluateScenario(
	ctx context.Context,
	set *domain.StopSet,
	matrix *domain.CostMatrix,
	k int,
	clusterer *Clusterer,
	sequencer *Sequencer,
) (domain.Scenario, error) {
	clusters, err := clusterer.Partition(ctx, set, k)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("evaluate scenario k=%d: %w", k, err)
	}

	routes := make([]domain.Route, len(clusters))
	g, gctx := errgroup.WithContext(ctx)
	for i, cluster := range clusters {
		g.Go(func() error {
			route, err := sequencer.Sequence(gctx, cluster, matrix)
			if err != nil {
				return fmt.Errorf("evaluate scenario k=%d: driver %d: %w", k, i+1, err)
			}
			route.Driver = i + 1
			routes[i] = route
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Scenario{}, err
	}

	return summarize(sequencer.opts.Metric, routes), nil
}

func summarize(metric domain.CostMetric, routes []domain.Route) domain.Scenario {
	costs := make([]float64, len(routes))
	counts := make([]int, len(routes))
	for i, r := range routes {
		costs[i] = r.TotalCost
		counts[i] = len(r.Stops)
	}

	return domain.Scenario{
		DriverCount:  len(routes),
		Metric:       metric,
		Routes:       routes,
		TotalCost:    floats.Sum(costs),
		MaxRouteCost: floats.Max(costs),
		StopCounts:   counts,
	}
}
