package services

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"errors"
	"fmt"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultTwoOptPasses = 50
	// twoOptMinGain is the smallest cost reduction that counts as an improvement.
	twoOptMinGain = 1e-9
)

type SequenceOptions struct {
	Metric domain.CostMetric
	// TwoOptPasses caps improvement passes over the nearest-neighbor route.
	// Zero means DefaultTwoOptPasses; negative disables the pass.
	TwoOptPasses int
	// Depot, when set, makes the stop nearest to it the route anchor.
	Depot *domain.Coordinates
	// DepartAt, when set, fills RouteStop.ArriveAt from leg durations.
	DepartAt time.Time
}

// Sequencer orders the stops of one cluster into a route.
// It is stateless and safe for concurrent use.
type Sequencer struct {
	opts SequenceOptions
}

func NewSequencer(opts SequenceOptions) *Sequencer {
	if opts.Metric == "" {
		opts.Metric = domain.MetricDistance
	}
	if opts.TwoOptPasses == 0 {
		opts.TwoOptPasses = DefaultTwoOptPasses
	}
	return &Sequencer{opts: opts}
}

// Sequence plans a route over the cluster using a greedy nearest-neighbor
// construction from the anchor stop, then applies bounded 2-opt refinement.
//
// The anchor stays first. Ties between equally cheap next stops go to the
// lower id, so the result is deterministic. A missing matrix entry fails with
// IncompleteCostMatrixError instead of substituting a default cost.
func (s *Sequencer) Sequence(ctx context.Context, cluster domain.Cluster, matrix *domain.CostMatrix) (domain.Route, error) {
	if len(cluster.Stops) == 0 {
		return domain.Route{}, errors.New("sequence: cluster must be non-empty")
	}
	if matrix == nil {
		return domain.Route{}, errors.New("sequence: cost matrix must be non-nil")
	}

	stops := slices.Clone(cluster.Stops)
	domain.SortStops(stops)

	order, err := s.nearestNeighbor(stops, matrix)
	if err != nil {
		return domain.Route{}, fmt.Errorf("sequence: nearest neighbor: %w", err)
	}

	if s.opts.TwoOptPasses > 0 && len(order) > 2 {
		order, err = s.twoOpt(ctx, stops, order, matrix)
		if err != nil {
			return domain.Route{}, fmt.Errorf("sequence: 2-opt: %w", err)
		}
	}

	return s.buildRoute(stops, order, matrix)
}

// anchor returns the index of the starting stop in canonical stops.
func (s *Sequencer) anchor(stops []domain.Stop) int {
	if s.opts.Depot == nil {
		return 0
	}

	best, bestDist := 0, domain.HaversineMeters(stops[0].Coordinates, *s.opts.Depot)
	for i := 1; i < len(stops); i++ {
		if d := domain.HaversineMeters(stops[i].Coordinates, *s.opts.Depot); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (s *Sequencer) nearestNeighbor(stops []domain.Stop, matrix *domain.CostMatrix) ([]int, error) {
	current := s.anchor(stops)
	order := make([]int, 0, len(stops))
	order = append(order, current)

	visited := make([]bool, len(stops))
	visited[current] = true

	for len(order) < len(stops) {
		best, bestCost := -1, 0.0

		// Select next stop by minimum travel cost (greedy step).
		// Candidates are scanned in id order, so strict < keeps the lowest id on ties.
		for i := range stops {
			if visited[i] {
				continue
			}
			c, err := matrix.Cost(stops[current].ID, stops[i].ID, s.opts.Metric)
			if err != nil {
				return nil, err
			}
			if best < 0 || c < bestCost {
				best, bestCost = i, c
			}
		}

		visited[best] = true
		order = append(order, best)
		current = best
	}

	return order, nil
}

// twoOpt reverses sub-segments order[i..k] (i >= 1, the anchor is fixed)
// whenever that lowers the path cost, taking the first improvement found.
// Costs are recomputed over the whole path since the matrix may be asymmetric.
func (s *Sequencer) twoOpt(ctx context.Context, stops []domain.Stop, order []int, matrix *domain.CostMatrix) ([]int, error) {
	best := slices.Clone(order)
	bestCost, err := s.pathCost(stops, best, matrix)
	if err != nil {
		return nil, err
	}

	n := len(best)
	for pass := 0; pass < s.opts.TwoOptPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		improved := false
		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				candidate := twoOptSwap(best, i, k)
				c, err := s.pathCost(stops, candidate, matrix)
				if err != nil {
					return nil, err
				}
				if c+twoOptMinGain < bestCost {
					best, bestCost = candidate, c
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}

	return best, nil
}

func twoOptSwap(ord []int, i, k int) []int {
	out := make([]int, len(ord))
	copy(out, ord[:i])
	// reverse i..k
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}

func (s *Sequencer) pathCost(stops []domain.Stop, order []int, matrix *domain.CostMatrix) (float64, error) {
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		c, err := matrix.Cost(stops[order[i]].ID, stops[order[i+1]].ID, s.opts.Metric)
		if err != nil {
			return 0, err
		}
		total += c
	}
	return total, nil
}

func (s *Sequencer) buildRoute(stops []domain.Stop, order []int, matrix *domain.CostMatrix) (domain.Route, error) {
	routeStops := make([]domain.RouteStop, 0, len(order))
	legs := make([]float64, 0, len(order)-1)
	distance, duration := 0.0, 0.0

	currentTime := s.opts.DepartAt
	for n, i := range order {
		if n > 0 {
			prev := stops[order[n-1]].ID
			entry, err := matrix.Entry(prev, stops[i].ID)
			if err != nil {
				return domain.Route{}, fmt.Errorf("sequence: build route: %w", err)
			}
			legs = append(legs, entry.Value(s.opts.Metric))
			distance += entry.DistanceMeters
			duration += entry.DurationSeconds
			if !currentTime.IsZero() {
				currentTime = currentTime.Add(time.Duration(entry.DurationSeconds * float64(time.Second)))
			}
		}

		routeStops = append(routeStops, domain.RouteStop{
			StopID:      stops[i].ID,
			Address:     stops[i].Address,
			Coordinates: stops[i].Coordinates,
			ArriveAt:    currentTime,
		})
	}

	return domain.Route{
		Metric:               s.opts.Metric,
		Stops:                routeStops,
		LegCosts:             legs,
		TotalCost:            floats.Sum(legs),
		TotalDistanceMeters:  distance,
		TotalDurationSeconds: duration,
	}, nil
}
