package services

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/platform/metrics"
	"delivery-scenario-service/internal/platform/obs"
	"delivery-scenario-service/internal/ports"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCandidates is the driver counts compared when a request names none.
var DefaultCandidates = []int{1, 2}

// Options are the planner-wide defaults; a PlanRequest may override the
// candidates, objective, metric, depot and departure time.
type Options struct {
	Candidates []int
	Objective  domain.Objective
	Cluster    ClusterOptions
	Sequence   SequenceOptions
	// TieEpsilon is the relative tie tolerance. Zero means
	// DefaultTieEpsilon; negative compares scores exactly.
	TieEpsilon float64
}

type PlanRequest struct {
	Orders     []domain.OrderRecord
	Candidates []int
	Objective  domain.Objective
	Metric     domain.CostMetric
	Depot      *domain.Coordinates
	DepartAt   time.Time
}

// Planner runs one scenario comparison per call. It keeps no state between
// runs and is safe for concurrent use.
type Planner struct {
	provider ports.TravelCostProvider
	opts     Options
}

func NewPlanner(provider ports.TravelCostProvider, opts Options) *Planner {
	if len(opts.Candidates) == 0 {
		opts.Candidates = DefaultCandidates
	}
	if opts.Objective == "" {
		opts.Objective = domain.ObjectiveMinimizeMax
	}
	if opts.TieEpsilon == 0 {
		opts.TieEpsilon = DefaultTieEpsilon
	}
	return &Planner{provider: provider, opts: opts}
}

// Plan validates the orders, fetches the travel cost matrix once, evaluates
// every candidate driver count in parallel and recommends one scenario.
//
// Validation errors stop the run before the provider is called. Any provider
// failure is returned as *domain.ProviderError. Canceling ctx aborts the
// provider call and discards partial scenarios.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (_ *domain.ComparisonResult, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	start := time.Now()
	defer func() {
		metrics.PlanningDuration.Observe(time.Since(start).Seconds())
		metrics.PlanningRuns.WithLabelValues(outcome(err)).Inc()
	}()

	objective := req.Objective
	if objective == "" {
		objective = p.opts.Objective
	}
	objective, err = domain.ParseObjective(string(objective))
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	metric := req.Metric
	if metric == "" {
		metric = p.opts.Sequence.Metric
	}
	metric, err = domain.ParseCostMetric(string(metric))
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	if req.Depot != nil {
		if err := req.Depot.Validate(); err != nil {
			return nil, fmt.Errorf("plan: %w: %v", domain.ErrInvalidDepot, err)
		}
	}

	set, err := domain.NewStopSet(req.Orders)
	if err != nil {
		return nil, fmt.Errorf("plan: build stop set: %w", err)
	}

	requested := req.Candidates
	if len(requested) == 0 {
		requested = p.opts.Candidates
	}
	candidates, reductions, err := normalizeCandidates(requested, set.Len())
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	matrix, err := p.fetchMatrix(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	clusterOpts := p.opts.Cluster
	if req.Depot != nil {
		clusterOpts.Depot = req.Depot
	}
	seqOpts := p.opts.Sequence
	seqOpts.Metric = metric
	if req.Depot != nil {
		seqOpts.Depot = req.Depot
	}
	if !req.DepartAt.IsZero() {
		seqOpts.DepartAt = req.DepartAt
	}
	clusterer := NewClusterer(clusterOpts)
	sequencer := NewSequencer(seqOpts)

	// One result slot per candidate; no shared collection.
	scenarios := make([]domain.Scenario, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range candidates {
		g.Go(func() error {
			s, err := EvaluateScenario(gctx, set, matrix, k, clusterer, sequencer)
			if err != nil {
				return err
			}
			scenarios[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	result, err := Compare(scenarios, objective, p.opts.TieEpsilon)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Metric = metric
	result.Rationale.Reductions = reductions
	for _, r := range reductions {
		result.Rationale.Summary += fmt.Sprintf("; %s requested but only %d stops, evaluated as %s",
			drivers(r.Requested), r.Effective, drivers(r.Effective))
	}

	metrics.RecommendedDrivers.Observe(float64(result.RecommendedScenario().DriverCount))
	return &result, nil
}

// fetchMatrix asks the provider for the whole stop set once and checks the
// contract: every ordered pair of distinct stops present.
func (p *Planner) fetchMatrix(ctx context.Context, set *domain.StopSet) (_ *domain.CostMatrix, err error) {
	defer obs.Time(ctx, "planner.fetchMatrix")(&err)

	if p.provider == nil {
		return nil, errors.New("fetch matrix: travel cost provider is nil")
	}

	matrix, err := p.provider.GetCostMatrix(ctx, set.Stops())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch matrix: %w", ctxErr)
		}
		var pe *domain.ProviderError
		if errors.As(err, &pe) {
			return nil, fmt.Errorf("fetch matrix: %w", err)
		}
		return nil, fmt.Errorf("fetch matrix: %w", &domain.ProviderError{Err: err})
	}
	if matrix == nil {
		return nil, fmt.Errorf("fetch matrix: %w", &domain.ProviderError{Err: errors.New("provider returned no matrix")})
	}

	if err := matrix.Validate(set.IDs()); err != nil {
		var ie *domain.IncompleteCostMatrixError
		if errors.As(err, &ie) {
			return nil, fmt.Errorf("fetch matrix: %w", err)
		}
		return nil, fmt.Errorf("fetch matrix: %w", &domain.ProviderError{Err: err})
	}
	return matrix, nil
}

// normalizeCandidates rejects counts below 1, lowers counts above the stop
// count to the stop count, drops duplicates and sorts ascending.
func normalizeCandidates(requested []int, stopCount int) ([]int, []domain.KReduction, error) {
	if len(requested) == 0 {
		return nil, nil, domain.ErrNoCandidates
	}

	var reductions []domain.KReduction
	out := make([]int, 0, len(requested))
	for _, k := range requested {
		if k < 1 {
			return nil, nil, fmt.Errorf("candidate %d: %w", k, domain.ErrInvalidDriverCount)
		}
		if k > stopCount {
			reductions = append(reductions, domain.KReduction{Requested: k, Effective: stopCount})
			k = stopCount
		}
		out = append(out, k)
	}

	slices.Sort(out)
	return slices.Compact(out), reductions, nil
}

func outcome(err error) string {
	var pe *domain.ProviderError
	var inc *domain.IncompleteCostMatrixError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case domain.IsValidation(err):
		return "invalid"
	case errors.As(err, &pe), errors.As(err, &inc):
		return "provider_error"
	}
	return "error"
}
