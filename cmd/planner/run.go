package main

import (
	"context"
	"delivery-scenario-service/internal/adapters/distance"
	"delivery-scenario-service/internal/api/dto"
	"delivery-scenario-service/internal/config"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/ports"
	"delivery-scenario-service/internal/services"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type compareOptions struct {
	ordersPath string
	candidates []int
	objective  string
	metric     string
	provider   string
	speedKPH   float64
	configPath string
	depot      domain.Coordinates
	depotSet   bool
	asJSON     bool
}

func runCompare(ctx context.Context, out io.Writer, opts compareOptions) error {
	orders, err := loadOrders(opts.ordersPath)
	if err != nil {
		return err
	}

	defaults, err := config.LoadPlannerDefaults(opts.configPath)
	if err != nil {
		return err
	}
	plannerOpts, err := defaults.Options()
	if err != nil {
		return err
	}

	provider, err := newProvider(opts)
	if err != nil {
		return err
	}

	req := services.PlanRequest{
		Orders:     orders,
		Candidates: opts.candidates,
		Objective:  domain.Objective(opts.objective),
		Metric:     domain.CostMetric(opts.metric),
	}
	if opts.depotSet {
		depot := opts.depot
		req.Depot = &depot
	}

	result, err := services.NewPlanner(provider, plannerOpts).Plan(ctx, req)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewCompareResponse(result))
	}

	printComparison(out, result)
	return nil
}

func loadOrders(path string) ([]domain.OrderRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading orders: %w", err)
	}

	var orders []dto.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("loading orders: parse %q: %w", path, err)
	}

	records := make([]domain.OrderRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, o.Record())
	}
	return records, nil
}

func newProvider(opts compareOptions) (ports.TravelCostProvider, error) {
	switch strings.ToLower(opts.provider) {
	case "straightline":
		return distance.NewStraightLineProvider(opts.speedKPH, config.GetFloat("STRAIGHTLINE_DETOUR", 1.3))
	case "ors":
		key := config.Get("ORS_API_KEY", "")
		if key == "" {
			return nil, errors.New("ORS_API_KEY is required for --provider=ors")
		}
		return distance.NewORSMatrixProvider(key,
			distance.WithProfile(config.Get("ORS_PROFILE", "driving-car")),
			distance.WithRateLimit(config.GetFloat("ORS_RATE_PER_SEC", 40.0/60.0), 2),
		)
	}
	return nil, fmt.Errorf("unknown provider %q", opts.provider)
}
