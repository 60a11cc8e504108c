package distance

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/platform/metrics"
	"errors"
)

const DefaultStraightLineSpeedKPH = 40.0

// StraightLineProvider estimates travel costs from great-circle distance and
// a constant average speed. It needs no network access and is symmetric.
type StraightLineProvider struct {
	speedKPH float64
	detour   float64
}

// NewStraightLineProvider builds a provider. detour scales raw haversine
// distance to approximate road networks; values below 1 are treated as 1.
func NewStraightLineProvider(speedKPH, detour float64) (*StraightLineProvider, error) {
	if speedKPH <= 0 {
		return nil, errors.New("straight-line speed must be positive")
	}
	return &StraightLineProvider{speedKPH: speedKPH, detour: max(detour, 1)}, nil
}

func (p *StraightLineProvider) Name() string { return "straightline" }

func (p *StraightLineProvider) GetCostMatrix(ctx context.Context, stops []domain.Stop) (*domain.CostMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	metersPerSecond := p.speedKPH * 1000 / 3600
	entries := make(map[domain.Leg]domain.TravelCost, len(stops)*len(stops))
	for i, from := range stops {
		for j, to := range stops {
			if i == j {
				continue
			}
			meters := domain.HaversineMeters(from.Coordinates, to.Coordinates) * p.detour
			entries[domain.Leg{From: from.ID, To: to.ID}] = domain.TravelCost{
				DistanceMeters:  meters,
				DurationSeconds: meters / metersPerSecond,
			}
		}
	}

	metrics.ProviderCalls.WithLabelValues("straightline", "ok").Inc()
	return domain.NewCostMatrix(entries), nil
}
