package distance

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"sync/atomic"
)

type MockPair struct {
	From, To string
	Meters   float64
	Seconds  float64
}

// MockProvider serves a fixed set of leg costs keyed by stop id. Pairs that
// were not configured are left out of the matrix. Err, when set, is returned
// from every call.
type MockProvider struct {
	m     map[domain.Leg]domain.TravelCost
	Err   error
	calls atomic.Int64
}

func NewMockProvider(pairs []MockPair) *MockProvider {
	m := make(map[domain.Leg]domain.TravelCost, len(pairs))
	for _, p := range pairs {
		m[domain.Leg{From: p.From, To: p.To}] = domain.TravelCost{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockProvider{m: m}
}

// Symmetric expands each pair into both directions.
func Symmetric(pairs []MockPair) []MockPair {
	out := make([]MockPair, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p, MockPair{From: p.To, To: p.From, Meters: p.Meters, Seconds: p.Seconds})
	}
	return out
}

func (p *MockProvider) GetCostMatrix(ctx context.Context, stops []domain.Stop) (*domain.CostMatrix, error) {
	p.calls.Add(1)
	if p.Err != nil {
		return nil, p.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make(map[domain.Leg]domain.TravelCost)
	for _, from := range stops {
		for _, to := range stops {
			leg := domain.Leg{From: from.ID, To: to.ID}
			if c, ok := p.m[leg]; ok {
				entries[leg] = c
			}
		}
	}

	return domain.NewCostMatrix(entries), nil
}

// Calls reports how many times GetCostMatrix was invoked.
func (p *MockProvider) Calls() int { return int(p.calls.Load()) }
