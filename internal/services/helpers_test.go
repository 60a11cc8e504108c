package services

import (
	"delivery-scenario-service/internal/adapters/distance"
	"delivery-scenario-service/internal/domain"
	"testing"
)

func coords(lon, lat float64) *domain.Coordinates {
	return &domain.Coordinates{Lon: lon, Lat: lat}
}

func mustStopSet(t *testing.T, orders []domain.OrderRecord) *domain.StopSet {
	t.Helper()
	set, err := domain.NewStopSet(orders)
	if err != nil {
		t.Fatalf("NewStopSet: %v", err)
	}
	return set
}

func matrixFrom(pairs []distance.MockPair) *domain.CostMatrix {
	entries := make(map[domain.Leg]domain.TravelCost, len(pairs))
	for _, p := range pairs {
		entries[domain.Leg{From: p.From, To: p.To}] = domain.TravelCost{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return domain.NewCostMatrix(entries)
}

// Unit square with ~1.1 km sides; the mock costs use 1000 per side.
func squareOrders() []domain.OrderRecord {
	return []domain.OrderRecord{
		{ID: "A", Coordinates: coords(0, 0)},
		{ID: "B", Coordinates: coords(0.01, 0)},
		{ID: "C", Coordinates: coords(0.01, 0.01)},
		{ID: "D", Coordinates: coords(0, 0.01)},
	}
}

func squarePairs() []distance.MockPair {
	return distance.Symmetric([]distance.MockPair{
		{From: "A", To: "B", Meters: 1000, Seconds: 100},
		{From: "B", To: "C", Meters: 1000, Seconds: 100},
		{From: "C", To: "D", Meters: 1000, Seconds: 100},
		{From: "D", To: "A", Meters: 1000, Seconds: 100},
		{From: "A", To: "C", Meters: 1414, Seconds: 141},
		{From: "B", To: "D", Meters: 1414, Seconds: 141},
	})
}
