package services

import (
	"context"
	"delivery-scenario-service/internal/adapters/distance"
	"delivery-scenario-service/internal/domain"
	"errors"
	"slices"
	"testing"
	"time"
)

func threeStopCluster() domain.Cluster {
	return domain.NewCluster([]domain.Stop{
		{ID: "C", Coordinates: domain.Coordinates{Lon: 0.02, Lat: 0}, Weight: 1},
		{ID: "A", Coordinates: domain.Coordinates{Lon: 0, Lat: 0}, Weight: 1},
		{ID: "B", Coordinates: domain.Coordinates{Lon: 0.01, Lat: 0}, Weight: 1},
	})
}

func threeStopPairs() []distance.MockPair {
	return distance.Symmetric([]distance.MockPair{
		{From: "A", To: "B", Meters: 800, Seconds: 240},
		{From: "A", To: "C", Meters: 700, Seconds: 210},
		{From: "B", To: "C", Meters: 900, Seconds: 270},
	})
}

func TestSequencerNearestNeighbor(t *testing.T) {
	depart := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	seq := NewSequencer(SequenceOptions{DepartAt: depart})

	route, err := seq.Sequence(context.Background(), threeStopCluster(), matrixFrom(threeStopPairs()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := route.StopIDs(); !slices.Equal(got, []string{"A", "C", "B"}) {
		t.Fatalf("order = %v, want [A C B]", got)
	}
	if route.TotalCost != 1600 {
		t.Fatalf("cost = %v, want 1600", route.TotalCost)
	}
	if route.TotalDistanceMeters != 1600 {
		t.Fatalf("distance = %v, want 1600", route.TotalDistanceMeters)
	}
	if route.TotalDurationSeconds != 480 {
		t.Fatalf("duration = %v, want 480", route.TotalDurationSeconds)
	}
	if !slices.Equal(route.LegCosts, []float64{700, 900}) {
		t.Fatalf("legs = %v, want [700 900]", route.LegCosts)
	}

	if !route.Stops[0].ArriveAt.Equal(depart) {
		t.Fatalf("first arrival = %v, want departure time", route.Stops[0].ArriveAt)
	}
	if want := depart.Add(480 * time.Second); !route.Stops[2].ArriveAt.Equal(want) {
		t.Fatalf("last arrival = %v, want %v", route.Stops[2].ArriveAt, want)
	}
}

func TestSequencerDurationMetric(t *testing.T) {
	seq := NewSequencer(SequenceOptions{Metric: domain.MetricDuration})

	route, err := seq.Sequence(context.Background(), threeStopCluster(), matrixFrom(threeStopPairs()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.TotalCost != 480 || route.TotalDistanceMeters != 1600 {
		t.Fatalf("cost = %v distance = %v, want 480 and 1600", route.TotalCost, route.TotalDistanceMeters)
	}
	if !route.Stops[0].ArriveAt.IsZero() {
		t.Fatalf("ArriveAt set without departure time")
	}
}

func TestSequencerDepotAnchor(t *testing.T) {
	seq := NewSequencer(SequenceOptions{Depot: &domain.Coordinates{Lon: 0.021, Lat: 0}})

	route, err := seq.Sequence(context.Background(), threeStopCluster(), matrixFrom(threeStopPairs()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := route.StopIDs(); !slices.Equal(got, []string{"C", "A", "B"}) {
		t.Fatalf("order = %v, want [C A B]", got)
	}
	if route.TotalCost != 1500 {
		t.Fatalf("cost = %v, want 1500", route.TotalCost)
	}
}

func TestSequencerTwoOptImproves(t *testing.T) {
	// Nearest neighbor takes A-B-C-D (1+5+50); reversing B..C gives A-C-B-D (2+5+6).
	pairs := distance.Symmetric([]distance.MockPair{
		{From: "A", To: "B", Meters: 1},
		{From: "A", To: "C", Meters: 2},
		{From: "A", To: "D", Meters: 60},
		{From: "B", To: "C", Meters: 5},
		{From: "B", To: "D", Meters: 6},
		{From: "C", To: "D", Meters: 50},
	})
	cluster := domain.NewCluster([]domain.Stop{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}})

	greedy, err := NewSequencer(SequenceOptions{TwoOptPasses: -1}).Sequence(context.Background(), cluster, matrixFrom(pairs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := greedy.StopIDs(); !slices.Equal(got, []string{"A", "B", "C", "D"}) || greedy.TotalCost != 56 {
		t.Fatalf("greedy = %v cost %v, want [A B C D] cost 56", got, greedy.TotalCost)
	}

	improved, err := NewSequencer(SequenceOptions{}).Sequence(context.Background(), cluster, matrixFrom(pairs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := improved.StopIDs(); !slices.Equal(got, []string{"A", "C", "B", "D"}) || improved.TotalCost != 13 {
		t.Fatalf("improved = %v cost %v, want [A C B D] cost 13", got, improved.TotalCost)
	}
}

func TestSequencerTieGoesToLowerID(t *testing.T) {
	pairs := distance.Symmetric([]distance.MockPair{
		{From: "A", To: "B", Meters: 10},
		{From: "A", To: "C", Meters: 10},
		{From: "B", To: "C", Meters: 10},
	})
	cluster := domain.NewCluster([]domain.Stop{{ID: "C"}, {ID: "B"}, {ID: "A"}})

	route, err := NewSequencer(SequenceOptions{}).Sequence(context.Background(), cluster, matrixFrom(pairs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := route.StopIDs(); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("order = %v, want [A B C]", got)
	}
}

func TestSequencerSingleStop(t *testing.T) {
	cluster := domain.NewCluster([]domain.Stop{{ID: "A"}})

	route, err := NewSequencer(SequenceOptions{}).Sequence(context.Background(), cluster, domain.NewCostMatrix(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Stops) != 1 || route.TotalCost != 0 || len(route.LegCosts) != 0 {
		t.Fatalf("route = %+v, want one stop with zero cost", route)
	}
}

func TestSequencerMissingPair(t *testing.T) {
	cluster := domain.NewCluster([]domain.Stop{{ID: "A"}, {ID: "B"}})
	m := matrixFrom([]distance.MockPair{{From: "B", To: "A", Meters: 5}})

	_, err := NewSequencer(SequenceOptions{}).Sequence(context.Background(), cluster, m)

	var ie *domain.IncompleteCostMatrixError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v, want IncompleteCostMatrixError", err)
	}
	if ie.From != "A" || ie.To != "B" {
		t.Fatalf("missing pair = %s->%s, want A->B", ie.From, ie.To)
	}
}

func TestSequencerRejectsEmptyCluster(t *testing.T) {
	if _, err := NewSequencer(SequenceOptions{}).Sequence(context.Background(), domain.Cluster{}, domain.NewCostMatrix(nil)); err == nil {
		t.Fatalf("expected error for empty cluster")
	}
}
