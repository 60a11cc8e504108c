package services

import (
	"delivery-scenario-service/internal/domain"
	"errors"
	"math"
	"strings"
	"testing"
)

func scenario(k int, routeCosts ...float64) domain.Scenario {
	s := domain.Scenario{DriverCount: k, Metric: domain.MetricDistance}
	for i, c := range routeCosts {
		s.Routes = append(s.Routes, domain.Route{Driver: i + 1, TotalCost: c})
		s.TotalCost += c
		s.MaxRouteCost = math.Max(s.MaxRouteCost, c)
	}
	return s
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name        string
		scenarios   []domain.Scenario
		objective   domain.Objective
		wantDrivers int
		wantTie     bool
	}{
		{
			name:        "minimize total picks cheaper plan",
			scenarios:   []domain.Scenario{scenario(1, 100), scenario(2, 50, 30)},
			objective:   domain.ObjectiveMinimizeTotal,
			wantDrivers: 2,
		},
		{
			name:        "minimize total keeps one driver when cheaper",
			scenarios:   []domain.Scenario{scenario(1, 100), scenario(2, 60, 50)},
			objective:   domain.ObjectiveMinimizeTotal,
			wantDrivers: 1,
		},
		{
			name:        "minimize max prefers even split",
			scenarios:   []domain.Scenario{scenario(2, 60, 40), scenario(3, 50, 40, 30)},
			objective:   domain.ObjectiveMinimizeMax,
			wantDrivers: 3,
		},
		{
			name:        "same routes differ by objective",
			scenarios:   []domain.Scenario{scenario(2, 60, 40), scenario(3, 50, 40, 30)},
			objective:   domain.ObjectiveMinimizeTotal,
			wantDrivers: 2,
		},
		{
			name:        "tie prefers fewer drivers",
			scenarios:   []domain.Scenario{scenario(2, 100, 1), scenario(1, 100.00000001)},
			objective:   domain.ObjectiveMinimizeMax,
			wantDrivers: 1,
			wantTie:     true,
		},
		{
			name:        "objective is case-insensitive",
			scenarios:   []domain.Scenario{scenario(1, 100), scenario(2, 50, 30)},
			objective:   "MINIMIZE_TOTAL",
			wantDrivers: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compare(tt.scenarios, tt.objective, DefaultTieEpsilon)
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if got := res.RecommendedScenario().DriverCount; got != tt.wantDrivers {
				t.Fatalf("recommended = %d drivers, want %d (%s)", got, tt.wantDrivers, res.Rationale.Summary)
			}
			if res.Rationale.Tie != tt.wantTie {
				t.Fatalf("tie = %v, want %v", res.Rationale.Tie, tt.wantTie)
			}
			if len(res.Scenarios) != len(tt.scenarios) {
				t.Fatalf("kept %d scenarios, want %d", len(res.Scenarios), len(tt.scenarios))
			}
			for i := 1; i < len(res.Scenarios); i++ {
				if res.Scenarios[i-1].DriverCount > res.Scenarios[i].DriverCount {
					t.Fatalf("scenarios not ordered by driver count")
				}
			}
		})
	}
}

func TestCompareRationale(t *testing.T) {
	res, err := Compare([]domain.Scenario{scenario(1, 100), scenario(2, 50, 30)}, domain.ObjectiveMinimizeTotal, DefaultTieEpsilon)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	r := res.Rationale
	if r.DecidedBy != "total_cost" {
		t.Fatalf("DecidedBy = %q, want total_cost", r.DecidedBy)
	}
	if r.RunnerUpDriverCount != 1 || r.Margin != 20 {
		t.Fatalf("runner-up = %d margin %v, want 1 and 20", r.RunnerUpDriverCount, r.Margin)
	}
	if math.Abs(r.RelativeMargin-0.2) > 1e-12 {
		t.Fatalf("RelativeMargin = %v, want 0.2", r.RelativeMargin)
	}
	if len(r.Savings) != 2 || r.Savings[1].TotalCostPercent != 20 || r.Savings[1].MaxRouteCostPercent != 50 {
		t.Fatalf("Savings = %+v", r.Savings)
	}
	if !strings.Contains(r.Summary, "2 drivers recommended by total_cost") {
		t.Fatalf("Summary = %q", r.Summary)
	}
}

func TestCompareExactEpsilon(t *testing.T) {
	scenarios := []domain.Scenario{scenario(1, 100), scenario(2, 99.99999, 50)}

	res, err := Compare(scenarios, domain.ObjectiveMinimizeMax, DefaultTieEpsilon)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if got := res.RecommendedScenario().DriverCount; got != 1 || !res.Rationale.Tie {
		t.Fatalf("default epsilon: drivers = %d tie = %v, want 1 and a tie", got, res.Rationale.Tie)
	}

	res, err = Compare(scenarios, domain.ObjectiveMinimizeMax, -1)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if got := res.RecommendedScenario().DriverCount; got != 2 || res.Rationale.Tie {
		t.Fatalf("exact: drivers = %d tie = %v, want 2 and no tie", got, res.Rationale.Tie)
	}
}

func TestCompareSingleCandidate(t *testing.T) {
	res, err := Compare([]domain.Scenario{scenario(1, 42)}, domain.ObjectiveMinimizeMax, DefaultTieEpsilon)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if res.Recommended != 0 || !strings.Contains(res.Rationale.Summary, "only candidate") {
		t.Fatalf("result = %+v", res)
	}
}

func TestCompareErrors(t *testing.T) {
	if _, err := Compare(nil, domain.ObjectiveMinimizeMax, DefaultTieEpsilon); !errors.Is(err, domain.ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
	if _, err := Compare([]domain.Scenario{scenario(1, 1)}, "fastest", DefaultTieEpsilon); !errors.Is(err, domain.ErrUnknownObjective) {
		t.Fatalf("err = %v, want ErrUnknownObjective", err)
	}
}
