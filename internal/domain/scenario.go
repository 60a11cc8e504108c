package domain

import (
	"fmt"
	"strings"
)

// Objective selects how scenarios are ranked.
type Objective string

const (
	// ObjectiveMinimizeTotal picks the lowest summed route cost.
	ObjectiveMinimizeTotal Objective = "minimize_total"
	// ObjectiveMinimizeMax picks the lowest worst single-driver cost.
	ObjectiveMinimizeMax Objective = "minimize_max"
)

// ParseObjective accepts the two objective names; empty means minimize_max.
func ParseObjective(s string) (Objective, error) {
	switch Objective(strings.ToLower(strings.TrimSpace(s))) {
	case "", ObjectiveMinimizeMax:
		return ObjectiveMinimizeMax, nil
	case ObjectiveMinimizeTotal:
		return ObjectiveMinimizeTotal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownObjective, s)
}

// MetricName is the scenario field the objective ranks on.
func (o Objective) MetricName() string {
	if o == ObjectiveMinimizeTotal {
		return "total_cost"
	}
	return "max_route_cost"
}

// Score returns the value of s the objective minimizes.
func (o Objective) Score(s Scenario) float64 {
	if o == ObjectiveMinimizeTotal {
		return s.TotalCost
	}
	return s.MaxRouteCost
}

// Scenario is one complete plan for a driver count: one route per driver.
type Scenario struct {
	DriverCount  int
	Metric       CostMetric
	Routes       []Route
	TotalCost    float64
	MaxRouteCost float64
	StopCounts   []int
}

// KReduction records a candidate driver count lowered to the stop count.
type KReduction struct {
	Requested int
	Effective int
}

// ScenarioSavings compares a scenario with the baseline (smallest driver count).
// Positive percentages mean the scenario is cheaper than the baseline.
type ScenarioSavings struct {
	DriverCount         int
	TotalCostPercent    float64
	MaxRouteCostPercent float64
}

// Rationale explains why the recommended scenario was selected.
type Rationale struct {
	DecidedBy           string
	RunnerUpDriverCount int
	Margin              float64
	RelativeMargin      float64
	Tie                 bool
	Reductions          []KReduction
	Savings             []ScenarioSavings
	Summary             string
}

// ComparisonResult holds every evaluated scenario ordered by driver count
// and the index of the recommended one.
type ComparisonResult struct {
	Objective   Objective
	Metric      CostMetric
	Scenarios   []Scenario
	Recommended int
	Rationale   Rationale
}

// RecommendedScenario returns the selected scenario.
func (r ComparisonResult) RecommendedScenario() Scenario {
	return r.Scenarios[r.Recommended]
}
