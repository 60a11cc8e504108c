package services

import (
	"delivery-scenario-service/internal/domain"
	"fmt"
	"math"
	"slices"
	"strings"
)

// DefaultTieEpsilon is the relative tolerance under which two scores tie.
const DefaultTieEpsilon = 1e-6

// Compare ranks scenarios under objective and recommends one. Scores within
// epsilon (relative, see nearlyEqual) tie, and ties go to fewer drivers.
// Every scenario is kept in the result, ordered by driver count.
func Compare(scenarios []domain.Scenario, objective domain.Objective, epsilon float64) (domain.ComparisonResult, error) {
	if len(scenarios) == 0 {
		return domain.ComparisonResult{}, fmt.Errorf("compare: %w", domain.ErrNoCandidates)
	}
	objective, err := domain.ParseObjective(string(objective))
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("compare: %w", err)
	}
	if epsilon < 0 {
		epsilon = 0
	}

	sorted := slices.Clone(scenarios)
	slices.SortStableFunc(sorted, func(a, b domain.Scenario) int { return a.DriverCount - b.DriverCount })

	best := pickBest(sorted, objective, epsilon, -1)
	result := domain.ComparisonResult{
		Objective:   objective,
		Metric:      sorted[best].Metric,
		Scenarios:   sorted,
		Recommended: best,
	}
	result.Rationale = explain(sorted, best, objective, epsilon)
	return result, nil
}

// pickBest returns the index of the lowest-scoring scenario, skipping index
// skip. Scenarios are sorted by driver count, so keeping the earlier index on
// a tie prefers fewer drivers.
func pickBest(sorted []domain.Scenario, objective domain.Objective, epsilon float64, skip int) int {
	best := -1
	for i, s := range sorted {
		if i == skip {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		score, bestScore := objective.Score(s), objective.Score(sorted[best])
		if score < bestScore && !nearlyEqual(score, bestScore, epsilon) {
			best = i
		}
	}
	return best
}

func explain(sorted []domain.Scenario, best int, objective domain.Objective, epsilon float64) domain.Rationale {
	chosen := sorted[best]
	r := domain.Rationale{DecidedBy: objective.MetricName()}

	base := sorted[0]
	for _, s := range sorted {
		r.Savings = append(r.Savings, domain.ScenarioSavings{
			DriverCount:         s.DriverCount,
			TotalCostPercent:    percentLower(base.TotalCost, s.TotalCost),
			MaxRouteCostPercent: percentLower(base.MaxRouteCost, s.MaxRouteCost),
		})
	}

	if len(sorted) == 1 {
		r.Summary = fmt.Sprintf("%s recommended: only candidate evaluated (%s %.1f)",
			drivers(chosen.DriverCount), r.DecidedBy, objective.Score(chosen))
		return r
	}

	runner := sorted[pickBest(sorted, objective, epsilon, best)]
	chosenScore, runnerScore := objective.Score(chosen), objective.Score(runner)

	r.RunnerUpDriverCount = runner.DriverCount
	r.Margin = runnerScore - chosenScore
	if runnerScore != 0 {
		r.RelativeMargin = r.Margin / runnerScore
	}
	r.Tie = nearlyEqual(chosenScore, runnerScore, epsilon)

	var b strings.Builder
	fmt.Fprintf(&b, "%s recommended by %s: %.1f vs %.1f for %s",
		drivers(chosen.DriverCount), r.DecidedBy, chosenScore, runnerScore, drivers(runner.DriverCount))
	if r.Tie {
		b.WriteString(" (tie, fewer drivers preferred)")
	} else {
		fmt.Fprintf(&b, " (%.1f%% lower)", r.RelativeMargin*100)
	}
	r.Summary = b.String()
	return r
}

// nearlyEqual reports |a-b| <= eps*max(1,|a|,|b|).
func nearlyEqual(a, b, eps float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= eps*scale
}

func percentLower(base, v float64) float64 {
	if base == 0 {
		return 0
	}
	return (base - v) / base * 100
}

func drivers(n int) string {
	if n == 1 {
		return "1 driver"
	}
	return fmt.Sprintf("%d drivers", n)
}
