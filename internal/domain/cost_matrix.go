package domain

import (
	"fmt"
	"math"
	"strings"
)

// CostMetric selects which travel cost a planning run minimizes.
type CostMetric string

const (
	MetricDistance CostMetric = "distance"
	MetricDuration CostMetric = "duration"
)

// ParseCostMetric accepts "distance" or "duration"; empty means distance.
func ParseCostMetric(s string) (CostMetric, error) {
	switch CostMetric(strings.ToLower(strings.TrimSpace(s))) {
	case "", MetricDistance:
		return MetricDistance, nil
	case MetricDuration:
		return MetricDuration, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Leg is an ordered (origin, destination) pair of stop ids.
type Leg struct {
	From string
	To   string
}

// Distance and travel duration for one leg.
type TravelCost struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Value returns the cost under the given metric.
func (t TravelCost) Value(m CostMetric) float64 {
	if m == MetricDuration {
		return t.DurationSeconds
	}
	return t.DistanceMeters
}

// CostMatrix maps ordered stop pairs to travel costs. Asymmetric costs are
// allowed; self-to-self entries are always zero. It is read-only once built and
// safe for concurrent use.
type CostMatrix struct {
	entries map[Leg]TravelCost
}

// NewCostMatrix copies entries into a new matrix. Diagonal entries are dropped.
func NewCostMatrix(entries map[Leg]TravelCost) *CostMatrix {
	m := make(map[Leg]TravelCost, len(entries))
	for leg, c := range entries {
		if leg.From == leg.To {
			continue
		}
		m[leg] = c
	}
	return &CostMatrix{entries: m}
}

// Len returns the number of off-diagonal entries.
func (m *CostMatrix) Len() int { return len(m.entries) }

// Entry returns the travel cost from one stop to another.
func (m *CostMatrix) Entry(from, to string) (TravelCost, error) {
	if from == to {
		return TravelCost{}, nil
	}
	c, ok := m.entries[Leg{From: from, To: to}]
	if !ok {
		return TravelCost{}, &IncompleteCostMatrixError{From: from, To: to}
	}
	return c, nil
}

// Cost returns the travel cost under metric from one stop to another.
func (m *CostMatrix) Cost(from, to string, metric CostMetric) (float64, error) {
	c, err := m.Entry(from, to)
	if err != nil {
		return 0, err
	}
	return c.Value(metric), nil
}

// Validate checks that every ordered pair of distinct ids has a finite,
// non-negative entry. Pairs are visited in the order of ids.
func (m *CostMatrix) Validate(ids []string) error {
	for _, from := range ids {
		for _, to := range ids {
			if from == to {
				continue
			}
			c, err := m.Entry(from, to)
			if err != nil {
				return err
			}
			if !validCost(c.DistanceMeters) || !validCost(c.DurationSeconds) {
				return fmt.Errorf("cost matrix: invalid cost for %q -> %q: distance=%v duration=%v",
					from, to, c.DistanceMeters, c.DurationSeconds)
			}
		}
	}
	return nil
}

func validCost(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
