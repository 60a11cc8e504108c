package domain

import (
	"math"
	"slices"
	"strings"
)

// OrderRecord is the raw, order-derived input to a planning run.
// Coordinates are expected to be geocoded already; a nil value is rejected.
type OrderRecord struct {
	ID          string
	Address     string
	ValueCents  int64
	Coordinates *Coordinates
	Weight      *float64
}

// Stop is one validated delivery point.
type Stop struct {
	ID          string
	Address     string
	ValueCents  int64
	Coordinates Coordinates
	Weight      float64
}

// StopSet is an ordered, immutable collection of stops unique by ID.
type StopSet struct {
	stops []Stop
	index map[string]int
}

// NewStopSet validates records and builds a StopSet. Any invalid or duplicate
// record fails the whole construction.
func NewStopSet(records []OrderRecord) (*StopSet, error) {
	if len(records) == 0 {
		return nil, ErrEmptyStopSet
	}

	stops := make([]Stop, 0, len(records))
	index := make(map[string]int, len(records))
	for i, r := range records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, &InvalidStopError{Index: i, Reason: "id must be non-empty"}
		}
		if r.Coordinates == nil {
			return nil, &InvalidStopError{Index: i, ID: id, Reason: "missing coordinates"}
		}
		if err := r.Coordinates.Validate(); err != nil {
			return nil, &InvalidStopError{Index: i, ID: id, Reason: err.Error()}
		}

		weight := 1.0
		if r.Weight != nil {
			weight = *r.Weight
			if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
				return nil, &InvalidStopError{Index: i, ID: id, Reason: "weight must be a positive finite number"}
			}
		}

		if first, ok := index[id]; ok {
			return nil, &DuplicateStopError{ID: id, FirstIndex: first, Index: i}
		}
		index[id] = len(stops)

		stops = append(stops, Stop{
			ID:          id,
			Address:     strings.TrimSpace(r.Address),
			ValueCents:  r.ValueCents,
			Coordinates: *r.Coordinates,
			Weight:      weight,
		})
	}

	return &StopSet{stops: stops, index: index}, nil
}

// Len returns the number of stops.
func (s *StopSet) Len() int { return len(s.stops) }

// Stops returns a copy of the stops in input order.
func (s *StopSet) Stops() []Stop { return slices.Clone(s.stops) }

// At returns the i-th stop in input order.
func (s *StopSet) At(i int) Stop { return s.stops[i] }

// Lookup returns the stop with the given id.
func (s *StopSet) Lookup(id string) (Stop, bool) {
	i, ok := s.index[id]
	if !ok {
		return Stop{}, false
	}
	return s.stops[i], true
}

// IDs returns stop ids in input order.
func (s *StopSet) IDs() []string {
	out := make([]string, len(s.stops))
	for i, st := range s.stops {
		out[i] = st.ID
	}
	return out
}

// Canonical returns the stops sorted by id.
func (s *StopSet) Canonical() []Stop {
	out := slices.Clone(s.stops)
	SortStops(out)
	return out
}

// TotalWeight sums the stop weights.
func (s *StopSet) TotalWeight() float64 {
	total := 0.0
	for _, st := range s.stops {
		total += st.Weight
	}
	return total
}

// SortStops orders stops by id in place.
func SortStops(stops []Stop) {
	slices.SortFunc(stops, func(a, b Stop) int { return strings.Compare(a.ID, b.ID) })
}
