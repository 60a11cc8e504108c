package domain

import "time"

// Cluster is a non-empty group of stops assigned to one driver, held in
// canonical (id-sorted) order.
type Cluster struct {
	Stops []Stop
}

// NewCluster copies stops into a cluster in canonical order.
func NewCluster(stops []Stop) Cluster {
	out := make([]Stop, len(stops))
	copy(out, stops)
	SortStops(out)
	return Cluster{Stops: out}
}

// IDs returns the stop ids in canonical order.
func (c Cluster) IDs() []string {
	out := make([]string, len(c.Stops))
	for i, s := range c.Stops {
		out[i] = s.ID
	}
	return out
}

// Represents a single stop in a delivery route.
// ArriveAt is zero unless the run was given a departure time.
type RouteStop struct {
	StopID      string
	Address     string
	Coordinates Coordinates
	ArriveAt    time.Time
}

// Represents the planned route for a single driver.
// LegCosts[i] is the cost of travelling from Stops[i] to Stops[i+1] under
// Metric, so TotalCost is their sum. The first stop has no incoming leg.
type Route struct {
	Driver               int
	Metric               CostMetric
	Stops                []RouteStop
	LegCosts             []float64
	TotalCost            float64
	TotalDistanceMeters  float64
	TotalDurationSeconds float64
}

// StopIDs returns the visiting order.
func (r Route) StopIDs() []string {
	out := make([]string, len(r.Stops))
	for i, s := range r.Stops {
		out[i] = s.StopID
	}
	return out
}
