package dto

import (
	"delivery-scenario-service/internal/domain"
	"time"
)

// CompareRequest either carries orders inline or names a city and date to
// load them from the order store.
type CompareRequest struct {
	Orders     []Order      `json:"orders"`
	City       string       `json:"city"`
	Date       string       `json:"date"`
	Candidates []int        `json:"candidates"`
	Objective  string       `json:"objective"`
	Metric     string       `json:"metric"`
	Depot      *Coordinates `json:"depot"`
	DepartAt   *time.Time   `json:"depart_at"`
}

type RouteStopResponse struct {
	StopID      string       `json:"stop_id"`
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates"`
	ArriveAt    *time.Time   `json:"arrive_at,omitempty"`
}

type RouteResponse struct {
	Driver               int                 `json:"driver"`
	Stops                []RouteStopResponse `json:"stops"`
	LegCosts             []float64           `json:"leg_costs"`
	TotalCost            float64             `json:"total_cost"`
	TotalDistanceMeters  float64             `json:"total_distance_meters"`
	TotalDurationSeconds float64             `json:"total_duration_seconds"`
}

type ScenarioResponse struct {
	DriverCount  int             `json:"driver_count"`
	TotalCost    float64         `json:"total_cost"`
	MaxRouteCost float64         `json:"max_route_cost"`
	StopCounts   []int           `json:"stop_counts"`
	Routes       []RouteResponse `json:"routes"`
}

type ReductionResponse struct {
	Requested int `json:"requested"`
	Effective int `json:"effective"`
}

type SavingsResponse struct {
	DriverCount         int     `json:"driver_count"`
	TotalCostPercent    float64 `json:"total_cost_percent"`
	MaxRouteCostPercent float64 `json:"max_route_cost_percent"`
}

type RationaleResponse struct {
	DecidedBy           string              `json:"decided_by"`
	RunnerUpDriverCount int                 `json:"runner_up_driver_count,omitempty"`
	Margin              float64             `json:"margin"`
	RelativeMargin      float64             `json:"relative_margin"`
	Tie                 bool                `json:"tie"`
	Reductions          []ReductionResponse `json:"reductions,omitempty"`
	Savings             []SavingsResponse   `json:"savings"`
	Summary             string              `json:"summary"`
}

type CompareResponse struct {
	Objective          string             `json:"objective"`
	Metric             string             `json:"metric"`
	RecommendedDrivers int                `json:"recommended_drivers"`
	Scenarios          []ScenarioResponse `json:"scenarios"`
	Rationale          RationaleResponse  `json:"rationale"`
}

// NewCompareResponse flattens a comparison result for JSON output.
func NewCompareResponse(res *domain.ComparisonResult) CompareResponse {
	out := CompareResponse{
		Objective:          string(res.Objective),
		Metric:             string(res.Metric),
		RecommendedDrivers: res.RecommendedScenario().DriverCount,
		Scenarios:          make([]ScenarioResponse, 0, len(res.Scenarios)),
	}

	for _, s := range res.Scenarios {
		routes := make([]RouteResponse, 0, len(s.Routes))
		for _, rt := range s.Routes {
			stops := make([]RouteStopResponse, 0, len(rt.Stops))
			for _, st := range rt.Stops {
				rs := RouteStopResponse{
					StopID:      st.StopID,
					Address:     st.Address,
					Coordinates: NewCoordinates(st.Coordinates),
				}
				if !st.ArriveAt.IsZero() {
					at := st.ArriveAt
					rs.ArriveAt = &at
				}
				stops = append(stops, rs)
			}

			legs := rt.LegCosts
			if legs == nil {
				legs = []float64{}
			}
			routes = append(routes, RouteResponse{
				Driver:               rt.Driver,
				Stops:                stops,
				LegCosts:             legs,
				TotalCost:            rt.TotalCost,
				TotalDistanceMeters:  rt.TotalDistanceMeters,
				TotalDurationSeconds: rt.TotalDurationSeconds,
			})
		}

		out.Scenarios = append(out.Scenarios, ScenarioResponse{
			DriverCount:  s.DriverCount,
			TotalCost:    s.TotalCost,
			MaxRouteCost: s.MaxRouteCost,
			StopCounts:   s.StopCounts,
			Routes:       routes,
		})
	}

	rat := res.Rationale
	out.Rationale = RationaleResponse{
		DecidedBy:           rat.DecidedBy,
		RunnerUpDriverCount: rat.RunnerUpDriverCount,
		Margin:              rat.Margin,
		RelativeMargin:      rat.RelativeMargin,
		Tie:                 rat.Tie,
		Savings:             make([]SavingsResponse, 0, len(rat.Savings)),
		Summary:             rat.Summary,
	}
	for _, red := range rat.Reductions {
		out.Rationale.Reductions = append(out.Rationale.Reductions, ReductionResponse{
			Requested: red.Requested,
			Effective: red.Effective,
		})
	}
	for _, sv := range rat.Savings {
		out.Rationale.Savings = append(out.Rationale.Savings, SavingsResponse{
			DriverCount:         sv.DriverCount,
			TotalCostPercent:    sv.TotalCostPercent,
			MaxRouteCostPercent: sv.MaxRouteCostPercent,
		})
	}

	return out
}
