package distance

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"encoding/json"
	"fmt"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
	Units     string      `json:"units"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrix retrieves the full many-to-many distance and duration matrix
// for stops from the OpenRouteService matrix endpoint.
func (o *ORSMatrixProvider) fetchMatrix(
	ctx context.Context,
	stops []domain.Stop,
) (map[domain.Leg]domain.TravelCost, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, len(stops))
	for _, s := range stops {
		locations = append(locations, s.Coordinates.CoordsToList())
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance", "duration"},
		Units:     "m",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.post(ctx, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	n := len(stops)
	if len(mr.Distances) != n || len(mr.Durations) != n {
		return nil, fmt.Errorf(
			"expected %d source rows; got distances=%d durations=%d",
			n, len(mr.Distances), len(mr.Durations),
		)
	}

	out := make(map[domain.Leg]domain.TravelCost, n*(n-1))
	for i, from := range stops {
		if len(mr.Distances[i]) != n || len(mr.Durations[i]) != n {
			return nil, fmt.Errorf(
				"row %d lengths do not match stops: distances=%d durations=%d stops=%d",
				i, len(mr.Distances[i]), len(mr.Durations[i]), n,
			)
		}

		for j, to := range stops {
			if i == j {
				continue
			}
			meters := mr.Distances[i][j]
			seconds := mr.Durations[i][j]

			// ORS returns null for unroutable pairs.
			if meters == nil || seconds == nil {
				return nil, fmt.Errorf("matrix returned no route for %q -> %q", from.ID, to.ID)
			}

			out[domain.Leg{From: from.ID, To: to.ID}] = domain.TravelCost{
				DistanceMeters:  *meters,
				DurationSeconds: *seconds,
			}
		}
	}

	return out, nil
}
