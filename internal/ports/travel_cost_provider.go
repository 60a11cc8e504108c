package ports

import (
	"context"
	"delivery-scenario-service/internal/domain"
)

// Contract for retrieving pairwise travel costs between stops.
type TravelCostProvider interface {
	// Return a cost matrix with an entry for every ordered pair of distinct stops.
	// Implementations must honor ctx cancellation.
	GetCostMatrix(ctx context.Context, stops []domain.Stop) (*domain.CostMatrix, error)
}
