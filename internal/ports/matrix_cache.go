package ports

import (
	"context"
	"delivery-scenario-service/internal/domain"
)

// Cache of origin->destination travel costs keyed by location strings.
// Keys are expected to be consistent (e.g., already normalized) by the caller.
type MatrixCache interface {
	// Fetch cached costs for one origin and multiple destinations.
	// Missing destinations are absent from the result.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]domain.TravelCost, error)
	// Store many cached costs for a single origin.
	PutMany(ctx context.Context, origin string, results map[string]domain.TravelCost) error
}
