package ports

import (
	"context"
	"delivery-scenario-service/internal/domain"
	"time"
)

// Port: a boundary for retrieving the orders of one planning run.
type OrderRepository interface {
	// Retrieve the orders to deliver in a city on a date, ordered by id.
	ListOrders(ctx context.Context, city string, date time.Time) ([]domain.OrderRecord, error)
}
