package repositories

import (
	"context"
	"database/sql"
	"delivery-scenario-service/internal/domain"
	"delivery-scenario-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Postgres-backed implementation of the OrderRepository port.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

// ListOrders returns the orders due in city on date, ordered by id. An empty
// city matches every city.
func (p *PostgresOrderRepository) ListOrders(
	ctx context.Context,
	city string,
	date time.Time,
) (_ []domain.OrderRecord, err error) {
	defer obs.Time(ctx, "orders.ListOrders")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres order repository: DB is nil")
	}
	if date.IsZero() {
		return nil, errors.New("list orders: date is required")
	}

	query := `
	SELECT order_id, address, value_cents, lon, lat, weight
	FROM orders
	WHERE delivery_date = $1
		AND ($2 = '' OR city = $2)
	ORDER BY order_id;
	`
	rows, err := p.DB.QueryContext(ctx, query, date.Format(time.DateOnly), strings.TrimSpace(city))
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.OrderRecord, 0, 64)
	for rows.Next() {
		var (
			rec      domain.OrderRecord
			lon, lat sql.NullFloat64
			weight   sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Address, &rec.ValueCents, &lon, &lat, &weight); err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		if lon.Valid && lat.Valid {
			rec.Coordinates = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
		}
		if weight.Valid {
			w := weight.Float64
			rec.Weight = &w
		}
		orders = append(orders, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	return orders, nil
}
