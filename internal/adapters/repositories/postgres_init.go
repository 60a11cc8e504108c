package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"
)

// InitSchema creates the orders and distance_cache tables.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		city TEXT NOT NULL,
		delivery_date DATE NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		value_cents BIGINT NOT NULL DEFAULT 0,
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION,
		weight DOUBLE PRECISION
	);
	`

	createOrdersIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_orders_city_date
	ON orders(city, delivery_date);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance_meters DOUBLE PRECISION NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin, destination)
	);
	`

	createCacheIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
	ON distance_cache(destination, origin);
	`

	statements := []string{
		createOrdersQuery,
		createOrdersIndexQuery,
		createDistanceCacheQuery,
		createCacheIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type OrderSeed struct {
	OrderID      string   `json:"order_id"`
	City         string   `json:"city"`
	DeliveryDate string   `json:"delivery_date"`
	Address      string   `json:"address"`
	ValueCents   int64    `json:"value_cents"`
	Lon          *float64 `json:"lon"`
	Lat          *float64 `json:"lat"`
	Weight       *float64 `json:"weight,omitempty"`
}

// ParseOrderSeeds decodes and checks a seed file. Coordinates may be absent;
// such orders are stored and later rejected by the planner.
func ParseOrderSeeds(data []byte) ([]OrderSeed, error) {
	var seeds []OrderSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("seed orders: parse json: %w", err)
	}

	rows := make([]OrderSeed, 0, len(seeds))
	for i, item := range seeds {
		item.OrderID = strings.TrimSpace(item.OrderID)
		if item.OrderID == "" {
			return nil, fmt.Errorf("seed orders: item %d: order_id cannot be empty", i+1)
		}

		item.City = strings.TrimSpace(item.City)
		if item.City == "" {
			return nil, fmt.Errorf("seed orders: order %q: city cannot be empty", item.OrderID)
		}

		if _, err := time.Parse(time.DateOnly, item.DeliveryDate); err != nil {
			return nil, fmt.Errorf("seed orders: order %q: delivery_date: %w", item.OrderID, err)
		}

		if (item.Lon == nil) != (item.Lat == nil) {
			return nil, fmt.Errorf("seed orders: order %q: lon and lat must be set together", item.OrderID)
		}

		if item.Weight != nil && (math.IsNaN(*item.Weight) || *item.Weight <= 0) {
			return nil, fmt.Errorf("seed orders: order %q: weight must be positive", item.OrderID)
		}

		item.Address = strings.TrimSpace(item.Address)
		rows = append(rows, item)
	}

	return rows, nil
}

// SeedFromJSON populates the orders table from a JSON file. Existing orders
// with the same id are replaced.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed orders: read %q: %w", jsonPath, err)
	}

	rows, err := ParseOrderSeeds(bytes)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO orders (
		order_id, city, delivery_date, address, value_cents, lon, lat, weight
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (order_id) DO UPDATE
	SET city = EXCLUDED.city,
		delivery_date = EXCLUDED.delivery_date,
		address = EXCLUDED.address,
		value_cents = EXCLUDED.value_cents,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		weight = EXCLUDED.weight;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed orders: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range rows {
		_, err := stmt.ExecContext(ctx,
			o.OrderID, o.City, o.DeliveryDate, o.Address, o.ValueCents,
			o.Lon, o.Lat, o.Weight,
		)
		if err != nil {
			return fmt.Errorf("seed orders: insert order_id=%q: %w", o.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return nil
}
