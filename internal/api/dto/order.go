package dto

import "delivery-scenario-service/internal/domain"

// Coordinates is a wire point. An omitted lon or lat stays nil so it is not
// mistaken for 0.
type Coordinates struct {
	Lon *float64 `json:"lon"`
	Lat *float64 `json:"lat"`
}

func NewCoordinates(c domain.Coordinates) *Coordinates {
	lon, lat := c.Lon, c.Lat
	return &Coordinates{Lon: &lon, Lat: &lat}
}

// Domain returns nil unless both lon and lat are present.
func (c *Coordinates) Domain() *domain.Coordinates {
	if c == nil || c.Lon == nil || c.Lat == nil {
		return nil
	}
	return &domain.Coordinates{Lon: *c.Lon, Lat: *c.Lat}
}

// Order is one delivery order. Coordinates are required by the planner but
// optional on the wire so missing ones surface as validation errors.
type Order struct {
	ID          string       `json:"id"`
	Address     string       `json:"address,omitempty"`
	ValueCents  int64        `json:"value_cents"`
	Coordinates *Coordinates `json:"coordinates"`
	Weight      *float64     `json:"weight,omitempty"`
}

type ListOrdersResponse struct {
	City   string  `json:"city,omitempty"`
	Date   string  `json:"date"`
	Orders []Order `json:"orders"`
}

func OrderFromRecord(o domain.OrderRecord) Order {
	out := Order{
		ID:         o.ID,
		Address:    o.Address,
		ValueCents: o.ValueCents,
		Weight:     o.Weight,
	}
	if o.Coordinates != nil {
		out.Coordinates = NewCoordinates(*o.Coordinates)
	}
	return out
}

// Record converts the wire order into the planner's input record. Partial
// coordinates are dropped so stop validation reports them as missing.
func (o Order) Record() domain.OrderRecord {
	return domain.OrderRecord{
		ID:          o.ID,
		Address:     o.Address,
		ValueCents:  o.ValueCents,
		Coordinates: o.Coordinates.Domain(),
		Weight:      o.Weight,
	}
}
