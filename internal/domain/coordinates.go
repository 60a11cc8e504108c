package domain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Immutable geographic coordinates (longitude, latitude) in degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Point converts the coordinates to an orb point (x=lon, y=lat).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// Validate reports why the coordinates cannot be used, or nil.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return fmt.Errorf("latitude %v is not finite", c.Lat)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("longitude %v is not finite", c.Lon)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Lon)
	}
	return nil
}

// Key is a stable string form used for cache keys (6 decimals, ~0.1m).
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(a, b Coordinates) float64 {
	return geo.DistanceHaversine(a.Point(), b.Point())
}
