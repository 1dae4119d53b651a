package geo

import (
	"github.com/golang/geo/s2"

	"github.com/mustafayusufaksoy/camlica360/internal/domain/location"
)

// EarthRadiusMeters is Earth's mean radius in meters.
const EarthRadiusMeters = 6371000.0

// Distance calculates the great-circle distance between two coordinates in
// meters.
func Distance(from, to location.Coordinate) float64 {
	p1 := s2.LatLngFromDegrees(from.Latitude, from.Longitude)
	p2 := s2.LatLngFromDegrees(to.Latitude, to.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Within reports whether the coordinate lies within radiusMeters of center.
func Within(coord, center location.Coordinate, radiusMeters float64) bool {
	return Distance(coord, center) <= radiusMeters
}
