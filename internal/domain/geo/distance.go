// Package geo provides pure great-circle geometry used by the address domain.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point builds an orb.Point from a latitude/longitude pair in decimal degrees.
// orb stores points as (lon, lat).
func Point(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// Distance returns the haversine great-circle distance between two points in
// kilometers. It is a pure function: identical points yield exactly 0, the
// result is symmetric, and the formula is numerically stable for all valid
// degree inputs. Range validation of the inputs is the caller's concern.
func Distance(a, b orb.Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lng1 := a.Lon() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	lng2 := b.Lon() * math.Pi / 180

	deltaLat := lat2 - lat1
	deltaLng := lng2 - lng1

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// IsValidCoordinate reports whether a latitude/longitude pair is a finite
// value within geographic bounds.
func IsValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
