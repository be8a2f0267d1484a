// Package geo measures great-circle distances between station coordinates.
package geo

import (
	"github.com/golang/geo/s2"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

// EarthRadiusKm is the mean Earth radius used for all station distances.
const EarthRadiusKm = 6371.0

// Distance returns the haversine distance between two points in kilometres.
func Distance(p1, p2 models.LatLng) float64 {
	a := s2.LatLngFromDegrees(p1.Lat, p1.Lng)
	b := s2.LatLngFromDegrees(p2.Lat, p2.Lng)
	return a.Distance(b).Radians() * EarthRadiusKm
}
