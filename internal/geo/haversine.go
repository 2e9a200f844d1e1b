package geo

import (
	"math"

	"evacuation-planner-service/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// DistanceKm returns the great-circle distance between two coordinates using the
// haversine formula. Accuracy degrades near antipodal points, which is acceptable
// for vehicle-to-zone distances.
func DistanceKm(a, b domain.Location) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	lon1 := degreesToRadians(a.Longitude)
	lon2 := degreesToRadians(b.Longitude)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	// a = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlon/2)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// TravelMinutes converts a distance and speed into whole minutes, rounded up.
func TravelMinutes(distanceKm, speedKmh float64) int {
	return int(math.Ceil(distanceKm / speedKmh * 60))
}
