package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two WGS84 points
// using the haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := toRadians(lat1)
	rlat2 := toRadians(lat2)
	dlat := toRadians(lat2 - lat1)
	dlng := toRadians(lng2 - lng1)

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ETAMinutes estimates travel time for distanceKm at speedKmh, rounded up
// to whole minutes. Returns 0 for non-positive speed.
func ETAMinutes(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm / speedKmh * 60))
}

// MPSToKmh converts meters-per-second (the wire unit of location pings)
// to kilometers-per-hour.
func MPSToKmh(mps float64) float64 { return mps * 3.6 }

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
