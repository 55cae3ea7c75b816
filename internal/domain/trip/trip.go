package trip

import (
	"errors"
	"math"
)

const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

// earthRadiusKM is the mean earth radius used for great-circle distance.
const earthRadiusKM = 6371.0

var (
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrTripAlreadyEnded  = errors.New("trip already ended")
)

func ValidateCoordinate(lat float64, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Cost rounds to cents, matching how kitchen waste costs are aggregated.
func Cost(distanceKM float64, ratePerKM float64) float64 {
	return math.Round(distanceKM*ratePerKM*100) / 100
}
