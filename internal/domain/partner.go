package domain

import "time"

// RideStatus summarizes a delivery partner's current engagement.
type RideStatus string

// List of possible ride statuses
const (
	RideAvailable RideStatus = "available"
	RideBusy      RideStatus = "busy"
	RideOnRide    RideStatus = "on_ride"
	RideOffline   RideStatus = "offline"
)

var allowedRideStatuses = [...]RideStatus{
	RideAvailable, RideBusy, RideOnRide, RideOffline,
}

// Valid checks if the RideStatus is valid
func (s RideStatus) Valid() bool {
	for _, v := range allowedRideStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Presence is the coupled (online, available) pair derived from a ride status.
// It is the only way online/available flags are written, so no caller can put
// a partner into an inconsistent combination such as available-but-on-a-ride.
type Presence struct {
	Online    bool
	Available bool
}

// PresenceFor derives the coupled presence flags for a ride status.
// offline forces both flags down, available forces both up, any busy
// state keeps the partner online but not available.
func PresenceFor(s RideStatus) Presence {
	switch s {
	case RideOffline:
		return Presence{Online: false, Available: false}
	case RideAvailable:
		return Presence{Online: true, Available: true}
	default:
		return Presence{Online: true, Available: false}
	}
}

// DeliveryPartner represents a courier registered for deliveries.
type DeliveryPartner struct {
	ID             int64
	Name           string
	Phone          string
	Online         bool
	Available      bool
	RideStatus     RideStatus
	CurrentLat     *float64
	CurrentLng     *float64
	LastActivityAt *time.Time
	LastLocationAt *time.Time
}

// HasLocation reports whether the partner has cached coordinates.
func (p DeliveryPartner) HasLocation() bool {
	return p.CurrentLat != nil && p.CurrentLng != nil
}
