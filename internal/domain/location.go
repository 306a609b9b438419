package domain

import "time"

// PartnerLocation is one append-only location sample for a partner.
// Samples recorded during a delivery leg carry the assignment ID and the
// order status tag at recording time, so the leg can be reconstructed.
type PartnerLocation struct {
	ID           int64
	PartnerID    int64
	Lat          float64
	Lng          float64
	AccuracyM    *float64
	SpeedMPS     *float64
	HeadingDeg   *float64
	IsMoving     bool
	AssignmentID *int64
	OrderStatus  string
	RecordedAt   time.Time
}

// ValidCoords reports whether lat/lng form a real WGS84 coordinate.
func ValidCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
