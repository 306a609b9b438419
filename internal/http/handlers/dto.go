package handlers

import (
	"time"
)

type assignmentDTO struct {
	ID                int64      `json:"id"`
	OrderID           int64      `json:"order_id"`
	PartnerID         int64      `json:"delivery_partner_id"`
	AssignedBy        int64      `json:"assigned_by,omitempty"`
	Status            string     `json:"status"`
	Type              string     `json:"assignment_type"`
	AssignedAt        time.Time  `json:"assigned_at"`
	AcceptedAt        *time.Time `json:"accepted_at,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`
	PickupTime        *time.Time `json:"pickup_time,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	DeliveryFee       float64    `json:"delivery_fee"`
	PartnerCommission float64    `json:"partner_commission"`
	PickupOTP         string     `json:"pickup_otp,omitempty"`
	AssignmentNotes   string     `json:"assignment_notes,omitempty"`
	DeliveryNotes     string     `json:"delivery_notes,omitempty"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
}

type partnerDTO struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Online         bool       `json:"is_online"`
	Available      bool       `json:"is_available"`
	RideStatus     string     `json:"ride_status"`
	CurrentLat     *float64   `json:"current_lat,omitempty"`
	CurrentLng     *float64   `json:"current_lng,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
	LastLocationAt *time.Time `json:"last_location_at,omitempty"`
}

type createPartnerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type setOnlineRequest struct {
	Online bool `json:"is_online"`
}

type setAvailableRequest struct {
	Available bool `json:"is_available"`
}

type setRideStatusRequest struct {
	RideStatus string `json:"ride_status"`
}

type autoAssignRequest struct {
	OrderID    int64 `json:"order_id"`
	AssignedBy int64 `json:"assigned_by"`
}

type manualAssignRequest struct {
	OrderID    int64 `json:"order_id"`
	PartnerID  int64 `json:"delivery_partner_id"`
	AssignedBy int64 `json:"assigned_by"`
}

type transitionRequest struct {
	PartnerID int64 `json:"delivery_partner_id"`
}

type rejectRequest struct {
	PartnerID int64  `json:"delivery_partner_id"`
	Reason    string `json:"reason"`
}

type deliverRequest struct {
	PartnerID int64  `json:"delivery_partner_id"`
	Notes     string `json:"delivery_notes"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type recordLocationRequest struct {
	Lat          float64  `json:"latitude"`
	Lng          float64  `json:"longitude"`
	AccuracyM    *float64 `json:"accuracy,omitempty"`
	SpeedMPS     *float64 `json:"speed,omitempty"`
	HeadingDeg   *float64 `json:"heading,omitempty"`
	AssignmentID *int64   `json:"assignment_id,omitempty"`
	OrderStatus  string   `json:"order_status,omitempty"`
}

type locationDTO struct {
	ID           int64     `json:"id"`
	PartnerID    int64     `json:"delivery_partner_id"`
	Lat          float64   `json:"latitude"`
	Lng          float64   `json:"longitude"`
	AccuracyM    *float64  `json:"accuracy,omitempty"`
	SpeedMPS     *float64  `json:"speed,omitempty"`
	HeadingDeg   *float64  `json:"heading,omitempty"`
	IsMoving     bool      `json:"is_moving"`
	AssignmentID *int64    `json:"assignment_id,omitempty"`
	OrderStatus  string    `json:"order_status,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
}

type etaDTO struct {
	DistanceKm  float64   `json:"distance_km"`
	Minutes     int       `json:"eta_minutes"`
	SpeedKmh    float64   `json:"speed_kmh"`
	CurrentLat  float64   `json:"current_lat"`
	CurrentLng  float64   `json:"current_lng"`
	LastUpdated time.Time `json:"last_updated"`
}

type onlineDTO struct {
	PartnerID int64 `json:"delivery_partner_id"`
	Online    bool  `json:"is_online"`
}
