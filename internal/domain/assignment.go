package domain

import "time"

type (
	// AssignmentStatus represents the lifecycle status of an assignment.
	AssignmentStatus string
	// AssignmentType tells whether the assignment was created automatically or by hand.
	AssignmentType string
)

// Assignment lifecycle statuses. The legal graph is
// assigned → accepted → picked_up → in_transit → delivered, with
// rejected reachable from assigned and cancelled reachable from any
// non-terminal, pre-delivery state.
const (
	StatusAssigned  AssignmentStatus = "assigned"
	StatusAccepted  AssignmentStatus = "accepted"
	StatusPickedUp  AssignmentStatus = "picked_up"
	StatusInTransit AssignmentStatus = "in_transit"
	StatusDelivered AssignmentStatus = "delivered"
	StatusRejected  AssignmentStatus = "rejected"
	StatusCancelled AssignmentStatus = "cancelled"
)

// List of possible assignment types
const (
	TypeAuto   AssignmentType = "auto"
	TypeManual AssignmentType = "manual"
)

// ActiveStatuses are the non-terminal statuses. An order may hold at most
// one assignment in any of these at a time.
var ActiveStatuses = []AssignmentStatus{
	StatusAssigned, StatusAccepted, StatusPickedUp, StatusInTransit,
}

// Valid checks if the AssignmentStatus is valid
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusAssigned, StatusAccepted, StatusPickedUp,
		StatusInTransit, StatusDelivered, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether the status is non-terminal.
func (s AssignmentStatus) Active() bool {
	for _, v := range ActiveStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are legal.
func (s AssignmentStatus) Terminal() bool { return !s.Active() }

// CanAccept reports whether accept is legal from s.
func (s AssignmentStatus) CanAccept() bool { return s == StatusAssigned }

// CanReject reports whether reject is legal from s.
func (s AssignmentStatus) CanReject() bool { return s == StatusAssigned }

// CanPickUp reports whether pickup is legal from s.
func (s AssignmentStatus) CanPickUp() bool { return s == StatusAccepted }

// CanTransit reports whether the in-transit transition is legal from s.
func (s AssignmentStatus) CanTransit() bool { return s == StatusPickedUp }

// CanDeliver reports whether deliver is legal from s.
func (s AssignmentStatus) CanDeliver() bool {
	return s == StatusPickedUp || s == StatusInTransit
}

// CanCancel reports whether cancellation is legal from s. Cancellation is
// driven by the order subsystem and may interrupt any pre-delivery state.
func (s AssignmentStatus) CanCancel() bool {
	return s == StatusAssigned || s == StatusAccepted || s == StatusPickedUp
}

// Assignment binds one order to one delivery partner for one delivery
// attempt. Rows are append-only: rejections and cancellations keep their
// row as audit history and a new assignment is created for the retry.
type Assignment struct {
	ID                int64
	OrderID           int64
	PartnerID         int64
	AssignedBy        int64
	Status            AssignmentStatus
	Type              AssignmentType
	AssignedAt        time.Time
	AcceptedAt        *time.Time
	RejectedAt        *time.Time
	PickupTime        *time.Time
	DeliveredAt       *time.Time
	DeliveryFee       float64
	PartnerCommission float64
	PickupOTP         string
	AssignmentNotes   string
	DeliveryNotes     string
	RejectionReason   string
}

// Active reports whether the assignment still blocks re-dispatch of its order.
func (a Assignment) Active() bool { return a.Status.Active() }
