package assignment

import (
	"context"
	"time"

	"github.com/localkart/dispatch/internal/domain"
)

// assignmentRepository defines storage operations required by the lifecycle layer.
type assignmentRepository interface {
	Get(ctx context.Context, id int64) (*domain.Assignment, error)
	ActiveByOrderID(ctx context.Context, orderID int64) (*domain.Assignment, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]domain.Assignment, error)
	ListActiveByPartnerID(ctx context.Context, partnerID int64) ([]domain.Assignment, error)
	CountActiveByPartnerID(ctx context.Context, partnerID int64) (int, error)
	Accept(ctx context.Context, id, partnerID int64, otp string, now time.Time) (*domain.Assignment, error)
	Reject(ctx context.Context, id, partnerID int64, reason string, now time.Time) (*domain.Assignment, error)
	MarkPickedUp(ctx context.Context, id, partnerID int64, now time.Time) (*domain.Assignment, error)
	MarkInTransit(ctx context.Context, id, partnerID int64) (*domain.Assignment, error)
	MarkDelivered(ctx context.Context, id, partnerID int64, notes string, now time.Time) (*domain.Assignment, error)
	Cancel(ctx context.Context, id int64, reason string, now time.Time) (*domain.Assignment, error)
}

// presenceSetter moves a partner between ride statuses, keeping the coupled
// online/available flags consistent.
type presenceSetter interface {
	SetRideStatus(ctx context.Context, id int64, st domain.RideStatus) error
}

// ordersGateway writes status notices back to the order subsystem.
type ordersGateway interface {
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

// redispatcher re-runs auto-assignment for an order after a rejection.
type redispatcher interface {
	Redispatch(ctx context.Context, orderID int64) (*domain.Assignment, error)
}
