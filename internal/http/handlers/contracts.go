package handlers

import (
	"context"
	"time"

	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/service/assignment"
	"github.com/localkart/dispatch/internal/service/dispatch"
	"github.com/localkart/dispatch/internal/service/registry"
	"github.com/localkart/dispatch/internal/service/tracking"
)

type assignmentUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Assignment, error)
	ListByOrder(ctx context.Context, orderID int64) ([]domain.Assignment, error)
	ListActiveByPartner(ctx context.Context, partnerID int64) ([]domain.Assignment, error)
	Accept(ctx context.Context, id, partnerID int64) (*domain.Assignment, error)
	Reject(ctx context.Context, id, partnerID int64, reason string) (*domain.Assignment, error)
	MarkPickedUp(ctx context.Context, id, partnerID int64) (*domain.Assignment, error)
	MarkInTransit(ctx context.Context, id, partnerID int64) (*domain.Assignment, error)
	MarkDelivered(ctx context.Context, id, partnerID int64, notes string) (*domain.Assignment, error)
	Cancel(ctx context.Context, id int64, reason string) (*domain.Assignment, error)
}

// NewAssignmentUsecase wires an assignment Service into an assignmentUsecase.
func NewAssignmentUsecase(svc *assignment.Service) assignmentUsecase {
	return svc
}

type dispatchUsecase interface {
	AutoAssign(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error)
	ManualAssign(ctx context.Context, orderID, partnerID, assignedBy int64) (*domain.Assignment, error)
}

// NewDispatchUsecase wires a dispatch Service into a dispatchUsecase.
func NewDispatchUsecase(svc *dispatch.Service) dispatchUsecase {
	return svc
}

type partnerUsecase interface {
	Get(ctx context.Context, id int64) (*domain.DeliveryPartner, error)
	Create(ctx context.Context, p *domain.DeliveryPartner) (int64, error)
	SetOnline(ctx context.Context, id int64, online bool) error
	SetAvailable(ctx context.Context, id int64, available bool) error
	SetRideStatus(ctx context.Context, id int64, st domain.RideStatus) error
}

// NewPartnerUsecase wires a registry Service into a partnerUsecase.
func NewPartnerUsecase(svc *registry.Service) partnerUsecase {
	return svc
}

type trackingUsecase interface {
	RecordLocation(ctx context.Context, in tracking.RecordInput) (*domain.PartnerLocation, error)
	CurrentLocation(ctx context.Context, partnerID int64) (*domain.PartnerLocation, error)
	History(ctx context.Context, partnerID int64, start, end time.Time) ([]domain.PartnerLocation, error)
	Route(ctx context.Context, partnerID, assignmentID int64) ([]domain.PartnerLocation, error)
	EstimateArrival(ctx context.Context, partnerID int64, destLat, destLng float64) (*tracking.ETA, error)
	IsOnline(ctx context.Context, partnerID int64) (bool, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]domain.PartnerLocation, error)
}

// NewTrackingUsecase wires a tracking Service into a trackingUsecase.
func NewTrackingUsecase(svc *tracking.Service) trackingUsecase {
	return svc
}
