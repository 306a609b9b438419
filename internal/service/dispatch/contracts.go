package dispatch

import (
	"context"

	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/fee"
	"github.com/localkart/dispatch/internal/ports/dispatchtx"
)

// dispatchRepository defines storage operations required by the dispatcher.
type dispatchRepository interface {
	WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) error
	RejectedPartnerIDs(ctx context.Context, orderID int64) ([]int64, error)
	CountActiveByPartnerID(ctx context.Context, partnerID int64) (int, error)
}

// partnerDirectory answers candidate queries against the availability registry.
type partnerDirectory interface {
	Get(ctx context.Context, id int64) (*domain.DeliveryPartner, error)
	FindAvailable(ctx context.Context, exclude []int64) ([]domain.DeliveryPartner, error)
}

// ordersGateway reads orders from the order subsystem.
type ordersGateway interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

// feeQuoter prices a delivery leg by distance.
type feeQuoter interface {
	Quote(distanceKm float64) fee.Quote
}
