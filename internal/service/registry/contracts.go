package registry

import (
	"context"

	"github.com/localkart/dispatch/internal/domain"
)

type partnerRepository interface {
	Get(ctx context.Context, id int64) (*domain.DeliveryPartner, error)
	Create(ctx context.Context, p *domain.DeliveryPartner) (int64, error)
	FindAvailable(ctx context.Context, exclude []int64) ([]domain.DeliveryPartner, error)
	SetPresence(ctx context.Context, id int64, status domain.RideStatus, pr domain.Presence) (bool, error)
}
