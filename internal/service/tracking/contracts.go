package tracking

import (
	"context"
	"time"

	"github.com/localkart/dispatch/internal/domain"
)

// locationRepository defines storage operations over the location trail.
type locationRepository interface {
	Insert(ctx context.Context, l *domain.PartnerLocation) error
	Latest(ctx context.Context, partnerID int64) (*domain.PartnerLocation, error)
	Range(ctx context.Context, partnerID int64, start, end time.Time) ([]domain.PartnerLocation, error)
	Route(ctx context.Context, partnerID, assignmentID int64) ([]domain.PartnerLocation, error)
	HasRecent(ctx context.Context, partnerID int64, since time.Time) (bool, error)
	LatestPerPartner(ctx context.Context, cutoff time.Time) ([]domain.PartnerLocation, error)
}

// partnerRepository covers the cached-position side of the partner record.
type partnerRepository interface {
	Get(ctx context.Context, id int64) (*domain.DeliveryPartner, error)
	UpdateCachedLocation(ctx context.Context, id int64, lat, lng float64, recordedAt time.Time) error
	TouchActivity(ctx context.Context, id int64, now time.Time) error
}
