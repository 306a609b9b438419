package registry

import (
	"context"
	"strings"
	"time"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/domain"
)

// Service owns delivery partner presence. Every presence change goes through
// SetRideStatus so the online/available flags can never drift from the ride
// status they are derived from.
type Service struct {
	repo             partnerRepository
	operationTimeout time.Duration
}

// NewService creates and configures a partner availability Service.
func NewService(r partnerRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: r, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create registers a new delivery partner. Partners start offline and come
// on shift through SetOnline.
func (s *Service) Create(ctx context.Context, p *domain.DeliveryPartner) (int64, error) {
	if p == nil || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Phone) == "" {
		return 0, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.Create(ctx, p)
}

// Get retrieves a delivery partner by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.DeliveryPartner, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

// SetRideStatus moves a partner to the given ride status and writes the
// online/available flags the status implies. Idempotent.
func (s *Service) SetRideStatus(ctx context.Context, id int64, st domain.RideStatus) error {
	if !st.Valid() {
		return apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.repo.SetPresence(ctx, id, st, domain.PresenceFor(st))
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrNotFound
	}
	return nil
}

// SetOnline marks a partner as on shift or off shift. Coming online puts the
// partner into the available pool; going offline withdraws them entirely.
func (s *Service) SetOnline(ctx context.Context, id int64, online bool) error {
	st := domain.RideOffline
	if online {
		st = domain.RideAvailable
	}
	return s.SetRideStatus(ctx, id, st)
}

// SetAvailable toggles whether an online partner accepts new assignments.
// The partner stays on shift either way.
func (s *Service) SetAvailable(ctx context.Context, id int64, available bool) error {
	st := domain.RideBusy
	if available {
		st = domain.RideAvailable
	}
	return s.SetRideStatus(ctx, id, st)
}

// FindAvailable returns partners eligible for a new assignment, skipping the
// given IDs. Eligible means online, available and carrying no active assignment.
func (s *Service) FindAvailable(ctx context.Context, exclude []int64) ([]domain.DeliveryPartner, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.FindAvailable(ctx, exclude)
}

// ParseRideStatus converts a wire value into a ride status.
func ParseRideStatus(v string) (domain.RideStatus, error) {
	st := domain.RideStatus(strings.ToLower(strings.TrimSpace(v)))
	if !st.Valid() {
		return "", apperr.ErrInvalid
	}
	return st, nil
}
