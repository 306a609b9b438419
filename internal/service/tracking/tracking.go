package tracking

import (
	"context"
	"time"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/geo"
	"github.com/localkart/dispatch/internal/logx"
)

// Config carries the tracking thresholds.
type Config struct {
	// MovingSpeedMPS is the speed above which a sample counts as moving.
	MovingSpeedMPS float64
	// DefaultSpeedKmh is the assumed urban speed for ETAs when the latest
	// sample has no usable speed.
	DefaultSpeedKmh float64
	// OnlineWindow is how recent a sample or activity mark must be for the
	// partner to count as online.
	OnlineWindow time.Duration
	// NearbyFreshness is the maximum sample age considered in nearby queries.
	NearbyFreshness time.Duration
}

// RecordInput is one incoming location ping.
type RecordInput struct {
	PartnerID    int64
	Lat          float64
	Lng          float64
	AccuracyM    *float64
	SpeedMPS     *float64
	HeadingDeg   *float64
	AssignmentID *int64
	OrderStatus  string
}

// ETA is a distance and time estimate from a partner's last known position.
type ETA struct {
	DistanceKm  float64
	Minutes     int
	SpeedKmh    float64
	CurrentLat  float64
	CurrentLng  float64
	LastUpdated time.Time
}

// Service ingests location pings and answers position queries. The full
// trail is append-only; the partner row carries only the latest position
// as a cache for dispatch ranking.
type Service struct {
	locations        locationRepository
	partners         partnerRepository
	cfg              Config
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates and configures a tracking Service.
func NewService(locations locationRepository, partners partnerRepository, cfg Config, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if cfg.DefaultSpeedKmh <= 0 {
		cfg.DefaultSpeedKmh = 30
	}
	if cfg.OnlineWindow <= 0 {
		cfg.OnlineWindow = 10 * time.Minute
	}
	if cfg.NearbyFreshness <= 0 {
		cfg.NearbyFreshness = 15 * time.Minute
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		locations:        locations,
		partners:         partners,
		cfg:              cfg,
		logger:           logger,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// RecordLocation appends a location sample and refreshes the partner's
// cached position and activity mark.
func (s *Service) RecordLocation(ctx context.Context, in RecordInput) (*domain.PartnerLocation, error) {
	if in.PartnerID <= 0 || !domain.ValidCoords(in.Lat, in.Lng) {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.partners.Get(ctx, in.PartnerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}

	now := s.now()
	loc := &domain.PartnerLocation{
		PartnerID:    in.PartnerID,
		Lat:          in.Lat,
		Lng:          in.Lng,
		AccuracyM:    in.AccuracyM,
		SpeedMPS:     in.SpeedMPS,
		HeadingDeg:   in.HeadingDeg,
		IsMoving:     in.SpeedMPS != nil && *in.SpeedMPS > s.cfg.MovingSpeedMPS,
		AssignmentID: in.AssignmentID,
		OrderStatus:  in.OrderStatus,
		RecordedAt:   now,
	}
	if err := s.locations.Insert(ctx, loc); err != nil {
		return nil, err
	}
	if err := s.partners.UpdateCachedLocation(ctx, in.PartnerID, in.Lat, in.Lng, now); err != nil {
		return nil, err
	}
	if err := s.partners.TouchActivity(ctx, in.PartnerID, now); err != nil {
		return nil, err
	}
	return loc, nil
}

// CurrentLocation returns the partner's latest sample.
func (s *Service) CurrentLocation(ctx context.Context, partnerID int64) (*domain.PartnerLocation, error) {
	if partnerID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	loc, err := s.locations.Latest(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperr.ErrNotFound
	}
	return loc, nil
}

// History returns the partner's samples inside [start, end], oldest first.
func (s *Service) History(ctx context.Context, partnerID int64, start, end time.Time) ([]domain.PartnerLocation, error) {
	if partnerID <= 0 || start.After(end) {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.locations.Range(ctx, partnerID, start, end)
}

// Route returns the samples recorded during one delivery leg, in order.
func (s *Service) Route(ctx context.Context, partnerID, assignmentID int64) ([]domain.PartnerLocation, error) {
	if partnerID <= 0 || assignmentID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.locations.Route(ctx, partnerID, assignmentID)
}

// EstimateArrival computes distance and ETA from the partner's latest
// sample to the destination. Uses the sample's speed when the partner is
// moving, otherwise the configured urban default.
func (s *Service) EstimateArrival(ctx context.Context, partnerID int64, destLat, destLng float64) (*ETA, error) {
	if partnerID <= 0 || !domain.ValidCoords(destLat, destLng) {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	loc, err := s.locations.Latest(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperr.ErrNotFound
	}

	speedKmh := s.cfg.DefaultSpeedKmh
	if loc.SpeedMPS != nil && *loc.SpeedMPS > s.cfg.MovingSpeedMPS {
		speedKmh = geo.MPSToKmh(*loc.SpeedMPS)
	}
	dist := geo.DistanceKm(loc.Lat, loc.Lng, destLat, destLng)

	return &ETA{
		DistanceKm:  dist,
		Minutes:     geo.ETAMinutes(dist, speedKmh),
		SpeedKmh:    speedKmh,
		CurrentLat:  loc.Lat,
		CurrentLng:  loc.Lng,
		LastUpdated: loc.RecordedAt,
	}, nil
}

// IsOnline reports whether the partner showed any sign of life inside the
// online window, through a location sample or an activity mark.
func (s *Service) IsOnline(ctx context.Context, partnerID int64) (bool, error) {
	if partnerID <= 0 {
		return false, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	since := s.now().Add(-s.cfg.OnlineWindow)
	recent, err := s.locations.HasRecent(ctx, partnerID, since)
	if err != nil {
		return false, err
	}
	if recent {
		return true, nil
	}
	p, err := s.partners.Get(ctx, partnerID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, apperr.ErrNotFound
	}
	return p.LastActivityAt != nil && p.LastActivityAt.After(since), nil
}

// Nearby returns the freshest sample of every partner within radiusKm of
// the given point.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]domain.PartnerLocation, error) {
	if !domain.ValidCoords(lat, lng) || radiusKm <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cutoff := s.now().Add(-s.cfg.NearbyFreshness)
	latest, err := s.locations.LatestPerPartner(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PartnerLocation, 0, len(latest))
	for _, loc := range latest {
		if geo.DistanceKm(lat, lng, loc.Lat, loc.Lng) <= radiusKm {
			out = append(out, loc)
		}
	}
	return out, nil
}

// Distance computes the great-circle distance between two points.
func (s *Service) Distance(lat1, lng1, lat2, lng2 float64) (float64, error) {
	if !domain.ValidCoords(lat1, lng1) || !domain.ValidCoords(lat2, lng2) {
		return 0, apperr.ErrInvalid
	}
	return geo.DistanceKm(lat1, lng1, lat2, lng2), nil
}
