package dispatch

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/gateway/notify"
	"github.com/localkart/dispatch/internal/geo"
	"github.com/localkart/dispatch/internal/logx"
	"github.com/localkart/dispatch/internal/ports/dispatchtx"
)

// SystemActor marks dispatches initiated by the system itself (event
// processing, re-dispatch after rejection) rather than a staff user.
const SystemActor int64 = 0

// Dispatch outcome labels for the dispatch counter.
const (
	outcomeAssigned        = "assigned"
	outcomeNoPartners      = "no_partners"
	outcomeAlreadyAssigned = "already_assigned"
	outcomeError           = "error"
)

// Service picks a delivery partner for an order and creates the assignment.
// The active-assignment check and the insert run in one transaction under a
// row lock, so concurrent dispatches of the same order resolve to one winner.
type Service struct {
	repo             dispatchRepository
	partners         partnerDirectory
	orders           ordersGateway
	fees             feeQuoter
	notifier         notify.Gateway
	logger           logx.Logger
	dispatches       *prometheus.CounterVec
	notifyFailures   prometheus.Counter
	operationTimeout time.Duration
	now              func() time.Time
}

// Deps bundles the collaborators of the dispatcher.
type Deps struct {
	Repo           dispatchRepository
	Partners       partnerDirectory
	Orders         ordersGateway
	Fees           feeQuoter
	Notifier       notify.Gateway
	Logger         logx.Logger
	Dispatches     *prometheus.CounterVec
	NotifyFailures prometheus.Counter
	Timeout        time.Duration
}

// NewService creates and configures a dispatch Service.
func NewService(d Deps) *Service {
	if d.Timeout <= 0 {
		d.Timeout = 3 * time.Second
	}
	if d.Notifier == nil {
		d.Notifier = notify.Nop()
	}
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	return &Service{
		repo:             d.Repo,
		partners:         d.Partners,
		orders:           d.Orders,
		fees:             d.Fees,
		notifier:         d.Notifier,
		logger:           d.Logger,
		dispatches:       d.Dispatches,
		notifyFailures:   d.NotifyFailures,
		operationTimeout: d.Timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func (s *Service) countOutcome(outcome string) {
	if s.dispatches != nil {
		s.dispatches.WithLabelValues(outcome).Inc()
	}
}

// AutoAssign picks the best available partner for the order and assigns it.
// Partners who already rejected the order are never offered it again.
func (s *Service) AutoAssign(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error) {
	if orderID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	order, err := s.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	exclude, err := s.repo.RejectedPartnerIDs(ctx, orderID)
	if err != nil {
		s.countOutcome(outcomeError)
		return nil, err
	}
	candidates, err := s.partners.FindAvailable(ctx, exclude)
	if err != nil {
		s.countOutcome(outcomeError)
		return nil, err
	}
	if len(candidates) == 0 {
		s.countOutcome(outcomeNoPartners)
		s.logger.Warn("no partners available", logx.Int64("order_id", orderID))
		return nil, apperr.ErrNoPartnersAvailable
	}

	rankByProximity(order, candidates)
	chosen := candidates[0]

	a, err := s.create(ctx, order, &chosen, assignedBy, domain.TypeAuto)
	if err != nil {
		return nil, err
	}
	s.notifyAssigned(ctx, order, &chosen, notify.StatusAssigned)
	return a, nil
}

// ManualAssign assigns the order to a specific partner chosen by a staff
// user. The partner must be free to take the order, same as auto dispatch.
func (s *Service) ManualAssign(ctx context.Context, orderID, partnerID, assignedBy int64) (*domain.Assignment, error) {
	if orderID <= 0 || partnerID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	order, err := s.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	partner, err := s.partners.Get(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if !partner.Online || !partner.Available {
		s.countOutcome(outcomeNoPartners)
		return nil, apperr.ErrNoPartnersAvailable
	}
	active, err := s.repo.CountActiveByPartnerID(ctx, partnerID)
	if err != nil {
		s.countOutcome(outcomeError)
		return nil, err
	}
	if active > 0 {
		s.countOutcome(outcomeNoPartners)
		return nil, apperr.ErrNoPartnersAvailable
	}

	a, err := s.create(ctx, order, partner, assignedBy, domain.TypeManual)
	if err != nil {
		return nil, err
	}
	s.notifyAssigned(ctx, order, partner, notify.StatusManualAssigned)
	return a, nil
}

// Redispatch re-runs auto assignment for an order after a rejection.
// Rejectors stay excluded through the order's rejection history.
func (s *Service) Redispatch(ctx context.Context, orderID int64) (*domain.Assignment, error) {
	return s.AutoAssign(ctx, orderID, SystemActor)
}

func (s *Service) fetchOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.countOutcome(outcomeError)
		return nil, err
	}
	if order == nil {
		return nil, apperr.ErrNotFound
	}
	return order, nil
}

// create prices the leg and inserts the assignment under the order's
// dispatch lock.
func (s *Service) create(ctx context.Context, order *domain.Order, partner *domain.DeliveryPartner, assignedBy int64, t domain.AssignmentType) (*domain.Assignment, error) {
	var dist float64
	if order.HasShopLocation() && partner.HasLocation() {
		dist = geo.DistanceKm(*order.ShopLat, *order.ShopLng, *partner.CurrentLat, *partner.CurrentLng)
	}
	quote := s.fees.Quote(dist)

	a := &domain.Assignment{
		OrderID:           order.ID,
		PartnerID:         partner.ID,
		AssignedBy:        assignedBy,
		Status:            domain.StatusAssigned,
		Type:              t,
		AssignedAt:        s.now(),
		DeliveryFee:       quote.DeliveryFee,
		PartnerCommission: quote.PartnerCommission,
	}

	err := s.repo.WithTx(ctx, func(tx dispatchtx.Repository) error {
		existing, err := tx.ActiveAssignmentForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.ErrAlreadyAssigned
		}
		return tx.InsertAssignment(ctx, a)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyAssigned) {
			s.countOutcome(outcomeAlreadyAssigned)
		} else {
			s.countOutcome(outcomeError)
		}
		return nil, err
	}

	s.countOutcome(outcomeAssigned)
	s.logger.Info("order assigned",
		logx.Int64("order_id", order.ID),
		logx.Int64("partner_id", partner.ID),
		logx.String("type", string(t)),
		logx.Float64("distance_km", dist),
	)
	return a, nil
}

func (s *Service) notifyAssigned(ctx context.Context, order *domain.Order, partner *domain.DeliveryPartner, status string) {
	err := s.notifier.Send(ctx, notify.Notification{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      status,
		Recipient:   notify.RecipientPartner,
		RecipientID: partner.ID,
	})
	if err != nil {
		if s.notifyFailures != nil {
			s.notifyFailures.Inc()
		}
		s.logger.Warn("assignment notification failed",
			logx.Int64("order_id", order.ID),
			logx.Int64("partner_id", partner.ID),
			logx.Any("err", err),
		)
	}
}

// rankByProximity orders candidates nearest-first to the order's shop.
// Partners without a cached position rank last; ties break on partner ID
// so ranking stays deterministic.
func rankByProximity(order *domain.Order, candidates []domain.DeliveryPartner) {
	if !order.HasShopLocation() {
		return
	}
	dist := func(p domain.DeliveryPartner) (float64, bool) {
		if !p.HasLocation() {
			return 0, false
		}
		return geo.DistanceKm(*order.ShopLat, *order.ShopLng, *p.CurrentLat, *p.CurrentLng), true
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		di, oki := dist(candidates[i])
		dj, okj := dist(candidates[j])
		switch {
		case oki && !okj:
			return true
		case !oki && okj:
			return false
		case !oki && !okj:
			return candidates[i].ID < candidates[j].ID
		case di != dj:
			return di < dj
		default:
			return candidates[i].ID < candidates[j].ID
		}
	})
}
