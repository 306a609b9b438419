package assignment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/gateway/notify"
	"github.com/localkart/dispatch/internal/logx"
)

// Service drives the assignment lifecycle. Every transition is a single
// compare-and-set against storage, so two racing actors for the same
// assignment resolve to exactly one winner. Side effects (presence changes,
// order status notices, notifications) run after the transition committed
// and never roll it back.
type Service struct {
	repo             assignmentRepository
	presence         presenceSetter
	orders           ordersGateway
	notifier         notify.Gateway
	redispatch       redispatcher
	logger           logx.Logger
	transitions      *prometheus.CounterVec
	notifyFailures   prometheus.Counter
	operationTimeout time.Duration
	now              func() time.Time
	newOTP           func() string
}

// Deps bundles the collaborators of the lifecycle Service.
type Deps struct {
	Repo           assignmentRepository
	Presence       presenceSetter
	Orders         ordersGateway
	Notifier       notify.Gateway
	Redispatcher   redispatcher
	Logger         logx.Logger
	Transitions    *prometheus.CounterVec
	NotifyFailures prometheus.Counter
	Timeout        time.Duration
}

// NewService creates and configures an assignment lifecycle Service.
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
		presence:         d.Presence,
		orders:           d.Orders,
		notifier:         d.Notifier,
		redispatch:       d.Redispatcher,
		logger:           d.Logger,
		transitions:      d.Transitions,
		notifyFailures:   d.NotifyFailures,
		operationTimeout: d.Timeout,
		now:              func() time.Time { return time.Now().UTC() },
		newOTP:           newPickupOTP,
	}
}

// newPickupOTP generates the 4-digit code the partner shows at pickup.
func newPickupOTP() string {
	return fmt.Sprintf("%04d", rand.IntN(10000))
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func (s *Service) countTransition(st domain.AssignmentStatus) {
	if s.transitions != nil {
		s.transitions.WithLabelValues(string(st)).Inc()
	}
}

func (s *Service) notify(ctx context.Context, n notify.Notification) {
	if err := s.notifier.Send(ctx, n); err != nil {
		if s.notifyFailures != nil {
			s.notifyFailures.Inc()
		}
		s.logger.Warn("notification failed",
			logx.Int64("order_id", n.OrderID),
			logx.String("status", n.Status),
			logx.Any("err", err),
		)
	}
}

// updateOrderStatus writes a status notice back to the order subsystem.
// Failures are logged and swallowed so a committed transition is never
// reported as failed.
func (s *Service) updateOrderStatus(ctx context.Context, orderID int64, status string) {
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		s.logger.Error("order status writeback failed",
			logx.Int64("order_id", orderID),
			logx.String("status", status),
			logx.Any("err", err),
		)
	}
}

// Get retrieves an assignment by its ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Assignment, error) {
	if id <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.ErrNotFound
	}
	return a, nil
}

// ListByOrder returns the assignment history of an order, oldest first.
func (s *Service) ListByOrder(ctx context.Context, orderID int64) ([]domain.Assignment, error) {
	if orderID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListByOrderID(ctx, orderID)
}

// ListActiveByPartner returns the partner's in-flight assignments.
func (s *Service) ListActiveByPartner(ctx context.Context, partnerID int64) ([]domain.Assignment, error) {
	if partnerID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListActiveByPartnerID(ctx, partnerID)
}

// Accept moves an assignment from assigned to accepted on behalf of the
// partner it was offered to. Issues the pickup OTP and puts the partner on
// ride so the dispatcher stops offering them new orders.
func (s *Service) Accept(ctx context.Context, id, partnerID int64) (*domain.Assignment, error) {
	if id <= 0 || partnerID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.Accept(ctx, id, partnerID, s.newOTP(), s.now())
	if err != nil {
		return nil, err
	}
	s.countTransition(domain.StatusAccepted)

	if err := s.presence.SetRideStatus(ctx, partnerID, domain.RideOnRide); err != nil {
		s.logger.Error("partner presence update failed after accept",
			logx.Int64("partner_id", partnerID),
			logx.Any("err", err),
		)
	}
	s.notify(ctx, notify.Notification{
		OrderID:   a.OrderID,
		Status:    notify.StatusAccepted,
		Recipient: notify.RecipientShop,
	})
	return a, nil
}

// Reject moves an assignment from assigned to rejected and immediately
// re-dispatches the order to the remaining candidates. The rejecting partner
// keeps their availability and is excluded from the retry.
func (s *Service) Reject(ctx context.Context, id, partnerID int64, reason string) (*domain.Assignment, error) {
	if id <= 0 || partnerID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.Reject(ctx, id, partnerID, reason, s.now())
	if err != nil {
		return nil, err
	}
	s.countTransition(domain.StatusRejected)

	if s.redispatch != nil {
		if _, err := s.redispatch.Redispatch(ctx, a.OrderID); err != nil {
			switch {
			case errors.Is(err, apperr.ErrNoPartnersAvailable):
				s.logger.Warn("no partners left after rejection, order needs manual dispatch",
					logx.Int64("order_id", a.OrderID))
			case errors.Is(err, apperr.ErrAlreadyAssigned):
				// a concurrent dispatch won, nothing to do
			default:
				s.logger.Error("re-dispatch after rejection failed",
					logx.Int64("order_id", a.OrderID),
					logx.Any("err", err),
				)
			}
		}
	}
	return a, nil
}

// MarkPickedUp confirms the partner collected the order from the shop and
// flags the order as out for delivery.
func (s *Service) MarkPickedUp(ctx context.Context, id, partnerID int64) (*domain.Assignment, error) {
	if id <= 0 || partnerID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.MarkPickedUp(ctx, id, partnerID, s.now())
	if err != nil {
		return nil, err
	}
	s.countTransition(domain.StatusPickedUp)

	s.updateOrderStatus(ctx, a.OrderID, domain.OrderStatusOutForDelivery)
	s.notify(ctx, notify.Notification{
		OrderID:   a.OrderID,
		Status:    notify.StatusOutForDelivery,
		Recipient: notify.RecipientCustomer,
	})
	return a, nil
}

// MarkInTransit records that the partner left the pickup area with the order.
func (s *Service) MarkInTransit(ctx context.Context, id, partnerID int64) (*domain.Assignment, error) {
	if id <= 0 || partnerID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.MarkInTransit(ctx, id, partnerID)
	if err != nil {
		return nil, err
	}
	s.countTransition(domain.StatusInTransit)
	return a, nil
}

// MarkDelivered completes the assignment, reports the order delivered and
// returns the partner to the available pool unless they still carry another
// active assignment.
func (s *Service) MarkDelivered(ctx context.Context, id, partnerID int64, notes string) (*domain.Assignment, error) {
	if id <= 0 || partnerID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.MarkDelivered(ctx, id, partnerID, notes, s.now())
	if err != nil {
		return nil, err
	}
	s.countTransition(domain.StatusDelivered)

	s.updateOrderStatus(ctx, a.OrderID, domain.OrderStatusDelivered)
	s.releasePartner(ctx, partnerID)
	s.notify(ctx, notify.Notification{
		OrderID:   a.OrderID,
		Status:    notify.StatusDelivered,
		Recipient: notify.RecipientCustomer,
	})
	return a, nil
}

// releasePartner makes the partner available again if no other active
// assignment holds them.
func (s *Service) releasePartner(ctx context.Context, partnerID int64) {
	n, err := s.repo.CountActiveByPartnerID(ctx, partnerID)
	if err != nil {
		s.logger.Error("active assignment count failed, partner not released",
			logx.Int64("partner_id", partnerID),
			logx.Any("err", err),
		)
		return
	}
	if n > 0 {
		return
	}
	if err := s.presence.SetRideStatus(ctx, partnerID, domain.RideAvailable); err != nil {
		s.logger.Error("partner release failed",
			logx.Int64("partner_id", partnerID),
			logx.Any("err", err),
		)
	}
}

// Cancel force-cancels an assignment, releasing its partner if one already
// accepted it. Any actor may cancel; there is no partner ownership check.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) (*domain.Assignment, error) {
	if id <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.cancelLocked(ctx, id, reason)
}

// CancelByOrder cancels the active assignment of an order, typically after
// an order cancellation event. Returns ErrNotFound when the order has no
// active assignment.
func (s *Service) CancelByOrder(ctx context.Context, orderID int64, reason string) (*domain.Assignment, error) {
	if orderID <= 0 {
		return nil, apperr.ErrInvalid
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	active, err := s.repo.ActiveByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, apperr.ErrNotFound
	}
	return s.cancelLocked(ctx, active.ID, reason)
}

func (s *Service) cancelLocked(ctx context.Context, id int64, reason string) (*domain.Assignment, error) {
	a, err := s.repo.Cancel(ctx, id, reason, s.now())
	if err != nil {
		return nil, err
	}
	s.countTransition(domain.StatusCancelled)

	s.releasePartner(ctx, a.PartnerID)
	s.notify(ctx, notify.Notification{
		OrderID:     a.OrderID,
		Status:      notify.StatusCancelled,
		Recipient:   notify.RecipientPartner,
		RecipientID: a.PartnerID,
	})
	return a, nil
}
