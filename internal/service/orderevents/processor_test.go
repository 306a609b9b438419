package orderevents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/service/dispatch"
	"github.com/localkart/dispatch/internal/service/orderevents"
)

type stubDispatcher struct {
	autoAssignFn func(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error)
	calls        int
}

func (s *stubDispatcher) AutoAssign(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error) {
	s.calls++
	if s.autoAssignFn == nil {
		return &domain.Assignment{OrderID: orderID}, nil
	}
	return s.autoAssignFn(ctx, orderID, assignedBy)
}

type stubLifecycle struct {
	cancelByOrderFn func(ctx context.Context, orderID int64, reason string) (*domain.Assignment, error)
	calls           int
}

func (s *stubLifecycle) CancelByOrder(ctx context.Context, orderID int64, reason string) (*domain.Assignment, error) {
	s.calls++
	if s.cancelByOrderFn == nil {
		return &domain.Assignment{OrderID: orderID, Status: domain.StatusCancelled}, nil
	}
	return s.cancelByOrderFn(ctx, orderID, reason)
}

func TestProcessor_Handle_ReadyForPickup_AssignsOrder(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{
		autoAssignFn: func(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error) {
			require.Equal(t, int64(10), orderID)
			require.Equal(t, dispatch.SystemActor, assignedBy)
			return &domain.Assignment{ID: 1, OrderID: orderID}, nil
		},
	}
	p := orderevents.NewProcessor(d, &stubLifecycle{}, nil)

	err := p.Handle(context.Background(), orderevents.Event{
		OrderID:   10,
		Status:    "  READY_FOR_PICKUP  ",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, 1, d.calls)
}

func TestProcessor_Handle_ReadyForPickup_AlreadyAssignedIgnored(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{
		autoAssignFn: func(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error) {
			return nil, apperr.ErrAlreadyAssigned
		},
	}
	p := orderevents.NewProcessor(d, &stubLifecycle{}, nil)

	err := p.Handle(context.Background(), orderevents.Event{OrderID: 10, Status: "ready_for_pickup"})
	require.NoError(t, err)
}

func TestProcessor_Handle_ReadyForPickup_NoPartnersIgnored(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{
		autoAssignFn: func(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error) {
			return nil, apperr.ErrNoPartnersAvailable
		},
	}
	p := orderevents.NewProcessor(d, &stubLifecycle{}, nil)

	err := p.Handle(context.Background(), orderevents.Event{OrderID: 10, Status: "ready_for_pickup"})
	require.NoError(t, err)
}

func TestProcessor_Handle_ReadyForPickup_RepoErrorPropagates(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("db down")
	d := &stubDispatcher{
		autoAssignFn: func(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error) {
			return nil, wantErr
		},
	}
	p := orderevents.NewProcessor(d, &stubLifecycle{}, nil)

	err := p.Handle(context.Background(), orderevents.Event{OrderID: 10, Status: "ready_for_pickup"})
	require.ErrorIs(t, err, wantErr)
}

func TestProcessor_Handle_Cancelled_CancelsAssignment(t *testing.T) {
	t.Parallel()

	l := &stubLifecycle{
		cancelByOrderFn: func(ctx context.Context, orderID int64, reason string) (*domain.Assignment, error) {
			require.Equal(t, int64(10), orderID)
			require.Equal(t, "order cancelled", reason)
			return &domain.Assignment{OrderID: orderID, Status: domain.StatusCancelled}, nil
		},
	}
	p := orderevents.NewProcessor(&stubDispatcher{}, l, nil)

	err := p.Handle(context.Background(), orderevents.Event{OrderID: 10, Status: "CANCELLED"})
	require.NoError(t, err)
	require.Equal(t, 1, l.calls)
}

func TestProcessor_Handle_Cancelled_NoActiveAssignmentIgnored(t *testing.T) {
	t.Parallel()

	l := &stubLifecycle{
		cancelByOrderFn: func(ctx context.Context, orderID int64, reason string) (*domain.Assignment, error) {
			return nil, apperr.ErrNotFound
		},
	}
	p := orderevents.NewProcessor(&stubDispatcher{}, l, nil)

	err := p.Handle(context.Background(), orderevents.Event{OrderID: 10, Status: "cancelled"})
	require.NoError(t, err)
}

func TestProcessor_Handle_UnknownStatusIgnored(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{}
	l := &stubLifecycle{}
	p := orderevents.NewProcessor(d, l, nil)

	err := p.Handle(context.Background(), orderevents.Event{OrderID: 10, Status: "preparing"})
	require.NoError(t, err)
	require.Zero(t, d.calls)
	require.Zero(t, l.calls)
}
