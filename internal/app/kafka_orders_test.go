package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/gateway/order"
	"github.com/localkart/dispatch/internal/logx"
	"github.com/localkart/dispatch/internal/service/orderevents"
)

type stubDispatcher struct {
	calls   int
	orderID int64
}

func (s *stubDispatcher) AutoAssign(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error) {
	s.calls++
	s.orderID = orderID
	return &domain.Assignment{ID: 1, OrderID: orderID}, nil
}

type stubLifecycle struct{}

func (stubLifecycle) CancelByOrder(ctx context.Context, orderID int64, reason string) (*domain.Assignment, error) {
	return nil, nil
}

func TestMakeOrderEventsHandler_StatusPresent_SkipsGateway(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{}
	p := orderevents.NewProcessor(d, stubLifecycle{}, logx.Nop())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("gateway must not be called when status is present")
	}))
	defer ts.Close()
	gw := order.NewRetryingGateway(order.NewHTTPGateway(ts.URL, time.Second), logx.Nop(), nil, order.RetryConfig{MaxAttempts: 1})

	h := makeOrderEventsHandler(p, gw)
	err := h(context.Background(), orderevents.Event{OrderID: 9, Status: "ready_for_pickup"})
	require.NoError(t, err)
	require.Equal(t, 1, d.calls)
	require.Equal(t, int64(9), d.orderID)
}

func TestMakeOrderEventsHandler_StatusMissing_EnrichesFromGateway(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{}
	p := orderevents.NewProcessor(d, stubLifecycle{}, logx.Nop())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"order_number":"LK-9","status":"ready_for_pickup"}`))
	}))
	defer ts.Close()
	gw := order.NewRetryingGateway(order.NewHTTPGateway(ts.URL, time.Second), logx.Nop(), nil, order.RetryConfig{MaxAttempts: 1})

	h := makeOrderEventsHandler(p, gw)
	err := h(context.Background(), orderevents.Event{OrderID: 9})
	require.NoError(t, err)
	require.Equal(t, 1, d.calls)
}

func TestMakeOrderEventsHandler_OrderGone_SkipsEvent(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{}
	p := orderevents.NewProcessor(d, stubLifecycle{}, logx.Nop())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()
	gw := order.NewRetryingGateway(order.NewHTTPGateway(ts.URL, time.Second), logx.Nop(), nil, order.RetryConfig{MaxAttempts: 1})

	h := makeOrderEventsHandler(p, gw)
	err := h(context.Background(), orderevents.Event{OrderID: 9})
	require.NoError(t, err)
	require.Equal(t, 0, d.calls)
}

func TestMakeOrderEventsHandler_NilGateway_Delegates(t *testing.T) {
	t.Parallel()

	d := &stubDispatcher{}
	p := orderevents.NewProcessor(d, stubLifecycle{}, logx.Nop())

	h := makeOrderEventsHandler(p, nil)
	err := h(context.Background(), orderevents.Event{OrderID: 9, Status: "ready_for_pickup"})
	require.NoError(t, err)
	require.Equal(t, 1, d.calls)
}
