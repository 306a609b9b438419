package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/http/handlers"
)

type stubPartnerUsecase struct {
	getFn           func(ctx context.Context, id int64) (*domain.DeliveryPartner, error)
	createFn        func(ctx context.Context, p *domain.DeliveryPartner) (int64, error)
	setOnlineFn     func(ctx context.Context, id int64, online bool) error
	setAvailableFn  func(ctx context.Context, id int64, available bool) error
	setRideStatusFn func(ctx context.Context, id int64, st domain.RideStatus) error
}

func (s *stubPartnerUsecase) Get(ctx context.Context, id int64) (*domain.DeliveryPartner, error) {
	return s.getFn(ctx, id)
}

func (s *stubPartnerUsecase) Create(ctx context.Context, p *domain.DeliveryPartner) (int64, error) {
	return s.createFn(ctx, p)
}

func (s *stubPartnerUsecase) SetOnline(ctx context.Context, id int64, online bool) error {
	return s.setOnlineFn(ctx, id, online)
}

func (s *stubPartnerUsecase) SetAvailable(ctx context.Context, id int64, available bool) error {
	return s.setAvailableFn(ctx, id, available)
}

func (s *stubPartnerUsecase) SetRideStatus(ctx context.Context, id int64, st domain.RideStatus) error {
	return s.setRideStatusFn(ctx, id, st)
}

func TestPartnerHandler_Create_Created(t *testing.T) {
	t.Parallel()

	uc := &stubPartnerUsecase{
		createFn: func(ctx context.Context, p *domain.DeliveryPartner) (int64, error) {
			require.Equal(t, "Ravi", p.Name)
			require.Equal(t, "+919900112233", p.Phone)
			return 42, nil
		},
	}
	h := handlers.NewPartnerHandler(testLogger(), uc)

	body := strings.NewReader(`{"name":"Ravi","phone":"+919900112233"}`)
	req := httptest.NewRequest(http.MethodPost, "/partners", body)
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "/partners/42", rr.Header().Get("Location"))

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, float64(42), resp["id"])
}

func TestPartnerHandler_Create_MissingName(t *testing.T) {
	t.Parallel()

	uc := &stubPartnerUsecase{
		createFn: func(ctx context.Context, p *domain.DeliveryPartner) (int64, error) {
			return 0, apperr.ErrInvalid
		},
	}
	h := handlers.NewPartnerHandler(testLogger(), uc)

	body := strings.NewReader(`{"phone":"+919900112233"}`)
	req := httptest.NewRequest(http.MethodPost, "/partners", body)
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPartnerHandler_Create_BadJSON(t *testing.T) {
	t.Parallel()

	h := handlers.NewPartnerHandler(testLogger(), &stubPartnerUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/partners", strings.NewReader("{"))
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPartnerHandler_GetByID_OK(t *testing.T) {
	t.Parallel()

	uc := &stubPartnerUsecase{
		getFn: func(ctx context.Context, id int64) (*domain.DeliveryPartner, error) {
			require.Equal(t, int64(7), id)
			return &domain.DeliveryPartner{ID: 7, Name: "Ravi", Online: true, Available: true}, nil
		},
	}
	h := handlers.NewPartnerHandler(testLogger(), uc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/partners/7", nil), "id", "7")
	rr := httptest.NewRecorder()

	h.GetByID(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, float64(7), resp["id"])
	require.Equal(t, true, resp["is_online"])
}

func TestPartnerHandler_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	uc := &stubPartnerUsecase{
		getFn: func(ctx context.Context, id int64) (*domain.DeliveryPartner, error) {
			return nil, apperr.ErrNotFound
		},
	}
	h := handlers.NewPartnerHandler(testLogger(), uc)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/partners/7", nil), "id", "7")
	rr := httptest.NewRecorder()

	h.GetByID(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPartnerHandler_SetOnline_OK(t *testing.T) {
	t.Parallel()

	var got bool
	uc := &stubPartnerUsecase{
		setOnlineFn: func(ctx context.Context, id int64, online bool) error {
			got = online
			return nil
		},
	}
	h := handlers.NewPartnerHandler(testLogger(), uc)

	body := strings.NewReader(`{"is_online":true}`)
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/partners/7/online", body), "id", "7")
	rr := httptest.NewRecorder()

	h.SetOnline(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, got)
}

func TestPartnerHandler_SetAvailability_OK(t *testing.T) {
	t.Parallel()

	var got bool
	uc := &stubPartnerUsecase{
		setAvailableFn: func(ctx context.Context, id int64, available bool) error {
			got = available
			return nil
		},
	}
	h := handlers.NewPartnerHandler(testLogger(), uc)

	body := strings.NewReader(`{"is_available":false}`)
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/partners/7/availability", body), "id", "7")
	rr := httptest.NewRecorder()

	h.SetAvailability(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.False(t, got)
}

func TestPartnerHandler_SetRideStatus_OK(t *testing.T) {
	t.Parallel()

	var got domain.RideStatus
	uc := &stubPartnerUsecase{
		setRideStatusFn: func(ctx context.Context, id int64, st domain.RideStatus) error {
			got = st
			return nil
		},
	}
	h := handlers.NewPartnerHandler(testLogger(), uc)

	body := strings.NewReader(`{"ride_status":"on_ride"}`)
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/partners/7/ride-status", body), "id", "7")
	rr := httptest.NewRecorder()

	h.SetRideStatus(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, domain.RideOnRide, got)
}

func TestPartnerHandler_SetRideStatus_Unknown(t *testing.T) {
	t.Parallel()

	h := handlers.NewPartnerHandler(testLogger(), &stubPartnerUsecase{})

	body := strings.NewReader(`{"ride_status":"parked"}`)
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/partners/7/ride-status", body), "id", "7")
	rr := httptest.NewRecorder()

	h.SetRideStatus(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPartnerHandler_SetOnline_InvalidID(t *testing.T) {
	t.Parallel()

	h := handlers.NewPartnerHandler(testLogger(), &stubPartnerUsecase{})

	body := strings.NewReader(`{"is_online":true}`)
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/partners/abc/online", body), "id", "abc")
	rr := httptest.NewRecorder()

	h.SetOnline(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
