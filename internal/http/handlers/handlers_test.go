package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/localkart/dispatch/internal/http/handlers"
	"github.com/localkart/dispatch/internal/logx"
)

func testLogger() logx.Logger { return logx.Nop() }

// withURLParam injects a chi URL parameter into the request context.
func withURLParam(req *http.Request, name, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	h := handlers.New(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()

	h.Ping(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, "pong", resp["message"])
}

func TestHandlers_HealthcheckHead(t *testing.T) {
	t.Parallel()

	h := handlers.New(testLogger())

	req := httptest.NewRequest(http.MethodHead, "/healthcheck", nil)
	rr := httptest.NewRecorder()

	h.HealthcheckHead(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()

	h := handlers.New(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()

	h.NotFound(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
