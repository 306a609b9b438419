package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/localkart/dispatch/internal/http/handlers"
	"github.com/localkart/dispatch/internal/http/middleware"
	"github.com/localkart/dispatch/internal/http/middleware/ratelimit"
	"github.com/localkart/dispatch/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
// The rate limiter guards only the location ping route; courier apps report
// positions every few seconds and a misbehaving one must not take the rest
// of the API down with it.
func New(
	logger logx.Logger,
	base *handlers.Handlers,
	assignments *handlers.AssignmentHandler,
	dispatch *handlers.DispatchHandler,
	partners *handlers.PartnerHandler,
	locations *handlers.LocationHandler,
	limiter *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observability(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(5 * time.Second))

	r.Get("/ping", base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(base.NotFound))

	r.Route("/assignments", func(r chi.Router) {
		r.Post("/auto", dispatch.AutoAssign)
		r.Post("/manual", dispatch.ManualAssign)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", assignments.GetByID)
			r.Post("/accept", assignments.Accept)
			r.Post("/reject", assignments.Reject)
			r.Post("/pickup", assignments.Pickup)
			r.Post("/transit", assignments.Transit)
			r.Post("/deliver", assignments.Deliver)
			r.Post("/cancel", assignments.Cancel)
		})
	})

	r.Get("/orders/{orderID}/assignments", assignments.ListByOrder)

	r.Route("/partners", func(r chi.Router) {
		r.Post("/", partners.Create)
		r.Get("/nearby", locations.Nearby)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", partners.GetByID)
			r.Put("/online", partners.SetOnline)
			r.Put("/availability", partners.SetAvailability)
			r.Put("/ride-status", partners.SetRideStatus)
			r.Get("/assignments", assignments.ListActiveByPartner)
			r.With(limiter.Handler()).Post("/location", locations.Record)
			r.Get("/location", locations.Current)
			r.Get("/location/history", locations.History)
			r.Get("/route/{assignmentID}", locations.Route)
			r.Get("/eta", locations.ETA)
			r.Get("/online", locations.Online)
		})
	})

	return r
}
