package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"github.com/localkart/dispatch/internal/config"
	"github.com/localkart/dispatch/internal/fee"
	"github.com/localkart/dispatch/internal/gateway/notify"
	"github.com/localkart/dispatch/internal/gateway/order"
	"github.com/localkart/dispatch/internal/http/handlers"
	"github.com/localkart/dispatch/internal/http/router"
	"github.com/localkart/dispatch/internal/logx"
	"github.com/localkart/dispatch/internal/metrics"
	"github.com/localkart/dispatch/internal/repository"
	"github.com/localkart/dispatch/internal/service/assignment"
	"github.com/localkart/dispatch/internal/service/dispatch"
	"github.com/localkart/dispatch/internal/service/registry"
	"github.com/localkart/dispatch/internal/service/tracking"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// build builds and returns a new dig container
func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerGateways(container); err != nil {
		return nil, fmt.Errorf("gateways: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

type metricsOut struct {
	dig.Out

	Transitions       *prometheus.CounterVec `name:"assignment_transitions_total"`
	Dispatches        *prometheus.CounterVec `name:"dispatch_total"`
	NotifyFailures    prometheus.Counter     `name:"notification_failures_total"`
	RateLimitExceeded prometheus.Counter     `name:"rate_limit_exceeded_total"`
	GatewayRetries    prometheus.Counter     `name:"gateway_retries_total"`
}

var (
	metricsOnce   sync.Once
	sharedMetrics metricsOut
)

// newMetrics registers the service collectors once per process; containers
// built after the first (worker, tests) share the same set.
func newMetrics() metricsOut {
	metricsOnce.Do(func() {
		sharedMetrics = metricsOut{
			Transitions:       metrics.NewAssignmentTransitionsTotal(),
			Dispatches:        metrics.NewDispatchTotal(),
			NotifyFailures:    metrics.NewNotificationFailuresTotal(),
			RateLimitExceeded: metrics.NewRateLimitExceededTotal(),
			GatewayRetries:    metrics.NewGatewayRetriesTotal(),
		}
		prometheus.MustRegister(
			sharedMetrics.Transitions,
			sharedMetrics.Dispatches,
			sharedMetrics.NotifyFailures,
			sharedMetrics.RateLimitExceeded,
			sharedMetrics.GatewayRetries,
		)
	})
	return sharedMetrics
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		NewLogger,
		config.Load,
		newMetrics,
		func(cfg *config.Config) (*fee.Schedule, error) {
			return fee.NewSchedule(cfg.Fee.Ranges, cfg.Fee.CommissionRate)
		},
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type ordersGatewayIn struct {
	dig.In

	Cfg     *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"gateway_retries_total"`
}

func newOrdersGateway(in ordersGatewayIn) *order.RetryingGateway {
	base := order.NewHTTPGateway(in.Cfg.Orders.BaseURL, 5*time.Second)
	return order.NewRetryingGateway(base, in.Logger, in.Retries, order.RetryConfig{
		MaxAttempts: in.Cfg.Orders.MaxAttempts,
		BaseDelay:   in.Cfg.Orders.BaseDelay,
		MaxDelay:    in.Cfg.Orders.MaxDelay,
	})
}

func newNotifier(cfg *config.Config) notify.Gateway {
	if cfg.Notify.BaseURL == "" {
		return notify.Nop()
	}
	return notify.NewHTTPGateway(cfg.Notify.BaseURL, 5*time.Second)
}

func registerGateways(container *dig.Container) error {
	return provideAll(container,
		newOrdersGateway,
		newNotifier,
	)
}

type dispatchIn struct {
	dig.In

	Repo           *repository.AssignmentRepo
	Registry       *registry.Service
	Orders         *order.RetryingGateway
	Fees           *fee.Schedule
	Notifier       notify.Gateway
	Logger         logx.Logger
	Dispatches     *prometheus.CounterVec `name:"dispatch_total"`
	NotifyFailures prometheus.Counter     `name:"notification_failures_total"`
	Timeout        time.Duration
}

func newDispatchService(in dispatchIn) *dispatch.Service {
	return dispatch.NewService(dispatch.Deps{
		Repo:           in.Repo,
		Partners:       in.Registry,
		Orders:         in.Orders,
		Fees:           in.Fees,
		Notifier:       in.Notifier,
		Logger:         in.Logger,
		Dispatches:     in.Dispatches,
		NotifyFailures: in.NotifyFailures,
		Timeout:        in.Timeout,
	})
}

type assignmentIn struct {
	dig.In

	Repo           *repository.AssignmentRepo
	Registry       *registry.Service
	Orders         *order.RetryingGateway
	Notifier       notify.Gateway
	Dispatcher     *dispatch.Service
	Logger         logx.Logger
	Transitions    *prometheus.CounterVec `name:"assignment_transitions_total"`
	NotifyFailures prometheus.Counter     `name:"notification_failures_total"`
	Timeout        time.Duration
}

func newAssignmentService(in assignmentIn) *assignment.Service {
	return assignment.NewService(assignment.Deps{
		Repo:           in.Repo,
		Presence:       in.Registry,
		Orders:         in.Orders,
		Notifier:       in.Notifier,
		Redispatcher:   in.Dispatcher,
		Logger:         in.Logger,
		Transitions:    in.Transitions,
		NotifyFailures: in.NotifyFailures,
		Timeout:        in.Timeout,
	})
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewAssignmentRepo,
		repository.NewPartnerRepo,
		repository.NewLocationRepo,
		func() time.Duration { return 3 * time.Second },
		func(repo *repository.PartnerRepo, timeout time.Duration) *registry.Service {
			return registry.NewService(repo, timeout)
		},
		func(
			locations *repository.LocationRepo,
			partners *repository.PartnerRepo,
			cfg *config.Config,
			logger logx.Logger,
			timeout time.Duration,
		) *tracking.Service {
			return tracking.NewService(locations, partners, tracking.Config{
				MovingSpeedMPS:  cfg.Tracking.MovingSpeedMPS,
				DefaultSpeedKmh: cfg.Tracking.DefaultSpeedKmh,
				OnlineWindow:    cfg.Tracking.OnlineWindow,
				NearbyFreshness: cfg.Tracking.NearbyFreshness,
			}, logger, timeout)
		},
		newDispatchService,
		newAssignmentService,
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewAssignmentUsecase,
		handlers.NewAssignmentHandler,
		handlers.NewDispatchUsecase,
		handlers.NewDispatchHandler,
		handlers.NewPartnerUsecase,
		handlers.NewPartnerHandler,
		handlers.NewTrackingUsecase,
		handlers.NewLocationHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	)
}
