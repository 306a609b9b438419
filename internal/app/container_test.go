package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/localkart/dispatch/internal/config"
	"github.com/localkart/dispatch/internal/fee"
	"github.com/localkart/dispatch/internal/http/handlers"
	"github.com/localkart/dispatch/internal/logx"
	"github.com/localkart/dispatch/internal/transport/kafka"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:      8080,
		Kafka:     config.DefaultKafka(),
		Orders:    config.DefaultOrdersGateway(),
		Tracking:  config.DefaultTracking(),
		RateLimit: config.DefaultRateLimit(),
		Fee:       config.DefaultFee(),
	}
}

func setupTestContainer(t *testing.T) *dig.Container {
	t.Helper()

	c := dig.New()

	providers := []struct {
		name     string
		provider any
	}{
		{"context", func() context.Context { return context.Background() }},
		{"logger", func() logx.Logger { return logx.Nop() }},
		{"config", testConfig},
		{"pgxpool", func() *pgxpool.Pool { return &pgxpool.Pool{} }},
		{"metrics", newMetrics},
		{"fees", func(cfg *config.Config) (*fee.Schedule, error) {
			return fee.NewSchedule(cfg.Fee.Ranges, cfg.Fee.CommissionRate)
		}},
	}

	for _, p := range providers {
		err := c.Provide(p.provider)
		require.NoErrorf(t, err, "provide %s", p.name)
	}

	require.NoError(t, registerGateways(c))
	require.NoError(t, registerService(c))
	require.NoError(t, registerHTTP(c))

	return c
}

func verifyServer(t *testing.T, srv *http.Server) {
	t.Helper()

	require.NotNil(t, srv, "http.Server is nil")
	require.Equal(t, ":8080", srv.Addr)
	require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
	require.Greater(t, srv.ReadTimeout, time.Duration(0))
	require.Greater(t, srv.WriteTimeout, time.Duration(0))
	require.Greater(t, srv.IdleTimeout, time.Duration(0))
}

func TestRegisterServiceAndHTTP_ProvidesHttpServerAndHandlers(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t)

	err := c.Invoke(func(
		srv *http.Server,
		base *handlers.Handlers,
		assignmentHandler *handlers.AssignmentHandler,
		dispatchHandler *handlers.DispatchHandler,
		partnerHandler *handlers.PartnerHandler,
		locationHandler *handlers.LocationHandler,
	) {
		verifyServer(t, srv)
		require.NotNil(t, base)
		require.NotNil(t, assignmentHandler)
		require.NotNil(t, dispatchHandler)
		require.NotNil(t, partnerHandler)
		require.NotNil(t, locationHandler)
	})
	require.NoError(t, err)
}

func TestRegisterWorker_ProvidesHandleFunc(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t)
	require.NoError(t, registerWorker(c))

	err := c.Invoke(func(h kafka.HandleFunc, consumer *kafka.Consumer) {
		require.NotNil(t, h)
		// empty broker list disables the consumer
		require.Nil(t, consumer)
	})
	require.NoError(t, err)
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}
