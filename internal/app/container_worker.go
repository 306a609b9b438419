package app

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"github.com/localkart/dispatch/internal/config"
	"github.com/localkart/dispatch/internal/logx"
	"github.com/localkart/dispatch/internal/service/assignment"
	"github.com/localkart/dispatch/internal/service/dispatch"
	"github.com/localkart/dispatch/internal/service/orderevents"
	"github.com/localkart/dispatch/internal/transport/kafka"
)

// MustBuildWorkerContainer builds the DI container for the kafka worker
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	b := NewContainerBuilder()
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
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
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(d *dispatch.Service) orderevents.DispatcherPort { return d },
		func(a *assignment.Service) orderevents.LifecyclePort { return a },
		orderevents.NewProcessor,
		makeOrderEventsHandler,
		func(cfg *config.Config, h kafka.HandleFunc, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h, logger)
		},
	)
}
