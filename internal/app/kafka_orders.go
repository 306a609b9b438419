package app

import (
	"context"
	"time"

	"github.com/localkart/dispatch/internal/gateway/order"
	"github.com/localkart/dispatch/internal/service/orderevents"
	"github.com/localkart/dispatch/internal/transport/kafka"
)

// makeOrderEventsHandler enriches thin kafka events from the order subsystem
// before handing them to the processor. Events that already carry a status
// are trusted as published.
func makeOrderEventsHandler(p *orderevents.Processor, gw *order.RetryingGateway) kafka.HandleFunc {
	return func(ctx context.Context, event orderevents.Event) error {
		if event.Status != "" || gw == nil {
			return p.Handle(ctx, event)
		}

		gwCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		ord, err := gw.GetByID(gwCtx, event.OrderID)
		if err != nil {
			return err
		}
		if ord == nil {
			return nil
		}

		event.Status = ord.Status
		event.OrderNumber = ord.OrderNumber
		return p.Handle(ctx, event)
	}
}
