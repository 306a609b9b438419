package orderevents

import (
	"context"
	"errors"
	"strings"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/logx"
	"github.com/localkart/dispatch/internal/service/dispatch"
)

// Processor reacts to order lifecycle events. Orders becoming ready for
// pickup get auto-dispatched; cancelled orders get their active assignment
// cancelled.
type Processor struct {
	dispatcher DispatcherPort
	lifecycle  LifecyclePort
	logger     logx.Logger
	factory    *actionFactory
}

// NewProcessor creates an order event Processor.
func NewProcessor(dispatcher DispatcherPort, lifecycle LifecyclePort, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		dispatcher: dispatcher,
		lifecycle:  lifecycle,
		logger:     logger,
	}
	p.factory = newActionFactory(p.onReadyForPickup, p.onCancelled)
	return p
}

// Handle processes a single order event. Events with statuses the dispatch
// core does not care about are acknowledged untouched.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onReadyForPickup(ctx context.Context, e Event) error {
	_, err := p.dispatcher.AutoAssign(ctx, e.OrderID, dispatch.SystemActor)
	switch {
	case errors.Is(err, apperr.ErrAlreadyAssigned):
		// duplicate or replayed event, the order is already taken care of
		return nil
	case errors.Is(err, apperr.ErrNoPartnersAvailable):
		// surfaced through metrics and logs, not worth a redelivery loop
		p.logger.Warn("order left unassigned, no partners available",
			logx.Int64("order_id", e.OrderID))
		return nil
	case errors.Is(err, apperr.ErrNotFound):
		p.logger.Warn("order event for unknown order",
			logx.Int64("order_id", e.OrderID))
		return nil
	}
	return err
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	reason := "order " + strings.ToLower(strings.TrimSpace(e.Status))
	_, err := p.lifecycle.CancelByOrder(ctx, e.OrderID, reason)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if errors.Is(err, apperr.ErrInvalidTransition) {
		// already terminal, nothing left to cancel
		return nil
	}
	return err
}
