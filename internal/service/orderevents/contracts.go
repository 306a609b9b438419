package orderevents

import (
	"context"

	"github.com/localkart/dispatch/internal/domain"
)

// DispatcherPort abstracts the subset of dispatcher operations needed by
// the Processor when handling order events.
type DispatcherPort interface {
	AutoAssign(ctx context.Context, orderID, assignedBy int64) (*domain.Assignment, error)
}

// LifecyclePort abstracts the subset of lifecycle operations needed by the
// Processor when handling order events.
type LifecyclePort interface {
	CancelByOrder(ctx context.Context, orderID int64, reason string) (*domain.Assignment, error)
}
