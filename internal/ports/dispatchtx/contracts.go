package dispatchtx

import (
	"context"

	"github.com/localkart/dispatch/internal/domain"
)

// Repository is the set of operations available inside a dispatch
// transaction. Locking the order's active assignment row and inserting
// the new assignment happen in the same transaction so two concurrent
// dispatch calls cannot double-assign one order.
type Repository interface {
	ActiveAssignmentForUpdate(ctx context.Context, orderID int64) (*domain.Assignment, error)
	InsertAssignment(ctx context.Context, a *domain.Assignment) error
}
