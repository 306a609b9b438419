package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/ports/dispatchtx"
)

const assignmentColumns = `id, order_id, delivery_partner_id, assigned_by, status, assignment_type,
	assigned_at, accepted_at, rejected_at, pickup_time, delivered_at,
	delivery_fee, partner_commission, pickup_otp, assignment_notes, delivery_notes, rejection_reason`

// AssignmentRepo persists order assignments. Rows are append-only:
// state changes go through CAS updates, rows are never deleted.
type AssignmentRepo struct {
	db *pgxpool.Pool
}

// NewAssignmentRepo creates a new AssignmentRepo.
func NewAssignmentRepo(db *pgxpool.Pool) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.ID, &a.OrderID, &a.PartnerID, &a.AssignedBy, &a.Status, &a.Type,
		&a.AssignedAt, &a.AcceptedAt, &a.RejectedAt, &a.PickupTime, &a.DeliveredAt,
		&a.DeliveryFee, &a.PartnerCommission, &a.PickupOTP,
		&a.AssignmentNotes, &a.DeliveryNotes, &a.RejectionReason,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get returns an assignment by its ID, or nil when it does not exist.
func (r *AssignmentRepo) Get(ctx context.Context, id int64) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM order_assignments WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment %d: %w", id, err)
	}
	return a, nil
}

// ActiveByOrderID returns the order's non-terminal assignment, or nil.
func (r *AssignmentRepo) ActiveByOrderID(ctx context.Context, orderID int64) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+`
		 FROM order_assignments
		 WHERE order_id=$1 AND status = ANY($2)`,
		orderID, statusStrings(domain.ActiveStatuses)))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("active assignment for order %d: %w", orderID, err)
	}
	return a, nil
}

// ListByOrderID returns all assignments ever created for an order,
// oldest first (the audit trail).
func (r *AssignmentRepo) ListByOrderID(ctx context.Context, orderID int64) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assignmentColumns+` FROM order_assignments WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list assignments for order %d: %w", orderID, err)
	}
	return collectAssignments(rows)
}

// ListActiveByPartnerID returns the partner's current non-terminal assignments.
func (r *AssignmentRepo) ListActiveByPartnerID(ctx context.Context, partnerID int64) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assignmentColumns+`
		 FROM order_assignments
		 WHERE delivery_partner_id=$1 AND status = ANY($2)
		 ORDER BY id`,
		partnerID, statusStrings(domain.ActiveStatuses))
	if err != nil {
		return nil, fmt.Errorf("active assignments for partner %d: %w", partnerID, err)
	}
	return collectAssignments(rows)
}

// CountActiveByPartnerID returns the number of non-terminal assignments
// the partner currently holds.
func (r *AssignmentRepo) CountActiveByPartnerID(ctx context.Context, partnerID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_assignments
		 WHERE delivery_partner_id=$1 AND status = ANY($2)`,
		partnerID, statusStrings(domain.ActiveStatuses)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active assignments for partner %d: %w", partnerID, err)
	}
	return n, nil
}

// RejectedPartnerIDs returns the partners who already rejected this order,
// so re-dispatch can exclude them.
func (r *AssignmentRepo) RejectedPartnerIDs(ctx context.Context, orderID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT delivery_partner_id FROM order_assignments
		 WHERE order_id=$1 AND status=$2`,
		orderID, string(domain.StatusRejected))
	if err != nil {
		return nil, fmt.Errorf("rejected partners for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Accept transitions assigned→accepted for the assignment's own partner.
// The precondition check and the write are one CAS update, so exactly one
// of two racing accept calls wins; the loser is classified by re-reading.
func (r *AssignmentRepo) Accept(ctx context.Context, id, partnerID int64, otp string, now time.Time) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`UPDATE order_assignments
		 SET status=$4, accepted_at=$5, pickup_otp=$6, updated_at=now()
		 WHERE id=$1 AND delivery_partner_id=$2 AND status=$3
		 RETURNING `+assignmentColumns,
		id, partnerID, string(domain.StatusAssigned), string(domain.StatusAccepted), now, otp))
	if err != nil {
		if IsNotFound(err) {
			return nil, r.classify(ctx, id, partnerID)
		}
		return nil, fmt.Errorf("accept assignment %d: %w", id, err)
	}
	return a, nil
}

// Reject transitions assigned→rejected and records the reason.
func (r *AssignmentRepo) Reject(ctx context.Context, id, partnerID int64, reason string, now time.Time) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`UPDATE order_assignments
		 SET status=$4, rejected_at=$5, rejection_reason=$6, updated_at=now()
		 WHERE id=$1 AND delivery_partner_id=$2 AND status=$3
		 RETURNING `+assignmentColumns,
		id, partnerID, string(domain.StatusAssigned), string(domain.StatusRejected), now, reason))
	if err != nil {
		if IsNotFound(err) {
			return nil, r.classify(ctx, id, partnerID)
		}
		return nil, fmt.Errorf("reject assignment %d: %w", id, err)
	}
	return a, nil
}

// MarkPickedUp transitions accepted→picked_up.
func (r *AssignmentRepo) MarkPickedUp(ctx context.Context, id, partnerID int64, now time.Time) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`UPDATE order_assignments
		 SET status=$4, pickup_time=$5, updated_at=now()
		 WHERE id=$1 AND delivery_partner_id=$2 AND status=$3
		 RETURNING `+assignmentColumns,
		id, partnerID, string(domain.StatusAccepted), string(domain.StatusPickedUp), now))
	if err != nil {
		if IsNotFound(err) {
			return nil, r.classify(ctx, id, partnerID)
		}
		return nil, fmt.Errorf("mark assignment %d picked up: %w", id, err)
	}
	return a, nil
}

// MarkInTransit transitions picked_up→in_transit.
func (r *AssignmentRepo) MarkInTransit(ctx context.Context, id, partnerID int64) (*domain.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`UPDATE order_assignments
		 SET status=$4, updated_at=now()
		 WHERE id=$1 AND delivery_partner_id=$2 AND status=$3
		 RETURNING `+assignmentColumns,
		id, partnerID, string(domain.StatusPickedUp), string(domain.StatusInTransit)))
	if err != nil {
		if IsNotFound(err) {
			return nil, r.classify(ctx, id, partnerID)
		}
		return nil, fmt.Errorf("mark assignment %d in transit: %w", id, err)
	}
	return a, nil
}

// MarkDelivered transitions picked_up/in_transit→delivered and records notes.
func (r *AssignmentRepo) MarkDelivered(ctx context.Context, id, partnerID int64, notes string, now time.Time) (*domain.Assignment, error) {
	from := []string{string(domain.StatusPickedUp), string(domain.StatusInTransit)}
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`UPDATE order_assignments
		 SET status=$4, delivered_at=$5, delivery_notes=$6, updated_at=now()
		 WHERE id=$1 AND delivery_partner_id=$2 AND status = ANY($3)
		 RETURNING `+assignmentColumns,
		id, partnerID, from, string(domain.StatusDelivered), now, notes))
	if err != nil {
		if IsNotFound(err) {
			return nil, r.classify(ctx, id, partnerID)
		}
		return nil, fmt.Errorf("mark assignment %d delivered: %w", id, err)
	}
	return a, nil
}

// Cancel forces a pre-delivery assignment to the cancelled terminal state.
// Cancellation is a system action: no partner check.
func (r *AssignmentRepo) Cancel(ctx context.Context, id int64, reason string, now time.Time) (*domain.Assignment, error) {
	from := []string{
		string(domain.StatusAssigned),
		string(domain.StatusAccepted),
		string(domain.StatusPickedUp),
	}
	a, err := scanAssignment(r.db.QueryRow(ctx,
		`UPDATE order_assignments
		 SET status=$3, rejection_reason=$4, updated_at=now()
		 WHERE id=$1 AND status = ANY($2)
		 RETURNING `+assignmentColumns,
		id, from, string(domain.StatusCancelled), reason))
	if err != nil {
		if IsNotFound(err) {
			return nil, r.classifyNoPartner(ctx, id)
		}
		return nil, fmt.Errorf("cancel assignment %d: %w", id, err)
	}
	return a, nil
}

// classify turns a zero-row CAS update into the precise failure:
// missing row, wrong partner, or illegal transition from the current state.
func (r *AssignmentRepo) classify(ctx context.Context, id, partnerID int64) error {
	var gotPartner int64
	var status string
	err := r.db.QueryRow(ctx,
		`SELECT delivery_partner_id, status FROM order_assignments WHERE id=$1`, id,
	).Scan(&gotPartner, &status)
	if err != nil {
		if IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("classify assignment %d: %w", id, err)
	}
	if gotPartner != partnerID {
		return apperr.ErrWrongPartner
	}
	return apperr.ErrInvalidTransition
}

func (r *AssignmentRepo) classifyNoPartner(ctx context.Context, id int64) error {
	var status string
	err := r.db.QueryRow(ctx,
		`SELECT status FROM order_assignments WHERE id=$1`, id).Scan(&status)
	if err != nil {
		if IsNotFound(err) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("classify assignment %d: %w", id, err)
	}
	return apperr.ErrInvalidTransition
}

// WithTx opens a transaction and executes fn within it.
func (r *AssignmentRepo) WithTx(ctx context.Context, fn func(tx dispatchtx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo represents a dispatch transaction.
type TxRepo struct {
	tx pgx.Tx
}

// ActiveAssignmentForUpdate locks and returns the order's non-terminal
// assignment, or nil when the order is free to dispatch.
func (r *TxRepo) ActiveAssignmentForUpdate(ctx context.Context, orderID int64) (*domain.Assignment, error) {
	a, err := scanAssignment(r.tx.QueryRow(ctx,
		`SELECT `+assignmentColumns+`
		 FROM order_assignments
		 WHERE order_id=$1 AND status = ANY($2)
		 FOR UPDATE`,
		orderID, statusStrings(domain.ActiveStatuses)))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock active assignment for order %d: %w", orderID, err)
	}
	return a, nil
}

// InsertAssignment inserts a new assignment row. A concurrent insert for
// the same order trips the partial unique active index and surfaces as
// ErrAlreadyAssigned.
func (r *TxRepo) InsertAssignment(ctx context.Context, a *domain.Assignment) error {
	err := r.tx.QueryRow(ctx,
		`INSERT INTO order_assignments
		 (order_id, delivery_partner_id, assigned_by, status, assignment_type,
		  assigned_at, delivery_fee, partner_commission, assignment_notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING id`,
		a.OrderID, a.PartnerID, a.AssignedBy, string(a.Status), string(a.Type),
		a.AssignedAt, a.DeliveryFee, a.PartnerCommission, a.AssignmentNotes,
	).Scan(&a.ID)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrAlreadyAssigned
		}
		return fmt.Errorf("insert assignment for order %d: %w", a.OrderID, err)
	}
	return nil
}

func collectAssignments(rows pgx.Rows) ([]domain.Assignment, error) {
	defer rows.Close()
	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func statusStrings(in []domain.AssignmentStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
