package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localkart/dispatch/internal/domain"
)

const locationColumns = `id, partner_id, lat, lng, accuracy_m, speed_mps, heading_deg,
	is_moving, assignment_id, order_status, recorded_at`

// LocationRepo persists the append-only partner location time series.
// Writes need no cross-row coordination.
type LocationRepo struct{ db *pgxpool.Pool }

// NewLocationRepo creates a new LocationRepo.
func NewLocationRepo(db *pgxpool.Pool) *LocationRepo { return &LocationRepo{db: db} }

func scanLocation(row pgx.Row) (*domain.PartnerLocation, error) {
	var l domain.PartnerLocation
	err := row.Scan(
		&l.ID, &l.PartnerID, &l.Lat, &l.Lng, &l.AccuracyM, &l.SpeedMPS, &l.HeadingDeg,
		&l.IsMoving, &l.AssignmentID, &l.OrderStatus, &l.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Insert appends a location sample.
func (r *LocationRepo) Insert(ctx context.Context, l *domain.PartnerLocation) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO partner_locations
		 (partner_id, lat, lng, accuracy_m, speed_mps, heading_deg,
		  is_moving, assignment_id, order_status, recorded_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING id`,
		l.PartnerID, l.Lat, l.Lng, l.AccuracyM, l.SpeedMPS, l.HeadingDeg,
		l.IsMoving, l.AssignmentID, l.OrderStatus, l.RecordedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert location for partner %d: %w", l.PartnerID, err)
	}
	return nil
}

// Latest returns the partner's most recent sample, or nil when none exists.
func (r *LocationRepo) Latest(ctx context.Context, partnerID int64) (*domain.PartnerLocation, error) {
	l, err := scanLocation(r.db.QueryRow(ctx,
		`SELECT `+locationColumns+`
		 FROM partner_locations
		 WHERE partner_id=$1
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT 1`, partnerID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest location for partner %d: %w", partnerID, err)
	}
	return l, nil
}

// Range returns samples in [start, end], oldest first.
func (r *LocationRepo) Range(ctx context.Context, partnerID int64, start, end time.Time) ([]domain.PartnerLocation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+locationColumns+`
		 FROM partner_locations
		 WHERE partner_id=$1 AND recorded_at >= $2 AND recorded_at <= $3
		 ORDER BY recorded_at, id`,
		partnerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("location history for partner %d: %w", partnerID, err)
	}
	return collectLocations(rows)
}

// Route returns samples tagged with the assignment, in chronological order.
func (r *LocationRepo) Route(ctx context.Context, partnerID, assignmentID int64) ([]domain.PartnerLocation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+locationColumns+`
		 FROM partner_locations
		 WHERE partner_id=$1 AND assignment_id=$2
		 ORDER BY recorded_at, id`,
		partnerID, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("route for partner %d assignment %d: %w", partnerID, assignmentID, err)
	}
	return collectLocations(rows)
}

// HasRecent reports whether the partner sent any sample at or after since.
func (r *LocationRepo) HasRecent(ctx context.Context, partnerID int64, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM partner_locations WHERE partner_id=$1 AND recorded_at >= $2
		)`, partnerID, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("recent location check for partner %d: %w", partnerID, err)
	}
	return exists, nil
}

// LatestPerPartner returns each partner's most recent sample recorded at
// or after the cutoff. Used for nearby queries; the radius filter is
// applied by the caller.
func (r *LocationRepo) LatestPerPartner(ctx context.Context, cutoff time.Time) ([]domain.PartnerLocation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT ON (partner_id) `+locationColumns+`
		 FROM partner_locations
		 WHERE recorded_at >= $1
		 ORDER BY partner_id, recorded_at DESC, id DESC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("latest locations per partner: %w", err)
	}
	return collectLocations(rows)
}

func collectLocations(rows pgx.Rows) ([]domain.PartnerLocation, error) {
	defer rows.Close()
	var out []domain.PartnerLocation
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}
