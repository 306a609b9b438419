package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localkart/dispatch/internal/apperr"
	"github.com/localkart/dispatch/internal/domain"
)

const partnerColumns = `id, name, phone, online, available, ride_status,
	current_lat, current_lng, last_activity_at, last_location_at`

// PartnerRepo persists delivery partners.
type PartnerRepo struct{ db *pgxpool.Pool }

// NewPartnerRepo creates a new PartnerRepo.
func NewPartnerRepo(db *pgxpool.Pool) *PartnerRepo { return &PartnerRepo{db: db} }

func scanPartner(row pgx.Row) (*domain.DeliveryPartner, error) {
	var p domain.DeliveryPartner
	err := row.Scan(
		&p.ID, &p.Name, &p.Phone, &p.Online, &p.Available, &p.RideStatus,
		&p.CurrentLat, &p.CurrentLng, &p.LastActivityAt, &p.LastLocationAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get returns a partner by its ID, or nil when it does not exist.
func (r *PartnerRepo) Get(ctx context.Context, id int64) (*domain.DeliveryPartner, error) {
	p, err := scanPartner(r.db.QueryRow(ctx,
		`SELECT `+partnerColumns+` FROM delivery_partners WHERE id=$1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner %d: %w", id, err)
	}
	return p, nil
}

// Create registers a new partner. Partners start offline.
func (r *PartnerRepo) Create(ctx context.Context, p *domain.DeliveryPartner) (int64, error) {
	if p.RideStatus == "" {
		p.RideStatus = domain.RideOffline
	}
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO delivery_partners(name, phone, online, available, ride_status)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		p.Name, p.Phone, p.Online, p.Available, string(p.RideStatus)).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.ErrInvalid
		}
		return 0, fmt.Errorf("create partner: %w", err)
	}
	return id, nil
}

// FindAvailable returns partners that are online, available and hold no
// non-terminal assignment, excluding the given IDs. Ordered by ID so
// proximity-agnostic callers get a stable pick.
func (r *PartnerRepo) FindAvailable(ctx context.Context, exclude []int64) ([]domain.DeliveryPartner, error) {
	if exclude == nil {
		exclude = []int64{}
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+partnerColumns+`
		FROM delivery_partners p
		WHERE p.online AND p.available
		  AND NOT (p.id = ANY($1))
		  AND NOT EXISTS (
			SELECT 1 FROM order_assignments oa
			WHERE oa.delivery_partner_id = p.id AND oa.status = ANY($2)
		  )
		ORDER BY p.id`,
		exclude, statusStrings(domain.ActiveStatuses))
	if err != nil {
		return nil, fmt.Errorf("find available partners: %w", err)
	}
	defer rows.Close()

	var out []domain.DeliveryPartner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SetPresence writes the ride status together with its coupled
// online/available flags and returns true if a row was affected.
func (r *PartnerRepo) SetPresence(ctx context.Context, id int64, status domain.RideStatus, pr domain.Presence) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE delivery_partners
		SET ride_status=$2, online=$3, available=$4, last_activity_at=now(), updated_at=now()
		WHERE id=$1`,
		id, string(status), pr.Online, pr.Available)
	if err != nil {
		return false, fmt.Errorf("set presence for partner %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdateCachedLocation updates the partner's cached current position.
// The WHERE clause makes the field last-writer-wins by recorded
// timestamp, so out-of-order pings cannot roll the position back.
func (r *PartnerRepo) UpdateCachedLocation(ctx context.Context, id int64, lat, lng float64, recordedAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE delivery_partners
		SET current_lat=$2, current_lng=$3, last_location_at=$4, updated_at=now()
		WHERE id=$1 AND (last_location_at IS NULL OR last_location_at <= $4)`,
		id, lat, lng, recordedAt)
	if err != nil {
		return fmt.Errorf("update cached location for partner %d: %w", id, err)
	}
	return nil
}

// TouchActivity bumps the partner's last-activity heartbeat.
func (r *PartnerRepo) TouchActivity(ctx context.Context, id int64, now time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE delivery_partners SET last_activity_at=$2, updated_at=now() WHERE id=$1`,
		id, now)
	if err != nil {
		return fmt.Errorf("touch activity for partner %d: %w", id, err)
	}
	return nil
}
