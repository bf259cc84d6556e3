package readstore

import (
	"context"
	"errors"
	"time"

	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationReadStore struct {
	pool *pgxpool.Pool
}

func NewReservationReadStore(pool *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

const reservationViewColumns = `
	id, engagement_id, contact_id, technician_id, visit_kind,
	start_at, end_at, status, lock_level, hold_expires_at,
	version, superseded_by, cancel_reason, created_at, updated_at`

func (s *ReservationReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query := `SELECT` + reservationViewColumns + ` FROM reservations WHERE id = $1`

	view, err := scanReservationView(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.Mark(err, queries.ErrNotFound)
		}
		return nil, errs.Wrap(err, "failed to get reservation")
	}
	return view, nil
}

func (s *ReservationReadStore) ListRoute(ctx context.Context, technicianID uuid.UUID, dayStart, dayEnd time.Time) ([]queries.ReservationView, error) {
	query := `SELECT` + reservationViewColumns + `
		FROM reservations
		WHERE technician_id = $1
		  AND start_at >= $2 AND start_at < $3
		  AND status IN ('held', 'scheduled', 'confirmed')
		ORDER BY start_at, id`

	rows, err := s.pool.Query(ctx, query, technicianID, dayStart, dayEnd)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list route")
	}
	defer rows.Close()

	var views []queries.ReservationView
	for rows.Next() {
		view, err := scanReservationView(rows)
		if err != nil {
			return nil, errs.Wrap(err, "failed to scan reservation view")
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to iterate route")
	}
	return views, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservationView(row rowScanner) (*queries.ReservationView, error) {
	var view queries.ReservationView
	err := row.Scan(
		&view.ID, &view.EngagementID, &view.ContactID, &view.TechnicianID, &view.VisitKind,
		&view.Start, &view.End, &view.Status, &view.LockLevel, &view.HoldExpiresAt,
		&view.Version, &view.SupersededBy, &view.CancelReason, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
