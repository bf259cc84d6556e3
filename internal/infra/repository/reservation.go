package repository

import (
	"context"
	"time"

	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

const reservationColumns = `
	id, engagement_id, contact_id, technician_id, visit_kind,
	start_at, end_at, status, lock_level, hold_expires_at,
	version, superseded_by, canceled_at, canceled_by, cancel_reason,
	created_at, updated_at`

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	const query = `
		INSERT INTO reservations (
			id, engagement_id, contact_id, technician_id, visit_kind,
			start_at, end_at, status, lock_level, hold_expires_at,
			version, superseded_by, canceled_at, canceled_by, cancel_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		res.ID(),
		res.Link().EngagementID(),
		res.Link().ContactID(),
		res.TechnicianID(),
		res.VisitKind().String(),
		res.Window().Start(),
		res.Window().End(),
		res.Status().String(),
		res.LockLevel(),
		res.HoldExpiresAt(),
		res.Version(),
		res.SupersededBy(),
		res.CanceledAt(),
		res.CanceledBy(),
		res.CancelReason(),
	)
	if err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to insert reservation"))
	}
	return nil
}

func (r *ReservationRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	query := `SELECT` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`

	row := r.db.QueryRow(ctx, query, id)
	res, err := scanReservation(row)
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to find reservation"))
	}
	return res, nil
}

// LockByIDs locks in ascending id order regardless of input order so that
// concurrent batches cannot deadlock against each other.
func (r *ReservationRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to lock reservations"))
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, infra.ClassifyError(errs.Wrap(err, "failed to scan reservation"))
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to iterate reservations"))
	}
	return result, nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation, expectedVersion int64) error {
	const query = `
		UPDATE reservations SET
			status = $1,
			lock_level = $2,
			hold_expires_at = $3,
			start_at = $4,
			end_at = $5,
			version = $6,
			superseded_by = $7,
			canceled_at = $8,
			canceled_by = $9,
			cancel_reason = $10,
			updated_at = now()
		WHERE id = $11 AND version = $12`

	tag, err := r.db.Exec(ctx, query,
		res.Status().String(),
		res.LockLevel(),
		res.HoldExpiresAt(),
		res.Window().Start(),
		res.Window().End(),
		res.Version(),
		res.SupersededBy(),
		res.CanceledAt(),
		res.CanceledBy(),
		res.CancelReason(),
		res.ID(),
		expectedVersion,
	)
	if err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to update reservation"))
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepositoryError(infra.KindConflict,
			errs.New("reservation version mismatch"))
	}
	return nil
}

// ExpireHolds flips lapsed holds to canceled in one statement. The status
// guard keeps it race-safe against a confirm that committed first.
func (r *ReservationRepository) ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	const query = `
		UPDATE reservations SET
			status = 'canceled',
			hold_expires_at = NULL,
			canceled_at = $1,
			canceled_by = 'system',
			cancel_reason = $2,
			version = version + 1,
			updated_at = now()
		WHERE status = 'held' AND hold_expires_at <= $1
		RETURNING id`

	rows, err := r.db.Query(ctx, query, now, reservation.CancelReasonHoldExpired)
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to expire holds"))
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.ClassifyError(errs.Wrap(err, "failed to scan expired hold id"))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to iterate expired holds"))
	}
	return ids, nil
}

func (r *ReservationRepository) ActiveWindows(ctx context.Context, technicianID uuid.UUID, from, to time.Time) ([]reservation.TimeWindow, error) {
	const query = `
		SELECT start_at, end_at
		FROM reservations
		WHERE technician_id = $1
		  AND status IN ('held', 'scheduled', 'confirmed')
		  AND tstzrange(start_at, end_at) && tstzrange($2, $3)
		ORDER BY start_at`

	rows, err := r.db.Query(ctx, query, technicianID, from, to)
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to query active windows"))
	}
	defer rows.Close()

	var windows []reservation.TimeWindow
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.ClassifyError(errs.Wrap(err, "failed to scan window"))
		}
		window, err := reservation.NewTimeWindow(start, end)
		if err != nil {
			return nil, infra.NewRepositoryError(infra.KindInvalidInput, err)
		}
		windows = append(windows, window)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to iterate windows"))
	}
	return windows, nil
}

func (r *ReservationRepository) ListForRoute(ctx context.Context, technicianID uuid.UUID, dayStart, dayEnd time.Time, statuses []reservation.Status) ([]*reservation.Reservation, error) {
	query := `SELECT` + reservationColumns + `
		FROM reservations
		WHERE technician_id = $1
		  AND start_at >= $2 AND start_at < $3
		  AND status = ANY($4)
		ORDER BY start_at, id`

	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}

	rows, err := r.db.Query(ctx, query, technicianID, dayStart, dayEnd, names)
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to query route reservations"))
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, infra.ClassifyError(errs.Wrap(err, "failed to scan reservation"))
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to iterate reservations"))
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*reservation.Reservation, error) {
	var (
		id, technicianID           uuid.UUID
		engagementID, contactID    *uuid.UUID
		visitKind, status          string
		startAt, endAt             time.Time
		lockLevel                  int
		holdExpiresAt, canceledAt  *time.Time
		version                    int64
		supersededBy               *uuid.UUID
		canceledBy, cancelReason   string
		createdAt, updatedAt       time.Time
	)

	err := row.Scan(
		&id, &engagementID, &contactID, &technicianID, &visitKind,
		&startAt, &endAt, &status, &lockLevel, &holdExpiresAt,
		&version, &supersededBy, &canceledAt, &canceledBy, &cancelReason,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	link, err := reservation.NewLinkRef(engagementID, contactID)
	if err != nil {
		return nil, err
	}
	window, err := reservation.NewTimeWindow(startAt, endAt)
	if err != nil {
		return nil, err
	}

	return reservation.Reconstruct(
		id, link, technicianID,
		reservation.VisitKind(visitKind), window,
		reservation.Status(status), lockLevel, holdExpiresAt,
		version, supersededBy, canceledAt, canceledBy, cancelReason,
		createdAt, updatedAt,
	), nil
}
