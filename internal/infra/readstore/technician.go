package readstore

import (
	"context"
	"errors"
	"time"

	"visitdesk/internal/domain/schedule"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/commands"
	"visitdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TechnicianReadStore serves both the query views and the in-transaction
// reads the hold command needs while picking a slot.
type TechnicianReadStore struct {
	pool  *pgxpool.Pool
	rules schedule.Rules
}

func NewTechnicianReadStore(pool *pgxpool.Pool, rules schedule.Rules) *TechnicianReadStore {
	return &TechnicianReadStore{pool: pool, rules: rules}
}

func (s *TechnicianReadStore) List(ctx context.Context) ([]queries.TechnicianView, error) {
	const query = `
		SELECT id, name, active, priority
		FROM technicians
		ORDER BY priority, name`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list technicians")
	}
	defer rows.Close()

	var views []queries.TechnicianView
	for rows.Next() {
		var v queries.TechnicianView
		if err := rows.Scan(&v.ID, &v.Name, &v.Active, &v.Priority); err != nil {
			return nil, errs.Wrap(err, "failed to scan technician")
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to iterate technicians")
	}
	return views, nil
}

func (s *TechnicianReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.TechnicianView, error) {
	const query = `SELECT id, name, active, priority FROM technicians WHERE id = $1`

	var v queries.TechnicianView
	err := s.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.Name, &v.Active, &v.Priority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.Mark(err, queries.ErrNotFound)
		}
		return nil, errs.Wrap(err, "failed to get technician")
	}
	return &v, nil
}

// FreeSlots computes the open candidate windows minus the technician's
// active reservations, using the same business-hour rules the hold
// command books against.
func (s *TechnicianReadStore) FreeSlots(ctx context.Context, technicianID uuid.UUID, now time.Time) ([]queries.SlotView, error) {
	horizon := now.AddDate(0, 0, s.rules.HorizonDays+1)

	const query = `
		SELECT start_at, end_at
		FROM reservations
		WHERE technician_id = $1
		  AND status IN ('held', 'scheduled', 'confirmed')
		  AND tstzrange(start_at, end_at) && tstzrange($2, $3)
		ORDER BY start_at`

	rows, err := s.pool.Query(ctx, query, technicianID, now, horizon)
	if err != nil {
		return nil, errs.Wrap(err, "failed to query busy windows")
	}
	defer rows.Close()

	type busyWindow struct{ start, end time.Time }
	var busy []busyWindow
	for rows.Next() {
		var w busyWindow
		if err := rows.Scan(&w.start, &w.end); err != nil {
			return nil, errs.Wrap(err, "failed to scan busy window")
		}
		busy = append(busy, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to iterate busy windows")
	}

	candidates, err := schedule.Candidates(s.rules, now)
	if err != nil {
		return nil, err
	}

	var slots []queries.SlotView
	for _, candidate := range candidates {
		overlaps := false
		for _, b := range busy {
			if candidate.Start().Before(b.end) && b.start.Before(candidate.End()) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			slots = append(slots, queries.SlotView{Start: candidate.Start(), End: candidate.End()})
		}
	}
	return slots, nil
}

// ListActive reads inside the caller's transaction so the pick cannot
// race a technician being deactivated mid-hold.
func (s *TechnicianReadStore) ListActive(ctx context.Context, dbtx db.DBTX) ([]commands.TechnicianSnapshot, error) {
	const query = `
		SELECT id, name, active, priority
		FROM technicians
		WHERE active
		ORDER BY priority, name`

	rows, err := dbtx.Query(ctx, query)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list active technicians")
	}
	defer rows.Close()

	var snapshots []commands.TechnicianSnapshot
	for rows.Next() {
		var t commands.TechnicianSnapshot
		if err := rows.Scan(&t.ID, &t.Name, &t.Active, &t.Priority); err != nil {
			return nil, errs.Wrap(err, "failed to scan technician")
		}
		snapshots = append(snapshots, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "failed to iterate technicians")
	}
	return snapshots, nil
}

func (s *TechnicianReadStore) Exists(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM technicians WHERE id = $1 AND active)`

	var exists bool
	if err := dbtx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, errs.Wrap(err, "failed to check technician")
	}
	return exists, nil
}
