package queries

import (
	"context"
	"time"

	"visitdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrNotFound = errs.New("resource not found")

// ReservationView is the flat read model served to clients. Queries never
// touch domain entities; they read projections directly.
type ReservationView struct {
	ID            uuid.UUID
	EngagementID  *uuid.UUID
	ContactID     *uuid.UUID
	TechnicianID  uuid.UUID
	VisitKind     string
	Start         time.Time
	End           time.Time
	Status        string
	LockLevel     int
	HoldExpiresAt *time.Time
	Version       int64
	SupersededBy  *uuid.UUID
	CancelReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RouteView struct {
	TechnicianID uuid.UUID
	RouteDate    string
	Reservations []ReservationView
}

type ReservationReadStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListRoute(ctx context.Context, technicianID uuid.UUID, dayStart, dayEnd time.Time) ([]ReservationView, error)
}

type ReservationQueries struct {
	reads ReservationReadStore
}

func NewReservationQueries(reads ReservationReadStore) *ReservationQueries {
	return &ReservationQueries{reads: reads}
}

func (q *ReservationQueries) GetReservation(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	return q.reads.GetByID(ctx, id)
}

// GetRoute returns one technician's day ordered by start time.
func (q *ReservationQueries) GetRoute(ctx context.Context, technicianID uuid.UUID, routeDate string) (*RouteView, error) {
	day, err := time.ParseInLocation("2006-01-02", routeDate, time.UTC)
	if err != nil {
		return nil, errs.Wrap(err, "invalid route date")
	}

	reservations, err := q.reads.ListRoute(ctx, technicianID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return &RouteView{
		TechnicianID: technicianID,
		RouteDate:    routeDate,
		Reservations: reservations,
	}, nil
}
