package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TechnicianView struct {
	ID       uuid.UUID
	Name     string
	Active   bool
	Priority int
}

type SlotView struct {
	Start time.Time
	End   time.Time
}

type TechnicianReadStore interface {
	List(ctx context.Context) ([]TechnicianView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TechnicianView, error)
}

// AvailabilityReadStore lists the free candidate windows for a technician,
// already filtered against their active reservations.
type AvailabilityReadStore interface {
	FreeSlots(ctx context.Context, technicianID uuid.UUID, now time.Time) ([]SlotView, error)
}

type TechnicianQueries struct {
	technicians  TechnicianReadStore
	availability AvailabilityReadStore
}

func NewTechnicianQueries(technicians TechnicianReadStore, availability AvailabilityReadStore) *TechnicianQueries {
	return &TechnicianQueries{technicians: technicians, availability: availability}
}

func (q *TechnicianQueries) ListTechnicians(ctx context.Context) ([]TechnicianView, error) {
	return q.technicians.List(ctx)
}

func (q *TechnicianQueries) GetTechnician(ctx context.Context, id uuid.UUID) (*TechnicianView, error) {
	return q.technicians.GetByID(ctx, id)
}

func (q *TechnicianQueries) FreeSlots(ctx context.Context, technicianID uuid.UUID, now time.Time) ([]SlotView, error) {
	if _, err := q.technicians.GetByID(ctx, technicianID); err != nil {
		return nil, err
	}
	return q.availability.FreeSlots(ctx, technicianID, now)
}
