package commands

import (
	"context"
	"time"

	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/shared"

	"github.com/google/uuid"
)

// proposalBuilder derives the shift proposal for one technician's route
// date from the current state of the store. Preview and the stateless
// confirm path both go through it, so the two always agree byte for byte
// on the same data.
type proposalBuilder struct{}

func newProposalBuilder() *proposalBuilder {
	return &proposalBuilder{}
}

type buildStats struct {
	SkippedLocked    int
	RequiresElevated bool
	Versions         map[uuid.UUID]int64
}

func (b *proposalBuilder) build(ctx context.Context, tx shared.Tx, technicianID uuid.UUID, routeDate string, rules reschedule.Rules) (reschedule.Proposal, buildStats, error) {
	dayStart, dayEnd, err := parseRouteDate(routeDate)
	if err != nil {
		return reschedule.Proposal{}, buildStats{}, errs.Mark(err, ErrInvalidInput)
	}

	statuses := []reservation.Status{reservation.StatusScheduled, reservation.StatusConfirmed}
	route, err := tx.Reservations().ListForRoute(ctx, technicianID, dayStart, dayEnd, statuses)
	if err != nil {
		return reschedule.Proposal{}, buildStats{}, err
	}
	if len(route) == 0 {
		return reschedule.Proposal{}, buildStats{}, ErrNoAppointments
	}

	stats := buildStats{Versions: make(map[uuid.UUID]int64)}
	proposal := reschedule.Proposal{
		RouteDate:    routeDate,
		TechnicianID: technicianID,
	}

	for _, res := range route {
		if !res.Movable(rules.PreserveLockLevel) {
			stats.SkippedLocked++
			continue
		}
		if res.RequiresElevated() {
			stats.RequiresElevated = true
		}

		shifted := res.Window().Shift(rules.ShiftDays)
		id := res.ID()

		proposal.OriginalIDs = append(proposal.OriginalIDs, id)
		stats.Versions[id] = res.Version()
		proposal.Actions = append(proposal.Actions,
			reschedule.Action{
				Type:          reschedule.ActionCancel,
				ReservationID: &id,
				TechnicianID:  res.TechnicianID(),
				VisitKind:     res.VisitKind(),
				Start:         res.Window().Start(),
				End:           res.Window().End(),
			},
			reschedule.Action{
				Type:         reschedule.ActionCreate,
				TechnicianID: res.TechnicianID(),
				VisitKind:    res.VisitKind(),
				Start:        shifted.Start(),
				End:          shifted.End(),
			},
		)
	}

	if len(proposal.OriginalIDs) == 0 {
		return reschedule.Proposal{}, stats, ErrNoMovable
	}
	return proposal, stats, nil
}

// parseRouteDate expands YYYY-MM-DD into the UTC day bounds [start, end).
func parseRouteDate(routeDate string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", routeDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Wrap(err, "invalid route date")
	}
	return day, day.AddDate(0, 0, 1), nil
}
