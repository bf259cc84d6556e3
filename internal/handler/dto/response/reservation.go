package response

import (
	"time"

	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type Reservation struct {
	ID            uuid.UUID  `json:"id"`
	EngagementID  *uuid.UUID `json:"engagementId,omitempty"`
	ContactID     *uuid.UUID `json:"contactId,omitempty"`
	TechnicianID  uuid.UUID  `json:"technicianId"`
	VisitKind     string     `json:"visitKind"`
	Start         time.Time  `json:"start"`
	End           time.Time  `json:"end"`
	Status        string     `json:"status"`
	LockLevel     int        `json:"lockLevel"`
	HoldExpiresAt *time.Time `json:"holdExpiresAt,omitempty"`
	Version       int64      `json:"version"`
	SupersededBy  *uuid.UUID `json:"supersededBy,omitempty"`
	CancelReason  string     `json:"cancelReason,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func NewReservation(view *queries.ReservationView) (Reservation, error) {
	var res Reservation
	if err := copier.Copy(&res, view); err != nil {
		return Reservation{}, errs.Wrap(err, "failed to map reservation view")
	}
	return res, nil
}

type Route struct {
	TechnicianID uuid.UUID     `json:"technicianId"`
	RouteDate    string        `json:"routeDate"`
	Reservations []Reservation `json:"reservations"`
}

func NewRoute(view *queries.RouteView) (Route, error) {
	route := Route{
		TechnicianID: view.TechnicianID,
		RouteDate:    view.RouteDate,
		Reservations: make([]Reservation, 0, len(view.Reservations)),
	}
	for i := range view.Reservations {
		res, err := NewReservation(&view.Reservations[i])
		if err != nil {
			return Route{}, err
		}
		route.Reservations = append(route.Reservations, res)
	}
	return route, nil
}
