package response

import (
	"time"

	"visitdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type Hold struct {
	ReservationID uuid.UUID  `json:"reservationId"`
	TechnicianID  uuid.UUID  `json:"technicianId"`
	Start         time.Time  `json:"start"`
	End           time.Time  `json:"end"`
	Status        string     `json:"status"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

func NewHold(result *commands.HoldResult) Hold {
	return Hold{
		ReservationID: result.ReservationID,
		TechnicianID:  result.TechnicianID,
		Start:         result.Window.Start(),
		End:           result.Window.End(),
		Status:        result.Status.String(),
		ExpiresAt:     result.ExpiresAt,
	}
}

type ExpiredHolds struct {
	Expired int `json:"expired"`
}
