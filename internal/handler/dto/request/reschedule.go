package request

import (
	"visitdesk/internal/domain/reschedule"

	"github.com/google/uuid"
)

type PreviewReschedule struct {
	TechnicianID      uuid.UUID `json:"technicianId" binding:"required"`
	RouteDate         string    `json:"routeDate" binding:"required,datetime=2006-01-02"`
	ShiftDays         int       `json:"shiftDays"`
	PreserveLockLevel int       `json:"preserveLockLevel"`
}

func (r PreviewReschedule) Rules() reschedule.Rules {
	return reschedule.Rules{
		PreserveLockLevel: r.PreserveLockLevel,
		ShiftDays:         r.ShiftDays,
	}.Normalize()
}

type ConfirmReschedule struct {
	PreviewID        uuid.UUID           `json:"previewId"`
	Hash             string              `json:"hash" binding:"required"`
	ExpectedVersions map[uuid.UUID]int64 `json:"expectedVersions" binding:"required"`
	Reason           string              `json:"reason"`
	Comment          string              `json:"comment"`

	// Echoed from the preview request; required in stateless mode, where
	// the server recomputes the proposal instead of loading it.
	TechnicianID      uuid.UUID `json:"technicianId"`
	RouteDate         string    `json:"routeDate"`
	ShiftDays         int       `json:"shiftDays"`
	PreserveLockLevel int       `json:"preserveLockLevel"`
}

func (r ConfirmReschedule) Rules() reschedule.Rules {
	return reschedule.Rules{
		PreserveLockLevel: r.PreserveLockLevel,
		ShiftDays:         r.ShiftDays,
	}.Normalize()
}
