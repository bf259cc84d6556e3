package response

import (
	"time"

	"visitdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type RescheduleAction struct {
	Type          string     `json:"type"`
	ReservationID *uuid.UUID `json:"reservationId,omitempty"`
	TechnicianID  uuid.UUID  `json:"technicianId"`
	VisitKind     string     `json:"visitKind"`
	Start         time.Time  `json:"start"`
	End           time.Time  `json:"end"`
}

type ReschedulePreview struct {
	PreviewID        uuid.UUID           `json:"previewId"`
	Hash             string              `json:"hash"`
	ExpiresAt        time.Time           `json:"expiresAt"`
	RouteDate        string              `json:"routeDate"`
	TechnicianID     uuid.UUID           `json:"technicianId"`
	Actions          []RescheduleAction  `json:"actions"`
	SkippedLocked    int                 `json:"skippedLocked"`
	RequiresElevated bool                `json:"requiresElevated"`
	CurrentVersions  map[uuid.UUID]int64 `json:"currentVersions"`
}

func NewReschedulePreview(result *commands.PreviewRescheduleResult) ReschedulePreview {
	actions := make([]RescheduleAction, len(result.Proposal.Actions))
	for i, a := range result.Proposal.Actions {
		actions[i] = RescheduleAction{
			Type:          string(a.Type),
			ReservationID: a.ReservationID,
			TechnicianID:  a.TechnicianID,
			VisitKind:     a.VisitKind.String(),
			Start:         a.Start,
			End:           a.End,
		}
	}
	return ReschedulePreview{
		PreviewID:        result.PreviewID,
		Hash:             result.Hash,
		ExpiresAt:        result.ExpiresAt,
		RouteDate:        result.Proposal.RouteDate,
		TechnicianID:     result.Proposal.TechnicianID,
		Actions:          actions,
		SkippedLocked:    result.SkippedLocked,
		RequiresElevated: result.RequiresElevated,
		CurrentVersions:  result.CurrentVersions,
	}
}

type RescheduleConfirm struct {
	CanceledIDs []uuid.UUID `json:"canceledIds"`
	CreatedIDs  []uuid.UUID `json:"createdIds"`
}

func NewRescheduleConfirm(result *commands.ConfirmRescheduleResult) RescheduleConfirm {
	return RescheduleConfirm{
		CanceledIDs: result.CanceledIDs,
		CreatedIDs:  result.CreatedIDs,
	}
}
