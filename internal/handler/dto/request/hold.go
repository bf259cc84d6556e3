package request

import (
	"time"

	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateHold struct {
	Channel        string     `json:"channel" binding:"required,oneof=voice chat operator"`
	ConversationID string     `json:"conversationId" binding:"required"`
	ContactPhone   string     `json:"contactPhone"`
	EngagementID   *uuid.UUID `json:"engagementId"`
	ContactID      *uuid.UUID `json:"contactId"`
	TechnicianID   *uuid.UUID `json:"technicianId"`
	VisitKind      string     `json:"visitKind" binding:"required,oneof=primary follow_up"`
	Start          *time.Time `json:"start"`
	End            *time.Time `json:"end"`
}

func (r CreateHold) ToInput() (commands.CreateHoldInput, error) {
	input := commands.CreateHoldInput{
		Channel:        reservation.Channel(r.Channel),
		ConversationID: r.ConversationID,
		ContactPhone:   r.ContactPhone,
		EngagementID:   r.EngagementID,
		ContactID:      r.ContactID,
		TechnicianID:   r.TechnicianID,
		VisitKind:      reservation.VisitKind(r.VisitKind),
	}
	if r.Start != nil && r.End != nil {
		window, err := reservation.NewTimeWindow(*r.Start, *r.End)
		if err != nil {
			return commands.CreateHoldInput{}, err
		}
		input.Window = &window
	}
	return input, nil
}

type ConfirmHold struct {
	Channel        string `json:"channel" binding:"required,oneof=voice chat operator"`
	ConversationID string `json:"conversationId" binding:"required"`
}

type CancelHold struct {
	Channel        string `json:"channel" binding:"required,oneof=voice chat operator"`
	ConversationID string `json:"conversationId" binding:"required"`
	Reason         string `json:"reason"`
}
