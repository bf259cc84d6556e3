package response

import (
	"time"

	"visitdesk/internal/usecase/queries"

	"github.com/google/uuid"
)

type Technician struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Active   bool      `json:"active"`
	Priority int       `json:"priority"`
}

func NewTechnician(view queries.TechnicianView) Technician {
	return Technician{ID: view.ID, Name: view.Name, Active: view.Active, Priority: view.Priority}
}

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewSlots(views []queries.SlotView) []Slot {
	slots := make([]Slot, len(views))
	for i, v := range views {
		slots[i] = Slot{Start: v.Start, End: v.End}
	}
	return slots
}
