package reschedule

import (
	"time"

	"github.com/google/uuid"
)

// Preview is the persisted form of a proposal: immutable, time-boxed,
// and consumable at most once.
type Preview struct {
	ID           uuid.UUID
	RouteDate    string
	TechnicianID uuid.UUID
	Proposal     Proposal
	Hash         string
	ExpiresAt    time.Time
	ConsumedAt   *time.Time
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
}

func (p Preview) Expired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}

func (p Preview) Consumed() bool {
	return p.ConsumedAt != nil
}
