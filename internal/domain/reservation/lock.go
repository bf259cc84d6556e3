package reservation

import (
	"time"

	"github.com/google/uuid"
)

// ConversationLock binds one inbound conversation to the single
// reservation it is currently negotiating. Uniqueness on
// (channel, conversation id) is the at-most-one-active-hold guarantee;
// the registry rows live and die with their HELD reservation.
type ConversationLock struct {
	Channel        Channel
	ConversationID string
	ReservationID  uuid.UUID
	ContactPhone   string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

func (l ConversationLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

func (l ConversationLock) SameConversation(ref ConversationRef) bool {
	return l.Channel == ref.Channel() && l.ConversationID == ref.ConversationID()
}
