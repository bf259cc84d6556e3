package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeWindow = errors.New("invalid time window")
	ErrInvalidChannel    = errors.New("invalid channel")
	ErrEmptyConversation = errors.New("conversation id cannot be empty")
	ErrMissingLink       = errors.New("reservation needs an engagement or contact link")
)

// TimeWindow is a half-open [start, end) interval, always held in UTC.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	start, end = start.UTC(), end.UTC()
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return TimeWindow{}, ErrInvalidTimeWindow
	}
	return TimeWindow{start: start, end: end}, nil
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

// Shift moves the window by the given number of calendar days, preserving
// the wall-clock time of day.
func (w TimeWindow) Shift(days int) TimeWindow {
	return TimeWindow{
		start: w.start.AddDate(0, 0, days),
		end:   w.end.AddDate(0, 0, days),
	}
}

// ToTstzrange renders the window as a Postgres half-open range literal.
func (w TimeWindow) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

func (w TimeWindow) MeetsLeadTimeAt(now time.Time, minLead time.Duration) bool {
	return !w.start.Before(now.Add(minLead))
}

// ConversationRef identifies the inbound conversation negotiating a hold.
// ContactPhone lets a new conversation from the same contact take over an
// existing hold instead of stacking a second one.
type ConversationRef struct {
	channel        Channel
	conversationID string
	contactPhone   string
}

func NewConversationRef(channel Channel, conversationID, contactPhone string) (ConversationRef, error) {
	if !channel.IsValid() {
		return ConversationRef{}, ErrInvalidChannel
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return ConversationRef{}, ErrEmptyConversation
	}
	return ConversationRef{
		channel:        channel,
		conversationID: conversationID,
		contactPhone:   strings.TrimSpace(contactPhone),
	}, nil
}

func (r ConversationRef) Channel() Channel {
	return r.channel
}

func (r ConversationRef) ConversationID() string {
	return r.conversationID
}

func (r ConversationRef) ContactPhone() string {
	return r.contactPhone
}

// LinkRef ties a reservation to the business engagement and/or the inbound
// contact record it serves. At least one side must be present.
type LinkRef struct {
	engagementID *uuid.UUID
	contactID    *uuid.UUID
}

func NewLinkRef(engagementID, contactID *uuid.UUID) (LinkRef, error) {
	if engagementID == nil && contactID == nil {
		return LinkRef{}, ErrMissingLink
	}
	return LinkRef{engagementID: engagementID, contactID: contactID}, nil
}

func (l LinkRef) EngagementID() *uuid.UUID {
	return l.engagementID
}

func (l LinkRef) ContactID() *uuid.UUID {
	return l.contactID
}
