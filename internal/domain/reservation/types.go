package reservation

type Status string

const (
	// StatusHeld is a provisional reservation awaiting contact acceptance.
	StatusHeld Status = "held"
	// StatusScheduled is an auto-planned visit not yet confirmed by the contact.
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusHeld, StatusScheduled, StatusConfirmed, StatusCanceled:
		return true
	default:
		return false
	}
}

// Active statuses occupy the technician's time and participate in the
// store-level overlap exclusion.
func (s Status) IsActive() bool {
	switch s {
	case StatusHeld, StatusScheduled, StatusConfirmed:
		return true
	default:
		return false
	}
}

type VisitKind string

const (
	VisitPrimary  VisitKind = "primary"
	VisitFollowUp VisitKind = "follow_up"
)

func (k VisitKind) String() string {
	return string(k)
}

func (k VisitKind) IsValid() bool {
	switch k {
	case VisitPrimary, VisitFollowUp:
		return true
	default:
		return false
	}
}

type Channel string

const (
	ChannelVoice    Channel = "voice"
	ChannelChat     Channel = "chat"
	ChannelOperator Channel = "operator"
)

func (c Channel) String() string {
	return string(c)
}

func (c Channel) IsValid() bool {
	switch c {
	case ChannelVoice, ChannelChat, ChannelOperator:
		return true
	default:
		return false
	}
}

// Lock levels guard reservations against casual rescheduling.
// This is an authorization predicate, not a second state machine.
const (
	LockNone        = 0 // freely movable (held or auto-scheduled)
	LockConfirmed   = 1 // confirmed by the contact
	LockOperational = 2 // operator approved the day; elevated actors only
)

const (
	CancelReasonHoldExpired     = "HOLD_EXPIRED"
	CancelReasonDeclined        = "DECLINED"
	CancelReasonReschedulePrefix = "RESCHEDULE:"
)
