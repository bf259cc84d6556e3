package reservation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotHeld       = errors.New("reservation is not held")
	ErrHoldExpired   = errors.New("hold has expired")
	ErrAlreadyFinal  = errors.New("reservation is already in a terminal state")
	ErrLockedAgainst = errors.New("reservation lock level forbids this change")
)

type Reservation struct {
	id            uuid.UUID
	link          LinkRef
	technicianID  uuid.UUID
	visitKind     VisitKind
	window        TimeWindow
	status        Status
	lockLevel     int
	holdExpiresAt *time.Time
	version       int64
	supersededBy  *uuid.UUID
	canceledAt    *time.Time
	canceledBy    string
	cancelReason  string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewHold creates a provisional reservation with a hold expiry.
func NewHold(technicianID uuid.UUID, link LinkRef, kind VisitKind, window TimeWindow, now time.Time, ttl time.Duration) *Reservation {
	expiry := now.Add(ttl)
	return &Reservation{
		id:            uuid.New(),
		link:          link,
		technicianID:  technicianID,
		visitKind:     kind,
		window:        window,
		status:        StatusHeld,
		lockLevel:     LockNone,
		holdExpiresAt: &expiry,
		version:       1,
	}
}

// NewConfirmed creates a reservation that skips the hold phase, e.g. an
// operator booking a slot directly or a reschedule replacement.
func NewConfirmed(technicianID uuid.UUID, link LinkRef, kind VisitKind, window TimeWindow) *Reservation {
	return &Reservation{
		id:           uuid.New(),
		link:         link,
		technicianID: technicianID,
		visitKind:    kind,
		window:       window,
		status:       StatusConfirmed,
		lockLevel:    LockConfirmed,
		version:      1,
	}
}

// NewScheduled creates an auto-planned visit that still awaits contact
// confirmation, e.g. a reschedule replacement for a scheduled original.
func NewScheduled(technicianID uuid.UUID, link LinkRef, kind VisitKind, window TimeWindow) *Reservation {
	return &Reservation{
		id:           uuid.New(),
		link:         link,
		technicianID: technicianID,
		visitKind:    kind,
		window:       window,
		status:       StatusScheduled,
		lockLevel:    LockNone,
		version:      1,
	}
}

func Reconstruct(
	id uuid.UUID,
	link LinkRef,
	technicianID uuid.UUID,
	visitKind VisitKind,
	window TimeWindow,
	status Status,
	lockLevel int,
	holdExpiresAt *time.Time,
	version int64,
	supersededBy *uuid.UUID,
	canceledAt *time.Time,
	canceledBy, cancelReason string,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:            id,
		link:          link,
		technicianID:  technicianID,
		visitKind:     visitKind,
		window:        window,
		status:        status,
		lockLevel:     lockLevel,
		holdExpiresAt: holdExpiresAt,
		version:       version,
		supersededBy:  supersededBy,
		canceledAt:    canceledAt,
		canceledBy:    canceledBy,
		cancelReason:  cancelReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (r *Reservation) IsHeld() bool {
	return r.status == StatusHeld
}

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

func (r *Reservation) IsCanceled() bool {
	return r.status == StatusCanceled
}

// HoldExpired checks the data-driven timeout. Expiry is always evaluated
// lazily against the caller's clock; the sweep only makes it eager.
func (r *Reservation) HoldExpired(now time.Time) bool {
	return r.status == StatusHeld && r.holdExpiresAt != nil && !r.holdExpiresAt.After(now)
}

// Confirm promotes a live hold to a confirmed visit.
func (r *Reservation) Confirm(now time.Time) error {
	if r.status != StatusHeld {
		return ErrNotHeld
	}
	if r.HoldExpired(now) {
		return ErrHoldExpired
	}
	r.status = StatusConfirmed
	r.holdExpiresAt = nil
	r.lockLevel = LockConfirmed
	r.version++
	return nil
}

func (r *Reservation) Cancel(now time.Time, actor, reason string) error {
	if r.status == StatusCanceled {
		return ErrAlreadyFinal
	}
	r.status = StatusCanceled
	r.holdExpiresAt = nil
	r.canceledAt = &now
	r.canceledBy = actor
	r.cancelReason = reason
	r.version++
	return nil
}

// Supersede cancels this reservation in favor of its reschedule replacement.
func (r *Reservation) Supersede(now time.Time, actor, reason string, replacement uuid.UUID) error {
	if err := r.Cancel(now, actor, CancelReasonReschedulePrefix+reason); err != nil {
		return err
	}
	r.supersededBy = &replacement
	return nil
}

// Movable reports whether a reschedule honoring preserveLevel may touch
// this reservation at all; RequiresElevated gates who may move it.
func (r *Reservation) Movable(preserveLevel int) bool {
	return r.lockLevel < preserveLevel
}

func (r *Reservation) RequiresElevated() bool {
	return r.lockLevel >= LockOperational
}

func (r *Reservation) WasRescheduled() bool {
	return r.supersededBy != nil &&
		strings.HasPrefix(r.cancelReason, CancelReasonReschedulePrefix)
}

func (r *Reservation) ID() uuid.UUID           { return r.id }
func (r *Reservation) Link() LinkRef           { return r.link }
func (r *Reservation) TechnicianID() uuid.UUID { return r.technicianID }
func (r *Reservation) VisitKind() VisitKind    { return r.visitKind }
func (r *Reservation) Window() TimeWindow      { return r.window }
func (r *Reservation) Status() Status          { return r.status }
func (r *Reservation) LockLevel() int          { return r.lockLevel }
func (r *Reservation) HoldExpiresAt() *time.Time { return r.holdExpiresAt }
func (r *Reservation) Version() int64          { return r.version }
func (r *Reservation) SupersededBy() *uuid.UUID { return r.supersededBy }
func (r *Reservation) CanceledAt() *time.Time  { return r.canceledAt }
func (r *Reservation) CanceledBy() string      { return r.canceledBy }
func (r *Reservation) CancelReason() string    { return r.cancelReason }
func (r *Reservation) CreatedAt() time.Time    { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time    { return r.updatedAt }
