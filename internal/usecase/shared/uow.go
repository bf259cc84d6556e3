package shared

import (
	"context"
	"time"

	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full read-write transaction with retry on serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	ConversationLocks() ConversationLockRepository
	Previews() PreviewRepository
	Audit() AuditRepository
	Notifications() NotificationRepository
	Engagements() EngagementRepository
	Contacts() ContactRepository
	Users() UserRepository
	DB() db.DBTX
}

type ReservationRepository interface {
	// Create inserts the reservation; an overlapping active reservation for
	// the same technician surfaces as a CONFLICT kind from the store's
	// exclusion constraint, never as a silent second booking.
	Create(ctx context.Context, res *reservation.Reservation) error
	// FindForUpdate row-locks a single reservation.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// LockByIDs row-locks a batch ordered by id to keep lock ordering
	// deadlock-free. Missing ids are simply absent from the result.
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*reservation.Reservation, error)
	// Update persists entity state guarded by the optimistic version the
	// entity was loaded at; zero rows affected is a CONFLICT.
	Update(ctx context.Context, res *reservation.Reservation, expectedVersion int64) error
	// ExpireHolds cancels every hold whose expiry has passed and returns the
	// affected ids. The status guard in the UPDATE makes it race-safe
	// against concurrent confirms.
	ExpireHolds(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	// ActiveWindows returns the busy intervals for a technician.
	ActiveWindows(ctx context.Context, technicianID uuid.UUID, from, to time.Time) ([]reservation.TimeWindow, error)
	// ListForRoute returns a technician's reservations in the given statuses
	// for one route date, ordered by start time then id.
	ListForRoute(ctx context.Context, technicianID uuid.UUID, dayStart, dayEnd time.Time, statuses []reservation.Status) ([]*reservation.Reservation, error)
}

type ConversationLockRepository interface {
	Upsert(ctx context.Context, lock reservation.ConversationLock) error
	FindByConversation(ctx context.Context, channel reservation.Channel, conversationID string) (*reservation.ConversationLock, error)
	// FindActiveByPhone locates an unexpired lock held by the same contact
	// under any conversation, for the takeover path.
	FindActiveByPhone(ctx context.Context, phone string, now time.Time) (*reservation.ConversationLock, error)
	Delete(ctx context.Context, channel reservation.Channel, conversationID string) error
	DeleteByReservation(ctx context.Context, reservationID uuid.UUID) error
	DeleteByReservations(ctx context.Context, reservationIDs []uuid.UUID) error
}

type PreviewRepository interface {
	Insert(ctx context.Context, preview reschedule.Preview) error
	// FindForUpdate row-locks the preview so two confirms cannot both pass
	// the consumed check.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*reschedule.Preview, error)
	MarkConsumed(ctx context.Context, id uuid.UUID, now time.Time) error
}

// AuditMetadata is the flat, explicitly-typed context attached to an audit
// entry. Unused fields stay zero and are omitted from the stored JSON.
type AuditMetadata struct {
	Channel        string `json:"channel,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	RouteDate      string `json:"routeDate,omitempty"`
	Reason         string `json:"reason,omitempty"`
	Comment        string `json:"comment,omitempty"`
	CancelCount    int    `json:"cancelCount,omitempty"`
	CreateCount    int    `json:"createCount,omitempty"`
	SkippedLocked  int    `json:"skippedLocked,omitempty"`
}

type AuditEntry struct {
	EntityType string
	EntityID   string
	Action     string
	OldData    any
	NewData    any
	Actor      string
	Metadata   AuditMetadata
}

type AuditRepository interface {
	Record(ctx context.Context, entry AuditEntry) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

type EngagementRepository interface {
	// RefreshNextVisit recomputes the derived next-visit pointer from the
	// engagement's earliest upcoming confirmed reservation.
	RefreshNextVisit(ctx context.Context, engagementID uuid.UUID) error
}

type ContactRepository interface {
	MarkScheduled(ctx context.Context, contactID uuid.UUID) error
	// CreateLead records an inbound contact that could not be scheduled.
	CreateLead(ctx context.Context, channel reservation.Channel, externalID, phone string) (uuid.UUID, error)
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}
