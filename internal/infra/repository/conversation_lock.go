package repository

import (
	"context"
	"time"

	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type ConversationLockRepository struct {
	db db.DBTX
}

func NewConversationLockRepository(dbtx db.DBTX) *ConversationLockRepository {
	return &ConversationLockRepository{db: dbtx}
}

// Upsert replaces an existing binding for the conversation. The primary
// key on (channel, conversation_id) is what enforces at most one active
// hold per conversation.
func (r *ConversationLockRepository) Upsert(ctx context.Context, lock reservation.ConversationLock) error {
	const query = `
		INSERT INTO conversation_locks (channel, conversation_id, reservation_id, contact_phone, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (channel, conversation_id) DO UPDATE SET
			reservation_id = EXCLUDED.reservation_id,
			contact_phone = EXCLUDED.contact_phone,
			expires_at = EXCLUDED.expires_at,
			created_at = now()`

	_, err := r.db.Exec(ctx, query,
		lock.Channel.String(),
		lock.ConversationID,
		lock.ReservationID,
		lock.ContactPhone,
		lock.ExpiresAt,
	)
	if err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to upsert conversation lock"))
	}
	return nil
}

func (r *ConversationLockRepository) FindByConversation(ctx context.Context, channel reservation.Channel, conversationID string) (*reservation.ConversationLock, error) {
	const query = `
		SELECT channel, conversation_id, reservation_id, contact_phone, expires_at, created_at
		FROM conversation_locks
		WHERE channel = $1 AND conversation_id = $2
		FOR UPDATE`

	lock, err := scanConversationLock(r.db.QueryRow(ctx, query, channel.String(), conversationID))
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to find conversation lock"))
	}
	return lock, nil
}

func (r *ConversationLockRepository) FindActiveByPhone(ctx context.Context, phone string, now time.Time) (*reservation.ConversationLock, error) {
	const query = `
		SELECT channel, conversation_id, reservation_id, contact_phone, expires_at, created_at
		FROM conversation_locks
		WHERE contact_phone = $1 AND contact_phone <> '' AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE`

	lock, err := scanConversationLock(r.db.QueryRow(ctx, query, phone, now))
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to find lock by phone"))
	}
	return lock, nil
}

func (r *ConversationLockRepository) Delete(ctx context.Context, channel reservation.Channel, conversationID string) error {
	const query = `DELETE FROM conversation_locks WHERE channel = $1 AND conversation_id = $2`

	if _, err := r.db.Exec(ctx, query, channel.String(), conversationID); err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to delete conversation lock"))
	}
	return nil
}

func (r *ConversationLockRepository) DeleteByReservation(ctx context.Context, reservationID uuid.UUID) error {
	const query = `DELETE FROM conversation_locks WHERE reservation_id = $1`

	if _, err := r.db.Exec(ctx, query, reservationID); err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to delete lock by reservation"))
	}
	return nil
}

func (r *ConversationLockRepository) DeleteByReservations(ctx context.Context, reservationIDs []uuid.UUID) error {
	if len(reservationIDs) == 0 {
		return nil
	}
	const query = `DELETE FROM conversation_locks WHERE reservation_id = ANY($1)`

	if _, err := r.db.Exec(ctx, query, reservationIDs); err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to delete locks by reservations"))
	}
	return nil
}

func scanConversationLock(row rowScanner) (*reservation.ConversationLock, error) {
	var (
		channel, conversationID, contactPhone string
		reservationID                         uuid.UUID
		expiresAt, createdAt                  time.Time
	)
	err := row.Scan(&channel, &conversationID, &reservationID, &contactPhone, &expiresAt, &createdAt)
	if err != nil {
		return nil, err
	}
	return &reservation.ConversationLock{
		Channel:        reservation.Channel(channel),
		ConversationID: conversationID,
		ReservationID:  reservationID,
		ContactPhone:   contactPhone,
		ExpiresAt:      expiresAt,
		CreatedAt:      createdAt,
	}, nil
}
