package repository

import (
	"context"
	"time"

	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

// CreateJob enqueues an outbox row for a downstream sender. Enqueueing in
// the same transaction as the state change keeps the outbox consistent.
func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	const query = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, 'pending')`

	if _, err := r.db.Exec(ctx, query, kind, topic, payload, runAt); err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to insert notification job"))
	}
	return nil
}
