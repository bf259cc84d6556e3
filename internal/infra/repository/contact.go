package repository

import (
	"context"

	"visitdesk/internal/domain/reservation"
	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type ContactRepository struct {
	db db.DBTX
}

func NewContactRepository(dbtx db.DBTX) *ContactRepository {
	return &ContactRepository{db: dbtx}
}

func (r *ContactRepository) MarkScheduled(ctx context.Context, contactID uuid.UUID) error {
	const query = `
		UPDATE contacts SET state = 'scheduled', updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, contactID)
	if err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to mark contact scheduled"))
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepositoryError(infra.KindNotFound, errs.New("contact not found"))
	}
	return nil
}

// CreateLead upserts an inbound contact that could not be scheduled so an
// operator can follow up. Re-contacting on the same external id refreshes
// the existing lead instead of duplicating it.
func (r *ContactRepository) CreateLead(ctx context.Context, channel reservation.Channel, externalID, phone string) (uuid.UUID, error) {
	const query = `
		INSERT INTO contacts (id, channel, external_id, phone, state)
		VALUES ($1, $2, $3, $4, 'lead')
		ON CONFLICT (channel, external_id) DO UPDATE SET
			phone = EXCLUDED.phone,
			updated_at = now()
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, uuid.New(), channel.String(), externalID, phone).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.ClassifyError(errs.Wrap(err, "failed to create lead"))
	}
	return id, nil
}
