package repository

import (
	"context"
	"time"

	"visitdesk/internal/domain/reschedule"
	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type PreviewRepository struct {
	db db.DBTX
}

func NewPreviewRepository(dbtx db.DBTX) *PreviewRepository {
	return &PreviewRepository{db: dbtx}
}

func (r *PreviewRepository) Insert(ctx context.Context, preview reschedule.Preview) error {
	proposal, err := preview.Proposal.Canonical()
	if err != nil {
		return infra.NewRepositoryError(infra.KindInvalidInput,
			errs.Wrap(err, "failed to serialize proposal"))
	}

	const query = `
		INSERT INTO reschedule_previews (
			id, route_date, technician_id, proposal, proposal_hash,
			expires_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		preview.ID,
		preview.RouteDate,
		preview.TechnicianID,
		proposal,
		preview.Hash,
		preview.ExpiresAt,
		preview.CreatedBy,
	)
	if err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to insert preview"))
	}
	return nil
}

func (r *PreviewRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*reschedule.Preview, error) {
	const query = `
		SELECT id, route_date, technician_id, proposal, proposal_hash,
		       expires_at, consumed_at, created_by, created_at
		FROM reschedule_previews
		WHERE id = $1
		FOR UPDATE`

	var (
		preview      reschedule.Preview
		proposalJSON []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&preview.ID,
		&preview.RouteDate,
		&preview.TechnicianID,
		&proposalJSON,
		&preview.Hash,
		&preview.ExpiresAt,
		&preview.ConsumedAt,
		&preview.CreatedBy,
		&preview.CreatedAt,
	)
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to find preview"))
	}

	preview.Proposal, err = reschedule.ParseCanonical(proposalJSON)
	if err != nil {
		return nil, infra.NewRepositoryError(infra.KindInvalidInput,
			errs.Wrap(err, "failed to parse stored proposal"))
	}
	return &preview, nil
}

func (r *PreviewRepository) MarkConsumed(ctx context.Context, id uuid.UUID, now time.Time) error {
	const query = `
		UPDATE reschedule_previews SET consumed_at = $1
		WHERE id = $2 AND consumed_at IS NULL`

	tag, err := r.db.Exec(ctx, query, now, id)
	if err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to mark preview consumed"))
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepositoryError(infra.KindConflict,
			errs.New("preview already consumed"))
	}
	return nil
}
