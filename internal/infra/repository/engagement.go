package repository

import (
	"context"

	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type EngagementRepository struct {
	db db.DBTX
}

func NewEngagementRepository(dbtx db.DBTX) *EngagementRepository {
	return &EngagementRepository{db: dbtx}
}

// RefreshNextVisit recomputes the engagement's next-visit pointer from its
// earliest upcoming active reservation. The pointer is derived data; it is
// rebuilt after every change rather than incrementally patched.
func (r *EngagementRepository) RefreshNextVisit(ctx context.Context, engagementID uuid.UUID) error {
	const query = `
		UPDATE engagements SET
			next_visit_at = (
				SELECT MIN(start_at)
				FROM reservations
				WHERE engagement_id = $1
				  AND status IN ('scheduled', 'confirmed')
				  AND start_at > now()
			),
			updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, engagementID); err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to refresh next visit"))
	}
	return nil
}
