package repository

import (
	"context"
	"encoding/json"

	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/shared"
)

type AuditRepository struct {
	db db.DBTX
}

func NewAuditRepository(dbtx db.DBTX) *AuditRepository {
	return &AuditRepository{db: dbtx}
}

// Record appends one audit row. Audit rows are written in the same
// transaction as the change they describe, so a rollback takes the
// audit entry with it.
func (r *AuditRepository) Record(ctx context.Context, entry shared.AuditEntry) error {
	oldData, err := marshalNullable(entry.OldData)
	if err != nil {
		return infra.NewRepositoryError(infra.KindInvalidInput, err)
	}
	newData, err := marshalNullable(entry.NewData)
	if err != nil {
		return infra.NewRepositoryError(infra.KindInvalidInput, err)
	}
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return infra.NewRepositoryError(infra.KindInvalidInput, err)
	}

	const query = `
		INSERT INTO audit_logs (entity_type, entity_id, action, old_data, new_data, actor, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		entry.EntityType, entry.EntityID, entry.Action,
		oldData, newData, entry.Actor, metadata,
	)
	if err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to insert audit log"))
	}
	return nil
}

func marshalNullable(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
