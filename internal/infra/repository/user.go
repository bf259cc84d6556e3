package repository

import (
	"context"

	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"

	"github.com/google/uuid"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	const query = `UPDATE users SET last_login_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return infra.ClassifyError(errs.Wrap(err, "failed to update last login"))
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepositoryError(infra.KindNotFound, errs.New("user not found"))
	}
	return nil
}
