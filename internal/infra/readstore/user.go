package readstore

import (
	"context"

	"visitdesk/internal/domain/user"
	"visitdesk/internal/infra"
	"visitdesk/internal/infra/db"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type UserReadStore struct{}

func NewUserReadStore() *UserReadStore {
	return &UserReadStore{}
}

const userColumns = `id, email, password_hash, role, is_active, last_login_at`

func (s *UserReadStore) GetByEmail(ctx context.Context, dbtx db.DBTX, email string) (*commands.UserSnapshot, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scan(dbtx.QueryRow(ctx, query, email))
}

func (s *UserReadStore) GetByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*commands.UserSnapshot, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scan(dbtx.QueryRow(ctx, query, id))
}

func (s *UserReadStore) scan(row interface{ Scan(dest ...any) error }) (*commands.UserSnapshot, error) {
	var (
		snapshot commands.UserSnapshot
		role     string
	)
	err := row.Scan(&snapshot.ID, &snapshot.Email, &snapshot.PasswordHash, &role, &snapshot.IsActive, &snapshot.LastLoginAt)
	if err != nil {
		return nil, infra.ClassifyError(errs.Wrap(err, "failed to get user"))
	}

	snapshot.Role, err = user.NewRole(role)
	if err != nil {
		return nil, infra.NewRepositoryError(infra.KindInvalidInput, err)
	}
	return &snapshot, nil
}
