package commands

import (
	"context"
	"time"

	"visitdesk/internal/domain/user"
	"visitdesk/internal/infra/db"

	"github.com/google/uuid"
)

// TechnicianSnapshot is the read-model view the scheduling commands need:
// identity plus enough to order candidates deterministically.
type TechnicianSnapshot struct {
	ID       uuid.UUID
	Name     string
	Active   bool
	Priority int
}

// TechnicianReader lists dispatchable technicians inside the caller's
// transaction so the pick stays consistent with the overlap checks.
type TechnicianReader interface {
	ListActive(ctx context.Context, dbtx db.DBTX) ([]TechnicianSnapshot, error)
	Exists(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error)
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         user.Role
	IsActive     bool
	LastLoginAt  *time.Time
}

type UserReader interface {
	GetByEmail(ctx context.Context, dbtx db.DBTX, email string) (*UserSnapshot, error)
	GetByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*UserSnapshot, error)
}
