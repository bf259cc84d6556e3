package uow

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"visitdesk/internal/infra/db"
	"visitdesk/internal/infra/repository"
	"visitdesk/internal/pkg/errs"
	"visitdesk/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxRetries      = 3
	baseBackoff     = 10 * time.Millisecond
	maxJitterMillis = 20
)

type PgUnitOfWork struct {
	pool *pgxpool.Pool
}

func NewPgUnitOfWork(pool *pgxpool.Pool) *PgUnitOfWork {
	return &PgUnitOfWork{pool: pool}
}

// Within runs fn in a transaction, retrying on serialization failures and
// deadlocks with exponential backoff. The callback must be idempotent up
// to its own writes; everything it did is rolled back before a retry.
func (u *PgUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithBackoff(ctx, attempt); err != nil {
				return err
			}
		}

		err := u.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return errs.Wrap(lastErr, "transaction failed after retries")
}

func (u *PgUnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgTx, err := u.pool.Begin(ctx)
	if err != nil {
		return errs.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = pgTx.Rollback(ctx) }()

	if err := fn(ctx, newPgTx(pgTx)); err != nil {
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return errs.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func (u *PgUnitOfWork) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	pgTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return errs.Wrap(err, "failed to begin read-only transaction")
	}
	defer func() { _ = pgTx.Rollback(ctx) }()

	if err := fn(ctx, pgTx); err != nil {
		return err
	}
	return pgTx.Commit(ctx)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// serialization_failure, deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func sleepWithBackoff(ctx context.Context, attempt int) error {
	backoff := baseBackoff * (1 << (attempt - 1))
	if n, err := rand.Int(rand.Reader, big.NewInt(maxJitterMillis)); err == nil {
		backoff += time.Duration(n.Int64()) * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}

// pgTx hands out repositories bound to one transaction. Repositories are
// built lazily; most callbacks touch only a couple of them.
type pgTx struct {
	tx pgx.Tx

	reservations      *repository.ReservationRepository
	conversationLocks *repository.ConversationLockRepository
	previews          *repository.PreviewRepository
	audit             *repository.AuditRepository
	notifications     *repository.NotificationRepository
	engagements       *repository.EngagementRepository
	contacts          *repository.ContactRepository
	users             *repository.UserRepository
}

func newPgTx(tx pgx.Tx) *pgTx {
	return &pgTx{tx: tx}
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservations == nil {
		t.reservations = repository.NewReservationRepository(t.tx)
	}
	return t.reservations
}

func (t *pgTx) ConversationLocks() shared.ConversationLockRepository {
	if t.conversationLocks == nil {
		t.conversationLocks = repository.NewConversationLockRepository(t.tx)
	}
	return t.conversationLocks
}

func (t *pgTx) Previews() shared.PreviewRepository {
	if t.previews == nil {
		t.previews = repository.NewPreviewRepository(t.tx)
	}
	return t.previews
}

func (t *pgTx) Audit() shared.AuditRepository {
	if t.audit == nil {
		t.audit = repository.NewAuditRepository(t.tx)
	}
	return t.audit
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notifications == nil {
		t.notifications = repository.NewNotificationRepository(t.tx)
	}
	return t.notifications
}

func (t *pgTx) Engagements() shared.EngagementRepository {
	if t.engagements == nil {
		t.engagements = repository.NewEngagementRepository(t.tx)
	}
	return t.engagements
}

func (t *pgTx) Contacts() shared.ContactRepository {
	if t.contacts == nil {
		t.contacts = repository.NewContactRepository(t.tx)
	}
	return t.contacts
}

func (t *pgTx) Users() shared.UserRepository {
	if t.users == nil {
		t.users = repository.NewUserRepository(t.tx)
	}
	return t.users
}

func (t *pgTx) DB() db.DBTX {
	return t.tx
}
