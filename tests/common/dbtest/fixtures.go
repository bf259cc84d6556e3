//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// bcrypt of "password123", cost 12
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID))
	}
	return userID
}

func CreateTestTechnician(t *testing.T, db DBLike, name string, priority int) uuid.UUID {
	t.Helper()

	techID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO technicians (id, name, active, priority) VALUES ($1, $2, true, $3)",
		techID, name, priority)
	require.NoError(t, err)
	return techID
}

func CreateTestEngagement(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	engagementID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO engagements (id, name) VALUES ($1, $2)",
		engagementID, name)
	require.NoError(t, err)
	return engagementID
}

type ReservationSeed struct {
	TechnicianID uuid.UUID
	EngagementID uuid.UUID
	VisitKind    string
	Status       string
	LockLevel    int
	Start        time.Time
	End          time.Time
}

// CreateTestReservation inserts a reservation directly, bypassing the hold
// flow, for tests that need an established route.
func CreateTestReservation(t *testing.T, db DBLike, seed ReservationSeed) uuid.UUID {
	t.Helper()

	if seed.VisitKind == "" {
		seed.VisitKind = "follow_up"
	}
	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO reservations (id, engagement_id, technician_id, visit_kind, start_at, end_at, status, lock_level, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)`,
		id, seed.EngagementID, seed.TechnicianID, seed.VisitKind, seed.Start, seed.End, seed.Status, seed.LockLevel)
	require.NoError(t, err)
	return id
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table so each subtest starts from a clean slate.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, name)
		}
		if rows.Err() != nil || len(tables) == 0 {
			truncateSQL.Store("")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})

	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
