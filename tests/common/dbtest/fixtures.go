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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestBook inserts a book row at version 1 without a loan request.
func CreateTestBook(t *testing.T, db DBLike, owner, title string, shared bool) uuid.UUID {
	t.Helper()

	bookID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO books (id, owner, title, author, pages, labels, shared_by_owner, created_at)
		 VALUES ($1, $2, $3, 'Test Author', 100, '[]'::jsonb, $4, now())`,
		bookID, owner, title, shared)
	require.NoError(t, err)

	return bookID
}

func BookVersion(t *testing.T, db DBLike, bookID uuid.UUID) int {
	t.Helper()

	var version int
	err := db.QueryRow(context.Background(), "SELECT version FROM books WHERE id = $1", bookID).Scan(&version)
	require.NoError(t, err)
	return version
}

// CountOutboxEvents counts stored events for a book, published or not.
func CountOutboxEvents(t *testing.T, db DBLike, bookID uuid.UUID, eventType string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM outbox_events WHERE aggregate_id = $1 AND event_type = $2",
		bookID, eventType).Scan(&count)
	require.NoError(t, err)
	return count
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every table except the migration bookkeeping.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
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
