//go:build unit

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"sharebook/internal/domain/book"
	"sharebook/internal/infra"
	"sharebook/internal/infra/repository"
	"sharebook/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookRepository_Save(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	bookID := uuid.New()

	newBook := func(t *testing.T) *book.Book {
		b, err := book.New(bookID, "alice", "Dune", "Frank Herbert", 412, true, []string{"sf"}, now)
		require.NoError(t, err)
		return b
	}
	storedBook := func(lr *book.LoanRequest) *book.Book {
		return book.Reconstruct(bookID, "alice", "Dune", "Frank Herbert", 412, []string{"sf"}, true, now, lr, 3)
	}

	testCases := []struct {
		name       string
		book       func(t *testing.T) *book.Book
		setupMock  func(m *mockDBTX)
		expectErr  error
		expectKind infra.RepositoryErrorKind
		verify     func(t *testing.T, m *mockDBTX)
	}{
		{
			name:      "success: new book is inserted and stale loan request cleared",
			book:      newBook,
			setupMock: func(m *mockDBTX) {},
			verify: func(t *testing.T, m *mockDBTX) {
				require.Len(t, m.execs, 2)
				assert.Contains(t, m.execs[0].sql, `INSERT INTO "books"`)
				assert.Contains(t, m.execs[1].sql, `DELETE FROM "loan_requests"`)
			},
		},
		{
			name:      "success: stored book is updated guarded by its version",
			book:      func(t *testing.T) *book.Book { return storedBook(nil) },
			setupMock: func(m *mockDBTX) {},
			verify: func(t *testing.T, m *mockDBTX) {
				require.Len(t, m.execs, 2)
				assert.Contains(t, m.execs[0].sql, `UPDATE "books"`)
				assert.Contains(t, m.execs[0].sql, `"version" = $`)
			},
		},
		{
			name: "success: loan request row is written after the book",
			book: func(t *testing.T) *book.Book {
				lr := book.ReconstructLoanRequest(uuid.New(), bookID, "bob", book.StatusWaitingForAcceptance, now)
				return storedBook(lr)
			},
			setupMock: func(m *mockDBTX) {},
			verify: func(t *testing.T, m *mockDBTX) {
				require.Len(t, m.execs, 3)
				assert.Contains(t, m.execs[2].sql, `INSERT INTO "loan_requests"`)
				assert.Contains(t, m.execs[2].args, "bob")
				assert.Contains(t, m.execs[2].args, "WAITING_FOR_ACCEPTANCE")
			},
		},
		{
			name: "error: version changed since load",
			book: func(t *testing.T) *book.Book { return storedBook(nil) },
			setupMock: func(m *mockDBTX) {
				m.tags = []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 0")}
			},
			expectErr:  errs.ErrConcurrentModification,
			expectKind: infra.KindConflict,
		},
		{
			name: "error: book id already taken",
			book: newBook,
			setupMock: func(m *mockDBTX) {
				m.execErr = &pgconn.PgError{Code: "23505"}
			},
			expectErr:  errs.ErrDuplicateBook,
			expectKind: infra.KindDuplicateKey,
		},
		{
			name: "error: database failure",
			book: newBook,
			setupMock: func(m *mockDBTX) {
				m.execErr = errors.New("connection reset")
			},
			expectKind: infra.KindDBFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB := &mockDBTX{}
			tc.setupMock(mockDB)
			repo := repository.NewBookRepository(mockDB)

			err := repo.Save(ctx, tc.book(t))

			if tc.expectKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind))
				if tc.expectErr != nil {
					assert.True(t, errs.Is(err, tc.expectErr))
				}
				return
			}
			require.NoError(t, err)
			if tc.verify != nil {
				tc.verify(t, mockDB)
			}
		})
	}
}

func TestBookRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	bookID := uuid.New()
	lrID := uuid.New()

	storedRow := func(status string) []any {
		return []any{
			bookID, "alice", "Dune", "Frank Herbert", int32(412), []byte(`["sf"]`), true,
			pgtype.Timestamptz{Time: now, Valid: true}, int32(2),
			pgtype.UUID{Bytes: lrID, Valid: true}, pgtype.Text{String: "bob", Valid: true},
			pgtype.Text{String: status, Valid: true}, pgtype.Timestamptz{Time: now, Valid: true},
		}
	}

	t.Run("success: book is rebuilt with its loan request", func(t *testing.T) {
		mockDB := &mockDBTX{row: storedRow("WAITING_FOR_ACCEPTANCE")}
		repo := repository.NewBookRepository(mockDB)

		b, err := repo.FindByID(ctx, bookID)

		require.NoError(t, err)
		assert.Equal(t, bookID, b.ID())
		assert.Equal(t, 2, b.Version())
		assert.Equal(t, []string{"sf"}, b.Labels().Values())
		require.NotNil(t, b.LoanRequest())
		assert.Equal(t, lrID, b.LoanRequest().ID())
		assert.Equal(t, book.StatusWaitingForAcceptance, b.LoanRequest().Status())
	})

	t.Run("error: unknown loan request status", func(t *testing.T) {
		mockDB := &mockDBTX{row: storedRow("LOST")}
		repo := repository.NewBookRepository(mockDB)

		b, err := repo.FindByID(ctx, bookID)

		assert.Nil(t, b)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindEncoding))
	})

	t.Run("error: unknown id", func(t *testing.T) {
		mockDB := &mockDBTX{rowErr: pgx.ErrNoRows}
		repo := repository.NewBookRepository(mockDB)

		b, err := repo.FindByID(ctx, uuid.New())

		assert.Nil(t, b)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrBookNotFound))
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("error: database failure", func(t *testing.T) {
		mockDB := &mockDBTX{rowErr: errors.New("timeout")}
		repo := repository.NewBookRepository(mockDB)

		_, err := repo.FindByID(ctx, uuid.New())

		require.Error(t, err)
		assert.False(t, errs.Is(err, errs.ErrBookNotFound))
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

type execCall struct {
	sql  string
	args []any
}

// mockDBTX records executed statements. tags are consumed in order; once
// exhausted every Exec reports one affected row.
type mockDBTX struct {
	execs   []execCall
	tags    []pgconn.CommandTag
	execErr error
	rowErr  error
	row     []any
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	m.execs = append(m.execs, execCall{sql: sql, args: arguments})
	if m.execErr != nil {
		return pgconn.CommandTag{}, m.execErr
	}
	if len(m.tags) > 0 {
		tag := m.tags[0]
		m.tags = m.tags[1:]
		return tag, nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("mockDBTX.Query is not supported")
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.row != nil {
		return valuesRow(m.row)
	}
	return errRow{err: m.rowErr}
}

// valuesRow scans its values positionally; each value must have the exact
// type of its scan target.
type valuesRow []any

func (r valuesRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("scan: %d targets for %d values", len(dest), len(r))
	}
	for i, v := range r {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

type errRow struct {
	err error
}

func (r errRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return pgx.ErrNoRows
}
