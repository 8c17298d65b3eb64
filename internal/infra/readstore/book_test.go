//go:build unit

package readstore_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"sharebook/internal/infra"
	"sharebook/internal/infra/readstore"
	"sharebook/internal/pkg/errs"
	"sharebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errDBConnectionLost = errors.New("database connection lost")
	createdAt           = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

// =============================================================================
// FindByID Tests
// =============================================================================

func TestReadStore_FindByID(t *testing.T) {
	ctx := context.Background()
	bookID := uuid.New()
	lrID := uuid.New()

	viewRow := func(lr pgtype.UUID, user, status pgtype.Text) []any {
		return []any{
			bookID, "alice", "Dune", "Frank Herbert", int32(412), []byte(`["sf","classic"]`), true,
			pgtype.Timestamptz{Time: createdAt, Valid: true},
			lr, user, status, pgtype.Timestamptz{Time: createdAt.Add(time.Hour), Valid: lr.Valid},
		}
	}

	t.Run("success: view carries the joined loan request", func(t *testing.T) {
		mockDB := &mockDBTX{row: viewRow(
			pgtype.UUID{Bytes: lrID, Valid: true},
			pgtype.Text{String: "bob", Valid: true},
			pgtype.Text{String: "WAITING_FOR_ACCEPTANCE", Valid: true},
		)}
		store := readstore.NewBookReadStore(mockDB)

		view, err := store.FindByID(ctx, bookID)

		require.NoError(t, err)
		assert.Equal(t, bookID, view.ID)
		assert.Equal(t, 412, view.Pages)
		assert.Equal(t, []string{"sf", "classic"}, view.Labels)
		assert.Equal(t, createdAt, view.CreatedAt)
		require.NotNil(t, view.LoanRequest)
		assert.Equal(t, queries.LoanRequestView{
			ID:             lrID,
			RequestingUser: "bob",
			Status:         "WAITING_FOR_ACCEPTANCE",
			CreatedAt:      createdAt.Add(time.Hour),
		}, *view.LoanRequest)

		require.Len(t, mockDB.queries, 1)
		assert.Contains(t, mockDB.queries[0].sql, `LEFT JOIN "loan_requests"`)
		assert.Contains(t, mockDB.queries[0].sql, `WHERE ("b"."id" = $1)`)
		assert.Equal(t, []any{bookID.String()}, mockDB.queries[0].args)
	})

	t.Run("success: no loan request leaves the view without one", func(t *testing.T) {
		mockDB := &mockDBTX{row: viewRow(pgtype.UUID{}, pgtype.Text{}, pgtype.Text{})}
		store := readstore.NewBookReadStore(mockDB)

		view, err := store.FindByID(ctx, bookID)

		require.NoError(t, err)
		assert.Nil(t, view.LoanRequest)
	})

	testCases := []struct {
		name       string
		mockDB     *mockDBTX
		expectErr  error
		expectKind infra.RepositoryErrorKind
	}{
		{
			name:       "error: book not found",
			mockDB:     &mockDBTX{rowErr: pgx.ErrNoRows},
			expectErr:  errs.ErrBookNotFound,
			expectKind: infra.KindNotFound,
		},
		{
			name:       "error: database error",
			mockDB:     &mockDBTX{rowErr: errDBConnectionLost},
			expectKind: infra.KindDBFailure,
		},
		{
			name: "error: labels are not a json array",
			mockDB: &mockDBTX{row: []any{
				bookID, "alice", "Dune", "Frank Herbert", int32(412), []byte(`{`), true,
				pgtype.Timestamptz{Time: createdAt, Valid: true},
				pgtype.UUID{}, pgtype.Text{}, pgtype.Text{}, pgtype.Timestamptz{},
			}},
			expectKind: infra.KindEncoding,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := readstore.NewBookReadStore(tc.mockDB)

			view, err := store.FindByID(ctx, bookID)

			assert.Nil(t, view)
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, tc.expectKind), "expected kind [%v] but got (%v)", tc.expectKind, err)
			if tc.expectErr != nil {
				assert.True(t, errs.Is(err, tc.expectErr))
			}
		})
	}
}

// =============================================================================
// List Tests
// =============================================================================

func TestReadStore_ListFirstPage(t *testing.T) {
	ctx := context.Background()

	t.Run("Title filter escapes LIKE wildcards", func(t *testing.T) {
		testCases := []struct {
			title       string
			wantPattern string
		}{
			{title: "Dune", wantPattern: `%Dune%`},
			{title: "50%_off", wantPattern: `%50\%\_off%`},
			{title: `C:\Books`, wantPattern: `%C:\\Books%`},
		}

		for _, tc := range testCases {
			t.Run(tc.title, func(t *testing.T) {
				mockDB := &mockDBTX{}
				store := readstore.NewBookReadStore(mockDB)

				items, err := store.ListFirstPage(ctx, queries.BookFilters{Title: tc.title}, 20)

				require.NoError(t, err)
				assert.Empty(t, items)
				require.Len(t, mockDB.queries, 1)
				q := mockDB.queries[0]
				assert.Contains(t, q.sql, `WHERE ("b"."title" ILIKE $1)`)
				assert.Contains(t, q.sql, `ORDER BY "b"."created_at" DESC, "b"."id" DESC LIMIT $2`)
				assert.Equal(t, []any{tc.wantPattern, int64(20)}, q.args)
			})
		}
	})

	t.Run("No filter has no WHERE clause", func(t *testing.T) {
		mockDB := &mockDBTX{}
		store := readstore.NewBookReadStore(mockDB)

		_, err := store.ListFirstPage(ctx, queries.BookFilters{}, 5)

		require.NoError(t, err)
		require.Len(t, mockDB.queries, 1)
		assert.NotContains(t, mockDB.queries[0].sql, "WHERE")
		assert.Equal(t, []any{int64(5)}, mockDB.queries[0].args)
	})

	t.Run("Rows map the joined status", func(t *testing.T) {
		waiting, free := uuid.New(), uuid.New()
		mockDB := &mockDBTX{rows: [][]any{
			{waiting, "alice", "Dune", "Frank Herbert", true, pgtype.Text{String: "WAITING_FOR_ACCEPTANCE", Valid: true}, pgtype.Timestamptz{Time: createdAt, Valid: true}},
			{free, "carol", "Emma", "Jane Austen", false, pgtype.Text{}, pgtype.Timestamptz{Time: createdAt.Add(-time.Hour), Valid: true}},
		}}
		store := readstore.NewBookReadStore(mockDB)

		items, err := store.ListFirstPage(ctx, queries.BookFilters{}, 20)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, waiting, items[0].ID)
		require.NotNil(t, items[0].LoanRequestStatus)
		assert.Equal(t, "WAITING_FOR_ACCEPTANCE", *items[0].LoanRequestStatus)
		assert.Equal(t, createdAt, items[0].CreatedAt)
		assert.Equal(t, free, items[1].ID)
		assert.Nil(t, items[1].LoanRequestStatus)
		assert.False(t, items[1].SharedByOwner)
	})

	t.Run("Error Cases", func(t *testing.T) {
		testCases := []struct {
			name   string
			mockDB *mockDBTX
		}{
			{name: "query fails", mockDB: &mockDBTX{queryErr: errDBConnectionLost}},
			{name: "iteration fails", mockDB: &mockDBTX{rowsErr: errDBConnectionLost}},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				store := readstore.NewBookReadStore(tc.mockDB)

				items, err := store.ListFirstPage(ctx, queries.BookFilters{}, 20)

				assert.Nil(t, items)
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
			})
		}
	})
}

func TestReadStore_ListKeyset(t *testing.T) {
	ctx := context.Background()
	lastID := uuid.New()

	t.Run("Keyset predicate follows the last item", func(t *testing.T) {
		mockDB := &mockDBTX{}
		store := readstore.NewBookReadStore(mockDB)

		_, err := store.ListKeyset(ctx, queries.BookFilters{}, createdAt, lastID, 10)

		require.NoError(t, err)
		require.Len(t, mockDB.queries, 1)
		q := mockDB.queries[0]
		assert.Contains(t, q.sql, `WHERE ("b"."created_at", "b"."id") < ($1, $2)`)
		assert.Contains(t, q.sql, `ORDER BY "b"."created_at" DESC, "b"."id" DESC LIMIT $3`)
		assert.Equal(t, []any{createdAt, lastID.String(), int64(10)}, q.args)
	})

	t.Run("Keyset predicate combines with the title filter", func(t *testing.T) {
		mockDB := &mockDBTX{}
		store := readstore.NewBookReadStore(mockDB)

		_, err := store.ListKeyset(ctx, queries.BookFilters{Title: "go_"}, createdAt, lastID, 10)

		require.NoError(t, err)
		require.Len(t, mockDB.queries, 1)
		q := mockDB.queries[0]
		assert.Contains(t, q.sql, `WHERE (("b"."title" ILIKE $1) AND ("b"."created_at", "b"."id") < ($2, $3))`)
		assert.Equal(t, []any{`%go\_%`, createdAt, lastID.String(), int64(10)}, q.args)
	})
}

// =============================================================================
// Test doubles
// =============================================================================

type queryCall struct {
	sql  string
	args []any
}

// mockDBTX records every read. QueryRow answers with row when set, otherwise
// with rowErr; Query answers with rows.
type mockDBTX struct {
	queries  []queryCall
	row      []any
	rowErr   error
	rows     [][]any
	rowsErr  error
	queryErr error
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("mockDBTX.Exec is not supported")
}

func (m *mockDBTX) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.queries = append(m.queries, queryCall{sql: sql, args: args})
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return &fakeRows{rows: m.rows, err: m.rowsErr}, nil
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.queries = append(m.queries, queryCall{sql: sql, args: args})
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

// fakeRows implements the subset of pgx.Rows that pgx.CollectRows uses.
type fakeRows struct {
	pgx.Rows
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.err != nil || r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return valuesRow(r.rows[r.pos-1]).Scan(dest...)
}

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Close() {}
