package readstore

import (
	"context"
	"strings"
	"time"

	"sharebook/internal/infra"
	"sharebook/internal/infra/db"
	"sharebook/internal/pkg/errs"
	"sharebook/internal/pkg/pgconv"
	"sharebook/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	jsoniter "github.com/json-iterator/go"
)

var dialect = goqu.Dialect("postgres")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type BookReadStore struct {
	db db.DBTX
}

func NewBookReadStore(db db.DBTX) *BookReadStore {
	return &BookReadStore{db: db}
}

func (s *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	query, args, err := selectBooks().
		Select(
			goqu.I("b.id"), goqu.I("b.owner"), goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.pages"),
			goqu.I("b.labels"), goqu.I("b.shared_by_owner"), goqu.I("b.created_at"),
			goqu.I("lr.id"), goqu.I("lr.requesting_user"), goqu.I("lr.status"), goqu.I("lr.created_at"),
		).
		Where(goqu.I("b.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build book view query", err)
	}

	var (
		view        queries.BookView
		pages       int32
		labelsRaw   []byte
		createdAt   pgtype.Timestamptz
		lrID        pgtype.UUID
		lrUser      pgtype.Text
		lrStatus    pgtype.Text
		lrCreatedAt pgtype.Timestamptz
	)
	err = s.db.QueryRow(ctx, query, args...).Scan(
		&view.ID, &view.Owner, &view.Title, &view.Author, &pages,
		&labelsRaw, &view.SharedByOwner, &createdAt,
		&lrID, &lrUser, &lrStatus, &lrCreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(infra.WrapRepoErr(infra.KindNotFound, "book not found", err), errs.ErrBookNotFound)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load book view", err)
	}

	view.Pages = int(pages)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.Labels = []string{}
	if len(labelsRaw) > 0 {
		if err := jsoniter.ConfigFastest.Unmarshal(labelsRaw, &view.Labels); err != nil {
			return nil, infra.WrapRepoErr(infra.KindEncoding, "failed to decode book labels", err)
		}
	}
	if lrID := pgconv.UUIDPtrFromPgtype(lrID); lrID != nil {
		view.LoanRequest = &queries.LoanRequestView{
			ID:             *lrID,
			RequestingUser: lrUser.String,
			Status:         lrStatus.String,
			CreatedAt:      pgconv.TimeFromPgtype(lrCreatedAt),
		}
	}
	return &view, nil
}

func (s *BookReadStore) ListFirstPage(ctx context.Context, filters queries.BookFilters, limit int32) ([]*queries.BookListItem, error) {
	return s.list(ctx, listQuery(filters, limit))
}

func (s *BookReadStore) ListKeyset(ctx context.Context, filters queries.BookFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookListItem, error) {
	ds := listQuery(filters, limit).
		Where(goqu.L(`("b"."created_at", "b"."id") < (?, ?)`, lastCreatedAt, lastID))
	return s.list(ctx, ds)
}

func (s *BookReadStore) list(ctx context.Context, ds *goqu.SelectDataset) ([]*queries.BookListItem, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build book list query", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list books", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.BookListItem, error) {
		var (
			item      queries.BookListItem
			status    pgtype.Text
			createdAt pgtype.Timestamptz
		)
		if err := row.Scan(&item.ID, &item.Owner, &item.Title, &item.Author, &item.SharedByOwner, &status, &createdAt); err != nil {
			return nil, err
		}
		item.LoanRequestStatus = pgconv.StringPtrFromPgtype(status)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		return &item, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan book list", err)
	}
	return items, nil
}

func selectBooks() *goqu.SelectDataset {
	return dialect.
		From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("loan_requests").As("lr"), goqu.On(goqu.I("lr.book_id").Eq(goqu.I("b.id"))))
}

func listQuery(filters queries.BookFilters, limit int32) *goqu.SelectDataset {
	ds := selectBooks().
		Select(
			goqu.I("b.id"), goqu.I("b.owner"), goqu.I("b.title"), goqu.I("b.author"),
			goqu.I("b.shared_by_owner"), goqu.I("lr.status"), goqu.I("b.created_at"),
		).
		Order(goqu.I("b.created_at").Desc(), goqu.I("b.id").Desc()).
		Limit(uint(limit))

	if filters.Title != "" {
		ds = ds.Where(goqu.I("b.title").ILike("%" + likeEscaper.Replace(filters.Title) + "%"))
	}
	return ds
}
