package repository

import (
	"context"

	"sharebook/internal/domain/book"
	"sharebook/internal/infra"
	"sharebook/internal/infra/db"
	"sharebook/internal/pkg/errs"
	"sharebook/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookRepository struct {
	db db.DBTX
}

func NewBookRepository(db db.DBTX) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	query, args, err := dialect.
		From(goqu.T(tableBooks).As("b")).
		LeftJoin(goqu.T(tableLoanRequests).As("lr"), goqu.On(goqu.I("lr."+colBookID).Eq(goqu.I("b."+colID)))).
		Select(
			goqu.I("b."+colID), goqu.I("b."+colOwner), goqu.I("b."+colTitle), goqu.I("b."+colAuthor),
			goqu.I("b."+colPages), goqu.I("b."+colLabels), goqu.I("b."+colSharedByOwner),
			goqu.I("b."+colCreatedAt), goqu.I("b."+colVersion),
			goqu.I("lr."+colID), goqu.I("lr."+colRequestingUser), goqu.I("lr."+colStatus), goqu.I("lr."+colCreatedAt),
		).
		Where(goqu.I("b." + colID).Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build book select", err)
	}

	var (
		bookID        uuid.UUID
		owner         string
		title         string
		author        string
		pages         int32
		labelsRaw     []byte
		sharedByOwner bool
		createdAt     pgtype.Timestamptz
		version       int32
		lrID          pgtype.UUID
		lrUser        pgtype.Text
		lrStatus      pgtype.Text
		lrCreatedAt   pgtype.Timestamptz
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&bookID, &owner, &title, &author, &pages, &labelsRaw, &sharedByOwner, &createdAt, &version,
		&lrID, &lrUser, &lrStatus, &lrCreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(infra.WrapRepoErr(infra.KindNotFound, "book not found", err), errs.ErrBookNotFound)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load book", err)
	}

	labels, err := decodeLabels(labelsRaw)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindEncoding, "failed to decode book labels", err)
	}

	var loanRequest *book.LoanRequest
	if id := pgconv.UUIDPtrFromPgtype(lrID); id != nil {
		status := book.LoanRequestStatus(lrStatus.String)
		if !status.IsValid() {
			return nil, infra.WrapRepoErr(infra.KindEncoding, "failed to decode loan request status", errs.New("unknown status "+lrStatus.String))
		}
		loanRequest = book.ReconstructLoanRequest(
			*id,
			bookID,
			lrUser.String,
			status,
			pgconv.TimeFromPgtype(lrCreatedAt),
		)
	}

	return book.Reconstruct(
		bookID, owner, title, author,
		int(pages), labels, sharedByOwner,
		pgconv.TimeFromPgtype(createdAt),
		loanRequest,
		int(version),
	), nil
}

// Save inserts a new book (version 0) or updates a stored one guarded by its
// version, then replaces the loan request row.
func (r *BookRepository) Save(ctx context.Context, b *book.Book) error {
	var err error
	if b.Version() == 0 {
		err = r.insert(ctx, b)
	} else {
		err = r.update(ctx, b)
	}
	if err != nil {
		return err
	}
	return r.syncLoanRequest(ctx, b)
}

func (r *BookRepository) insert(ctx context.Context, b *book.Book) error {
	labels, err := encodeLabels(b.Labels().Values())
	if err != nil {
		return infra.WrapRepoErr(infra.KindEncoding, "failed to encode book labels", err)
	}

	query, args, err := dialect.
		Insert(tableBooks).
		Rows(goqu.Record{
			colID:            b.ID(),
			colOwner:         b.Owner(),
			colTitle:         b.Title(),
			colAuthor:        b.Author(),
			colPages:         b.Pages(),
			colLabels:        labels,
			colSharedByOwner: b.SharedByOwner(),
			colCreatedAt:     b.CreatedAt(),
			colUpdatedAt:     b.CreatedAt(),
			colVersion:       1,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build book insert", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if pgconv.IsUniqueViolation(err) {
			return errs.Mark(infra.WrapRepoErr(infra.KindDuplicateKey, "book already exists", err), errs.ErrDuplicateBook)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert book", err)
	}
	return nil
}

func (r *BookRepository) update(ctx context.Context, b *book.Book) error {
	labels, err := encodeLabels(b.Labels().Values())
	if err != nil {
		return infra.WrapRepoErr(infra.KindEncoding, "failed to encode book labels", err)
	}

	query, args, err := dialect.
		Update(tableBooks).
		Set(goqu.Record{
			colTitle:         b.Title(),
			colAuthor:        b.Author(),
			colPages:         b.Pages(),
			colLabels:        labels,
			colSharedByOwner: b.SharedByOwner(),
			colUpdatedAt:     goqu.L("now()"),
			colVersion:       goqu.L(colVersion + " + 1"),
		}).
		Where(goqu.Ex{colID: b.ID(), colVersion: b.Version()}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build book update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update book", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.Mark(infra.WrapRepoErr(infra.KindConflict, "book version changed", nil), errs.ErrConcurrentModification)
	}
	return nil
}

func (r *BookRepository) syncLoanRequest(ctx context.Context, b *book.Book) error {
	query, args, err := dialect.
		Delete(tableLoanRequests).
		Where(goqu.Ex{colBookID: b.ID()}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build loan request delete", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to clear loan request", err)
	}

	lr := b.LoanRequest()
	if lr == nil {
		return nil
	}

	query, args, err = dialect.
		Insert(tableLoanRequests).
		Rows(goqu.Record{
			colID:             lr.ID(),
			colBookID:         lr.BookID(),
			colRequestingUser: lr.RequestingUser(),
			colStatus:         lr.Status().String(),
			colCreatedAt:      lr.CreatedAt(),
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build loan request insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr(infra.KindForeignKeyViolated, "loan request references unknown book", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert loan request", err)
	}
	return nil
}
