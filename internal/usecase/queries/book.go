package queries

import (
	"context"
	"strings"
	"time"

	"sharebook/internal/infra"
	"sharebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound  = errs.ErrBookNotFound
	ErrInvalidCursor = errs.ErrInvalidCursor
)

type LoanRequestView struct {
	ID             uuid.UUID `json:"id"`
	RequestingUser string    `json:"requesting_user"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type BookView struct {
	ID            uuid.UUID        `json:"id"`
	Owner         string           `json:"owner"`
	Title         string           `json:"title"`
	Author        string           `json:"author"`
	Pages         int              `json:"pages"`
	Labels        []string         `json:"labels"`
	SharedByOwner bool             `json:"shared_by_owner"`
	CreatedAt     time.Time        `json:"created_at"`
	LoanRequest   *LoanRequestView `json:"loan_request,omitempty"`
}

type BookListItem struct {
	ID                uuid.UUID `json:"id"`
	Owner             string    `json:"owner"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	SharedByOwner     bool      `json:"shared_by_owner"`
	LoanRequestStatus *string   `json:"loan_request_status,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type BookFilters struct {
	Title string // case-insensitive substring
}

type BookReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	ListFirstPage(ctx context.Context, filters BookFilters, limit int32) ([]*BookListItem, error)
	ListKeyset(ctx context.Context, filters BookFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*BookListItem, error)
}

type BookQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	List(ctx context.Context, filters BookFilters, cursor *Cursor, limit int) ([]*BookListItem, *Cursor, error)
}

type bookQueriesImpl struct {
	repo BookReadStore
}

func NewBookQueries(repo BookReadStore) BookQueries {
	return &bookQueriesImpl{repo: repo}
}

func (q *bookQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookView, error) {
	bv, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return bv, nil
}

// List pages through books newest first.
func (q *bookQueriesImpl) List(ctx context.Context, filters BookFilters, cursor *Cursor, limit int) ([]*BookListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	filters.Title = strings.TrimSpace(filters.Title)

	var rows []*BookListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.ListFirstPage(ctx, filters, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.ListKeyset(ctx, filters, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
