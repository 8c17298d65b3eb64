package memory

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"sharebook/internal/infra"
	"sharebook/internal/pkg/errs"
	"sharebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookReadStore struct {
	store *Store
}

func NewBookReadStore(store *Store) *BookReadStore {
	return &BookReadStore{store: store}
}

func (s *BookReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.BookView, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	rec, ok := s.store.books[id]
	if !ok {
		return nil, errs.Mark(infra.WrapRepoErr(infra.KindNotFound, "book not found", nil), errs.ErrBookNotFound)
	}

	view := &queries.BookView{
		ID:            rec.id,
		Owner:         rec.owner,
		Title:         rec.title,
		Author:        rec.author,
		Pages:         rec.pages,
		Labels:        append([]string{}, rec.labels...),
		SharedByOwner: rec.sharedByOwner,
		CreatedAt:     rec.createdAt,
	}
	if lr := rec.loanRequest; lr != nil {
		view.LoanRequest = &queries.LoanRequestView{
			ID:             lr.id,
			RequestingUser: lr.requestingUser,
			Status:         lr.status.String(),
			CreatedAt:      lr.createdAt,
		}
	}
	return view, nil
}

func (s *BookReadStore) ListFirstPage(_ context.Context, filters queries.BookFilters, limit int32) ([]*queries.BookListItem, error) {
	return s.list(filters, func(bookRecord) bool { return true }, limit), nil
}

func (s *BookReadStore) ListKeyset(_ context.Context, filters queries.BookFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookListItem, error) {
	after := func(rec bookRecord) bool {
		return compareNewestFirst(rec.createdAt, rec.id, lastCreatedAt, lastID) > 0
	}
	return s.list(filters, after, limit), nil
}

func (s *BookReadStore) list(filters queries.BookFilters, keep func(bookRecord) bool, limit int32) []*queries.BookListItem {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	title := strings.ToLower(filters.Title)
	recs := make([]bookRecord, 0, len(s.store.books))
	for _, rec := range s.store.books {
		if title != "" && !strings.Contains(strings.ToLower(rec.title), title) {
			continue
		}
		if !keep(rec) {
			continue
		}
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b bookRecord) int {
		return compareNewestFirst(a.createdAt, a.id, b.createdAt, b.id)
	})
	if len(recs) > int(limit) {
		recs = recs[:limit]
	}

	items := make([]*queries.BookListItem, 0, len(recs))
	for _, rec := range recs {
		item := &queries.BookListItem{
			ID:            rec.id,
			Owner:         rec.owner,
			Title:         rec.title,
			Author:        rec.author,
			SharedByOwner: rec.sharedByOwner,
			CreatedAt:     rec.createdAt,
		}
		if rec.loanRequest != nil {
			status := rec.loanRequest.status.String()
			item.LoanRequestStatus = &status
		}
		items = append(items, item)
	}
	return items
}

// compareNewestFirst orders by created_at DESC, id DESC.
func compareNewestFirst(aTime time.Time, aID uuid.UUID, bTime time.Time, bID uuid.UUID) int {
	if c := bTime.Compare(aTime); c != 0 {
		return c
	}
	return cmp.Compare(0, bytes.Compare(aID[:], bID[:]))
}
