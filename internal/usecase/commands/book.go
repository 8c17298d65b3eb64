package commands

import (
	"context"
	"log/slog"

	"sharebook/internal/domain/book"
	"sharebook/internal/pkg/clock"
	"sharebook/internal/pkg/patch"
	"sharebook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookRequest struct {
	ID            *uuid.UUID // generated when nil; an explicit uuid.Nil is rejected
	Title         string
	Author        string
	Pages         int
	SharedByOwner bool
	Labels        []string
}

// UpdateBookRequest leaves a field unchanged when its pointer is nil.
type UpdateBookRequest struct {
	Title         *string
	Author        *string
	Pages         *int
	SharedByOwner *bool
	Labels        *[]string
}

type CreateBookResult struct {
	BookID uuid.UUID
}

type LoanRequestResult struct {
	BookID uuid.UUID
	Status book.LoanRequestStatus
}

type BookCommands interface {
	CreateBook(ctx context.Context, req CreateBookRequest, currentUser string) (*CreateBookResult, error)
	UpdateBook(ctx context.Context, bookID uuid.UUID, req UpdateBookRequest, currentUser string) error
	RequestLoan(ctx context.Context, bookID uuid.UUID, currentUser string) (*LoanRequestResult, error)
	AcceptLoan(ctx context.Context, bookID uuid.UUID, currentUser string) (*LoanRequestResult, error)
	RefuseLoan(ctx context.Context, bookID uuid.UUID, currentUser string) error
}

type bookUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookUseCase(uow shared.UnitOfWork, clk clock.Clock) BookCommands {
	return &bookUseCaseImpl{uow: uow, clock: clk}
}

func (uc *bookUseCaseImpl) CreateBook(ctx context.Context, req CreateBookRequest, currentUser string) (*CreateBookResult, error) {
	id := uuid.New()
	if req.ID != nil {
		id = *req.ID
	}

	b, err := book.New(id, currentUser, req.Title, req.Author, req.Pages, req.SharedByOwner, req.Labels, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return saveAndRelease(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "book created", "book_id", id, "owner", currentUser)
	return &CreateBookResult{BookID: id}, nil
}

func (uc *bookUseCaseImpl) UpdateBook(ctx context.Context, bookID uuid.UUID, req UpdateBookRequest, currentUser string) error {
	return uc.mutate(ctx, bookID, func(b *book.Book) (*book.Book, error) {
		return b.Update(
			currentUser,
			patch.Coalesce(req.Title, b.Title()),
			patch.Coalesce(req.Author, b.Author()),
			patch.Coalesce(req.Pages, b.Pages()),
			patch.Coalesce(req.SharedByOwner, b.SharedByOwner()),
			patch.Coalesce(req.Labels, b.Labels().Values()),
		)
	})
}

func (uc *bookUseCaseImpl) RequestLoan(ctx context.Context, bookID uuid.UUID, currentUser string) (*LoanRequestResult, error) {
	var status book.LoanRequestStatus
	err := uc.mutate(ctx, bookID, func(b *book.Book) (*book.Book, error) {
		next, err := b.RequestNewLoan(currentUser, uc.clock.Now())
		if err != nil {
			return nil, err
		}
		status, _ = next.RequestStatus()
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "loan requested", "book_id", bookID, "requesting_user", currentUser)
	return &LoanRequestResult{BookID: bookID, Status: status}, nil
}

func (uc *bookUseCaseImpl) AcceptLoan(ctx context.Context, bookID uuid.UUID, currentUser string) (*LoanRequestResult, error) {
	var status book.LoanRequestStatus
	err := uc.mutate(ctx, bookID, func(b *book.Book) (*book.Book, error) {
		next, err := b.AcceptLoanRequest(currentUser, uc.clock.Now())
		if err != nil {
			return nil, err
		}
		status, _ = next.RequestStatus()
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "loan request accepted", "book_id", bookID)
	return &LoanRequestResult{BookID: bookID, Status: status}, nil
}

func (uc *bookUseCaseImpl) RefuseLoan(ctx context.Context, bookID uuid.UUID, currentUser string) error {
	err := uc.mutate(ctx, bookID, func(b *book.Book) (*book.Book, error) {
		return b.RefuseLoanRequest(currentUser)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "loan request refused", "book_id", bookID)
	return nil
}

// mutate runs one aggregate transition inside a transaction.
// A version conflict on save is returned as is; it is never retried here.
func (uc *bookUseCaseImpl) mutate(ctx context.Context, bookID uuid.UUID, transition func(*book.Book) (*book.Book, error)) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Books().FindByID(ctx, bookID)
		if err != nil {
			return err
		}

		next, err := transition(current)
		if err != nil {
			return err
		}

		return saveAndRelease(ctx, tx, next)
	})
}

// saveAndRelease drains events only after the save succeeded, then writes them
// to the outbox inside the same transaction.
func saveAndRelease(ctx context.Context, tx shared.Tx, b *book.Book) error {
	if err := tx.Books().Save(ctx, b); err != nil {
		return err
	}

	events := b.ReleaseEvents()
	if len(events) == 0 {
		return nil
	}
	return tx.Outbox().Append(ctx, events)
}
