package shared

import (
	"context"

	"sharebook/internal/domain/book"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Books() BookRepository
	Outbox() OutboxRepository
}

// BookRepository loads and stores whole Book aggregates.
// FindByID fails with errs.ErrBookNotFound; Save fails with
// errs.ErrConcurrentModification when the stored version moved on.
type BookRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*book.Book, error)
	Save(ctx context.Context, b *book.Book) error
}

// OutboxRepository records drained events in the same transaction as the book save.
type OutboxRepository interface {
	Append(ctx context.Context, events []book.Event) error
}
