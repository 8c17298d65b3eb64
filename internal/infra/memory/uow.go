package memory

import (
	"context"
	"maps"

	"sharebook/internal/domain/book"
	"sharebook/internal/infra"
	"sharebook/internal/infra/outbox"
	"sharebook/internal/pkg/errs"
	"sharebook/internal/usecase/shared"

	"github.com/google/uuid"
)

// UnitOfWork serializes transactions on the store lock and applies staged
// writes only when fn succeeds.
type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) shared.UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	tx := &memTx{store: u.store, staged: make(map[uuid.UUID]bookRecord)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	maps.Copy(u.store.books, tx.staged)
	for _, m := range tx.messages {
		u.store.outbox = append(u.store.outbox, outboxRecord{message: m})
	}
	return nil
}

type memTx struct {
	store    *Store
	staged   map[uuid.UUID]bookRecord
	messages []outbox.Message
}

func (t *memTx) Books() shared.BookRepository     { return bookRepository{tx: t} }
func (t *memTx) Outbox() shared.OutboxRepository { return outboxRepository{tx: t} }

func (t *memTx) current(id uuid.UUID) (bookRecord, bool) {
	if rec, ok := t.staged[id]; ok {
		return rec, true
	}
	rec, ok := t.store.books[id]
	return rec, ok
}

type bookRepository struct {
	tx *memTx
}

func (r bookRepository) FindByID(_ context.Context, id uuid.UUID) (*book.Book, error) {
	rec, ok := r.tx.current(id)
	if !ok {
		return nil, errs.Mark(infra.WrapRepoErr(infra.KindNotFound, "book not found", nil), errs.ErrBookNotFound)
	}
	return rec.toDomain(), nil
}

func (r bookRepository) Save(_ context.Context, b *book.Book) error {
	rec, exists := r.tx.current(b.ID())
	switch {
	case b.Version() == 0 && exists:
		return errs.Mark(infra.WrapRepoErr(infra.KindDuplicateKey, "book already exists", nil), errs.ErrDuplicateBook)
	case b.Version() != 0 && (!exists || rec.version != b.Version()):
		return errs.Mark(infra.WrapRepoErr(infra.KindConflict, "book version changed", nil), errs.ErrConcurrentModification)
	}

	r.tx.staged[b.ID()] = recordFromBook(b, b.Version()+1)
	return nil
}

type outboxRepository struct {
	tx *memTx
}

func (r outboxRepository) Append(_ context.Context, events []book.Event) error {
	msgs, err := outbox.EncodeEvents(events)
	if err != nil {
		return infra.WrapRepoErr(infra.KindEncoding, "failed to encode outbox events", err)
	}
	r.tx.messages = append(r.tx.messages, msgs...)
	return nil
}
