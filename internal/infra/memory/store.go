// Package memory keeps books and outbox messages in process memory.
// It backs STORAGE_DRIVER=memory and the usecase tests.
package memory

import (
	"sync"
	"time"

	"sharebook/internal/domain/book"
	"sharebook/internal/infra/outbox"

	"github.com/google/uuid"
)

type bookRecord struct {
	id            uuid.UUID
	owner         string
	title         string
	author        string
	pages         int
	labels        []string
	sharedByOwner bool
	createdAt     time.Time
	loanRequest   *loanRequestRecord
	version       int
}

type loanRequestRecord struct {
	id             uuid.UUID
	requestingUser string
	status         book.LoanRequestStatus
	createdAt      time.Time
}

type outboxRecord struct {
	message     outbox.Message
	publishedAt *time.Time
}

type Store struct {
	mu     sync.RWMutex
	books  map[uuid.UUID]bookRecord
	outbox []outboxRecord
}

func NewStore() *Store {
	return &Store{
		books: make(map[uuid.UUID]bookRecord),
	}
}

func recordFromBook(b *book.Book, version int) bookRecord {
	rec := bookRecord{
		id:            b.ID(),
		owner:         b.Owner(),
		title:         b.Title(),
		author:        b.Author(),
		pages:         b.Pages(),
		labels:        b.Labels().Values(),
		sharedByOwner: b.SharedByOwner(),
		createdAt:     b.CreatedAt(),
		version:       version,
	}
	if lr := b.LoanRequest(); lr != nil {
		rec.loanRequest = &loanRequestRecord{
			id:             lr.ID(),
			requestingUser: lr.RequestingUser(),
			status:         lr.Status(),
			createdAt:      lr.CreatedAt(),
		}
	}
	return rec
}

func (r bookRecord) toDomain() *book.Book {
	var lr *book.LoanRequest
	if r.loanRequest != nil {
		lr = book.ReconstructLoanRequest(r.loanRequest.id, r.id, r.loanRequest.requestingUser, r.loanRequest.status, r.loanRequest.createdAt)
	}
	return book.Reconstruct(r.id, r.owner, r.title, r.author, r.pages, r.labels, r.sharedByOwner, r.createdAt, lr, r.version)
}
