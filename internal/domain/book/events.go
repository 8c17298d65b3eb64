package book

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeLoanRequestAccepted = "book.loan_request_accepted"

// Event is an immutable fact queued by a Book until it is drained.
type Event interface {
	EventType() string
	BookID() uuid.UUID
	OccurredAt() time.Time
}

type LoanRequestAccepted struct {
	bookID     uuid.UUID
	occurredAt time.Time
}

func NewLoanRequestAccepted(bookID uuid.UUID, occurredAt time.Time) LoanRequestAccepted {
	return LoanRequestAccepted{bookID: bookID, occurredAt: occurredAt}
}

func (e LoanRequestAccepted) EventType() string     { return EventTypeLoanRequestAccepted }
func (e LoanRequestAccepted) BookID() uuid.UUID     { return e.bookID }
func (e LoanRequestAccepted) OccurredAt() time.Time { return e.occurredAt }
