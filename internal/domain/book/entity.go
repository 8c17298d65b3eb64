package book

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Book is the aggregate root for a lendable book and its single active loan request.
//
// State transitions never modify the receiver. Each one validates first and
// returns a new Book, so a failed call leaves the original untouched.
type Book struct {
	id            uuid.UUID
	owner         string
	title         string
	author        string
	pages         int
	labels        Labels
	sharedByOwner bool
	createdAt     time.Time
	loanRequest   *LoanRequest
	pendingEvents []Event
	version       int
}

func New(id uuid.UUID, owner, title, author string, pages int, sharedByOwner bool, labels []string, now time.Time) (*Book, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidBookID
	}
	if err := requireText(owner, title, author); err != nil {
		return nil, err
	}
	if err := validatePages(pages); err != nil {
		return nil, err
	}

	return &Book{
		id:            id,
		owner:         owner,
		title:         title,
		author:        author,
		pages:         pages,
		labels:        NewLabels(labels),
		sharedByOwner: sharedByOwner,
		createdAt:     now,
	}, nil
}

// Reconstruct rebuilds a stored book. version is the persisted row version.
func Reconstruct(
	id uuid.UUID,
	owner, title, author string,
	pages int,
	labels []string,
	sharedByOwner bool,
	createdAt time.Time,
	loanRequest *LoanRequest,
	version int,
) *Book {
	return &Book{
		id:            id,
		owner:         owner,
		title:         title,
		author:        author,
		pages:         pages,
		labels:        NewLabels(labels),
		sharedByOwner: sharedByOwner,
		createdAt:     createdAt,
		loanRequest:   loanRequest,
		version:       version,
	}
}

func (b *Book) ID() uuid.UUID              { return b.id }
func (b *Book) Owner() string              { return b.owner }
func (b *Book) Title() string              { return b.title }
func (b *Book) Author() string             { return b.author }
func (b *Book) Pages() int                 { return b.pages }
func (b *Book) Labels() Labels             { return b.labels }
func (b *Book) SharedByOwner() bool        { return b.sharedByOwner }
func (b *Book) CreatedAt() time.Time       { return b.createdAt }
func (b *Book) LoanRequest() *LoanRequest  { return b.loanRequest }
func (b *Book) Version() int               { return b.version }
func (b *Book) PendingEvents() int         { return len(b.pendingEvents) }
func (b *Book) IsOwnedBy(user string) bool { return b.owner == user }

func (b *Book) Update(currentUser, title, author string, pages int, sharedByOwner bool, labels []string) (*Book, error) {
	if !b.IsOwnedBy(currentUser) {
		return nil, ErrNotBookOwner
	}
	if !sharedByOwner && b.loanRequest != nil {
		return nil, ErrRemoveSharingWithActiveRequest
	}
	if err := requireText(title, author); err != nil {
		return nil, err
	}
	if err := validatePages(pages); err != nil {
		return nil, err
	}

	next := b.clone()
	next.title = title
	next.author = author
	next.pages = pages
	next.sharedByOwner = sharedByOwner
	next.labels = NewLabels(labels)
	return next, nil
}

func (b *Book) RequestNewLoan(requestingUser string, now time.Time) (*Book, error) {
	if !b.sharedByOwner {
		return nil, ErrBookNotShared
	}
	if b.IsOwnedBy(requestingUser) {
		return nil, ErrOwnerCannotRequest
	}
	if err := requireText(requestingUser); err != nil {
		return nil, err
	}
	if b.loanRequest != nil {
		return nil, ErrLoanRequestAlreadyExists
	}

	next := b.clone()
	next.loanRequest = newLoanRequest(b.id, requestingUser, now)
	return next, nil
}

func (b *Book) AcceptLoanRequest(currentUser string, now time.Time) (*Book, error) {
	if !b.IsOwnedBy(currentUser) {
		return nil, ErrNotBookOwner
	}
	if b.loanRequest == nil {
		return nil, ErrNoActiveRequest
	}
	if b.loanRequest.status == StatusAccepted {
		return nil, ErrRequestAlreadyAccepted
	}

	next := b.clone()
	next.loanRequest = b.loanRequest.accepted()
	next.pendingEvents = append(next.pendingEvents, NewLoanRequestAccepted(b.id, now))
	return next, nil
}

// RefuseLoanRequest discards the active request whatever its status.
func (b *Book) RefuseLoanRequest(currentUser string) (*Book, error) {
	if !b.IsOwnedBy(currentUser) {
		return nil, ErrNotBookOwner
	}
	if b.loanRequest == nil {
		return nil, ErrNoActiveRequest
	}

	next := b.clone()
	next.loanRequest = nil
	return next, nil
}

func (b *Book) RequestStatus() (LoanRequestStatus, bool) {
	if b.loanRequest == nil {
		return "", false
	}
	return b.loanRequest.status, true
}

// ReleaseEvents returns the queued events in order and empties the queue.
func (b *Book) ReleaseEvents() []Event {
	events := b.pendingEvents
	b.pendingEvents = nil
	if events == nil {
		return []Event{}
	}
	return events
}

// clone copies every field so the result shares no mutable state with b.
func (b *Book) clone() *Book {
	next := *b
	next.labels = NewLabels(b.labels.values)
	if b.loanRequest != nil {
		lr := *b.loanRequest
		next.loanRequest = &lr
	}
	next.pendingEvents = slices.Clone(b.pendingEvents)
	return &next
}
