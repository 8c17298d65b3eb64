package book

import (
	"time"

	"github.com/google/uuid"
)

// LoanRequest is owned by a Book and only changes through Book methods.
type LoanRequest struct {
	id             uuid.UUID
	bookID         uuid.UUID
	requestingUser string
	status         LoanRequestStatus
	createdAt      time.Time
}

func newLoanRequest(bookID uuid.UUID, requestingUser string, now time.Time) *LoanRequest {
	return &LoanRequest{
		id:             uuid.New(),
		bookID:         bookID,
		requestingUser: requestingUser,
		status:         StatusWaitingForAcceptance,
		createdAt:      now,
	}
}

// ReconstructLoanRequest rebuilds a stored loan request without validation.
func ReconstructLoanRequest(id, bookID uuid.UUID, requestingUser string, status LoanRequestStatus, createdAt time.Time) *LoanRequest {
	return &LoanRequest{
		id:             id,
		bookID:         bookID,
		requestingUser: requestingUser,
		status:         status,
		createdAt:      createdAt,
	}
}

func (r *LoanRequest) ID() uuid.UUID             { return r.id }
func (r *LoanRequest) BookID() uuid.UUID         { return r.bookID }
func (r *LoanRequest) RequestingUser() string    { return r.requestingUser }
func (r *LoanRequest) Status() LoanRequestStatus { return r.status }
func (r *LoanRequest) CreatedAt() time.Time      { return r.createdAt }

func (r *LoanRequest) accepted() *LoanRequest {
	next := *r
	next.status = StatusAccepted
	return &next
}
