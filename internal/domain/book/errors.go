package book

import (
	"sharebook/internal/pkg/errs"
)

var (
	ErrInvalidBookID   = errs.New("book id must not be empty")
	ErrRequiredField   = errs.New("required field is missing")
	ErrPagesOutOfRange = errs.New("pages must be at least 1")

	ErrNotBookOwner                   = errs.New("user is not the book owner")
	ErrRemoveSharingWithActiveRequest = errs.New("cannot stop sharing a book with an active loan request")
	ErrBookNotShared                  = errs.New("book is not shared by its owner")
	ErrOwnerCannotRequest             = errs.New("book owner cannot request a loan of their own book")
	ErrNoActiveRequest                = errs.New("book has no active loan request")
	ErrRequestAlreadyAccepted         = errs.New("loan request is already accepted")
	ErrLoanRequestAlreadyExists       = errs.New("book already has an active loan request")
)

// ErrorCode identifies which invariant a failed operation violated.
type ErrorCode string

const (
	CodeInvalidIdentity                ErrorCode = "invalid-identity"
	CodeRequiredFieldMissing           ErrorCode = "required-field-missing"
	CodePagesOutOfRange                ErrorCode = "pages-out-of-range"
	CodeNotBookOwner                   ErrorCode = "not-book-owner"
	CodeRemoveSharingWithActiveRequest ErrorCode = "remove-sharing-with-active-request"
	CodeBookNotShared                  ErrorCode = "book-not-shared"
	CodeOwnerCannotSelfRequest         ErrorCode = "owner-cannot-self-request"
	CodeNoActiveRequest                ErrorCode = "no-active-request"
	CodeRequestAlreadyAccepted         ErrorCode = "request-already-accepted"
	CodeLoanRequestAlreadyExists       ErrorCode = "loan-request-already-exists"
)

var errorCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrInvalidBookID, CodeInvalidIdentity},
	{ErrRequiredField, CodeRequiredFieldMissing},
	{ErrPagesOutOfRange, CodePagesOutOfRange},
	{ErrNotBookOwner, CodeNotBookOwner},
	{ErrRemoveSharingWithActiveRequest, CodeRemoveSharingWithActiveRequest},
	{ErrBookNotShared, CodeBookNotShared},
	{ErrOwnerCannotRequest, CodeOwnerCannotSelfRequest},
	{ErrNoActiveRequest, CodeNoActiveRequest},
	{ErrRequestAlreadyAccepted, CodeRequestAlreadyAccepted},
	{ErrLoanRequestAlreadyExists, CodeLoanRequestAlreadyExists},
}

// CodeOf returns the code of the first book error found in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	for _, e := range errorCodes {
		if errs.Is(err, e.err) {
			return e.code, true
		}
	}
	return "", false
}

// IsValidationError reports whether err rejects the input values rather than the book state.
func IsValidationError(err error) bool {
	code, ok := CodeOf(err)
	if !ok {
		return false
	}
	switch code {
	case CodeInvalidIdentity, CodeRequiredFieldMissing, CodePagesOutOfRange:
		return true
	default:
		return false
	}
}
