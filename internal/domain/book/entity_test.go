//go:build unit

package book_test

import (
	"testing"
	"time"

	"sharebook/internal/domain/book"
	"sharebook/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner    = "alice"
	borrower = "bob"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(book.Book{}, book.LoanRequest{}, book.Labels{}, book.LoanRequestAccepted{}),
}

type testCase struct {
	name   string
	mutate func(*builder.BookBuilder)
	errIs  error
}

func TestNew(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		before := time.Now()
		actual, err := builder.NewBookBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "alice", actual.Owner())
		assert.WithinDuration(t, before, actual.CreatedAt(), time.Second)
		assert.Equal(t, 0, actual.Version())
		assert.Nil(t, actual.LoanRequest())
		assert.Empty(t, actual.ReleaseEvents())

		_, ok := actual.RequestStatus()
		assert.False(t, ok)
	})

	t.Run("identity validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "nil id",
				mutate: func(b *builder.BookBuilder) { b.WithID(uuid.Nil) },
				errIs:  book.ErrInvalidBookID,
			},
			{
				name:   "caller supplied id",
				mutate: func(b *builder.BookBuilder) { b.WithID(uuid.New()) },
			},
		})
	})

	t.Run("required fields", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty owner",
				mutate: func(b *builder.BookBuilder) { b.WithOwner("") },
				errIs:  book.ErrRequiredField,
			},
			{
				name:   "whitespace owner",
				mutate: func(b *builder.BookBuilder) { b.WithOwner("   ") },
				errIs:  book.ErrRequiredField,
			},
			{
				name:   "empty title",
				mutate: func(b *builder.BookBuilder) { b.WithTitle("") },
				errIs:  book.ErrRequiredField,
			},
			{
				name:   "whitespace title",
				mutate: func(b *builder.BookBuilder) { b.WithTitle("\t\n") },
				errIs:  book.ErrRequiredField,
			},
			{
				name:   "empty author",
				mutate: func(b *builder.BookBuilder) { b.WithAuthor("") },
				errIs:  book.ErrRequiredField,
			},
			{
				name:   "whitespace author",
				mutate: func(b *builder.BookBuilder) { b.WithAuthor(" ") },
				errIs:  book.ErrRequiredField,
			},
		})
	})

	t.Run("pages validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero pages",
				mutate: func(b *builder.BookBuilder) { b.WithPages(0) },
				errIs:  book.ErrPagesOutOfRange,
			},
			{
				name:   "negative pages",
				mutate: func(b *builder.BookBuilder) { b.WithPages(-10) },
				errIs:  book.ErrPagesOutOfRange,
			},
			{
				name:   "minimum pages",
				mutate: func(b *builder.BookBuilder) { b.WithPages(book.MinPages) },
			},
		})
	})

	t.Run("sharing flag accepts any value", func(t *testing.T) {
		runCases(t, []testCase{
			{name: "shared", mutate: func(b *builder.BookBuilder) { b.AsShared() }},
			{name: "not shared", mutate: func(b *builder.BookBuilder) { b.AsNotShared() }},
		})
	})

	t.Run("labels are deduplicated", func(t *testing.T) {
		actual, err := builder.NewBookBuilder().WithLabels("a", "a").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, actual.Labels().Values())
	})

	t.Run("omitted labels yield an empty set", func(t *testing.T) {
		actual, err := builder.NewBookBuilder().WithLabels().BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, 0, actual.Labels().Len())
		assert.Empty(t, actual.Labels().Values())
	})
}

func TestUpdate(t *testing.T) {
	t.Run("owner updates every mutable field", func(t *testing.T) {
		b := newBook(t)

		updated, err := b.Update(owner, "New Title", "New Author", 99, false, []string{"z", "y", "z"})
		require.NoError(t, err)

		assert.Equal(t, "New Title", updated.Title())
		assert.Equal(t, "New Author", updated.Author())
		assert.Equal(t, 99, updated.Pages())
		assert.False(t, updated.SharedByOwner())
		assert.Equal(t, []string{"y", "z"}, updated.Labels().Values())
		assert.Equal(t, b.ID(), updated.ID())
		assert.Equal(t, b.Owner(), updated.Owner())
		assert.Equal(t, b.CreatedAt(), updated.CreatedAt())
	})

	t.Run("receiver is never modified", func(t *testing.T) {
		b := newBook(t)
		snapshot := *b

		_, err := b.Update(owner, "New Title", "New Author", 99, true, nil)
		require.NoError(t, err)

		if diff := cmp.Diff(&snapshot, b, cmpOpts...); diff != "" {
			t.Errorf("Book mutated (-want +got):\n%s", diff)
		}
	})

	cases := []struct {
		name    string
		setup   func(t *testing.T) *book.Book
		user    string
		title   string
		author  string
		pages   int
		shared  bool
		wantErr error
	}{
		{
			name:    "non-owner",
			setup:   newBook,
			user:    borrower,
			title:   "T",
			author:  "A",
			pages:   10,
			shared:  true,
			wantErr: book.ErrNotBookOwner,
		},
		{
			name:    "stop sharing with waiting request",
			setup:   withWaitingRequest,
			user:    owner,
			title:   "T",
			author:  "A",
			pages:   10,
			shared:  false,
			wantErr: book.ErrRemoveSharingWithActiveRequest,
		},
		{
			name:    "stop sharing with accepted request",
			setup:   withAcceptedRequest,
			user:    owner,
			title:   "T",
			author:  "A",
			pages:   10,
			shared:  false,
			wantErr: book.ErrRemoveSharingWithActiveRequest,
		},
		{
			name:    "blank title",
			setup:   newBook,
			user:    owner,
			title:   " ",
			author:  "A",
			pages:   10,
			shared:  true,
			wantErr: book.ErrRequiredField,
		},
		{
			name:    "blank author",
			setup:   newBook,
			user:    owner,
			title:   "T",
			author:  "",
			pages:   10,
			shared:  true,
			wantErr: book.ErrRequiredField,
		},
		{
			name:    "zero pages",
			setup:   newBook,
			user:    owner,
			title:   "T",
			author:  "A",
			pages:   0,
			shared:  true,
			wantErr: book.ErrPagesOutOfRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.setup(t)
			snapshot := *b

			actual, err := b.Update(tc.user, tc.title, tc.author, tc.pages, tc.shared, []string{"new"})

			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, actual)
			if diff := cmp.Diff(&snapshot, b, cmpOpts...); diff != "" {
				t.Errorf("Book mutated on failure (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("keep sharing with active request", func(t *testing.T) {
		b := withWaitingRequest(t)

		updated, err := b.Update(owner, "T", "A", 10, true, nil)
		require.NoError(t, err)

		status, ok := updated.RequestStatus()
		require.True(t, ok)
		assert.Equal(t, book.StatusWaitingForAcceptance, status)
	})
}

func TestRequestNewLoan(t *testing.T) {
	t.Run("installs a waiting request", func(t *testing.T) {
		b := newBook(t)

		actual, err := b.RequestNewLoan(borrower, now)
		require.NoError(t, err)

		status, ok := actual.RequestStatus()
		require.True(t, ok)
		assert.Equal(t, book.StatusWaitingForAcceptance, status)

		lr := actual.LoanRequest()
		require.NotNil(t, lr)
		assert.NotEqual(t, uuid.Nil, lr.ID())
		assert.Equal(t, b.ID(), lr.BookID())
		assert.Equal(t, borrower, lr.RequestingUser())
		assert.Equal(t, now, lr.CreatedAt())
		assert.Empty(t, actual.ReleaseEvents())

		_, ok = b.RequestStatus()
		assert.False(t, ok, "original book must keep an empty slot")
	})

	cases := []struct {
		name    string
		setup   func(t *testing.T) *book.Book
		user    string
		wantErr error
	}{
		{
			name: "book not shared",
			setup: func(t *testing.T) *book.Book {
				b, err := builder.NewBookBuilder().AsNotShared().BuildDomain()
				require.NoError(t, err)
				return b
			},
			user:    borrower,
			wantErr: book.ErrBookNotShared,
		},
		{
			name:    "owner requests own book",
			setup:   newBook,
			user:    owner,
			wantErr: book.ErrOwnerCannotRequest,
		},
		{
			name:    "blank requesting user",
			setup:   newBook,
			user:    "  ",
			wantErr: book.ErrRequiredField,
		},
		{
			name:    "request already waiting",
			setup:   withWaitingRequest,
			user:    "carol",
			wantErr: book.ErrLoanRequestAlreadyExists,
		},
		{
			name:    "request already accepted",
			setup:   withAcceptedRequest,
			user:    "carol",
			wantErr: book.ErrLoanRequestAlreadyExists,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.setup(t)
			snapshot := *b

			actual, err := b.RequestNewLoan(tc.user, now)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, actual)
			if diff := cmp.Diff(&snapshot, b, cmpOpts...); diff != "" {
				t.Errorf("Book mutated on failure (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAcceptLoanRequest(t *testing.T) {
	t.Run("accepts and queues one event", func(t *testing.T) {
		b := withWaitingRequest(t)
		acceptedAt := now.Add(time.Hour)

		actual, err := b.AcceptLoanRequest(owner, acceptedAt)
		require.NoError(t, err)

		status, ok := actual.RequestStatus()
		require.True(t, ok)
		assert.Equal(t, book.StatusAccepted, status)

		events := actual.ReleaseEvents()
		require.Len(t, events, 1)
		want := book.NewLoanRequestAccepted(b.ID(), acceptedAt)
		if diff := cmp.Diff(book.Event(want), events[0], cmpOpts...); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, book.EventTypeLoanRequestAccepted, events[0].EventType())

		status, _ = b.RequestStatus()
		assert.Equal(t, book.StatusWaitingForAcceptance, status, "original request must stay waiting")
		assert.Equal(t, 0, b.PendingEvents())
	})

	cases := []struct {
		name    string
		setup   func(t *testing.T) *book.Book
		user    string
		wantErr error
	}{
		{name: "non-owner", setup: withWaitingRequest, user: borrower, wantErr: book.ErrNotBookOwner},
		{name: "no request", setup: newBook, user: owner, wantErr: book.ErrNoActiveRequest},
		{name: "already accepted", setup: withAcceptedRequest, user: owner, wantErr: book.ErrRequestAlreadyAccepted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.setup(t)
			snapshot := *b

			actual, err := b.AcceptLoanRequest(tc.user, now)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, actual)
			if diff := cmp.Diff(&snapshot, b, cmpOpts...); diff != "" {
				t.Errorf("Book mutated on failure (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRefuseLoanRequest(t *testing.T) {
	t.Run("clears a waiting request", func(t *testing.T) {
		b := withWaitingRequest(t)

		actual, err := b.RefuseLoanRequest(owner)
		require.NoError(t, err)

		_, ok := actual.RequestStatus()
		assert.False(t, ok)
		assert.Nil(t, actual.LoanRequest())
		assert.Empty(t, actual.ReleaseEvents())
	})

	t.Run("clears an accepted request", func(t *testing.T) {
		b := withAcceptedRequest(t)

		actual, err := b.RefuseLoanRequest(owner)
		require.NoError(t, err)

		_, ok := actual.RequestStatus()
		assert.False(t, ok)

		again, err := actual.RequestNewLoan("carol", now)
		require.NoError(t, err, "slot must be free again")
		assert.Equal(t, "carol", again.LoanRequest().RequestingUser())
	})

	cases := []struct {
		name    string
		setup   func(t *testing.T) *book.Book
		user    string
		wantErr error
	}{
		{name: "non-owner", setup: withWaitingRequest, user: borrower, wantErr: book.ErrNotBookOwner},
		{name: "no request", setup: newBook, user: owner, wantErr: book.ErrNoActiveRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.setup(t)
			snapshot := *b

			actual, err := b.RefuseLoanRequest(tc.user)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, actual)
			if diff := cmp.Diff(&snapshot, b, cmpOpts...); diff != "" {
				t.Errorf("Book mutated on failure (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReleaseEvents(t *testing.T) {
	b := withWaitingRequest(t)
	accepted, err := b.AcceptLoanRequest(owner, now)
	require.NoError(t, err)

	first := accepted.ReleaseEvents()
	second := accepted.ReleaseEvents()

	assert.Len(t, first, 1)
	assert.NotNil(t, second)
	assert.Empty(t, second)
	assert.Equal(t, 0, accepted.PendingEvents())
}

func TestScenarios(t *testing.T) {
	id := uuid.New()

	t.Run("request then accept", func(t *testing.T) {
		b, err := book.New(id, "alice", "T", "A", 50, true, []string{"x"}, now)
		require.NoError(t, err)

		b, err = b.RequestNewLoan("bob", now)
		require.NoError(t, err)
		status, _ := b.RequestStatus()
		assert.Equal(t, book.StatusWaitingForAcceptance, status)

		b, err = b.AcceptLoanRequest("alice", now)
		require.NoError(t, err)
		status, _ = b.RequestStatus()
		assert.Equal(t, book.StatusAccepted, status)

		events := b.ReleaseEvents()
		require.Len(t, events, 1)
		assert.Equal(t, id, events[0].BookID())
	})

	t.Run("owner requests own book", func(t *testing.T) {
		b, err := book.New(id, "alice", "T", "A", 50, true, []string{"x"}, now)
		require.NoError(t, err)

		_, err = b.RequestNewLoan("alice", now)
		require.ErrorIs(t, err, book.ErrOwnerCannotRequest)

		_, ok := b.RequestStatus()
		assert.False(t, ok)
	})
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want book.ErrorCode
	}{
		{book.ErrInvalidBookID, book.CodeInvalidIdentity},
		{book.ErrRequiredField, book.CodeRequiredFieldMissing},
		{book.ErrPagesOutOfRange, book.CodePagesOutOfRange},
		{book.ErrNotBookOwner, book.CodeNotBookOwner},
		{book.ErrRemoveSharingWithActiveRequest, book.CodeRemoveSharingWithActiveRequest},
		{book.ErrBookNotShared, book.CodeBookNotShared},
		{book.ErrOwnerCannotRequest, book.CodeOwnerCannotSelfRequest},
		{book.ErrNoActiveRequest, book.CodeNoActiveRequest},
		{book.ErrRequestAlreadyAccepted, book.CodeRequestAlreadyAccepted},
		{book.ErrLoanRequestAlreadyExists, book.CodeLoanRequestAlreadyExists},
	}
	for _, tc := range cases {
		t.Run(string(tc.want), func(t *testing.T) {
			code, ok := book.CodeOf(tc.err)
			require.True(t, ok)
			assert.Equal(t, tc.want, code)
		})
	}

	t.Run("unknown error", func(t *testing.T) {
		_, ok := book.CodeOf(assert.AnError)
		assert.False(t, ok)
	})

	t.Run("validation classification", func(t *testing.T) {
		assert.True(t, book.IsValidationError(book.ErrPagesOutOfRange))
		assert.False(t, book.IsValidationError(book.ErrNotBookOwner))
		assert.False(t, book.IsValidationError(nil))
	})
}

func newBook(t *testing.T) *book.Book {
	t.Helper()
	b, err := builder.NewBookBuilder().WithOwner(owner).AsShared().BuildDomain()
	require.NoError(t, err)
	return b
}

func withWaitingRequest(t *testing.T) *book.Book {
	t.Helper()
	b, err := newBook(t).RequestNewLoan(borrower, now)
	require.NoError(t, err)
	return b
}

func withAcceptedRequest(t *testing.T) *book.Book {
	t.Helper()
	b, err := withWaitingRequest(t).AcceptLoanRequest(owner, now)
	require.NoError(t, err)
	b.ReleaseEvents()
	return b
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewBookBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
