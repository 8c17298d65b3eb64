//go:build unit || e2e

package builder

import (
	"time"

	"sharebook/internal/domain/book"
	reqdto "sharebook/internal/handler/dto/request"
	"sharebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookBuilder struct {
	ID            uuid.UUID
	Owner         string
	Title         string
	Author        string
	Pages         int
	SharedByOwner bool
	Labels        []string
	CreatedAt     time.Time
}

func NewBookBuilder() *BookBuilder {
	return &BookBuilder{
		ID:            uuid.New(),
		Owner:         "alice",
		Title:         "The Go Programming Language",
		Author:        "Alan Donovan",
		Pages:         380,
		SharedByOwner: true,
		Labels:        []string{"go", "programming"},
		CreatedAt:     time.Now(),
	}
}

func (b *BookBuilder) With(mutate func(*BookBuilder)) *BookBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookBuilder) BuildDomain() (*book.Book, error) {
	return book.New(b.ID, b.Owner, b.Title, b.Author, b.Pages, b.SharedByOwner, b.Labels, b.CreatedAt)
}

func (b *BookBuilder) BuildCreateRequestDTO() reqdto.CreateBookRequest {
	id := b.ID
	return reqdto.CreateBookRequest{
		ID:            &id,
		Title:         b.Title,
		Author:        b.Author,
		Pages:         b.Pages,
		SharedByOwner: b.SharedByOwner,
		Labels:        append([]string(nil), b.Labels...),
	}
}

func (b *BookBuilder) BuildUpdateRequestDTO() reqdto.UpdateBookRequest {
	title := b.Title
	author := b.Author
	pages := b.Pages
	shared := b.SharedByOwner
	labels := append([]string(nil), b.Labels...)
	return reqdto.UpdateBookRequest{
		Title:         &title,
		Author:        &author,
		Pages:         &pages,
		SharedByOwner: &shared,
		Labels:        &labels,
	}
}

func (b *BookBuilder) BuildView() *queries.BookView {
	return &queries.BookView{
		ID:            b.ID,
		Owner:         b.Owner,
		Title:         b.Title,
		Author:        b.Author,
		Pages:         b.Pages,
		Labels:        append([]string(nil), b.Labels...),
		SharedByOwner: b.SharedByOwner,
		CreatedAt:     b.CreatedAt,
	}
}

func (b *BookBuilder) BuildViewWithLoanRequest(requestingUser string, status book.LoanRequestStatus) *queries.BookView {
	v := b.BuildView()
	v.LoanRequest = &queries.LoanRequestView{
		ID:             uuid.New(),
		RequestingUser: requestingUser,
		Status:         status.String(),
		CreatedAt:      b.CreatedAt,
	}
	return v
}

func (b *BookBuilder) BuildListItem() *queries.BookListItem {
	return &queries.BookListItem{
		ID:            b.ID,
		Owner:         b.Owner,
		Title:         b.Title,
		Author:        b.Author,
		SharedByOwner: b.SharedByOwner,
		CreatedAt:     b.CreatedAt,
	}
}

// Fluent builder methods
func (b *BookBuilder) WithID(id uuid.UUID) *BookBuilder {
	b.ID = id
	return b
}

func (b *BookBuilder) WithOwner(owner string) *BookBuilder {
	b.Owner = owner
	return b
}

func (b *BookBuilder) WithTitle(title string) *BookBuilder {
	b.Title = title
	return b
}

func (b *BookBuilder) WithAuthor(author string) *BookBuilder {
	b.Author = author
	return b
}

func (b *BookBuilder) WithPages(pages int) *BookBuilder {
	b.Pages = pages
	return b
}

func (b *BookBuilder) WithLabels(labels ...string) *BookBuilder {
	b.Labels = labels
	return b
}

func (b *BookBuilder) WithCreatedAt(createdAt time.Time) *BookBuilder {
	b.CreatedAt = createdAt
	return b
}

func (b *BookBuilder) AsShared() *BookBuilder {
	b.SharedByOwner = true
	return b
}

func (b *BookBuilder) AsNotShared() *BookBuilder {
	b.SharedByOwner = false
	return b
}
