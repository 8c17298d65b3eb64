package response

import (
	"time"

	"sharebook/internal/usecase/commands"
	"sharebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type LoanRequestResponse struct {
	ID             string `json:"id"`
	RequestingUser string `json:"requesting_user"`
	Status         string `json:"status"`
	CreatedAt      int64  `json:"created_at"`
}

type BookResponse struct {
	ID            string               `json:"id"`
	Owner         string               `json:"owner"`
	Title         string               `json:"title"`
	Author        string               `json:"author"`
	Pages         int                  `json:"pages"`
	Labels        []string             `json:"labels"`
	SharedByOwner bool                 `json:"shared_by_owner"`
	CreatedAt     int64                `json:"created_at"`
	LoanRequest   *LoanRequestResponse `json:"loan_request,omitempty" copier:"-"`
}

type BookListItemResponse struct {
	ID                string  `json:"id"`
	Owner             string  `json:"owner"`
	Title             string  `json:"title"`
	Author            string  `json:"author"`
	SharedByOwner     bool    `json:"shared_by_owner"`
	LoanRequestStatus *string `json:"loan_request_status,omitempty"`
	CreatedAt         int64   `json:"created_at"`
}

type BookListResponse struct {
	Books      []*BookListItemResponse `json:"books"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

type LoanRequestStatusResponse struct {
	BookID string `json:"book_id"`
	Status string `json:"status"`
}

// uuid and time fields are flattened to their wire representation
var copyOption = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: uuid.UUID{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return src.(uuid.UUID).String(), nil
			},
		},
		{
			SrcType: time.Time{},
			DstType: int64(0),
			Fn: func(src any) (any, error) {
				return src.(time.Time).Unix(), nil
			},
		},
	},
}

func FromBookView(v *queries.BookView) (*BookResponse, error) {
	res := &BookResponse{}
	if err := copier.CopyWithOption(res, v, copyOption); err != nil {
		return nil, err
	}
	if res.Labels == nil {
		res.Labels = []string{}
	}
	if v.LoanRequest != nil {
		res.LoanRequest = &LoanRequestResponse{}
		if err := copier.CopyWithOption(res.LoanRequest, v.LoanRequest, copyOption); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func FromBookList(items []*queries.BookListItem, next *queries.Cursor) (*BookListResponse, error) {
	res := &BookListResponse{Books: make([]*BookListItemResponse, 0, len(items))}
	for _, it := range items {
		item := &BookListItemResponse{}
		if err := copier.CopyWithOption(item, it, copyOption); err != nil {
			return nil, err
		}
		res.Books = append(res.Books, item)
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res, nil
}

func FromLoanRequestResult(r *commands.LoanRequestResult) *LoanRequestStatusResponse {
	return &LoanRequestStatusResponse{
		BookID: r.BookID.String(),
		Status: r.Status.String(),
	}
}
