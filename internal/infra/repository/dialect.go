package repository

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	jsoniter "github.com/json-iterator/go"
)

const (
	tableBooks        = "books"
	tableLoanRequests = "loan_requests"
	tableOutboxEvents = "outbox_events"

	colID             = "id"
	colOwner          = "owner"
	colTitle          = "title"
	colAuthor         = "author"
	colPages          = "pages"
	colLabels         = "labels"
	colSharedByOwner  = "shared_by_owner"
	colCreatedAt      = "created_at"
	colUpdatedAt      = "updated_at"
	colVersion        = "version"
	colBookID         = "book_id"
	colRequestingUser = "requesting_user"
	colStatus         = "status"
	colSeq            = "seq"
	colEventType      = "event_type"
	colAggregateID    = "aggregate_id"
	colPayload        = "payload"
	colOccurredAt     = "occurred_at"
	colPublishedAt    = "published_at"
)

var dialect = goqu.Dialect("postgres")

func encodeLabels(labels []string) ([]byte, error) {
	if labels == nil {
		labels = []string{}
	}
	return jsoniter.ConfigFastest.Marshal(labels)
}

func decodeLabels(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var labels []string
	if err := jsoniter.ConfigFastest.Unmarshal(raw, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}
