package outbox

import (
	"time"

	"sharebook/internal/domain/book"
	"sharebook/internal/pkg/errs"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// Message is one stored domain event awaiting publication.
type Message struct {
	ID          uuid.UUID           `json:"id"`
	EventType   string              `json:"event_type"`
	AggregateID uuid.UUID           `json:"aggregate_id"`
	Payload     jsoniter.RawMessage `json:"payload"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

type eventPayload struct {
	BookID     uuid.UUID `json:"book_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EncodeEvent turns a drained book event into an outbox message with a fresh id.
func EncodeEvent(evt book.Event) (Message, error) {
	payload, err := jsoniter.ConfigFastest.Marshal(eventPayload{
		BookID:     evt.BookID(),
		OccurredAt: evt.OccurredAt().UTC(),
	})
	if err != nil {
		return Message{}, errs.Mark(errs.Wrapf(err, "encode %s", evt.EventType()), errs.ErrEventEncodingFailed)
	}

	return Message{
		ID:          uuid.New(),
		EventType:   evt.EventType(),
		AggregateID: evt.BookID(),
		Payload:     payload,
		OccurredAt:  evt.OccurredAt(),
	}, nil
}

func EncodeEvents(events []book.Event) ([]Message, error) {
	msgs := make([]Message, 0, len(events))
	for _, evt := range events {
		msg, err := EncodeEvent(evt)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Marshal renders the message as the JSON document sent to subscribers.
func (m Message) Marshal() ([]byte, error) {
	return jsoniter.ConfigFastest.Marshal(m)
}
