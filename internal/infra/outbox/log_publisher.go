package outbox

import (
	"context"
	"log/slog"
)

// LogPublisher writes messages to the log. Used when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "domain event",
		"outbox_id", msg.ID,
		"event_type", msg.EventType,
		"aggregate_id", msg.AggregateID,
		"payload", string(msg.Payload))
	return nil
}
