package repository

import (
	"context"
	"time"

	"sharebook/internal/domain/book"
	"sharebook/internal/infra"
	"sharebook/internal/infra/db"
	"sharebook/internal/infra/outbox"
	"sharebook/internal/pkg/pgconv"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// OutboxRepository writes events inside the command transaction and serves
// the relay from the pool.
type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(db db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Append(ctx context.Context, events []book.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs, err := outbox.EncodeEvents(events)
	if err != nil {
		return infra.WrapRepoErr(infra.KindEncoding, "failed to encode outbox events", err)
	}

	rows := make([]any, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, goqu.Record{
			colID:          m.ID,
			colEventType:   m.EventType,
			colAggregateID: m.AggregateID,
			colPayload:     []byte(m.Payload),
			colOccurredAt:  m.OccurredAt,
		})
	}

	// rows keep slice order, so seq follows drain order
	query, args, err := dialect.Insert(tableOutboxEvents).Rows(rows...).Prepared(true).ToSQL()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build outbox insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert outbox events", err)
	}
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Message, error) {
	query, args, err := dialect.
		From(tableOutboxEvents).
		Select(colID, colEventType, colAggregateID, colPayload, colOccurredAt).
		Where(goqu.C(colPublishedAt).IsNull()).
		Order(goqu.C(colSeq).Asc()).
		Limit(uint(limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to build outbox select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query outbox", err)
	}

	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (outbox.Message, error) {
		var (
			m          outbox.Message
			payload    []byte
			occurredAt pgtype.Timestamptz
		)
		if err := row.Scan(&m.ID, &m.EventType, &m.AggregateID, &payload, &occurredAt); err != nil {
			return outbox.Message{}, err
		}
		m.Payload = payload
		m.OccurredAt = pgconv.TimeFromPgtype(occurredAt)
		return m, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan outbox rows", err)
	}
	return msgs, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	query, args, err := dialect.
		Update(tableOutboxEvents).
		Set(goqu.Record{colPublishedAt: at}).
		Where(goqu.Ex{colID: id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to build outbox update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to mark outbox event published", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "outbox event not found", nil)
	}
	return nil
}
