package memory

import (
	"context"
	"time"

	"sharebook/internal/infra"
	"sharebook/internal/infra/outbox"

	"github.com/google/uuid"
)

// OutboxStore serves the relay from the in-memory outbox.
type OutboxStore struct {
	store *Store
}

func NewOutboxStore(store *Store) *OutboxStore {
	return &OutboxStore{store: store}
}

func (s *OutboxStore) FetchPending(_ context.Context, limit int) ([]outbox.Message, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	pending := make([]outbox.Message, 0, limit)
	for _, rec := range s.store.outbox {
		if len(pending) == limit {
			break
		}
		if rec.publishedAt == nil {
			pending = append(pending, rec.message)
		}
	}
	return pending, nil
}

func (s *OutboxStore) MarkPublished(_ context.Context, id uuid.UUID, at time.Time) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i := range s.store.outbox {
		if s.store.outbox[i].message.ID == id {
			s.store.outbox[i].publishedAt = &at
			return nil
		}
	}
	return infra.WrapRepoErr(infra.KindNotFound, "outbox event not found", nil)
}

// Published returns the messages already handed to the publisher, oldest first.
func (s *OutboxStore) Published() []outbox.Message {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	var out []outbox.Message
	for _, rec := range s.store.outbox {
		if rec.publishedAt != nil {
			out = append(out, rec.message)
		}
	}
	return out
}
