package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sharebook/internal/pkg/clock"
	"sharebook/internal/pkg/config"

	"github.com/google/uuid"
)

type Store interface {
	// FetchPending returns unpublished messages oldest first.
	FetchPending(ctx context.Context, limit int) ([]Message, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Relay moves committed outbox messages to the publisher.
// Delivery is at least once: a crash between publish and mark republishes.
type Relay struct {
	store     Store
	publisher Publisher
	clock     clock.Clock
	interval  time.Duration
	batchSize int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRelay(store Store, publisher Publisher, clk clock.Clock, cfg config.OutboxConfig) *Relay {
	return &Relay{
		store:     store,
		publisher: publisher,
		clock:     clk,
		interval:  cfg.PollInterval,
		batchSize: cfg.BatchSize,
	}
}

// RunOnce publishes one batch in order and stops at the first failure, leaving
// the failed message and everything after it pending.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.store.FetchPending(ctx, r.batchSize)
	if err != nil {
		slog.ErrorContext(ctx, "outbox fetch failed", "error", err.Error())
		return 0, err
	}

	published := 0
	for _, msg := range pending {
		if err := r.publisher.Publish(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "outbox publish failed",
				"outbox_id", msg.ID,
				"event_type", msg.EventType,
				"error", err.Error())
			return published, err
		}
		if err := r.store.MarkPublished(ctx, msg.ID, r.clock.Now()); err != nil {
			slog.ErrorContext(ctx, "outbox mark published failed",
				"outbox_id", msg.ID,
				"error", err.Error())
			return published, err
		}
		published++
	}

	if published > 0 {
		slog.DebugContext(ctx, "outbox relay cycle completed", "published_count", published)
	}
	return published, nil
}

func (r *Relay) Start(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// errors are logged in RunOnce; the next tick retries
				_, _ = r.RunOnce(ctx)
			}
		}
	}()

	slog.Info("outbox relay started", "interval", r.interval, "batch_size", r.batchSize)
	return nil
}

func (r *Relay) Stop(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("outbox relay stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
