package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sharebook/internal/infra/outbox"
	"sharebook/internal/pkg/config"

	goredis "github.com/redis/go-redis/v9"
)

// RedisPublisher fans outbox messages out over Redis pub/sub.
type RedisPublisher struct {
	rdb     goredis.UniversalClient
	channel string
}

func NewRedisClient(cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisPublisher(rdb goredis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, msg outbox.Message) error {
	raw, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("marshal outbox message: %w", err)
	}
	receivers, err := p.rdb.Publish(ctx, p.channel, raw).Result()
	if err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	slog.DebugContext(ctx, "event published",
		"channel", p.channel,
		"outbox_id", msg.ID,
		"receivers", receivers)
	return nil
}
