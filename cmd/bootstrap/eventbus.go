package bootstrap

import (
	"context"
	"log/slog"

	"sharebook/internal/infra/eventbus"
	"sharebook/internal/infra/outbox"
	"sharebook/internal/pkg/clock"
	"sharebook/internal/pkg/config"

	"go.uber.org/fx"
)

var EventBusModule = fx.Module("eventbus",
	fx.Provide(
		NewPublisher,
		NewRelay,
	),
	fx.Invoke(func(*outbox.Relay) {}),
)

// NewPublisher publishes to Redis when enabled and to the log otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config) (outbox.Publisher, error) {
	if !cfg.Redis.Enabled {
		slog.Info("redis disabled, outbox events go to the log")
		return outbox.NewLogPublisher(), nil
	}

	rdb, err := eventbus.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return eventbus.NewRedisPublisher(rdb, cfg.Redis.Channel), nil
}

func NewRelay(lc fx.Lifecycle, store outbox.Store, publisher outbox.Publisher, clk clock.Clock, cfg config.Config) *outbox.Relay {
	relay := outbox.NewRelay(store, publisher, clk, cfg.Outbox)
	lc.Append(fx.Hook{
		OnStart: relay.Start,
		OnStop:  relay.Stop,
	})
	return relay
}
