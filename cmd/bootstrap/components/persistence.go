package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sharebook/internal/infra/db"
	"sharebook/internal/infra/memory"
	"sharebook/internal/infra/outbox"
	"sharebook/internal/infra/readstore"
	"sharebook/internal/infra/repository"
	"sharebook/internal/infra/uow"
	"sharebook/internal/pkg/config"
	"sharebook/internal/usecase/queries"
	"sharebook/internal/usecase/shared"
	"sharebook/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
	),
)

// Persistence is the storage backend shared by the write side, the read side and the outbox relay.
type Persistence struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	ReadStore  queries.BookReadStore
	Outbox     outbox.Store
}

func NewPersistence(lc fx.Lifecycle, cfg config.Config) (Persistence, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		return MemoryPersistence(memory.NewStore()), nil
	case config.StorageDriverPostgres:
		pool, err := NewDB(lc, cfg)
		if err != nil {
			return Persistence{}, err
		}
		return PostgresPersistence(pool), nil
	default:
		return Persistence{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func PostgresPersistence(pool *pgxpool.Pool) Persistence {
	return Persistence{
		UnitOfWork: uow.NewPostgresUoW(pool),
		ReadStore:  readstore.NewBookReadStore(pool),
		Outbox:     repository.NewOutboxRepository(pool),
	}
}

func MemoryPersistence(store *memory.Store) Persistence {
	return Persistence{
		UnitOfWork: memory.NewUnitOfWork(store),
		ReadStore:  memory.NewBookReadStore(store),
		Outbox:     memory.NewOutboxStore(store),
	}
}

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
			cleanup()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return pool, nil
}
