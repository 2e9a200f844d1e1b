package app

import (
	"context"
	"evacuation-planner-service/internal/adapters/memory"
	"evacuation-planner-service/internal/adapters/postgres"
	"evacuation-planner-service/internal/adapters/redis"
	"evacuation-planner-service/internal/config"
	"evacuation-planner-service/internal/platform/db"
	"evacuation-planner-service/internal/platform/kv"
	"evacuation-planner-service/internal/ports"
	"fmt"
)

// Store is an opened storage backend.
type Store struct {
	ports.EvacuationStore

	// Ping reports whether the backend is reachable.
	Ping  func(ctx context.Context) error
	Close func() error
}

// OpenStore connects the backend selected by cfg.Store. The Postgres schema is
// created if it does not exist yet.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		rdb, err := kv.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &Store{
			EvacuationStore: redis.NewStore(rdb),
			Ping:            func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			Close:           rdb.Close,
		}, nil

	case config.StorePostgres:
		sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		if err := postgres.InitSchema(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &Store{
			EvacuationStore: postgres.NewStore(sqlDB),
			Ping:            sqlDB.PingContext,
			Close:           sqlDB.Close,
		}, nil

	case config.StoreMemory:
		return &Store{
			EvacuationStore: memory.NewStore(),
			Close:           func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("open store: unknown backend %q", cfg.Store)
	}
}
