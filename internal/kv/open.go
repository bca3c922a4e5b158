package kv

import (
	"context"
	"fmt"

	"veostudio/internal/infra"
)

// Open builds the store selected by cfg.KVBackend. The returned close func
// releases any pool or connection and is always safe to call.
func Open(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (Store, func(), error) {
	noop := func() {}
	if cfg == nil {
		return nil, noop, fmt.Errorf("kv: config is required")
	}
	if logger == nil {
		logger = infra.NopLogger()
	}
	switch cfg.KVBackend {
	case infra.KVBackendMemory:
		logger.Debug().Msg("kv: using in-memory store")
		return NewMemory(), noop, nil
	case infra.KVBackendPostgres:
		pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		store := NewPostgres(infra.NewSQLRunner(pool, *logger))
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		logger.Debug().Msg("kv: using postgres store")
		return store, pool.Close, nil
	case infra.KVBackendRedis:
		store, err := NewRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, noop, err
		}
		logger.Debug().Str("addr", cfg.RedisAddr).Msg("kv: using redis store")
		return store, func() { _ = store.Close() }, nil
	case infra.KVBackendFile, "":
		store, err := NewFile(cfg.KVPath)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug().Str("path", cfg.KVPath).Msg("kv: using file store")
		return store, noop, nil
	default:
		return nil, noop, fmt.Errorf("kv: unknown backend %q", cfg.KVBackend)
	}
}
