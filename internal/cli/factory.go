package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/presets"
	"github.com/aretw0/arbor/pkg/service"
)

// NewGenerator builds the generation service described by cfg. Results
// go to Redis, behind an in-memory tier, when cfg.Redis.Addr is set and
// stay in memory otherwise.
// The returned close function releases the store connection.
func NewGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) (*service.Generator, func() error, error) {
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMaxIterations(cfg.Generation.MaxIterations),
		service.WithLockTTL(cfg.Generation.LockTTL),
	}
	if metrics != nil {
		opts = append(opts, service.WithMetrics(metrics))
	}

	closer := func() error { return nil }
	if cfg.Redis.Addr != "" {
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("using redis result store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)

		opts = append(opts,
			service.WithStore(middleware.Chain(store, middleware.NewTieredMiddleware(memory.NewStore(), logger))),
			service.WithLocker(redis.NewLocker(store.Client(), cfg.Redis.Prefix)),
		)
		closer = store.Close
	}

	return service.NewGenerator(presets.Default(), opts...), closer, nil
}
