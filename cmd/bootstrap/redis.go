package bootstrap

import (
	"context"

	"studio-booking/internal/infra/cache"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewAvailabilityCache,
	),
)

// NewAvailabilityCache returns a nil cache when Redis is not configured;
// the availability queries and commands treat that as cache-off.
func NewAvailabilityCache(lc fx.Lifecycle, cfg config.Config) queries.AvailabilityCache {
	if !cfg.Redis.Enabled() {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return cache.NewAvailabilityCache(client, cfg.Redis.TTL)
}
