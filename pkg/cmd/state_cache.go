package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagecraft/pagecraft/pkg/statecache"
)

// NewStateCache returns a Redis-backed cache when redisURL is set and an in-process cache
// otherwise.
//
//nolint:ireturn // callers depend on the cache interface
func NewStateCache(ctx context.Context, logger *slog.Logger, redisURL string, ttl time.Duration) (statecache.Cache, error) {
	if redisURL == "" {
		logger.InfoContext(ctx, "Using in-memory OAuth state cache", "ttl", ttl)

		memory, err := statecache.NewMemoryCache(ttl)
		if err != nil {
			return nil, err
		}

		return memory, nil
	}

	logger.InfoContext(ctx, "Using Redis OAuth state cache", "ttl", ttl)

	redisCache, err := statecache.NewRedisCache(ctx, redisURL, ttl)
	if err != nil {
		return nil, err
	}

	return redisCache, nil
}
