package cache

import (
	"github.com/masgolf/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Open returns a Redis-backed store, or an in-memory one when Redis is not
// configured or unreachable. The returned client is nil in the fallback case.
func Open(cfg config.RedisConfig, logger *zap.Logger) (Store, *redis.Client) {
	if cfg.Host == "" {
		logger.Info("Redis not configured, using in-memory cache")
		return NewMemoryStore(), nil
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache. "+
			"Session revocations and scheduler locks will not be shared between instances.",
			zap.Error(err),
		)
		return NewMemoryStore(), nil
	}

	logger.Info("using Redis cache", zap.String("addr", cfg.Addr()))
	return NewRedisStore(client, ""), client
}
