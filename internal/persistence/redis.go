package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/config"
)

// Redis wraps the go-redis client. Besides readiness probing it backs the
// public profile cache.
type Redis struct {
	Client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	ttl := cfg.ProfileCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{Client: client, ttl: ttl}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// GetCached returns the cached payload for key, or redis.Nil when absent.
func (r *Redis) GetCached(ctx context.Context, key string) ([]byte, error) {
	if r == nil || r.Client == nil {
		return nil, redis.Nil
	}
	return r.Client.Get(ctx, key).Bytes()
}

// SetCached stores a payload under key with the configured TTL.
func (r *Redis) SetCached(ctx context.Context, key string, payload []byte) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Set(ctx, key, payload, r.ttl).Err()
}

// Invalidate removes a cached key.
func (r *Redis) Invalidate(ctx context.Context, key string) error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Del(ctx, key).Err()
}
