// Package lock provides the per-order supplier sync lock and wires the
// Redis-backed coordination state, falling back to process memory when Redis
// is disabled or unreachable.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Backends are the coordination stores shared by the API
type Backends struct {
	Locker    integration.SyncLocker
	Blacklist auth.TokenBlacklist
	// Redis is nil when the in-memory fallback is in use
	Redis *redis.Client
}

// Close releases the Redis connection, if any
func (b *Backends) Close() error {
	if b.Redis == nil {
		return nil
	}
	return b.Redis.Close()
}

// Factory creates coordination backends based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	lockTTL               time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// in-memory stores instead of failing startup. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, lockTTL time.Duration, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		lockTTL:               lockTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens and pings a Redis client
func (f *Factory) Connect(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", f.redisConfig.Addr(), err)
	}
	return client, nil
}

// InMemory returns process-local backends.
// They do not coordinate across instances.
func (f *Factory) InMemory() *Backends {
	return &Backends{
		Locker:    NewMemoryLocker(f.lockTTL),
		Blacklist: auth.NewInMemoryTokenBlacklist(),
	}
}

// Build returns Redis-backed stores when Redis is enabled and reachable
func (f *Factory) Build(ctx context.Context) (*Backends, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory sync lock and token blacklist")
		return f.InMemory(), nil
	}

	client, err := f.Connect(ctx)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory sync lock and token blacklist. "+
			"Concurrent syncs of one order on different instances are not prevented.",
			zap.Error(err),
		)
		return f.InMemory(), nil
	}

	f.logger.Info("using Redis sync lock and token blacklist", zap.String("addr", f.redisConfig.Addr()))
	return &Backends{
		Locker:    NewRedisLocker(client, f.lockTTL),
		Blacklist: auth.NewRedisTokenBlacklist(client),
		Redis:     client,
	}, nil
}
