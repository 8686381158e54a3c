package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store is a namespaced key/value cache shared by matchers.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key in namespace.
	// The boolean is false when nothing is stored.
	Get(ctx context.Context, namespace string, key any) (any, bool, error)
	// Set stores value under key in namespace.
	Set(ctx context.Context, namespace string, key, value any) error
	// Clear removes every entry of namespace.
	Clear(ctx context.Context, namespace string) error
	// ClearAll removes every entry of every namespace.
	ClearAll(ctx context.Context) error
}

// New creates the store selected by cfg.Backend.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendRedis:
		if cfg.Prefix == "" {
			return nil, fmt.Errorf("redis cache backend requires a key prefix")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedis(client, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
