package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// scanCount is the COUNT hint used when scanning for namespace hashes.
const scanCount = 100

// ErrUnscopedClearAll is returned by ClearAll on a Redis store without a prefix.
var ErrUnscopedClearAll = errors.New("refusing to clear a redis cache without a key prefix")

// Encoded is a JSON-encoded value returned by stores that serialize values.
type Encoded []byte

// Redis is a Store backed by one Redis hash per namespace.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a store using client. Every hash key starts with prefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) hashKey(name string) string {
	if r.prefix == "" {
		return name
	}
	return r.prefix + ":" + name
}

func field(key any) string {
	return fmt.Sprint(key)
}

func (r *Redis) Get(ctx context.Context, name string, key any) (any, bool, error) {
	b, err := r.client.HGet(ctx, r.hashKey(name), field(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry %s/%v: %w", name, key, err)
	}
	return Encoded(b), true, nil
}

func (r *Redis) Set(ctx context.Context, name string, key, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s/%v: %w", name, key, err)
	}
	if err := r.client.HSet(ctx, r.hashKey(name), field(key), b).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry %s/%v: %w", name, key, err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, r.hashKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to clear cache namespace %s: %w", name, err)
	}
	return nil
}

// ClearAll deletes every namespace hash under the prefix. A store without a
// prefix cannot tell its hashes from other keys and refuses.
func (r *Redis) ClearAll(ctx context.Context) error {
	if r.prefix == "" {
		return ErrUnscopedClearAll
	}
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+":*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache namespaces: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear cache namespaces: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
