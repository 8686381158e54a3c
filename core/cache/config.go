package cache

const (
	// BackendMemory selects the in-process store.
	BackendMemory = "memory"
	// BackendRedis selects the Redis store.
	BackendRedis = "redis"
)

// Config holds configuration for the cache store.
type Config struct {
	// Backend is the store implementation (memory, redis).
	Backend string `mapstructure:"backend" default:"memory"`
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword is the Redis password.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the Redis database number.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// Prefix is prepended to every Redis key.
	Prefix string `mapstructure:"prefix" default:"relation-matcher"`
}

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendMemory, BackendRedis:
		return true
	default:
		return false
	}
}
