package engine

import (
	"time"

	"relation-matcher/core/cache"
	"relation-matcher/core/pool"
)

// MatchConfig holds the defaults applied to every builder created by an Engine.
type MatchConfig struct {
	// MaxBatchSize splits batch queries into pages. Zero disables paging.
	MaxBatchSize int `mapstructure:"max_batch_size" default:"0"`
	// Parallel fans pages and single queries out over the pool.
	Parallel bool `mapstructure:"parallel" default:"true"`
	// Retries is the number of additional query attempts.
	Retries int `mapstructure:"retries" default:"0"`
	// RetryIntervalMs is the wait between attempts in milliseconds.
	RetryIntervalMs int `mapstructure:"retry_interval_ms" default:"0"`
}

// RetryInterval returns RetryIntervalMs as a duration.
func (c MatchConfig) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalMs) * time.Millisecond
}

// Config holds the configuration of the shared matching resources.
type Config struct {
	Pool  pool.Config  `mapstructure:"pool"`
	Cache cache.Config `mapstructure:"cache"`
	Match MatchConfig  `mapstructure:"match"`
}
