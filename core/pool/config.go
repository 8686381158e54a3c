package pool

import "runtime"

const (
	// DefaultQueueSize is the queue depth used when none is configured.
	DefaultQueueSize = 1024
	// DefaultName is the worker label prefix used when none is configured.
	DefaultName = "relation-matcher-query-pool"
)

// Config holds configuration for the worker pool.
type Config struct {
	// Workers is the number of worker goroutines. Zero uses GOMAXPROCS.
	Workers int `mapstructure:"workers" default:"0"`
	// QueueSize is the number of tasks that may wait for a worker.
	QueueSize int `mapstructure:"queue_size" default:"1024"`
	// Name prefixes the pprof label of every worker.
	Name string `mapstructure:"name" default:"relation-matcher-query-pool"`
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.QueueSize < 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.Name == "" {
		c.Name = DefaultName
	}
	return c
}
