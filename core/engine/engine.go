package engine

import (
	"context"
	"fmt"
	"sync"

	"relation-matcher/core/cache"
	"relation-matcher/core/matcher"
	"relation-matcher/core/pool"

	"go.uber.org/zap"
)

// Engine owns the resources shared by matchers: the cache store and the
// query worker pool.
type Engine struct {
	cfg   Config
	log   *zap.Logger
	store cache.Store
	pool  *pool.Pool

	shutdown sync.Once
	err      error
}

// New creates an engine from cfg. A nil log discards output.
func New(cfg Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}
	return NewWithStore(cfg, store, log), nil
}

// NewWithStore creates an engine around an existing cache store.
func NewWithStore(cfg Config, store cache.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	p := pool.New(cfg.Pool, log)
	log.Info("Engine started",
		zap.Int("workers", p.Workers()),
		zap.String("cache_backend", backendName(cfg.Cache.Backend)))
	return &Engine{cfg: cfg, log: log, store: store, pool: p}
}

func backendName(b string) string {
	if b == "" {
		return cache.BackendMemory
	}
	return b
}

// Cache returns the shared cache store.
func (e *Engine) Cache() cache.Store {
	return e.store
}

// Pool returns the shared query pool.
func (e *Engine) Pool() *pool.Pool {
	return e.pool
}

// Logger returns the engine logger.
func (e *Engine) Logger() *zap.Logger {
	return e.log
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// ClearCache removes every entry of namespace.
func (e *Engine) ClearCache(ctx context.Context, namespace string) error {
	if err := e.store.Clear(ctx, namespace); err != nil {
		return fmt.Errorf("failed to clear cache namespace %s: %w", namespace, err)
	}
	e.log.Debug("Cache namespace cleared", zap.String("namespace", namespace))
	return nil
}

// ClearAllCaches removes every cached entry.
func (e *Engine) ClearAllCaches(ctx context.Context) error {
	if err := e.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear caches: %w", err)
	}
	e.log.Debug("All cache namespaces cleared")
	return nil
}

// Shutdown purges the cache and stops the pool. Tasks submitted afterwards run
// on the caller. Workers are awaited until ctx is done; a worker stuck in a
// query is left behind. Only the first call has an effect.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.shutdown.Do(func() {
		e.err = e.ClearAllCaches(ctx)
		e.pool.Shutdown()
		e.awaitWorkers(ctx)
		if c, ok := e.store.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil && e.err == nil {
				e.err = fmt.Errorf("failed to close cache store: %w", err)
			}
		}
		e.log.Info("Engine stopped", zap.Int64("inline_runs", e.pool.InlineRuns()))
	})
	return e.err
}

func (e *Engine) awaitWorkers(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		e.pool.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		e.log.Warn("Pool workers still busy at shutdown", zap.Error(ctx.Err()))
	}
}

// NewBuilder returns a matcher builder wired to the engine pool and logger,
// with the engine's match defaults applied.
func NewBuilder[E comparable, I comparable, D any, K comparable](e *Engine) *matcher.Builder[E, I, D, K] {
	m := e.cfg.Match
	return matcher.NewBuilder[E, I, D, K]().
		Executor(e.pool).
		Logger(e.log).
		Parallel(m.Parallel).
		MaxBatchSize(m.MaxBatchSize).
		Retry(m.Retries, m.RetryInterval())
}

// Cached is NewBuilder with the engine cache enabled under namespace.
func Cached[E comparable, I comparable, D any, K comparable](e *Engine, namespace string) *matcher.Builder[E, I, D, K] {
	return NewBuilder[E, I, D, K](e).Cache(e.store, namespace)
}
