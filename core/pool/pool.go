package pool

import (
	"context"
	"fmt"
	"runtime/pprof"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pool is a fixed-size worker pool with caller-runs overflow.
type Pool struct {
	cfg   Config
	log   *zap.Logger
	tasks chan func()

	mu      sync.RWMutex
	stopped bool

	inline atomic.Int64
	wg     sync.WaitGroup
}

// New starts a pool. A nil logger discards output.
func New(cfg Config, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	p := &Pool{
		cfg:   cfg,
		log:   log.With(zap.String("pool", cfg.Name)),
		tasks: make(chan func(), cfg.QueueSize),
	}

	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		labels := pprof.Labels("pool", fmt.Sprintf("%s-%d", cfg.Name, i))
		go pprof.Do(context.Background(), labels, func(context.Context) {
			defer p.wg.Done()
			for task := range p.tasks {
				p.run(task)
			}
		})
	}
	return p
}

// Submit queues task for a worker. When the queue is full or the pool has been
// shut down, task runs on the calling goroutine before Submit returns.
func (p *Pool) Submit(task func()) {
	p.mu.RLock()
	if !p.stopped {
		select {
		case p.tasks <- task:
			p.mu.RUnlock()
			return
		default:
		}
	}
	p.mu.RUnlock()

	p.inline.Add(1)
	p.run(task)
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Pool task panicked", zap.Any("panic", r))
		}
	}()
	task()
}

// Shutdown stops accepting queued work. Tasks already queued still run.
// It is safe to call more than once and does not wait for the workers.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	close(p.tasks)
	p.log.Debug("Pool stopped")
}

// Wait blocks until every worker has exited. Call it after Shutdown.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.cfg.Workers
}

// InlineRuns returns how many tasks ran on the submitting goroutine.
func (p *Pool) InlineRuns() int64 {
	return p.inline.Load()
}
