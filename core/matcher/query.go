package matcher

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// query fetches the data of the pending identifiers, retrying the whole set
// according to the retry policy.
func (m *Matcher[E, I, D, K]) query(ctx context.Context, ids []I) ([]D, error) {
	r := newRetrier(m.cfg.retry)
	for {
		data, err := m.attempt(ctx, ids)
		if err == nil {
			r.Succeed()
			m.listener.OnQuerySuccess(ids, r.Attempt(), data)
			return data, nil
		}

		m.listener.OnQueryFailure(ids, r.Attempt(), err)
		if r.Fail(err) == Exhausted {
			return nil, r.Err(len(ids))
		}
		if err := r.Wait(ctx); err != nil {
			return nil, r.Err(len(ids))
		}
	}
}

// attempt runs one query attempt over ids with the configured strategy.
func (m *Matcher[E, I, D, K]) attempt(ctx context.Context, ids []I) ([]D, error) {
	cfg := &m.cfg

	switch {
	case len(ids) == 1 && cfg.singleQuery != nil:
		m.log.Debug("Querying single identifier")
		return m.querySingle(ctx, ids[0])

	case cfg.batchQuery != nil:
		if cfg.maxBatchSize <= 0 || len(ids) <= cfg.maxBatchSize {
			m.log.Debug("Querying batch", zap.Int("identifiers", len(ids)))
			return cfg.batchQuery(ctx, ids)
		}
		pages := partition(ids, cfg.maxBatchSize)
		m.log.Debug("Querying pages",
			zap.Int("identifiers", len(ids)),
			zap.Int("pages", len(pages)),
			zap.Bool("parallel", cfg.parallel))
		return fanOut(ctx, cfg.executor, cfg.parallel, pages, func(ctx context.Context, page []I) ([]D, error) {
			return cfg.batchQuery(ctx, page)
		})

	default:
		m.log.Debug("Querying identifiers one by one",
			zap.Int("identifiers", len(ids)),
			zap.Bool("parallel", cfg.parallel))
		return fanOut(ctx, cfg.executor, cfg.parallel, ids, m.querySingle)
	}
}

// querySingle wraps the single query. ErrNotFound or a nil datum yields no datum.
func (m *Matcher[E, I, D, K]) querySingle(ctx context.Context, id I) ([]D, error) {
	d, err := m.cfg.singleQuery(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if isNil(d) {
		return nil, nil
	}
	return []D{d}, nil
}

// partition splits ids into consecutive pages of at most size identifiers.
// Pages are capped so that appending to one never overwrites the next.
func partition[I any](ids []I, size int) [][]I {
	pages := make([][]I, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		pages = append(pages, ids[start:end:end])
	}
	return pages
}

// fanOut runs fn over every task and concatenates the data in task order.
// The first error fails the whole call. Sequential runs stop at that error;
// parallel runs cancel the shared context and wait for the remaining tasks.
func fanOut[T, D any](ctx context.Context, exec Executor, parallel bool, tasks []T, fn func(context.Context, T) ([]D, error)) ([]D, error) {
	results := make([][]D, len(tasks))

	if !parallel || len(tasks) < 2 {
		for i, t := range tasks {
			d, err := fn(ctx, t)
			if err != nil {
				return nil, err
			}
			results[i] = d
		}
		return slices.Concat(results...), nil
	}

	if exec == nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, t := range tasks {
			g.Go(func() (err error) {
				defer recoverTask(&err)
				results[i], err = fn(gctx, t)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return slices.Concat(results...), nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, len(tasks))
	for i, t := range tasks {
		exec.Submit(func() {
			var err error
			defer func() { errc <- err }()
			defer recoverTask(&err)
			results[i], err = fn(ctx, t)
		})
	}

	var first error
	for range tasks {
		if err := <-errc; err != nil && first == nil {
			first = err
			cancel()
		}
	}
	if first != nil {
		return nil, first
	}
	return slices.Concat(results...), nil
}

func recoverTask(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("query panicked: %v", r)
	}
}
