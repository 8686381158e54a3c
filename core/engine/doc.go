// Package engine owns the process-wide resources of relation matching: the
// cache store shared by every matcher and the worker pool that runs parallel
// query attempts.
//
// Builders obtained through NewBuilder or Cached are pre-wired with the pool,
// the logger and the configured match defaults.
//
//	eng, err := engine.New(cfg.Engine(), log)
//	if err != nil {
//	    return err
//	}
//	defer eng.Shutdown(ctx)
//
//	m, err := engine.Cached[*Comment, int64, *Article, int64](eng, "articles").
//	    Elements(comments).
//	    ...
//	    Build()
package engine
