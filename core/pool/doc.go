// Package pool provides the bounded worker pool used for parallel queries.
//
// The pool runs a fixed number of workers fed by a bounded queue. When the
// queue is full, or once the pool has been shut down, Submit runs the task on
// the calling goroutine instead of queuing it. Load therefore never grows the
// queue beyond its configured depth and a submitted task always runs.
//
// Worker goroutines carry a pprof label (pool=<name>-<n>) so they can be told
// apart in goroutine profiles.
//
// # Usage
//
//	p := pool.New(pool.Config{Workers: 8, QueueSize: 1024}, logger)
//	defer p.Shutdown()
//	p.Submit(func() { ... })
package pool
