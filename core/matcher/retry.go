package matcher

import (
	"context"
	"math"
	"time"
)

// BackoffFunc returns the wait before the given retry.
// The retry parameter is one-based (1 for the first retry).
type BackoffFunc func(retry int) time.Duration

// ConstantBackoff waits delay before every retry.
func ConstantBackoff(delay time.Duration) BackoffFunc {
	return func(int) time.Duration {
		return delay
	}
}

// ExponentialBackoff waits initial * factor^(retry-1), capped at max when max > 0.
func ExponentialBackoff(initial time.Duration, factor float64, max time.Duration) BackoffFunc {
	return func(retry int) time.Duration {
		d := time.Duration(float64(initial) * math.Pow(factor, float64(retry-1)))
		if max > 0 && d > max {
			d = max
		}
		return d
	}
}

// RetryPolicy describes how failed query attempts are repeated.
// The zero value makes a single attempt.
type RetryPolicy struct {
	// Retries is the number of additional attempts after the first one.
	// Negative values are treated as zero.
	Retries int

	// Interval is the fixed wait between attempts when Backoff is nil.
	// Negative values are treated as zero.
	Interval time.Duration

	// Backoff overrides Interval when set.
	Backoff BackoffFunc
}

func (p RetryPolicy) normalize() RetryPolicy {
	if p.Retries < 0 {
		p.Retries = 0
	}
	if p.Interval < 0 {
		p.Interval = 0
	}
	return p
}

// MaxAttempts returns the total number of attempts allowed.
func (p RetryPolicy) MaxAttempts() int {
	return p.normalize().Retries + 1
}

func (p RetryPolicy) delay(retry int) time.Duration {
	if p.Backoff != nil {
		if d := p.Backoff(retry); d > 0 {
			return d
		}
		return 0
	}
	return p.Interval
}

// RetryState is the state of one query phase.
type RetryState int

const (
	// Attempting means an attempt is in flight.
	Attempting RetryState = iota
	// Retrying means the last attempt failed and another one is allowed.
	Retrying
	// Exhausted means every allowed attempt failed.
	Exhausted
	// Succeeded means the last attempt returned data.
	Succeeded
)

func (s RetryState) String() string {
	switch s {
	case Attempting:
		return "attempting"
	case Retrying:
		return "retrying"
	case Exhausted:
		return "exhausted"
	case Succeeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// retrier walks one query phase through Attempting, Retrying, Exhausted and
// Succeeded.
type retrier struct {
	policy  RetryPolicy
	state   RetryState
	attempt int
	last    error
}

func newRetrier(p RetryPolicy) *retrier {
	return &retrier{policy: p.normalize(), state: Attempting}
}

// Attempt returns the zero-based index of the current attempt.
func (r *retrier) Attempt() int {
	return r.attempt
}

func (r *retrier) State() RetryState {
	return r.state
}

func (r *retrier) Succeed() {
	r.state = Succeeded
}

// Fail records err for the current attempt and moves to Retrying or Exhausted.
func (r *retrier) Fail(err error) RetryState {
	r.last = err
	if r.attempt >= r.policy.Retries {
		r.state = Exhausted
	} else {
		r.state = Retrying
	}
	return r.state
}

// Wait sleeps before the next attempt and moves back to Attempting.
// A cancelled context exhausts the phase.
func (r *retrier) Wait(ctx context.Context) error {
	d := r.policy.delay(r.attempt + 1)
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			r.last = ctx.Err()
			r.state = Exhausted
			return ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		r.last = err
		r.state = Exhausted
		return err
	}
	r.attempt++
	r.state = Attempting
	return nil
}

// Err returns the exhaustion error for n pending identifiers.
func (r *retrier) Err(n int) error {
	return &QueryExhaustedError{
		Attempts:    r.attempt + 1,
		Identifiers: n,
		Err:         r.last,
	}
}
