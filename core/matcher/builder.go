package matcher

import (
	"context"
	"time"

	"relation-matcher/core/cache"

	"go.uber.org/zap"
)

// BatchQueryFunc fetches the data of several identifiers in one call.
type BatchQueryFunc[I, D any] func(ctx context.Context, ids []I) ([]D, error)

// SingleQueryFunc fetches the datum of one identifier.
// It returns ErrNotFound when the identifier has no datum.
type SingleQueryFunc[I, D any] func(ctx context.Context, id I) (D, error)

// Executor runs the sub-queries of a parallel attempt.
// Submit must eventually run task, on another goroutine or on the caller's.
type Executor interface {
	Submit(task func())
}

// config is the validated, immutable wiring of a Matcher.
type config[E comparable, I comparable, D any, K comparable] struct {
	elements    []E
	elementsSet bool

	elementFilter func(E) bool
	identifier    func(E) I
	identifiers   func(E) []I
	aggregation   Aggregation

	batchQuery   BatchQueryFunc[I, D]
	maxBatchSize int
	singleQuery  SingleQueryFunc[I, D]
	parallel     bool
	executor     Executor
	retry        RetryPolicy

	dataFilter  func(D) bool
	dataKey     func(D) K
	elementKey  func(E) K
	elementKeys func(E) []K

	cardinality      Cardinality
	emptyAsUnmatched bool

	store           cache.Store
	namespace       string
	useCache        bool
	clearAfterMatch bool

	listeners []Listener[I, D]
	logger    *zap.Logger
}

// Builder assembles the configuration of a Matcher. Setters return the builder
// so calls can be chained. A Builder may be reused: every Build call snapshots
// the current settings into a new Matcher.
type Builder[E comparable, I comparable, D any, K comparable] struct {
	cfg config[E, I, D, K]
}

// NewBuilder returns a builder for a one-to-one match with parallel queries.
func NewBuilder[E comparable, I comparable, D any, K comparable]() *Builder[E, I, D, K] {
	return &Builder[E, I, D, K]{
		cfg: config[E, I, D, K]{
			cardinality: OneToOne,
			parallel:    true,
		},
	}
}

// Elements sets the source collection. An empty collection is valid.
func (b *Builder[E, I, D, K]) Elements(elements []E) *Builder[E, I, D, K] {
	b.cfg.elements = elements
	b.cfg.elementsSet = true
	return b
}

// FilterElements restricts identifier extraction and joining to elements for
// which keep returns true. Filtered-out elements are reported as unmatched.
func (b *Builder[E, I, D, K]) FilterElements(keep func(E) bool) *Builder[E, I, D, K] {
	b.cfg.elementFilter = keep
	return b
}

// Identifier sets the identifier extractor used by OneToOne and OneToMany.
// It is also the cache key of an element.
func (b *Builder[E, I, D, K]) Identifier(fn func(E) I) *Builder[E, I, D, K] {
	b.cfg.identifier = fn
	return b
}

// Identifiers sets the identifier extractor used by ManyToMany.
func (b *Builder[E, I, D, K]) Identifiers(fn func(E) []I) *Builder[E, I, D, K] {
	b.cfg.identifiers = fn
	return b
}

// Aggregate sets how pending identifiers are collected. Required with BatchQuery.
func (b *Builder[E, I, D, K]) Aggregate(a Aggregation) *Builder[E, I, D, K] {
	b.cfg.aggregation = a
	return b
}

// BatchQuery sets the function fetching many identifiers at once.
func (b *Builder[E, I, D, K]) BatchQuery(fn BatchQueryFunc[I, D]) *Builder[E, I, D, K] {
	b.cfg.batchQuery = fn
	return b
}

// MaxBatchSize splits batch queries into pages of at most n identifiers.
// Zero or a negative n sends every pending identifier in one call.
func (b *Builder[E, I, D, K]) MaxBatchSize(n int) *Builder[E, I, D, K] {
	b.cfg.maxBatchSize = n
	return b
}

// SingleQuery sets the function fetching one identifier.
func (b *Builder[E, I, D, K]) SingleQuery(fn SingleQueryFunc[I, D]) *Builder[E, I, D, K] {
	b.cfg.singleQuery = fn
	return b
}

// Parallel toggles fanning out pages or single queries. Enabled by default.
func (b *Builder[E, I, D, K]) Parallel(parallel bool) *Builder[E, I, D, K] {
	b.cfg.parallel = parallel
	return b
}

// Executor sets where parallel sub-queries run. Without one, parallel
// attempts use an errgroup bounded to GOMAXPROCS.
func (b *Builder[E, I, D, K]) Executor(e Executor) *Builder[E, I, D, K] {
	b.cfg.executor = e
	return b
}

// Retry allows times additional attempts, waiting interval between attempts.
// Negative values are clamped to zero.
func (b *Builder[E, I, D, K]) Retry(times int, interval time.Duration) *Builder[E, I, D, K] {
	b.cfg.retry = RetryPolicy{Retries: times, Interval: interval}
	return b
}

// RetryPolicy replaces the whole retry policy.
func (b *Builder[E, I, D, K]) RetryPolicy(p RetryPolicy) *Builder[E, I, D, K] {
	b.cfg.retry = p
	return b
}

// FilterData drops fetched data for which keep returns false.
// Cached data is not filtered again.
func (b *Builder[E, I, D, K]) FilterData(keep func(D) bool) *Builder[E, I, D, K] {
	b.cfg.dataFilter = keep
	return b
}

// DataKey sets the join key of a fetched datum. It must be deterministic.
func (b *Builder[E, I, D, K]) DataKey(fn func(D) K) *Builder[E, I, D, K] {
	b.cfg.dataKey = fn
	return b
}

// ElementKey sets the join key of an element for OneToOne and OneToMany.
func (b *Builder[E, I, D, K]) ElementKey(fn func(E) K) *Builder[E, I, D, K] {
	b.cfg.elementKey = fn
	return b
}

// ElementKeys sets the join keys of an element for ManyToMany.
func (b *Builder[E, I, D, K]) ElementKeys(fn func(E) []K) *Builder[E, I, D, K] {
	b.cfg.elementKeys = fn
	return b
}

// Cardinality sets the association shape. OneToOne by default.
func (b *Builder[E, I, D, K]) Cardinality(c Cardinality) *Builder[E, I, D, K] {
	b.cfg.cardinality = c
	return b
}

// EmptyAsUnmatched treats empty data lists as unmatched. A cached empty list is
// then not a hit and its identifier is fetched again.
func (b *Builder[E, I, D, K]) EmptyAsUnmatched(v bool) *Builder[E, I, D, K] {
	b.cfg.emptyAsUnmatched = v
	return b
}

// Cache enables caching of resolved associations in namespace of store.
func (b *Builder[E, I, D, K]) Cache(store cache.Store, namespace string) *Builder[E, I, D, K] {
	b.cfg.store = store
	b.cfg.namespace = namespace
	b.cfg.useCache = true
	return b
}

// ClearCacheAfterMatch clears the cache namespace once a match completes.
func (b *Builder[E, I, D, K]) ClearCacheAfterMatch(v bool) *Builder[E, I, D, K] {
	b.cfg.clearAfterMatch = v
	return b
}

// Listener adds a query listener. The logging listener is always installed.
func (b *Builder[E, I, D, K]) Listener(l Listener[I, D]) *Builder[E, I, D, K] {
	if l != nil {
		b.cfg.listeners = append(b.cfg.listeners, l)
	}
	return b
}

// Logger sets the logger of the matcher. Nothing is logged by default.
func (b *Builder[E, I, D, K]) Logger(l *zap.Logger) *Builder[E, I, D, K] {
	b.cfg.logger = l
	return b
}

// Build validates the configuration and returns a Matcher bound to it.
func (b *Builder[E, I, D, K]) Build() (*Matcher[E, I, D, K], error) {
	cfg := b.cfg
	cfg.listeners = append([]Listener[I, D](nil), b.cfg.listeners...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newMatcher(cfg), nil
}

func (c *config[E, I, D, K]) validate() error {
	if !c.elementsSet {
		return configError("elements", "source collection is not set")
	}

	switch c.cardinality {
	case OneToOne, OneToMany:
		if c.identifier == nil {
			return configError("identifier", "identifier extractor is not set")
		}
	case ManyToMany:
		if c.identifiers == nil {
			return configError("identifiers", "identifiers extractor is not set")
		}
	default:
		return configError("cardinality", "unknown cardinality "+c.cardinality.String())
	}

	if c.batchQuery != nil {
		if c.aggregation == aggregateUnset {
			return configError("aggregation", "batch query requires an identifier aggregation")
		}
	} else {
		if c.singleQuery == nil {
			return configError("query", "either a batch query or a single query must be set")
		}
		if c.aggregation == aggregateUnset {
			c.aggregation = AggregateList
		}
	}

	c.retry = c.retry.normalize()

	if c.dataKey == nil {
		return configError("data key", "data key generator is not set")
	}
	if c.cardinality == ManyToMany {
		if c.elementKeys == nil {
			return configError("element keys", "element to keys mapping is not set")
		}
	} else if c.elementKey == nil {
		return configError("element key", "element to key mapping is not set")
	}

	if c.useCache {
		if c.cardinality == ManyToMany {
			return configError("cache", "many-to-many matches cannot use the cache")
		}
		if c.store == nil {
			return configError("cache", "cache store is not set")
		}
		if c.namespace == "" {
			return configError("cache", "cache namespace is not set")
		}
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return nil
}
