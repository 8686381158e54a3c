package matcher

import (
	"context"
	"slices"

	"relation-matcher/core/cache"
	"relation-matcher/core/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Matcher runs one configured match and exposes its result.
// A Matcher is not safe for concurrent use.
type Matcher[E comparable, I comparable, D any, K comparable] struct {
	cfg      config[E, I, D, K]
	id       string
	log      *zap.Logger
	listener Listener[I, D]
	result   *Result[E, D]
}

func newMatcher[E comparable, I comparable, D any, K comparable](cfg config[E, I, D, K]) *Matcher[E, I, D, K] {
	id := uuid.NewString()
	log := logger.WithMatchID(cfg.logger, id).With(zap.Stringer("cardinality", cfg.cardinality))
	listeners := multiListener[I, D]{NewLogListener[I, D](log)}
	listeners = append(listeners, cfg.listeners...)
	return &Matcher[E, I, D, K]{
		cfg:      cfg,
		id:       id,
		log:      log,
		listener: listeners,
	}
}

// ID returns the identifier attached to the log entries of this matcher.
func (m *Matcher[E, I, D, K]) ID() string {
	return m.id
}

// Cardinality returns the configured cardinality.
func (m *Matcher[E, I, D, K]) Cardinality() Cardinality {
	return m.cfg.cardinality
}

// matchState tracks the association of every source element while a match runs.
// Slices are indexed by source position.
type matchState[E comparable, D any] struct {
	relations []Relation[E, D]
	resolved  []bool
	// filtered lists the positions that passed the element filter.
	filtered []int
}

// Match resolves and joins the related data. On success the previous result
// is replaced. On failure the previous result, if any, is kept.
func (m *Matcher[E, I, D, K]) Match(ctx context.Context) (*Result[E, D], error) {
	cfg := &m.cfg
	st := m.newState()

	pending := m.pendingIdentifiers(ctx, st)
	ids := aggregate(cfg.aggregation, pending)
	m.log.Debug("Collected pending identifiers",
		zap.Int("elements", len(cfg.elements)),
		zap.Int("filtered", len(st.filtered)),
		zap.Int("pending", len(ids)))

	if len(ids) > 0 {
		data, err := m.query(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			m.join(ctx, st, data)
		}
	}

	if cfg.useCache && cfg.clearAfterMatch {
		if err := cfg.store.Clear(ctx, cfg.namespace); err != nil {
			m.log.Warn("Failed to clear cache namespace", zap.String("namespace", cfg.namespace), zap.Error(err))
		}
	}

	res := newResult(cfg.cardinality, cfg.emptyAsUnmatched, st.relations)
	m.result = res
	m.log.Debug("Match completed",
		zap.Int("elements", res.Len()),
		zap.Int("matched", res.MatchedCount()))
	return res, nil
}

func (m *Matcher[E, I, D, K]) newState() *matchState[E, D] {
	elements := m.cfg.elements
	st := &matchState[E, D]{
		relations: make([]Relation[E, D], len(elements)),
		resolved:  make([]bool, len(elements)),
		filtered:  make([]int, 0, len(elements)),
	}
	for i, e := range elements {
		st.relations[i].Element = e
		if m.cfg.elementFilter == nil || m.cfg.elementFilter(e) {
			st.filtered = append(st.filtered, i)
		}
	}
	return st
}

// pendingIdentifiers returns the identifiers that still need a fetch, in
// element order. With the cache enabled, hits are recorded in st as a side effect.
func (m *Matcher[E, I, D, K]) pendingIdentifiers(ctx context.Context, st *matchState[E, D]) []I {
	cfg := &m.cfg
	ids := make([]I, 0, len(st.filtered))

	switch {
	case cfg.cardinality == ManyToMany:
		for _, pos := range st.filtered {
			ids = append(ids, cfg.identifiers(cfg.elements[pos])...)
		}

	case !cfg.useCache:
		for _, pos := range st.filtered {
			ids = append(ids, cfg.identifier(cfg.elements[pos]))
		}

	case cfg.cardinality == OneToMany:
		lists := cache.NewAccessor[I, []D](cfg.store, cfg.namespace)
		hits := 0
		for _, pos := range st.filtered {
			id := cfg.identifier(cfg.elements[pos])
			list, ok, err := lists.Get(ctx, id)
			if err != nil {
				m.log.Warn("Cache lookup failed", zap.Any("identifier", id), zap.Error(err))
			}
			if ok && list != nil && (len(list) > 0 || !cfg.emptyAsUnmatched) {
				st.relations[pos].List = slices.Clone(list)
				st.resolved[pos] = true
				hits++
				continue
			}
			ids = append(ids, id)
		}
		m.log.Debug("Cache lookup finished", zap.String("namespace", cfg.namespace), zap.Int("hits", hits))

	default:
		items := cache.NewAccessor[I, D](cfg.store, cfg.namespace)
		hits := 0
		for _, pos := range st.filtered {
			id := cfg.identifier(cfg.elements[pos])
			d, ok, err := items.Get(ctx, id)
			if err != nil {
				m.log.Warn("Cache lookup failed", zap.Any("identifier", id), zap.Error(err))
			}
			if ok {
				st.relations[pos].Data = d
				st.relations[pos].Matched = true
				st.resolved[pos] = true
				hits++
				continue
			}
			ids = append(ids, id)
		}
		m.log.Debug("Cache lookup finished", zap.String("namespace", cfg.namespace), zap.Int("hits", hits))
	}
	return ids
}

// Matched reports whether a match has completed successfully.
func (m *Matcher[E, I, D, K]) Matched() bool {
	return m.result != nil
}

// Result returns the result of the last successful match.
func (m *Matcher[E, I, D, K]) Result() (*Result[E, D], error) {
	if m.result == nil {
		return nil, &UsageError{Op: "Result", Reason: "Match must complete before reading results"}
	}
	return m.result, nil
}

// OneToOneRelations returns the one-to-one association of the last match.
// See Result.OneToOneRelations.
func (m *Matcher[E, I, D, K]) OneToOneRelations(includeUnmatched bool) (map[E]D, error) {
	res, err := m.Result()
	if err != nil {
		return nil, err
	}
	return res.OneToOneRelations(includeUnmatched)
}

// OneToManyRelations returns the one-to-many association of the last match.
func (m *Matcher[E, I, D, K]) OneToManyRelations(includeUnmatched bool) (map[E][]D, error) {
	res, err := m.Result()
	if err != nil {
		return nil, err
	}
	return res.OneToManyRelations(includeUnmatched)
}

// ManyToManyRelations returns the many-to-many association of the last match.
func (m *Matcher[E, I, D, K]) ManyToManyRelations(includeUnmatched bool) (map[E][]D, error) {
	res, err := m.Result()
	if err != nil {
		return nil, err
	}
	return res.ManyToManyRelations(includeUnmatched)
}

// ProcessOneToOne walks the last one-to-one result. See Result.ProcessOneToOne.
func (m *Matcher[E, I, D, K]) ProcessOneToOne(matched func(E, D), unmatched func(E)) error {
	res, err := m.Result()
	if err != nil {
		return err
	}
	return res.ProcessOneToOne(matched, unmatched)
}

// ProcessOneToMany walks the last one-to-many result.
func (m *Matcher[E, I, D, K]) ProcessOneToMany(matched func(E, []D), unmatched func(E)) error {
	res, err := m.Result()
	if err != nil {
		return err
	}
	return res.ProcessOneToMany(matched, unmatched)
}

// ProcessManyToMany walks the last many-to-many result.
func (m *Matcher[E, I, D, K]) ProcessManyToMany(matched func(E, []D), unmatched func(E)) error {
	res, err := m.Result()
	if err != nil {
		return err
	}
	return res.ProcessManyToMany(matched, unmatched)
}
