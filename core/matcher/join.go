package matcher

import (
	"context"
	"reflect"
	"slices"

	"relation-matcher/core/cache"

	"go.uber.org/zap"
)

// join associates freshly fetched data with the filtered elements that were
// not resolved from the cache.
func (m *Matcher[E, I, D, K]) join(ctx context.Context, st *matchState[E, D], data []D) {
	cfg := &m.cfg
	data = slices.DeleteFunc(slices.Clone(data), func(d D) bool {
		return isNil(d) || (cfg.dataFilter != nil && !cfg.dataFilter(d))
	})

	switch cfg.cardinality {
	case OneToOne:
		m.joinOne(ctx, st, data)
	case OneToMany:
		m.joinMany(ctx, st, data)
	case ManyToMany:
		m.joinManyToMany(st, data)
	}
}

func (m *Matcher[E, I, D, K]) joinOne(ctx context.Context, st *matchState[E, D], data []D) {
	cfg := &m.cfg
	index := make(map[K]D, len(data))
	for _, d := range data {
		index[cfg.dataKey(d)] = d
	}

	items := cache.NewAccessor[I, D](cfg.store, cfg.namespace)

	joined := 0
	for _, pos := range st.filtered {
		if st.resolved[pos] {
			continue
		}
		e := cfg.elements[pos]
		d, ok := index[cfg.elementKey(e)]
		if !ok {
			continue
		}
		st.relations[pos].Data = d
		st.relations[pos].Matched = true
		joined++
		if cfg.useCache {
			m.cacheFailed(items.Set(ctx, cfg.identifier(e), d))
		}
	}
	m.log.Debug("Joined data", zap.Int("data", len(index)), zap.Int("joined", joined))
}

func (m *Matcher[E, I, D, K]) joinMany(ctx context.Context, st *matchState[E, D], data []D) {
	cfg := &m.cfg
	groups := m.group(data)

	lists := cache.NewAccessor[I, []D](cfg.store, cfg.namespace)

	joined := 0
	for _, pos := range st.filtered {
		if st.resolved[pos] {
			continue
		}
		e := cfg.elements[pos]
		list := groups[cfg.elementKey(e)]
		if list == nil {
			continue
		}
		st.relations[pos].List = list
		joined++
		if cfg.useCache && (len(list) > 0 || !cfg.emptyAsUnmatched) {
			m.cacheFailed(lists.Set(ctx, cfg.identifier(e), slices.Clone(list)))
		}
	}
	m.log.Debug("Joined data", zap.Int("groups", len(groups)), zap.Int("joined", joined))
}

func (m *Matcher[E, I, D, K]) joinManyToMany(st *matchState[E, D], data []D) {
	cfg := &m.cfg
	groups := m.group(data)

	joined := 0
	for _, pos := range st.filtered {
		var list []D
		for _, k := range cfg.elementKeys(cfg.elements[pos]) {
			if g, ok := groups[k]; ok {
				list = append(list, g...)
			}
		}
		if list == nil {
			continue
		}
		st.relations[pos].List = list
		joined++
	}
	m.log.Debug("Joined data", zap.Int("groups", len(groups)), zap.Int("joined", joined))
}

// group buckets data by key, keeping encounter order inside every bucket.
// Buckets are clipped so elements sharing one can append without aliasing.
func (m *Matcher[E, I, D, K]) group(data []D) map[K][]D {
	groups := make(map[K][]D)
	for _, d := range data {
		k := m.cfg.dataKey(d)
		groups[k] = append(groups[k], d)
	}
	for k, g := range groups {
		groups[k] = slices.Clip(g)
	}
	return groups
}

// isNil reports whether d is a nil interface, pointer, map, slice, func or channel.
func isNil[D any](d D) bool {
	v := reflect.ValueOf(any(d))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func (m *Matcher[E, I, D, K]) cacheFailed(err error) {
	if err != nil {
		m.log.Warn("Failed to cache joined data", zap.String("namespace", m.cfg.namespace), zap.Error(err))
	}
}
