package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Accessor is a typed view of one namespace of a Store.
type Accessor[I comparable, V any] struct {
	store     Store
	namespace string
}

// NewAccessor binds store and namespace to the identifier and value types.
func NewAccessor[I comparable, V any](store Store, namespace string) Accessor[I, V] {
	return Accessor[I, V]{store: store, namespace: namespace}
}

// Namespace returns the bound namespace.
func (a Accessor[I, V]) Namespace() string {
	return a.namespace
}

// Get returns the value cached for id. Encoded values are decoded into V.
func (a Accessor[I, V]) Get(ctx context.Context, id I) (V, bool, error) {
	var zero V
	raw, ok, err := a.store.Get(ctx, a.namespace, id)
	if err != nil || !ok {
		return zero, false, err
	}
	switch v := raw.(type) {
	case V:
		return v, true, nil
	case Encoded:
		var out V
		if err := json.Unmarshal(v, &out); err != nil {
			return zero, false, fmt.Errorf("failed to decode cache entry %s/%v: %w", a.namespace, id, err)
		}
		return out, true, nil
	default:
		return zero, false, fmt.Errorf("cache entry %s/%v holds %T, not %T", a.namespace, id, raw, zero)
	}
}

// Set caches value for id.
func (a Accessor[I, V]) Set(ctx context.Context, id I, value V) error {
	return a.store.Set(ctx, a.namespace, id, value)
}

// Clear removes every entry of the bound namespace.
func (a Accessor[I, V]) Clear(ctx context.Context) error {
	return a.store.Clear(ctx, a.namespace)
}
