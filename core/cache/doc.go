// Package cache provides the namespaced identifier cache used by the matcher.
//
// Entries are keyed by a (namespace, identifier) pair. A namespace is chosen by
// the caller, usually one per relation ("comment-article", "order-lines"), and
// can be cleared without touching any other namespace.
//
// # Stores
//
//   - Memory: in-process store. Each namespace has its own lock, so clearing one
//     namespace never blocks readers and writers of another.
//   - Redis: one Redis hash per namespace. Values are JSON encoded and come
//     back as Encoded, which Accessor decodes into the caller's type.
//
// # Absence
//
// A missing entry means "unknown", not "empty". A stored empty list is a value
// and is returned as present.
//
// # Usage
//
//	store := cache.NewMemory()
//	articles := cache.NewAccessor[int64, *Article](store, "comment-article")
//	_ = articles.Set(ctx, 10, article)
//	a, ok, err := articles.Get(ctx, 10)
package cache
