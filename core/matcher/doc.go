// Package matcher resolves related data for a collection of source elements and
// joins it back onto them.
//
// A typical enrichment pipeline loads a page of elements (comments, orders, ...)
// and then needs data that lives elsewhere (the article of each comment, the
// lines of each order). Calling a lookup once per element is the N+1 problem.
// The matcher extracts and deduplicates the identifiers, fetches them through a
// caller-supplied batch or single query function, groups the fetched data by a
// join key and associates every element with its datum or data list.
//
// # Cardinality
//
//   - OneToOne: each element maps to at most one datum (Identifier + ElementKey).
//   - OneToMany: each element maps to a list of data sharing its key.
//   - ManyToMany: each element carries several identifiers and several keys
//     (Identifiers + ElementKeys); the lists of all known keys are concatenated.
//
// # Query Strategy
//
// Pending identifiers are resolved in one attempt as follows:
//
//  1. A single pending identifier with a single query configured: one call.
//  2. A batch query: one call, or ceil(N/MaxBatchSize) pages run sequentially
//     or fanned out over the configured Executor.
//  3. Otherwise the single query runs once per identifier.
//
// A failed attempt is retried as a whole according to the RetryPolicy. When all
// attempts fail, Match returns a *QueryExhaustedError.
//
// # Caching
//
// With a cache.Store and a namespace configured, OneToOne and OneToMany matches
// look up every identifier first and only fetch the misses. Freshly resolved
// associations are written back. ManyToMany cannot be cached.
//
// # Usage
//
//	m, err := matcher.NewBuilder[*Comment, int64, *Article, int64]().
//	    Elements(comments).
//	    Identifier(func(c *Comment) int64 { return c.ArticleID }).
//	    Aggregate(matcher.AggregateSet).
//	    BatchQuery(articles.FindByIDs).
//	    DataKey(func(a *Article) int64 { return a.ID }).
//	    ElementKey(func(c *Comment) int64 { return c.ArticleID }).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	if _, err := m.Match(ctx); err != nil {
//	    return err
//	}
//	err = m.ProcessOneToOne(func(c *Comment, a *Article) {
//	    c.ArticleTitle = a.Title
//	}, func(c *Comment) {
//	    c.ArticleTitle = "unknown"
//	})
//
// A Matcher is not safe for concurrent use; build one per logical match.
package matcher
