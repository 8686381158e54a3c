// Package source adapts external stores to matcher query functions.
//
// Table fetches rows through GORM, either many identifiers with one IN query
// (Batch) or one row at a time (One). Objects fetches one object per identifier
// from a storage bucket and decodes it as YAML or JSON.
//
// Concurrent single lookups of the same identifier are coalesced.
//
//	articles := source.NewTable[int64, *Article](db, "id")
//	m, err := matcher.NewBuilder[*Comment, int64, *Article, int64]().
//	    BatchQuery(articles.Batch).
//	    SingleQuery(articles.One).
//	    ...
package source
