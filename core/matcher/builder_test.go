package matcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"relation-matcher/core/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type comment struct {
	ID        int64
	ArticleID int64
	TagIDs    []int64
}

type article struct {
	ID    int64
	Title string
}

type reply struct {
	ID        int64
	CommentID int64
}

func articleBatch(store map[int64]*article) BatchQueryFunc[int64, *article] {
	return func(_ context.Context, ids []int64) ([]*article, error) {
		out := make([]*article, 0, len(ids))
		for _, id := range ids {
			if a, ok := store[id]; ok {
				out = append(out, a)
			}
		}
		return out, nil
	}
}

func oneToOneBuilder(comments []*comment, store map[int64]*article) *Builder[*comment, int64, *article, int64] {
	return NewBuilder[*comment, int64, *article, int64]().
		Elements(comments).
		Identifier(func(c *comment) int64 { return c.ArticleID }).
		Aggregate(AggregateSet).
		BatchQuery(articleBatch(store)).
		DataKey(func(a *article) int64 { return a.ID }).
		ElementKey(func(c *comment) int64 { return c.ArticleID })
}

func TestBuild_Validation(t *testing.T) {
	noop := func(_ context.Context, _ []int64) ([]*article, error) { return nil, nil }
	single := func(_ context.Context, _ int64) (*article, error) { return nil, ErrNotFound }

	tests := []struct {
		name      string
		configure func(b *Builder[*comment, int64, *article, int64])
		field     string
	}{
		{
			name:      "Missing elements",
			configure: func(b *Builder[*comment, int64, *article, int64]) { b.cfg.elementsSet = false },
			field:     "elements",
		},
		{
			name:      "Missing identifier",
			configure: func(b *Builder[*comment, int64, *article, int64]) { b.Identifier(nil) },
			field:     "identifier",
		},
		{
			name: "Missing identifiers for many-to-many",
			configure: func(b *Builder[*comment, int64, *article, int64]) {
				b.Cardinality(ManyToMany).ElementKeys(func(c *comment) []int64 { return c.TagIDs })
			},
			field: "identifiers",
		},
		{
			name:      "Missing query",
			configure: func(b *Builder[*comment, int64, *article, int64]) { b.BatchQuery(nil) },
			field:     "query",
		},
		{
			name: "Batch without aggregation",
			configure: func(b *Builder[*comment, int64, *article, int64]) {
				b.Aggregate(aggregateUnset).BatchQuery(noop)
			},
			field: "aggregation",
		},
		{
			name:      "Missing data key",
			configure: func(b *Builder[*comment, int64, *article, int64]) { b.DataKey(nil) },
			field:     "data key",
		},
		{
			name:      "Missing element key",
			configure: func(b *Builder[*comment, int64, *article, int64]) { b.ElementKey(nil) },
			field:     "element key",
		},
		{
			name: "Missing element keys for many-to-many",
			configure: func(b *Builder[*comment, int64, *article, int64]) {
				b.Cardinality(ManyToMany).Identifiers(func(c *comment) []int64 { return c.TagIDs })
			},
			field: "element keys",
		},
		{
			name: "Cache with many-to-many",
			configure: func(b *Builder[*comment, int64, *article, int64]) {
				b.Cardinality(ManyToMany).
					Identifiers(func(c *comment) []int64 { return c.TagIDs }).
					ElementKeys(func(c *comment) []int64 { return c.TagIDs }).
					Cache(cache.NewMemory(), "articles")
			},
			field: "cache",
		},
		{
			name:      "Cache without namespace",
			configure: func(b *Builder[*comment, int64, *article, int64]) { b.Cache(cache.NewMemory(), "") },
			field:     "cache",
		},
		{
			name:      "Cache without store",
			configure: func(b *Builder[*comment, int64, *article, int64]) { b.Cache(nil, "articles") },
			field:     "cache",
		},
		{
			name: "Unknown cardinality",
			configure: func(b *Builder[*comment, int64, *article, int64]) {
				b.Cardinality(Cardinality(42))
			},
			field: "cardinality",
		},
		{
			name: "Single query only is valid",
			configure: func(b *Builder[*comment, int64, *article, int64]) {
				b.BatchQuery(nil).Aggregate(aggregateUnset).SingleQuery(single)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := oneToOneBuilder(nil, nil)
			tt.configure(b)

			m, err := b.Build()
			if tt.field == "" {
				require.NoError(t, err)
				assert.NotNil(t, m)
				return
			}

			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrConfiguration)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestBuild_EmptyElementsAreValid(t *testing.T) {
	m, err := oneToOneBuilder([]*comment{}, nil).Build()
	require.NoError(t, err)

	res, err := m.Match(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
}

func TestBuild_DefaultsAndClamping(t *testing.T) {
	single := func(_ context.Context, _ int64) (*article, error) { return nil, ErrNotFound }
	m, err := oneToOneBuilder(nil, nil).
		BatchQuery(nil).
		Aggregate(aggregateUnset).
		SingleQuery(single).
		Retry(-3, -time.Second).
		Build()
	require.NoError(t, err)

	assert.Equal(t, AggregateList, m.cfg.aggregation)
	assert.Equal(t, 0, m.cfg.retry.Retries)
	assert.Equal(t, time.Duration(0), m.cfg.retry.Interval)
	assert.True(t, m.cfg.parallel)
	assert.NotNil(t, m.cfg.logger)
	assert.NotEmpty(t, m.ID())
}

func TestBuild_SnapshotsConfiguration(t *testing.T) {
	b := oneToOneBuilder([]*comment{{ID: 1, ArticleID: 10}}, map[int64]*article{10: {ID: 10}})
	first, err := b.Build()
	require.NoError(t, err)

	b.Cardinality(OneToMany)
	second, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, OneToOne, first.Cardinality())
	assert.Equal(t, OneToMany, second.Cardinality())
	assert.NotEqual(t, first.ID(), second.ID())
}
