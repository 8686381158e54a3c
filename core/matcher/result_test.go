package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_ResultBeforeMatch(t *testing.T) {
	m, err := oneToOneBuilder(sampleComments(), sampleArticles()).Build()
	require.NoError(t, err)

	assert.False(t, m.Matched())

	_, err = m.Result()
	assert.ErrorIs(t, err, ErrUsage)
	_, err = m.OneToOneRelations(true)
	assert.ErrorIs(t, err, ErrUsage)
	err = m.ProcessOneToOne(func(*comment, *article) {}, nil)
	assert.ErrorIs(t, err, ErrUsage)
}

func TestResult_WrongCardinality(t *testing.T) {
	m, err := oneToOneBuilder(sampleComments(), sampleArticles()).Build()
	require.NoError(t, err)
	_, err = m.Match(context.Background())
	require.NoError(t, err)

	_, err = m.OneToManyRelations(false)
	assert.ErrorIs(t, err, ErrUsage)
	_, err = m.ManyToManyRelations(true)
	assert.ErrorIs(t, err, ErrUsage)
	err = m.ProcessOneToMany(func(*comment, []*article) {}, nil)
	assert.ErrorIs(t, err, ErrUsage)
	err = m.ProcessManyToMany(func(*comment, []*article) {}, nil)
	assert.ErrorIs(t, err, ErrUsage)

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Equal(t, "ProcessManyToMany", usage.Op)
	assert.Contains(t, usage.Reason, "one-to-one")
}

func TestResult_ProcessOneToOneInSourceOrder(t *testing.T) {
	comments := sampleComments()
	comments = append(comments, &comment{ID: 4, ArticleID: 99})

	m, err := oneToOneBuilder(comments, sampleArticles()).Build()
	require.NoError(t, err)
	_, err = m.Match(context.Background())
	require.NoError(t, err)

	var visited []int64
	var titles []string
	err = m.ProcessOneToOne(func(c *comment, a *article) {
		visited = append(visited, c.ID)
		titles = append(titles, a.Title)
	}, func(c *comment) {
		visited = append(visited, -c.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, -4}, visited)
	assert.Equal(t, []string{"A", "B", "A"}, titles)

	// A nil unmatched callback is skipped.
	visited = nil
	require.NoError(t, m.ProcessOneToOne(func(c *comment, _ *article) {
		visited = append(visited, c.ID)
	}, nil))
	assert.Equal(t, []int64{1, 2, 3}, visited)
}

func TestResult_RelationsAreCopied(t *testing.T) {
	m, err := oneToOneBuilder(sampleComments(), sampleArticles()).Build()
	require.NoError(t, err)
	res, err := m.Match(context.Background())
	require.NoError(t, err)

	rels := res.Relations()
	rels[0].Matched = false

	assert.True(t, res.Relations()[0].Matched)
	assert.Equal(t, OneToOne, res.Cardinality())
}

func TestParseCardinality(t *testing.T) {
	tests := []struct {
		in      string
		want    Cardinality
		wantErr bool
	}{
		{in: "one-to-one", want: OneToOne},
		{in: "ONE_TO_MANY", want: OneToMany},
		{in: " many-to-many ", want: ManyToMany},
		{in: "1:n", want: OneToMany},
		{in: "sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCardinality(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Cardinality {
	t.Helper()
	c, err := ParseCardinality(s)
	require.NoError(t, err)
	return c
}

func TestAggregate(t *testing.T) {
	ids := []int64{3, 1, 3, 2, 1}
	assert.Equal(t, ids, aggregate(AggregateList, ids))
	assert.Equal(t, []int64{3, 1, 2}, aggregate(AggregateSet, ids))
	assert.Equal(t, []int64{3, 1, 3, 2, 1}, ids)
}
