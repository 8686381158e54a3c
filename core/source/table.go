package source

import (
	"context"
	"fmt"

	"relation-matcher/core/matcher"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Table queries rows decoded into D whose column holds an identifier.
type Table[I comparable, D any] struct {
	db     *gorm.DB
	column string
	table  string
	group  singleflight.Group
}

// NewTable returns a source matching identifiers against column. Without
// WithTable the table name is derived from D by GORM.
func NewTable[I comparable, D any](db *gorm.DB, column string) *Table[I, D] {
	return &Table[I, D]{db: db, column: column}
}

// WithTable sets the table name explicitly. Required when D is a map.
func (t *Table[I, D]) WithTable(name string) *Table[I, D] {
	t.table = name
	return t
}

func (t *Table[I, D]) query(ctx context.Context) *gorm.DB {
	q := t.db.WithContext(ctx)
	if t.table != "" {
		q = q.Table(t.table)
	}
	return q
}

// Batch returns the rows whose column is one of ids.
func (t *Table[I, D]) Batch(ctx context.Context, ids []I) ([]D, error) {
	var rows []D
	if err := t.query(ctx).Where(t.column+" IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", t.name(), t.column, err)
	}
	return rows, nil
}

// One returns the first row whose column equals id, or matcher.ErrNotFound.
func (t *Table[I, D]) One(ctx context.Context, id I) (D, error) {
	v, err, _ := t.group.Do(fmt.Sprint(id), func() (any, error) {
		var rows []D
		if err := t.query(ctx).Where(t.column+" = ?", id).Limit(1).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to query %s by %s: %w", t.name(), t.column, err)
		}
		if len(rows) == 0 {
			return nil, matcher.ErrNotFound
		}
		return rows[0], nil
	})
	if err != nil {
		var zero D
		return zero, err
	}
	return v.(D), nil
}

func (t *Table[I, D]) name() string {
	if t.table != "" {
		return t.table
	}
	return "table"
}
