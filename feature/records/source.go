package records

import (
	"context"

	"relation-matcher/core/matcher"
	"relation-matcher/core/source"
	"relation-matcher/core/utils"
)

// Source provides the query functions of related data. At least one is set.
type Source struct {
	Batch  matcher.BatchQueryFunc[string, Row]
	Single matcher.SingleQueryFunc[string, Row]
}

// FileSource serves rows already in memory, matched on field key.
func FileSource(rows []Row, key string) Source {
	index := make(map[string][]Row, len(rows))
	for _, r := range rows {
		k := utils.ToKey(r[key])
		index[k] = append(index[k], r)
	}
	return Source{
		Batch: func(_ context.Context, ids []string) ([]Row, error) {
			var out []Row
			for _, id := range ids {
				out = append(out, index[id]...)
			}
			return out, nil
		},
	}
}

// TableSource serves rows from a database table.
func TableSource(t *source.Table[string, Row]) Source {
	return Source{Batch: t.Batch, Single: t.One}
}

// ObjectSource serves one storage object per identifier.
func ObjectSource(o *source.Objects[string, Row]) Source {
	return Source{Single: o.One}
}
